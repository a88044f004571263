package handlers

import (
	"net/http"
	"strings"

	"github.com/Bekzhanizb/SocialHabitsBackend/db"
	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerInput struct {
	Username string `json:"username" binding:"required" validate:"required,min=3,max=64,alphanum"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
}

func Register(c *gin.Context) {
	var input registerInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Usernames are unique case-insensitively; the stored casing is kept
	// for display. The unique index on username_lower is the real guard,
	// this pre-check just produces a friendlier error.
	var existing models.User
	if err := db.DB.Where("username_lower = ?", strings.ToLower(input.Username)).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	tokenString, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Error("token_generation_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	utils.Logger.Info("user_registered", zap.String("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   tokenString,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		utils.Logger.Warn("invalid_login_request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var user models.User
	result := db.DB.Where("username = ?", input.Username).First(&user)
	if result.Error != nil {
		utils.Logger.Warn("login_user_not_found", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		utils.Logger.Warn("login_incorrect_password", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Error("token_generation_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	utils.Logger.Info("user_logged_in", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}
