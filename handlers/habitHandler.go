package handlers

import (
	"net/http"
	"strconv"

	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/Bekzhanizb/SocialHabitsBackend/services"
	"github.com/gin-gonic/gin"
)

func CreateHabit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input services.HabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := habitSvc.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		writeServiceError(c, "create_habit", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Habit created", "habit": habit})
}

func GetHabits(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	habits, err := habitSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, "get_habits", err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func UpdateHabit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	habitID := c.Param("id")

	if !ownsHabit(c, user, habitID) {
		return
	}

	var update services.HabitUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	habit, err := habitSvc.Update(c.Request.Context(), habitID, update)
	if err != nil {
		writeServiceError(c, "update_habit", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Habit updated", "habit": habit})
}

func DeleteHabit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	habitID := c.Param("id")

	if !ownsHabit(c, user, habitID) {
		return
	}

	if err := habitSvc.Delete(c.Request.Context(), habitID); err != nil {
		writeServiceError(c, "delete_habit", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted"})
}

func CheckInHabit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	habitID := c.Param("id")

	if !ownsHabit(c, user, habitID) {
		return
	}

	var input struct {
		Frequency string `json:"frequency"`
	}
	// Body is optional; frequency defaults to the habit's own setting.
	_ = c.ShouldBindJSON(&input)

	habit, err := checkInSvc.CheckIn(c.Request.Context(), habitID, user.ID, input.Frequency)
	if err != nil {
		writeServiceError(c, "check_in", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	if followerIDs, ferr := socialSvc.Followers(c.Request.Context(), user.ID); ferr == nil {
		middleware.InvalidateFeedCaches(followerIDs)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checked in", "habit": habit})
}

func GetHabitStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := statsSvc.UserStats(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, "habit_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.SuggestedCategories})
}

// GetRecentCheckIns lists the newest events across all users (admin only).
func GetRecentCheckIns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := checkInSvc.RecentCheckIns(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, "recent_check_ins", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ownsHabit rejects cross-user habit access. Admins bypass the check.
func ownsHabit(c *gin.Context, user models.User, habitID string) bool {
	habit, err := habitSvc.Get(c.Request.Context(), habitID)
	if err != nil {
		writeServiceError(c, "get_habit", err)
		return false
	}
	if habit.UserID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}
