package routes

import (
	"net/http"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/handlers"
	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/register", handlers.Register)
	r.POST("/api/login", handlers.Login)
	r.GET("/api/categories", handlers.GetCategories)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.RateLimitMiddleware(120, time.Minute))
	{
		api.GET("/profile", handlers.Profile)

		api.GET("/habits", middleware.CacheMiddleware(time.Minute), handlers.GetHabits)
		api.POST("/habits", handlers.CreateHabit)
		api.PUT("/habits/:id", handlers.UpdateHabit)
		api.DELETE("/habits/:id", handlers.DeleteHabit)
		api.POST("/habits/:id/checkin", handlers.CheckInHabit)
		api.GET("/habits/stats", handlers.GetHabitStats)

		api.GET("/users/search", handlers.SearchUsers)
		api.POST("/users/:id/follow", handlers.FollowUser)
		api.DELETE("/users/:id/follow", handlers.UnfollowUser)
		api.GET("/following", handlers.GetFollowing)

		api.GET("/feed", middleware.CacheMiddleware(30*time.Second), handlers.GetFeed)

		api.GET("/admin/checkins", middleware.RoleMiddleware(models.RoleAdmin), handlers.GetRecentCheckIns)
	}
}
