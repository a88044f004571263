package handlers

import (
	"net/http"

	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/gin-gonic/gin"
)

func FollowUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	targetID := c.Param("id")

	if err := socialSvc.Follow(c.Request.Context(), user.ID, targetID); err != nil {
		writeServiceError(c, "follow_user", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Following"})
}

func UnfollowUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	targetID := c.Param("id")

	if err := socialSvc.Unfollow(c.Request.Context(), user.ID, targetID); err != nil {
		writeServiceError(c, "unfollow_user", err)
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

func GetFollowing(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ids, err := socialSvc.Following(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, "get_following", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ids})
}

func SearchUsers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	term := c.Query("q")

	results, err := socialSvc.SearchUsers(c.Request.Context(), term, user.ID)
	if err != nil {
		writeServiceError(c, "search_users", err)
		return
	}
	c.JSON(http.StatusOK, results)
}
