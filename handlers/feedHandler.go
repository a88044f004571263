package handlers

import (
	"net/http"

	"github.com/Bekzhanizb/SocialHabitsBackend/middleware"
	"github.com/gin-gonic/gin"
)

// GetFeed returns the friends activity feed for the authenticated user. The
// following set is resolved here and handed to the aggregator explicitly.
func GetFeed(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	followingIDs, err := socialSvc.Following(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, "get_feed", err)
		return
	}

	entries, err := feedSvc.FriendsActivity(c.Request.Context(), followingIDs)
	if err != nil {
		writeServiceError(c, "get_feed", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
