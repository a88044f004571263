package handlers

import (
	"errors"
	"net/http"

	"github.com/Bekzhanizb/SocialHabitsBackend/services"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	habitSvc   *services.HabitService
	checkInSvc *services.CheckInService
	socialSvc  *services.SocialService
	feedSvc    *services.FeedService
	statsSvc   *services.StatsService
)

// Init wires the service layer. Must run after db.Connect.
func Init(dbConn *gorm.DB, logger *zap.Logger) {
	habitSvc = services.NewHabitService(dbConn, logger)
	checkInSvc = services.NewCheckInService(dbConn, logger)
	socialSvc = services.NewSocialService(dbConn, logger)
	feedSvc = services.NewFeedService(dbConn, logger)
	statsSvc = services.NewStatsService(dbConn, logger)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// feeds the error counter.
func writeServiceError(c *gin.Context, handler string, err error) {
	status := http.StatusInternalServerError
	kind := "upstream"

	switch {
	case errors.Is(err, services.ErrValidation):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, services.ErrDuplicateHabit):
		status, kind = http.StatusConflict, "duplicate"
	case errors.Is(err, services.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidOperation):
		status, kind = http.StatusBadRequest, "invalid_operation"
	case errors.Is(err, services.ErrTimeout):
		status, kind = http.StatusGatewayTimeout, "timeout"
	}

	utils.ErrorCount.WithLabelValues(handler, kind).Inc()
	if status >= http.StatusInternalServerError {
		utils.Logger.Error("handler_error",
			zap.String("handler", handler),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
