package services

import (
	"context"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckInService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewCheckInService(db *gorm.DB, logger *zap.Logger) *CheckInService {
	return &CheckInService{DB: db, Logger: logger}
}

// CheckIn records a completion event for a habit and advances its streak.
//
// The event append and the streak update run in one transaction: a missing
// habit rolls both back and returns ErrNotFound, so there is never a
// recorded-but-unapplied partial state. On postgres the habit row is locked
// for the duration to keep two simultaneous check-ins from both reading the
// pre-update streak.
//
// Streak policy (calendar days in local time, not rolling 24h windows):
//   - last check-in was exactly yesterday  -> streak + 1
//   - no prior check-in, or a gap of 2+ days -> streak resets to 1
//   - repeat check-in on the same day -> the event is still appended, the
//     streak and last-check-in marker stay as they are
//
// frequency is accepted and validated but not used in the arithmetic: the
// streak window is daily regardless (a weekly cadence variant would be a
// separate, explicit feature).
func (s *CheckInService) CheckIn(ctx context.Context, habitID, userID, frequency string) (*models.Habit, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if habitID == "" || userID == "" {
		return nil, ErrValidation
	}
	if frequency != "" && !validFrequency(frequency) {
		return nil, ErrValidation
	}

	now := time.Now()
	var habit models.Habit
	outcome := "repeat"

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&habit, "id = ?", habitID).Error; err != nil {
			return storeErr("check-in load habit", err)
		}

		event := models.CheckIn{
			HabitID:   habitID,
			UserID:    userID,
			Timestamp: now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return storeErr("check-in append event", err)
		}

		last := utils.InstantOfPtr(habit.LastCheckIn)
		if last.SameCalendarDay(now) {
			// Already counted today; keep the streak intact.
			return nil
		}

		newStreak := 1
		outcome = "reset"
		if last.YesterdayOf(now) {
			newStreak = habit.CurrentStreak + 1
			outcome = "extended"
		}

		habit.CurrentStreak = newStreak
		habit.LastCheckIn = &now
		if err := tx.Model(&models.Habit{}).
			Where("id = ?", habit.ID).
			Updates(map[string]interface{}{
				"current_streak": newStreak,
				"last_check_in":  now,
			}).Error; err != nil {
			return storeErr("check-in update streak", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.CheckInCount.WithLabelValues(outcome).Inc()
	s.Logger.Info("habit_checked_in",
		zap.String("habit_id", habitID),
		zap.String("user_id", userID),
		zap.String("outcome", outcome),
		zap.Int("streak", habit.CurrentStreak),
	)
	return &habit, nil
}

// RecentCheckIns lists the newest events across all users, newest first.
// Admin surface only.
func (s *CheckInService) RecentCheckIns(ctx context.Context, limit int) ([]models.CheckIn, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var events []models.CheckIn
	if err := s.DB.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, storeErr("recent check-ins", err)
	}
	return events, nil
}
