package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storeTimeout bounds every trip to the database; expiry surfaces as
// ErrTimeout instead of hanging the caller.
const storeTimeout = 5 * time.Second

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

type HabitService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewHabitService(db *gorm.DB, logger *zap.Logger) *HabitService {
	return &HabitService{DB: db, Logger: logger}
}

type HabitInput struct {
	Name      string `json:"name" binding:"required" validate:"required,max=128"`
	Frequency string `json:"frequency" binding:"required" validate:"required,oneof=daily weekly"`
	Category  string `json:"category" validate:"max=64"`
}

// HabitUpdate carries partial edits; nil fields are left untouched.
type HabitUpdate struct {
	Name      *string `json:"name"`
	Frequency *string `json:"frequency"`
	Category  *string `json:"category"`
}

func validFrequency(f string) bool {
	return f == models.FrequencyDaily || f == models.FrequencyWeekly
}

// Create persists a new habit for userID with a zero streak. The name must
// be unique among the user's habits; the match is exact and case-sensitive.
func (s *HabitService) Create(ctx context.Context, userID string, input HabitInput) (*models.Habit, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("habit name is required: %w", ErrValidation)
	}
	if !validFrequency(input.Frequency) {
		return nil, fmt.Errorf("frequency must be daily or weekly: %w", ErrValidation)
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Habit{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, storeErr("create habit", err)
	}
	if count > 0 {
		return nil, ErrDuplicateHabit
	}

	habit := models.Habit{
		UserID:        userID,
		Name:          name,
		Frequency:     input.Frequency,
		Category:      input.Category,
		CurrentStreak: 0,
		LastCheckIn:   nil,
	}
	if err := s.DB.WithContext(ctx).Create(&habit).Error; err != nil {
		return nil, storeErr("create habit", err)
	}

	s.Logger.Info("habit_created",
		zap.String("habit_id", habit.ID),
		zap.String("user_id", userID),
	)
	return &habit, nil
}

// List returns a snapshot of the user's habits.
func (s *HabitService) List(ctx context.Context, userID string) ([]models.Habit, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var habits []models.Habit
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&habits).Error; err != nil {
		return nil, storeErr("list habits", err)
	}
	return habits, nil
}

// Get loads a single habit by id.
func (s *HabitService) Get(ctx context.Context, habitID string) (*models.Habit, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var habit models.Habit
	if err := s.DB.WithContext(ctx).First(&habit, "id = ?", habitID).Error; err != nil {
		return nil, storeErr("get habit", err)
	}
	return &habit, nil
}

// Update merges the given fields into the habit. A rename is re-checked
// against the duplicate-name invariant, same as creation.
func (s *HabitService) Update(ctx context.Context, habitID string, update HabitUpdate) (*models.Habit, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var habit models.Habit
	if err := s.DB.WithContext(ctx).First(&habit, "id = ?", habitID).Error; err != nil {
		return nil, storeErr("update habit", err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("habit name is required: %w", ErrValidation)
		}
		if name != habit.Name {
			var count int64
			if err := s.DB.WithContext(ctx).Model(&models.Habit{}).
				Where("user_id = ? AND name = ? AND id <> ?", habit.UserID, name, habit.ID).
				Count(&count).Error; err != nil {
				return nil, storeErr("update habit", err)
			}
			if count > 0 {
				return nil, ErrDuplicateHabit
			}
		}
		habit.Name = name
	}
	if update.Frequency != nil {
		if !validFrequency(*update.Frequency) {
			return nil, fmt.Errorf("frequency must be daily or weekly: %w", ErrValidation)
		}
		habit.Frequency = *update.Frequency
	}
	if update.Category != nil {
		habit.Category = *update.Category
	}

	if err := s.DB.WithContext(ctx).Save(&habit).Error; err != nil {
		return nil, storeErr("update habit", err)
	}

	s.Logger.Info("habit_updated", zap.String("habit_id", habit.ID))
	return &habit, nil
}

// Delete removes the habit. Deleting an id that does not exist succeeds;
// check-in events are intentionally left behind and surface in the feed
// through the unknown-habit fallback.
func (s *HabitService) Delete(ctx context.Context, habitID string) error {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if err := s.DB.WithContext(ctx).Delete(&models.Habit{}, "id = ?", habitID).Error; err != nil {
		return storeErr("delete habit", err)
	}

	s.Logger.Info("habit_deleted", zap.String("habit_id", habitID))
	return nil
}
