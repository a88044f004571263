package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/cache"
	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HabitStats struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	TotalCheckIns int    `json:"total_check_ins"`
	ActiveDays    int    `json:"active_days"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	CheckedToday  bool   `json:"checked_today"`
	Err           error  `json:"-"`
}

type UserHabitStats struct {
	UserID         string        `json:"user_id"`
	TotalHabits    int           `json:"total_habits"`
	HabitStats     []HabitStats  `json:"habit_stats"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
}

type StatsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewStatsService(db *gorm.DB, logger *zap.Logger) *StatsService {
	return &StatsService{DB: db, Logger: logger}
}

// UserStats aggregates per-habit statistics for a user. Each habit scans its
// own slice of the check-in log, so the per-habit work fans out to one
// goroutine per habit and results are collected over a channel.
func (s *StatsService) UserStats(ctx context.Context, userID string) (*UserHabitStats, error) {
	startTime := time.Now()

	cacheKey := fmt.Sprintf("user_stats:%s", userID)
	var cached UserHabitStats
	if err := cache.Get(cacheKey, &cached); err == nil {
		s.Logger.Info("cache_hit", zap.String("key", cacheKey))
		return &cached, nil
	}

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var habits []models.Habit
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&habits).Error; err != nil {
		return nil, storeErr("stats list habits", err)
	}

	if len(habits) == 0 {
		return &UserHabitStats{UserID: userID, HabitStats: []HabitStats{}}, nil
	}

	statsChan := make(chan HabitStats, len(habits))
	var wg sync.WaitGroup

	for _, habit := range habits {
		wg.Add(1)
		go func(h models.Habit) {
			defer wg.Done()
			statsChan <- s.singleHabitStats(ctx, h)
		}(habit)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	var habitStats []HabitStats
	for stat := range statsChan {
		if stat.Err != nil {
			s.Logger.Warn("habit_stats_error",
				zap.String("habit_id", stat.HabitID),
				zap.Error(stat.Err),
			)
			continue
		}
		habitStats = append(habitStats, stat)
	}

	result := &UserHabitStats{
		UserID:         userID,
		TotalHabits:    len(habits),
		HabitStats:     habitStats,
		ProcessingTime: time.Since(startTime),
	}

	cache.Set(cacheKey, result, 5*time.Minute)

	s.Logger.Info("stats_calculated",
		zap.String("user_id", userID),
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", result.ProcessingTime),
	)
	return result, nil
}

func (s *StatsService) singleHabitStats(ctx context.Context, habit models.Habit) HabitStats {
	stats := HabitStats{
		HabitID:       habit.ID,
		Name:          habit.Name,
		CurrentStreak: habit.CurrentStreak,
	}

	var events []models.CheckIn
	if err := s.DB.WithContext(ctx).
		Where("habit_id = ?", habit.ID).
		Order("timestamp DESC").
		Find(&events).Error; err != nil {
		stats.Err = err
		return stats
	}

	stats.TotalCheckIns = len(events)

	// Collapse events into distinct calendar days (newest first) before
	// counting runs, so repeat same-day check-ins do not inflate streaks.
	var days []time.Time
	seen := make(map[string]bool)
	for _, ev := range events {
		y, m, d := ev.Timestamp.Local().Date()
		key := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
		if !seen[key] {
			seen[key] = true
			days = append(days, time.Date(y, m, d, 0, 0, 0, 0, time.Local))
		}
	}
	stats.ActiveDays = len(days)

	longest := 0
	run := 0
	for i, day := range days {
		if i == 0 || days[i-1].AddDate(0, 0, -1).Equal(day) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	stats.LongestStreak = longest

	if len(days) > 0 {
		now := time.Now().Local()
		y, m, d := now.Date()
		stats.CheckedToday = days[0].Equal(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
	}

	return stats
}
