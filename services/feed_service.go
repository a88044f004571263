package services

import (
	"context"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// feedUserBatchLimit mirrors the backing store's "match any of N ids"
	// ceiling; a larger following set is truncated, which caps feed
	// completeness for users following more than ten people.
	feedUserBatchLimit = 10
	feedEntryLimit     = 50

	unknownUser  = "Unknown User"
	unknownHabit = "Unknown Habit"
	noTimestamp  = "N/A"
)

type FeedService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewFeedService(db *gorm.DB, logger *zap.Logger) *FeedService {
	return &FeedService{DB: db, Logger: logger}
}

// FriendsActivity builds the social feed for a following set: the latest
// check-ins of those users, newest first, joined with habit names and
// usernames. Dangling references (habit or user deleted since the event)
// render with fallback names instead of failing the request.
func (s *FeedService) FriendsActivity(ctx context.Context, followingIDs []string) ([]models.FeedEntry, error) {
	if len(followingIDs) == 0 {
		return []models.FeedEntry{}, nil
	}

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if len(followingIDs) > feedUserBatchLimit {
		utils.FeedTruncations.Inc()
		s.Logger.Warn("feed_following_truncated",
			zap.Int("requested", len(followingIDs)),
			zap.Int("limit", feedUserBatchLimit),
		)
		followingIDs = followingIDs[:feedUserBatchLimit]
	}

	var events []models.CheckIn
	if err := s.DB.WithContext(ctx).
		Where("user_id IN ?", followingIDs).
		Order("timestamp DESC").
		Limit(feedEntryLimit).
		Find(&events).Error; err != nil {
		return nil, storeErr("feed query", err)
	}

	if len(events) == 0 {
		return []models.FeedEntry{}, nil
	}

	habitNames, userNames, err := s.lookupNames(ctx, events)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedEntry, 0, len(events))
	for _, ev := range events {
		entry := models.FeedEntry{
			ID:         ev.ID,
			HabitID:    ev.HabitID,
			UserID:     ev.UserID,
			Username:   unknownUser,
			HabitName:  unknownHabit,
			OccurredAt: noTimestamp,
		}
		if name, ok := userNames[ev.UserID]; ok {
			entry.Username = name
		}
		if name, ok := habitNames[ev.HabitID]; ok {
			entry.HabitName = name
		}
		if !ev.Timestamp.IsZero() {
			entry.OccurredAt = ev.Timestamp.Local().Format(time.Kitchen)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// lookupNames batch-fetches display names for the distinct habit and user
// ids referenced by the events.
func (s *FeedService) lookupNames(ctx context.Context, events []models.CheckIn) (map[string]string, map[string]string, error) {
	habitIDs := make([]string, 0, len(events))
	userIDs := make([]string, 0, len(events))
	seenHabits := make(map[string]bool)
	seenUsers := make(map[string]bool)
	for _, ev := range events {
		if ev.HabitID != "" && !seenHabits[ev.HabitID] {
			seenHabits[ev.HabitID] = true
			habitIDs = append(habitIDs, ev.HabitID)
		}
		if ev.UserID != "" && !seenUsers[ev.UserID] {
			seenUsers[ev.UserID] = true
			userIDs = append(userIDs, ev.UserID)
		}
	}

	habitNames := make(map[string]string, len(habitIDs))
	if len(habitIDs) > 0 {
		var habits []models.Habit
		if err := s.DB.WithContext(ctx).
			Select("id", "name").
			Where("id IN ?", habitIDs).
			Find(&habits).Error; err != nil {
			return nil, nil, storeErr("feed habit lookup", err)
		}
		for _, h := range habits {
			habitNames[h.ID] = h.Name
		}
	}

	userNames := make(map[string]string, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.DB.WithContext(ctx).
			Select("id", "username").
			Where("id IN ?", userIDs).
			Find(&users).Error; err != nil {
			return nil, nil, storeErr("feed user lookup", err)
		}
		for _, u := range users {
			userNames[u.ID] = u.Username
		}
	}

	return habitNames, userNames, nil
}
