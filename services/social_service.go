package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchResultLimit = 20

type SocialService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewSocialService(db *gorm.DB, logger *zap.Logger) *SocialService {
	return &SocialService{DB: db, Logger: logger}
}

// Follow adds a directed edge from currentUserID to targetUserID. Following
// yourself is rejected; following someone twice is a silent success and
// leaves a single edge.
func (s *SocialService) Follow(ctx context.Context, currentUserID, targetUserID string) error {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if currentUserID == "" || targetUserID == "" {
		return ErrValidation
	}
	if currentUserID == targetUserID {
		return fmt.Errorf("cannot follow yourself: %w", ErrInvalidOperation)
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", targetUserID).
		Count(&count).Error; err != nil {
		return storeErr("follow", err)
	}
	if count == 0 {
		return fmt.Errorf("target user: %w", ErrNotFound)
	}

	edge := models.Follow{FollowerID: currentUserID, FolloweeID: targetUserID}
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error; err != nil {
		return storeErr("follow", err)
	}

	s.Logger.Info("user_followed",
		zap.String("follower_id", currentUserID),
		zap.String("followee_id", targetUserID),
	)
	return nil
}

// Unfollow deletes the edge entirely. Removing an edge that does not exist
// succeeds silently.
func (s *SocialService) Unfollow(ctx context.Context, currentUserID, targetUserID string) error {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if currentUserID == "" || targetUserID == "" {
		return ErrValidation
	}

	if err := s.DB.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", currentUserID, targetUserID).
		Delete(&models.Follow{}).Error; err != nil {
		return storeErr("unfollow", err)
	}

	s.Logger.Info("user_unfollowed",
		zap.String("follower_id", currentUserID),
		zap.String("followee_id", targetUserID),
	)
	return nil
}

// Following returns the ids the user currently follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var ids []string
	if err := s.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, storeErr("following", err)
	}
	return ids, nil
}

// Followers returns the ids of users following userID (the reverse edge
// set), used to invalidate their cached feeds after a check-in.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var ids []string
	if err := s.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, storeErr("followers", err)
	}
	return ids, nil
}

// IsFollowing reports edge membership.
func (s *SocialService) IsFollowing(ctx context.Context, currentUserID, targetUserID string) (bool, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", currentUserID, targetUserID).
		Count(&count).Error; err != nil {
		return false, storeErr("is following", err)
	}
	return count > 0, nil
}

// likeEscaper neutralizes LIKE metacharacters so the search term is always
// a literal prefix, never a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsers matches usernames by case-insensitive prefix, excluding the
// caller. Terms under two characters are rejected rather than returning the
// whole user table.
func (s *SocialService) SearchUsers(ctx context.Context, term, excludeUserID string) ([]models.UserSummary, error) {
	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < 2 {
		return nil, fmt.Errorf("search term must be at least 2 characters: %w", ErrValidation)
	}

	prefix := likeEscaper.Replace(strings.ToLower(term)) + "%"
	var results []models.UserSummary
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Select("id", "username").
		Where(`username_lower LIKE ? ESCAPE '\' AND id <> ?`, prefix, excludeUserID).
		Order("username ASC").
		Limit(searchResultLimit).
		Find(&results).Error; err != nil {
		return nil, storeErr("search users", err)
	}
	return results, nil
}
