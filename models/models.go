package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// SuggestedCategories is shown by clients as a picker; the category field
// itself is free-form and not constrained to this set.
var SuggestedCategories = []string{
	"Health",
	"Fitness",
	"Learning",
	"Mindfulness",
	"Productivity",
	"Social",
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"default:user" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Habits       []Habit   `gorm:"foreignKey:UserID" json:"-"`

	// UsernameLower backs case-insensitive uniqueness and prefix search.
	// The unique index here is what actually enforces the invariant under
	// concurrent registrations; handler-level checks only shape the error.
	UsernameLower string `gorm:"uniqueIndex;size:64" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.UsernameLower = strings.ToLower(u.Username)
	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	if u.Username != "" {
		u.UsernameLower = strings.ToLower(u.Username)
	}
	return nil
}

type Habit struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"size:36;index" json:"user_id"`
	Name          string     `gorm:"size:128" json:"name"`
	Frequency     string     `json:"frequency"`
	Category      string     `json:"category"`
	CurrentStreak int        `gorm:"default:0" json:"current_streak"`
	LastCheckIn   *time.Time `json:"last_check_in"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// CheckIn is an append-only completion event. It references its habit and
// user weakly: deleting a habit leaves its check-ins behind, and the feed
// renders them with fallback names.
type CheckIn struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	HabitID   string    `gorm:"size:36;index" json:"habit_id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (c *CheckIn) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Follow is one directed edge of the social graph. Membership is row
// presence only: unfollow deletes the row, there is no soft-delete flag.
type Follow struct {
	FollowerID string    `gorm:"primaryKey;size:36" json:"follower_id"`
	FolloweeID string    `gorm:"primaryKey;size:36" json:"followee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserSummary is the search-result shape: no credentials, no graph data.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FeedEntry joins a check-in with display names for rendering.
type FeedEntry struct {
	ID         string `json:"id"`
	HabitID    string `json:"habit_id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	HabitName  string `json:"habit_name"`
	OccurredAt string `json:"occurred_at"`
}
