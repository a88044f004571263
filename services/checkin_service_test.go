package services

import (
	"context"
	"testing"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestHabit(t *testing.T, dbConn *gorm.DB, userID string, streak int, lastCheckIn *time.Time) models.Habit {
	t.Helper()

	habit := models.Habit{
		UserID:        userID,
		Name:          "Run",
		Frequency:     models.FrequencyDaily,
		CurrentStreak: streak,
		LastCheckIn:   lastCheckIn,
	}
	require.NoError(t, dbConn.Create(&habit).Error)
	return habit
}

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}

func TestCheckInFirstEver(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")
	habit := newTestHabit(t, dbConn, user.ID, 0, nil)

	got, err := svc.CheckIn(context.Background(), habit.ID, user.ID, "daily")
	require.NoError(t, err)

	assert.Equal(t, 1, got.CurrentStreak)
	require.NotNil(t, got.LastCheckIn)

	var count int64
	require.NoError(t, dbConn.Model(&models.CheckIn{}).Where("habit_id = ?", habit.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckInExtendsStreakFromYesterday(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")
	habit := newTestHabit(t, dbConn, user.ID, 5, daysAgo(1))

	got, err := svc.CheckIn(context.Background(), habit.ID, user.ID, "daily")
	require.NoError(t, err)
	assert.Equal(t, 6, got.CurrentStreak)
}

func TestCheckInResetsAfterGap(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")
	habit := newTestHabit(t, dbConn, user.ID, 5, daysAgo(2))

	got, err := svc.CheckIn(context.Background(), habit.ID, user.ID, "daily")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestCheckInSameDayRepeatKeepsStreak(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")
	habit := newTestHabit(t, dbConn, user.ID, 5, daysAgo(1))

	first, err := svc.CheckIn(context.Background(), habit.ID, user.ID, "daily")
	require.NoError(t, err)
	require.Equal(t, 6, first.CurrentStreak)
	firstMark := *first.LastCheckIn

	// Repeat today: the event is still appended, the streak and marker hold.
	second, err := svc.CheckIn(context.Background(), habit.ID, user.ID, "daily")
	require.NoError(t, err)
	assert.Equal(t, 6, second.CurrentStreak)
	require.NotNil(t, second.LastCheckIn)
	assert.WithinDuration(t, firstMark, *second.LastCheckIn, time.Second)

	var count int64
	require.NoError(t, dbConn.Model(&models.CheckIn{}).Where("habit_id = ?", habit.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCheckInWeeklyFrequencyUsesDailyWindow(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")

	// The streak arithmetic is calendar-day based regardless of frequency:
	// a weekly habit last checked seven days ago resets to 1.
	habit := newTestHabit(t, dbConn, user.ID, 3, daysAgo(7))

	got, err := svc.CheckIn(context.Background(), habit.ID, user.ID, models.FrequencyWeekly)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestCheckInMissingHabitRollsBackEvent(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")

	_, err := svc.CheckIn(context.Background(), "missing-habit", user.ID, "daily")
	assert.ErrorIs(t, err, ErrNotFound)

	// The transaction guarantees no orphan event was written.
	var count int64
	require.NoError(t, dbConn.Model(&models.CheckIn{}).Where("habit_id = ?", "missing-habit").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCheckInValidation(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())

	_, err := svc.CheckIn(context.Background(), "", "uid", "daily")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CheckIn(context.Background(), "hid", "uid", "hourly")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecentCheckInsOrderedDescending(t *testing.T) {
	dbConn := testDB(t)
	svc := NewCheckInService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		ev := models.CheckIn{HabitID: "h", UserID: user.ID, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, dbConn.Create(&ev).Error)
	}

	events, err := svc.RecentCheckIns(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].Timestamp.After(events[1].Timestamp))
	assert.True(t, events[1].Timestamp.After(events[2].Timestamp))
}
