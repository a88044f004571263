package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstantToday(t *testing.T) {
	now := time.Now()

	assert.True(t, InstantOf(now).Today())
	assert.False(t, InstantOf(now.AddDate(0, 0, -1)).Today())
	assert.False(t, InstantOf(now.AddDate(0, 0, 1)).Today())
	assert.False(t, InstantOf(now.AddDate(-1, 0, 0)).Today())
	assert.False(t, Instant{}.Today())
	assert.False(t, InstantOfPtr(nil).Today())
	assert.False(t, ParseInstant("not-a-date").Today())
	assert.False(t, ParseInstant("").Today())
}

func TestInstantSameCalendarDay(t *testing.T) {
	ref := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	assert.True(t, InstantOf(time.Date(2024, 3, 15, 0, 0, 1, 0, time.Local)).SameCalendarDay(ref))
	assert.True(t, InstantOf(time.Date(2024, 3, 15, 23, 59, 59, 0, time.Local)).SameCalendarDay(ref))
	assert.False(t, InstantOf(time.Date(2024, 3, 14, 23, 59, 59, 0, time.Local)).SameCalendarDay(ref))
	assert.False(t, InstantOf(time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local)).SameCalendarDay(ref))
	assert.False(t, InstantOf(time.Date(2023, 3, 15, 12, 0, 0, 0, time.Local)).SameCalendarDay(ref))
}

func TestInstantYesterdayOf(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local)

	// Date comparison, not a 24h window: 23:59 yesterday counts, 33 hours
	// ago on the same date also counts.
	assert.True(t, InstantOf(time.Date(2024, 3, 14, 23, 59, 0, 0, time.Local)).YesterdayOf(now))
	assert.True(t, InstantOf(time.Date(2024, 3, 14, 0, 0, 1, 0, time.Local)).YesterdayOf(now))
	assert.False(t, InstantOf(time.Date(2024, 3, 15, 0, 0, 1, 0, time.Local)).YesterdayOf(now))
	assert.False(t, InstantOf(time.Date(2024, 3, 13, 23, 59, 0, 0, time.Local)).YesterdayOf(now))
	assert.False(t, Instant{}.YesterdayOf(now))
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"rfc3339", "2024-03-15T08:30:00Z", true},
		{"rfc3339 nano", "2024-03-15T08:30:00.123456789Z", true},
		{"date only", "2024-03-15", true},
		{"datetime", "2024-03-15 08:30:00", true},
		{"garbage", "yesterday-ish", false},
		{"empty", "", false},
		{"partial", "2024-03", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ParseInstant(tt.input).Valid())
		})
	}
}

func TestInstantOfPtr(t *testing.T) {
	now := time.Now()
	assert.True(t, InstantOfPtr(&now).Valid())
	assert.False(t, InstantOfPtr(nil).Valid())

	var zero time.Time
	assert.False(t, InstantOfPtr(&zero).Valid())
}
