package utils

import "time"

// Instant is a point in time that may be absent or unparseable. Streak math
// only ever needs calendar-day comparisons, and a missing or malformed value
// must never count as "today", so every comparison on an invalid Instant
// returns false.
type Instant struct {
	t  time.Time
	ok bool
}

// InstantOf wraps a concrete time.
func InstantOf(t time.Time) Instant {
	return Instant{t: t, ok: !t.IsZero()}
}

// InstantOfPtr wraps a nullable time, as stored on Habit.LastCheckIn.
func InstantOfPtr(t *time.Time) Instant {
	if t == nil {
		return Instant{}
	}
	return InstantOf(*t)
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant accepts the ISO-ish string forms clients send. Anything it
// cannot parse becomes an invalid Instant.
func ParseInstant(s string) Instant {
	if s == "" {
		return Instant{}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return InstantOf(t)
		}
	}
	return Instant{}
}

func (i Instant) Valid() bool {
	return i.ok
}

func (i Instant) Time() time.Time {
	return i.t
}

// SameCalendarDay compares year/month/day in local time against ref.
func (i Instant) SameCalendarDay(ref time.Time) bool {
	if !i.ok {
		return false
	}
	y1, m1, d1 := i.t.Local().Date()
	y2, m2, d2 := ref.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Today reports whether the instant falls on the current local calendar day.
func (i Instant) Today() bool {
	return i.SameCalendarDay(time.Now())
}

// YesterdayOf reports whether the instant falls exactly one calendar day
// before now. This is a date comparison, not a rolling 24h window.
func (i Instant) YesterdayOf(now time.Time) bool {
	return i.SameCalendarDay(now.AddDate(0, 0, -1))
}
