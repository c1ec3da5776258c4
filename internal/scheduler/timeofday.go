package scheduler

import (
	"fmt"
	"time"
)

// TimeOfDay is a minute-granularity trigger time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("scheduler: time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustParseTimeOfDay panics on malformed input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Matches reports whether now falls inside the trigger minute.
func (t TimeOfDay) Matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
