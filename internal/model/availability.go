package model

import (
	"fmt"
	"time"
)

// Weekday convention used everywhere (DB, API, slot generation):
// 0 = Monday .. 6 = Sunday.
const (
	WeekdayMin = 0
	WeekdayMax = 6
)

// WeekdayOf maps a calendar date onto the 0=Monday convention.
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock parses a wall-clock "HH:MM" value and returns minutes since
// midnight. Timezones are deliberately not modeled anywhere in this system.
func ParseClock(s string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return hour*60 + minute, nil
}

// WeeklyRule is a recurring availability window declared by a professor.
// Rules are never edited in place: the owner deletes and recreates them,
// or replaces the whole set at once.
type WeeklyRule struct {
	ID          int64  `json:"id"`
	ProfessorID int64  `json:"professor_id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"` // "HH:MM"
	EndTime     string `json:"end_time"`   // "HH:MM", strictly after StartTime
}

// Validate checks the weekday range and that the window is non-empty.
func (r *WeeklyRule) Validate() error {
	if r.Weekday < WeekdayMin || r.Weekday > WeekdayMax {
		return fmt.Errorf("weekday %d out of range", r.Weekday)
	}
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", r.StartTime, r.EndTime)
	}
	return nil
}

// OneOffWindow is a single non-recurring availability window. Expired
// windows (end_time in the past) are filtered out on read paths.
type OneOffWindow struct {
	ID          int64     `json:"id"`
	ProfessorID int64     `json:"professor_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}
