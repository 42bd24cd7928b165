package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	for offset := 0; offset < 7; offset++ {
		assert.Equal(t, offset, WeekdayOf(monday.AddDate(0, 0, offset)))
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		minutes, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.minutes, minutes, tc.in)
	}
}

func TestWeeklyRuleValidate(t *testing.T) {
	valid := WeeklyRule{Weekday: 0, StartTime: "09:00", EndTime: "11:00"}
	assert.NoError(t, valid.Validate())

	cases := []WeeklyRule{
		{Weekday: -1, StartTime: "09:00", EndTime: "11:00"},
		{Weekday: 7, StartTime: "09:00", EndTime: "11:00"},
		{Weekday: 2, StartTime: "11:00", EndTime: "09:00"},
		{Weekday: 2, StartTime: "09:00", EndTime: "09:00"},
		{Weekday: 2, StartTime: "late", EndTime: "11:00"},
	}
	for _, rule := range cases {
		assert.Error(t, rule.Validate())
	}
}

func TestSlotOverlaps(t *testing.T) {
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	slot := Slot{Start: base, End: base.Add(time.Hour)}

	assert.True(t, slot.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, slot.Overlaps(base.Add(-30*time.Minute), base.Add(30*time.Minute)))
	assert.True(t, slot.Overlaps(base, base.Add(time.Hour)))

	// Abutting intervals do not overlap.
	assert.False(t, slot.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, slot.Overlaps(base.Add(-time.Hour), base))
}
