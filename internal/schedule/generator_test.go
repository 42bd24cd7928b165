package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguameet/linguameet/internal/model"
)

// 2025-03-03 is a Monday.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func mondayRule(start, end string) model.WeeklyRule {
	return model.WeeklyRule{ProfessorID: 1, Weekday: 0, StartTime: start, EndTime: end}
}

func TestGenerate_SplitsRuleIntoFixedSlots(t *testing.T) {
	slots := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("09:00", "11:00")},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday, 10, 0), slots[0].End)
	assert.Equal(t, at(monday, 10, 0), slots[1].Start)
	assert.Equal(t, at(monday, 11, 0), slots[1].End)
}

func TestGenerate_DiscardsTrailingPartialSlot(t *testing.T) {
	slots := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("09:00", "10:30")},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
}

func TestGenerate_DropsSlotsOverlappingBookings(t *testing.T) {
	booking := model.Booking{
		ProfessorID: 1,
		StartTime:   at(monday, 9, 0),
		EndTime:     at(monday, 10, 0),
		Status:      model.BookingStatusAccepted,
	}

	slots := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("09:00", "11:00")},
		Bookings: []model.Booking{booking},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 10, 0), slots[0].Start)
	assert.Equal(t, at(monday, 11, 0), slots[0].End)
}

func TestGenerate_AbuttingBookingDoesNotCollide(t *testing.T) {
	// [10:00,11:00) vs booking [11:00,12:00): no overlap under half-open
	// semantics, the slot survives.
	booking := model.Booking{
		StartTime: at(monday, 11, 0),
		EndTime:   at(monday, 12, 0),
	}

	slots := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("10:00", "11:00")},
		Bookings: []model.Booking{booking},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 10, 0), slots[0].Start)
}

func TestGenerate_PartialOverlapDropsWholeSlot(t *testing.T) {
	booking := model.Booking{
		StartTime: at(monday, 10, 30),
		EndTime:   at(monday, 11, 30),
	}

	slots := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("09:00", "11:00")},
		Bookings: []model.Booking{booking},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	// [10:00,11:00) overlaps [10:30,11:30) and is dropped entirely.
	require.Len(t, slots, 1)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
}

func TestGenerate_OverlappingRulesProduceNoDuplicates(t *testing.T) {
	slots := Generate(Input{
		Rules: []model.WeeklyRule{
			mondayRule("09:00", "11:00"),
			mondayRule("10:00", "12:00"),
		},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 3)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday, 10, 0), slots[1].Start)
	assert.Equal(t, at(monday, 11, 0), slots[2].Start)
}

func TestGenerate_Idempotent(t *testing.T) {
	in := Input{
		Rules: []model.WeeklyRule{
			mondayRule("09:00", "12:00"),
			{ProfessorID: 1, Weekday: 2, StartTime: "14:00", EndTime: "16:00"},
		},
		From:     monday,
		To:       monday.AddDate(0, 0, 6),
		Duration: time.Hour,
	}

	first := Generate(in)
	second := Generate(in)

	assert.Equal(t, first, second)
}

func TestGenerate_IteratesWholeRangeInclusive(t *testing.T) {
	// One rule per weekday boundary of the range: both endpoints count.
	sunday := monday.AddDate(0, 0, 6)
	slots := Generate(Input{
		Rules: []model.WeeklyRule{
			{Weekday: 0, StartTime: "09:00", EndTime: "10:00"}, // Monday
			{Weekday: 6, StartTime: "09:00", EndTime: "10:00"}, // Sunday
		},
		From:     monday,
		To:       sunday,
		Duration: time.Hour,
	})

	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(sunday, 9, 0), slots[1].Start)
}

func TestGenerate_FutureOnlyDropsStartedSlots(t *testing.T) {
	now := at(monday, 9, 30)

	slots := Generate(Input{
		Rules:      []model.WeeklyRule{mondayRule("09:00", "12:00")},
		From:       monday,
		To:         monday,
		Duration:   time.Hour,
		Now:        now,
		FutureOnly: true,
	})

	// [09:00,10:00) already started at 09:30, the rest remains.
	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 10, 0), slots[0].Start)
	assert.Equal(t, at(monday, 11, 0), slots[1].Start)

	// The same range queried explicitly keeps the started slot.
	historical := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("09:00", "12:00")},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
		Now:      now,
	})
	require.Len(t, historical, 3)
}

func TestGenerate_RemovedRuleNoLongerYieldsSlots(t *testing.T) {
	full := Generate(Input{
		Rules: []model.WeeklyRule{
			mondayRule("09:00", "10:00"),
			mondayRule("10:00", "11:00"),
		},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})
	require.Len(t, full, 2)

	remaining := Generate(Input{
		Rules:    []model.WeeklyRule{mondayRule("10:00", "11:00")},
		From:     monday,
		To:       monday,
		Duration: time.Hour,
	})
	require.Len(t, remaining, 1)
	assert.Equal(t, at(monday, 10, 0), remaining[0].Start)
}

func TestGenerate_NoRulesNoSlots(t *testing.T) {
	slots := Generate(Input{
		From:     monday,
		To:       monday.AddDate(0, 0, 13),
		Duration: time.Hour,
	})
	assert.Empty(t, slots)
}
