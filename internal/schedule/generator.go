package schedule

import (
	"time"

	"github.com/linguameet/linguameet/internal/model"
)

// Input carries everything slot derivation depends on. Time is threaded in
// explicitly so generation is deterministic under test.
type Input struct {
	Rules    []model.WeeklyRule
	Bookings []model.Booking // non-cancelled bookings for the professor in range
	From     time.Time       // inclusive calendar date
	To       time.Time       // inclusive calendar date
	Duration time.Duration
	Now      time.Time
	// FutureOnly drops slots that have already started. Set for "next N
	// days" listings, unset for explicit historical range queries.
	FutureOnly bool
}

// Generate derives the bookable slots for a professor over a date range.
//
// For every day in [From, To] it takes the weekly rules matching that
// weekday, cuts each rule's day-local window into consecutive
// Duration-sized slots (a trailing partial slot is discarded), and drops
// any slot that overlaps an existing booking. Overlap is half-open:
// a booking ending exactly when a slot starts does not collide.
//
// Overlapping rules for the same weekday are evaluated independently, but
// a slot already emitted for the day is not emitted twice. Output order is
// date, then rule order, then slot start.
func Generate(in Input) []model.Slot {
	if in.Duration <= 0 {
		in.Duration = time.Hour
	}

	from := midnight(in.From)
	to := midnight(in.To)

	var slots []model.Slot
	seen := make(map[[2]int64]struct{})

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		weekday := model.WeekdayOf(day)

		for _, rule := range in.Rules {
			if rule.Weekday != weekday {
				continue
			}

			startMin, err := model.ParseClock(rule.StartTime)
			if err != nil {
				continue
			}
			endMin, err := model.ParseClock(rule.EndTime)
			if err != nil {
				continue
			}

			windowStart := day.Add(time.Duration(startMin) * time.Minute)
			windowEnd := day.Add(time.Duration(endMin) * time.Minute)

			for slotStart := windowStart; !slotStart.Add(in.Duration).After(windowEnd); slotStart = slotStart.Add(in.Duration) {
				slotEnd := slotStart.Add(in.Duration)

				if in.FutureOnly && !slotStart.After(in.Now) {
					continue
				}

				slot := model.Slot{Start: slotStart, End: slotEnd}
				if collides(slot, in.Bookings) {
					continue
				}

				key := [2]int64{slotStart.Unix(), slotEnd.Unix()}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				slots = append(slots, slot)
			}
		}
	}

	return slots
}

func collides(slot model.Slot, bookings []model.Booking) bool {
	for _, b := range bookings {
		if slot.Overlaps(b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
