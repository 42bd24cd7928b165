package model

import "time"

// Slot is a derived bookable interval. Slots are never persisted: they are
// recomputed from weekly rules and current bookings on every request, so a
// slot booked by someone else disappears from the next listing.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps applies half-open interval semantics: [a,b) and [c,d) overlap
// iff a < d && c < b. Abutting intervals do not overlap.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}
