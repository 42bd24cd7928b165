package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCancelled BookingStatus = "cancelled" // terminal
)

// ValidBookingStatus reports whether s is one of the three booking states.
func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking reserves a concrete time interval between a student and a
// professor. Bookings are never deleted; cancellation is a status change.
type Booking struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"student_id"`
	ProfessorID int64         `json:"professor_id"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Display names of the counterparts, filled by list queries.
	StudentName   string `json:"student_name,omitempty"`
	ProfessorName string `json:"professor_name,omitempty"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsParticipant reports whether userID is one of the two booking parties.
func (b *Booking) IsParticipant(userID int64) bool {
	return b.StudentID == userID || b.ProfessorID == userID
}
