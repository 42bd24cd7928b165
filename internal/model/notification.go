package model

import "time"

const (
	NotificationBookingCreated   = "booking_created"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingAccepted  = "booking_accepted"
	NotificationBookingCancelled = "booking_cancelled"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
