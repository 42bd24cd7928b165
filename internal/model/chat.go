package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom joins one student and one professor. The pair is unique: the
// first accepted booking between two users provisions the room and every
// later acceptance reuses it.
type ChatRoom struct {
	ID          int64     `json:"id"`
	PublicID    uuid.UUID `json:"public_id"`
	StudentID   int64     `json:"student_id"`
	ProfessorID int64     `json:"professor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

type Message struct {
	ID         int64      `json:"id"`
	ChatRoomID int64      `json:"chat_room_id"`
	BookingID  int64      `json:"booking_id"`
	SenderID   int64      `json:"sender_id"`
	Content    *string    `json:"content"`
	FileURL    *string    `json:"file_url"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at"`
}
