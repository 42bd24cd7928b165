package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
)

// Broadcaster pushes chat events to connected websocket clients. Delivery
// is best effort; the hub drops events for rooms nobody is watching.
type Broadcaster interface {
	BroadcastMessage(chatRoomID int64, msg *model.Message)
	BroadcastRead(chatRoomID, messageID int64)
}

// ChatService serves the per-pair chat rooms: room lookup via bookings,
// message history, sending and read receipts.
type ChatService struct {
	chatRepo    *repository.ChatRepository
	bookingRepo *repository.BookingRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	bookingRepo *repository.BookingRepository,
	broadcaster Broadcaster,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		bookingRepo: bookingRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// EnsureRoom creates-or-finds the room for a student/professor pair.
// Implements ChatProvisioner for the booking coordinator.
func (s *ChatService) EnsureRoom(ctx context.Context, studentID, professorID int64) (*model.ChatRoom, error) {
	return s.chatRepo.EnsureRoom(ctx, studentID, professorID)
}

// RoomForBooking resolves the chat room behind a booking, creating it if
// the pair never chatted before. Only the booking's participants may call.
func (s *ChatService) RoomForBooking(ctx context.Context, callerID, bookingID int64) (*model.ChatRoom, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if !booking.IsParticipant(callerID) {
		return nil, apperr.Forbidden("not your booking")
	}

	room, err := s.chatRepo.EnsureRoom(ctx, booking.StudentID, booking.ProfessorID)
	if err != nil {
		return nil, fmt.Errorf("ensure chat room: %w", err)
	}

	return room, nil
}

// ListMessages returns a room's history oldest first, participants only.
func (s *ChatService) ListMessages(ctx context.Context, callerID, chatRoomID int64) ([]*model.Message, error) {
	if _, err := s.memberRoom(ctx, callerID, chatRoomID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, chatRoomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// SendMessage stores a message and pushes it to the room's live clients.
// Either content (text) or a file URL must be present.
func (s *ChatService) SendMessage(ctx context.Context, callerID, chatRoomID, bookingID int64, content, fileURL *string) (*model.Message, error) {
	if _, err := s.memberRoom(ctx, callerID, chatRoomID); err != nil {
		return nil, err
	}

	msgType := model.MessageTypeText
	if fileURL != nil && *fileURL != "" {
		msgType = model.MessageTypeFile
	} else if content == nil || strings.TrimSpace(*content) == "" {
		return nil, apperr.Validation("message is empty")
	}

	msg := &model.Message{
		ChatRoomID: chatRoomID,
		BookingID:  bookingID,
		SenderID:   callerID,
		Content:    content,
		FileURL:    fileURL,
		Type:       msgType,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(chatRoomID, msg)
	}

	return msg, nil
}

// MarkMessageRead stamps a read receipt and pushes it to the room. The
// update is scoped to rooms the caller belongs to, so a foreign message id
// behaves like a missing one.
func (s *ChatService) MarkMessageRead(ctx context.Context, callerID, messageID int64) error {
	chatRoomID, err := s.chatRepo.MarkMessageRead(ctx, messageID, callerID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if chatRoomID == 0 {
		return apperr.NotFound("message not found")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRead(chatRoomID, messageID)
	}

	return nil
}

func (s *ChatService) memberRoom(ctx context.Context, callerID, chatRoomID int64) (*model.ChatRoom, error) {
	room, err := s.chatRepo.GetRoomByID(ctx, chatRoomID)
	if err != nil {
		return nil, fmt.Errorf("get chat room: %w", err)
	}
	if room == nil {
		return nil, apperr.NotFound("chat room not found")
	}
	if room.StudentID != callerID && room.ProfessorID != callerID {
		return nil, apperr.Forbidden("not your chat room")
	}
	return room, nil
}
