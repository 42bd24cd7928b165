package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository/base"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// EnsureRoom creates the room for a (student, professor) pair if it does
// not exist and returns it either way. The upsert keys on the unique pair,
// so repeated acceptances of the same pairing always land on one room.
func (r *ChatRepository) EnsureRoom(ctx context.Context, studentID, professorID int64) (*model.ChatRoom, error) {
	// DO UPDATE instead of DO NOTHING so RETURNING also fires on conflict.
	query := `
		INSERT INTO chat_rooms (student_id, professor_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, professor_id) DO UPDATE SET student_id = EXCLUDED.student_id
		RETURNING id, public_id, student_id, professor_id, created_at
	`

	var room model.ChatRoom
	err := r.pool.QueryRow(ctx, query, studentID, professorID).
		Scan(&room.ID, &room.PublicID, &room.StudentID, &room.ProfessorID, &room.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure chat room: %w", err)
	}

	return &room, nil
}

// GetRoomByID fetches a room, nil when absent.
func (r *ChatRepository) GetRoomByID(ctx context.Context, id int64) (*model.ChatRoom, error) {
	query := `
		SELECT id, public_id, student_id, professor_id, created_at
		FROM chat_rooms
		WHERE id = $1
	`

	var room model.ChatRoom
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&room.ID, &room.PublicID, &room.StudentID, &room.ProfessorID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat room by id: %w", err)
	}

	return &room, nil
}

// CreateMessage persists a chat message.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (chat_room_id, booking_id, sender_id, content, file_url, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		msg.ChatRoomID,
		msg.BookingID,
		msg.SenderID,
		msg.Content,
		msg.FileURL,
		msg.Type,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

// ListMessages returns a room's messages oldest first.
func (r *ChatRepository) ListMessages(ctx context.Context, chatRoomID int64) ([]*model.Message, error) {
	query := `
		SELECT id, chat_room_id, booking_id, sender_id, content, file_url, type, created_at, read_at
		FROM messages
		WHERE chat_room_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, chatRoomID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ChatRoomID,
			&msg.BookingID,
			&msg.SenderID,
			&msg.Content,
			&msg.FileURL,
			&msg.Type,
			&msg.CreatedAt,
			&msg.ReadAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}

// MarkMessageRead stamps read_at, scoped to the room's participants, and
// returns the room id the message belongs to (0 when nothing matched).
func (r *ChatRepository) MarkMessageRead(ctx context.Context, id, userID int64) (int64, error) {
	var chatRoomID int64
	err := r.pool.QueryRow(ctx, `
		UPDATE messages m
		SET read_at = NOW()
		FROM chat_rooms cr
		WHERE m.id = $1
		  AND cr.id = m.chat_room_id
		  AND (cr.student_id = $2 OR cr.professor_id = $2)
		RETURNING m.chat_room_id
	`, id, userID).Scan(&chatRoomID)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("mark message read: %w", err)
	}

	return chatRoomID, nil
}
