package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
	"github.com/linguameet/linguameet/internal/ws"
)

type chatHandler struct {
	chat   *service.ChatService
	hub    *ws.Hub
	logger *zap.Logger
}

func (h *chatHandler) roomForBooking(c *fiber.Ctx) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	room, err := h.chat.RoomForBooking(c.Context(), callerID(c), bookingID)
	if err != nil {
		return err
	}
	return c.JSON(room)
}

func (h *chatHandler) listMessages(c *fiber.Ctx) error {
	chatRoomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	messages, err := h.chat.ListMessages(c.Context(), callerID(c), chatRoomID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	return c.JSON(messages)
}

type sendMessageRequest struct {
	BookingID int64   `json:"booking_id"`
	Content   *string `json:"content"`
	FileURL   *string `json:"file_url"`
}

func (h *chatHandler) sendMessage(c *fiber.Ctx) error {
	chatRoomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var in sendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	msg, err := h.chat.SendMessage(c.Context(), callerID(c), chatRoomID, in.BookingID, in.Content, in.FileURL)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *chatHandler) markMessageRead(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.chat.MarkMessageRead(c.Context(), callerID(c), messageID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// subscribe upgrades a participant's connection and keeps it registered in
// the hub until the client goes away. Membership is checked before the
// upgrade so outsiders are rejected with a normal HTTP status.
func (h *chatHandler) subscribe() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		chatRoomID, err := strconv.ParseInt(conn.Params("id"), 10, 64)
		if err != nil {
			conn.Close()
			return
		}

		h.hub.Join(chatRoomID, conn)
		defer h.hub.Leave(chatRoomID, conn)

		// Clients only listen; the read loop just detects disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	return func(c *fiber.Ctx) error {
		chatRoomID, err := parseID(c, "id")
		if err != nil {
			return err
		}

		// ListMessages doubles as the membership check.
		if _, err := h.chat.ListMessages(c.Context(), callerID(c), chatRoomID); err != nil {
			return err
		}

		return upgrade(c)
	}
}
