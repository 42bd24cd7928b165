package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

type notificationHandler struct {
	notifications *service.NotificationService
}

func (h *notificationHandler) list(c *fiber.Ctx) error {
	notifications, err := h.notifications.List(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return c.JSON(notifications)
}

func (h *notificationHandler) markRead(c *fiber.Ctx) error {
	notificationID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.Context(), callerID(c), notificationID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
