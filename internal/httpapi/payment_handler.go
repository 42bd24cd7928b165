package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/service"
)

type paymentHandler struct {
	payments *service.PaymentService
}

func (h *paymentHandler) createOnboardingLink(c *fiber.Ctx) error {
	url, err := h.payments.CreateOnboardingLink(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

// webhook verifies the raw body signature; fiber's Body is the unparsed
// payload, which is what the signature covers.
func (h *paymentHandler) webhook(c *fiber.Ctx) error {
	err := h.payments.HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
