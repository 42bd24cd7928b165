package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/service"
)

var validate = validator.New()

type authHandler struct {
	auth *service.AuthService
}

func (h *authHandler) signUp(c *fiber.Ctx) error {
	var in service.SignUpInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(in); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "invalid signup request")
	}

	user, token, err := h.auth.SignUp(c.Context(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *authHandler) signIn(c *fiber.Ctx) error {
	var in signInRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(in); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "invalid signin request")
	}

	user, token, err := h.auth.SignIn(c.Context(), in.Email, in.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *authHandler) me(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}
