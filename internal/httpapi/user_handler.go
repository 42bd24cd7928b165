package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/repository"
	"github.com/linguameet/linguameet/internal/service"
)

const maxAvatarBytes = 5 << 20

type userHandler struct {
	users  *service.UserService
	social *service.SocialService
}

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return int64(id), nil
}

func (h *userHandler) getProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.users.GetProfile(c.Context(), callerID(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

type updateProfileRequest struct {
	Bio         *string `json:"bio"`
	Nationality *string `json:"nationality"`
	Price       *int    `json:"price"`
	Level       *string `json:"level"`
	VideoURL    *string `json:"video_url"`
}

func (h *userHandler) updateProfile(c *fiber.Ctx) error {
	var in updateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, err := h.users.UpdateProfile(c.Context(), callerID(c), repository.ProfileUpdate{
		Bio:         in.Bio,
		Nationality: in.Nationality,
		Price:       in.Price,
		Level:       in.Level,
		VideoURL:    in.VideoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}

type replaceListRequest struct {
	Values []string `json:"values"`
}

func (h *userHandler) replaceList(c *fiber.Ctx) error {
	var in replaceListRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	field := c.Params("field")
	if err := h.users.ReplaceList(c.Context(), callerID(c), field, in.Values); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) uploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return apperr.Validation("avatar file is required")
	}
	if fileHeader.Size > maxAvatarBytes {
		return apperr.Validation("avatar larger than 5MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "open avatar upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "read avatar upload")
	}

	url, err := h.users.SaveAvatar(c.Context(), callerID(c), data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"avatar_url": url})
}

func (h *userHandler) search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return apperr.Validation("q is required")
	}

	users, err := h.users.Search(c.Context(), q, c.Query("role"))
	if err != nil {
		return err
	}
	return c.JSON(users)
}
