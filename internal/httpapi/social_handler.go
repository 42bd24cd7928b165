package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

type socialHandler struct {
	social *service.SocialService
}

type createPostRequest struct {
	Content string `json:"content"`
}

func (h *socialHandler) createPost(c *fiber.Ctx) error {
	var in createPostRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	post, err := h.social.CreatePost(c.Context(), callerID(c), in.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *socialHandler) feed(c *fiber.Ctx) error {
	posts, err := h.social.Feed(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return c.JSON(posts)
}

func (h *socialHandler) postsByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.social.PostsByUser(c.Context(), userID)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return c.JSON(posts)
}

func (h *socialHandler) follow(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.social.Follow(c.Context(), callerID(c), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *socialHandler) unfollow(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.social.Unfollow(c.Context(), callerID(c), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *socialHandler) following(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.social.Following(c.Context(), userID)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*model.User{}
	}
	return c.JSON(users)
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *socialHandler) addReview(c *fiber.Ctx) error {
	professorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var in addReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	review, err := h.social.AddReview(c.Context(), callerID(c), professorID, in.Rating, in.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *socialHandler) listReviews(c *fiber.Ctx) error {
	professorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.social.ReviewsForProfessor(c.Context(), professorID)
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return c.JSON(reviews)
}

func (h *socialHandler) getProgress(c *fiber.Ctx) error {
	progress, err := h.social.GetProgress(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

type recordLessonRequest struct {
	Minutes int `json:"minutes"`
}

func (h *socialHandler) recordLesson(c *fiber.Ctx) error {
	var in recordLessonRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	progress, err := h.social.RecordLesson(c.Context(), callerID(c), in.Minutes)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}
