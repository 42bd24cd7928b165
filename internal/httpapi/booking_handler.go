package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

type bookingHandler struct {
	bookings *service.BookingService
}

type createBookingRequest struct {
	ProfessorID int64     `json:"professor_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

func (h *bookingHandler) create(c *fiber.Ctx) error {
	var in createBookingRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	if in.ProfessorID <= 0 {
		return apperr.Validation("professor_id is required")
	}

	booking, err := h.bookings.Create(c.Context(), callerID(c), in.ProfessorID, in.StartTime, in.EndTime, time.Now())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// list serves the caller's own bookings by default; explicit studentId
// and/or professorId query filters override that.
func (h *bookingHandler) list(c *fiber.Ctx) error {
	var (
		bookings []*model.Booking
		err      error
	)

	studentID, professorID, err := bookingFilters(c)
	if err != nil {
		return err
	}

	if studentID == nil && professorID == nil {
		bookings, err = h.bookings.ListForUser(c.Context(), callerID(c), callerRole(c))
	} else {
		bookings, err = h.bookings.List(c.Context(), studentID, professorID)
	}
	if err != nil {
		return err
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return c.JSON(bookings)
}

func bookingFilters(c *fiber.Ctx) (studentID, professorID *int64, err error) {
	parse := func(name string) (*int64, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperr.Validation("invalid %s", name)
		}
		return &id, nil
	}

	if studentID, err = parse("studentId"); err != nil {
		return nil, nil, err
	}
	if professorID, err = parse("professorId"); err != nil {
		return nil, nil, err
	}
	return studentID, professorID, nil
}

func (h *bookingHandler) get(c *fiber.Ctx) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookings.Get(c.Context(), callerID(c), bookingID)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *bookingHandler) setStatus(c *fiber.Ctx) error {
	bookingID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var in setStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	booking, err := h.bookings.SetStatus(c.Context(), callerID(c), bookingID, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}
