package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

const dateLayout = "2006-01-02"

type slotHandler struct {
	slots *service.SlotService
}

// list serves GET /api/slots. professorId is required. With from/to dates
// the whole range is returned (past slots included, for calendar views);
// without them the default is the next days days of future slots. All
// parameters are validated before any query runs.
func (h *slotHandler) list(c *fiber.Ctx) error {
	professorID, err := strconv.ParseInt(c.Query("professorId"), 10, 64)
	if err != nil || professorID <= 0 {
		return apperr.Validation("professorId is required")
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if (fromStr == "") != (toStr == "") {
		return apperr.Validation("from and to must be given together")
	}

	var slots []model.Slot
	if fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return apperr.Validation("from must be a YYYY-MM-DD date")
		}
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return apperr.Validation("to must be a YYYY-MM-DD date")
		}
		if to.Before(from) {
			return apperr.Validation("to must not be before from")
		}

		slots, err = h.slots.ListSlots(c.Context(), professorID, from, to, time.Now(), false)
		if err != nil {
			return err
		}
	} else {
		days := c.QueryInt("days", 7)
		if days <= 0 || days > 90 {
			return apperr.Validation("days must be between 1 and 90")
		}

		slots, err = h.slots.NextSlots(c.Context(), professorID, days, time.Now())
		if err != nil {
			return err
		}
	}

	if slots == nil {
		slots = []model.Slot{}
	}
	return c.JSON(slots)
}
