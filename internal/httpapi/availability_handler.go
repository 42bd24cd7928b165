package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
)

type availabilityHandler struct {
	availability *service.AvailabilityService
}

type weeklyRuleRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (h *availabilityHandler) addWeeklyRule(c *fiber.Ctx) error {
	var in weeklyRuleRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	rule, err := h.availability.AddWeeklyRule(c.Context(), callerID(c), in.Weekday, in.StartTime, in.EndTime)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

func (h *availabilityHandler) listWeeklyRules(c *fiber.Ctx) error {
	professorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	rules, err := h.availability.ListWeeklyRules(c.Context(), professorID)
	if err != nil {
		return err
	}
	if rules == nil {
		rules = []model.WeeklyRule{}
	}
	return c.JSON(rules)
}

type replaceWeeklyRulesRequest struct {
	Rules []weeklyRuleRequest `json:"rules"`
}

func (h *availabilityHandler) replaceWeeklyRules(c *fiber.Ctx) error {
	var in replaceWeeklyRulesRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	rules := make([]model.WeeklyRule, len(in.Rules))
	for i, r := range in.Rules {
		rules[i] = model.WeeklyRule{
			Weekday:   r.Weekday,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		}
	}

	replaced, err := h.availability.ReplaceWeeklyRules(c.Context(), callerID(c), rules)
	if err != nil {
		return err
	}
	if replaced == nil {
		replaced = []model.WeeklyRule{}
	}
	return c.JSON(replaced)
}

func (h *availabilityHandler) removeWeeklyRule(c *fiber.Ctx) error {
	ruleID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.availability.RemoveWeeklyRule(c.Context(), callerID(c), ruleID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type windowRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (h *availabilityHandler) addWindow(c *fiber.Ctx) error {
	var in windowRequest
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	window, err := h.availability.AddWindow(c.Context(), callerID(c), in.StartTime, in.EndTime)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(window)
}

func (h *availabilityHandler) listWindows(c *fiber.Ctx) error {
	professorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	windows, err := h.availability.ListWindows(c.Context(), professorID, time.Now())
	if err != nil {
		return err
	}
	if windows == nil {
		windows = []model.OneOffWindow{}
	}
	return c.JSON(windows)
}

func (h *availabilityHandler) removeWindow(c *fiber.Ctx) error {
	windowID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.availability.RemoveWindow(c.Context(), callerID(c), windowID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
