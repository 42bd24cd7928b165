package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
)

// AvailabilityService manages a professor's declared availability: the
// recurring weekly rules and the one-off windows. All mutations are
// owner-only; missing resources surface as not-found before any
// ownership check so ids cannot be probed.
type AvailabilityService struct {
	availRepo *repository.AvailabilityRepository
	logger    *zap.Logger
}

func NewAvailabilityService(availRepo *repository.AvailabilityRepository, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{availRepo: availRepo, logger: logger}
}

// --- weekly rules ---

// AddWeeklyRule creates one recurring rule owned by the caller.
func (s *AvailabilityService) AddWeeklyRule(ctx context.Context, professorID int64, weekday int, startTime, endTime string) (*model.WeeklyRule, error) {
	rule := &model.WeeklyRule{
		ProfessorID: professorID,
		Weekday:     weekday,
		StartTime:   startTime,
		EndTime:     endTime,
	}
	if err := rule.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid weekly rule")
	}

	if err := s.availRepo.CreateWeeklyRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("create weekly rule: %w", err)
	}

	s.logger.Info("Weekly rule added",
		zap.Int64("professor_id", professorID),
		zap.Int("weekday", weekday),
		zap.String("start", startTime),
		zap.String("end", endTime),
	)

	return rule, nil
}

// ListWeeklyRules returns a professor's recurring rules; readable by anyone.
func (s *AvailabilityService) ListWeeklyRules(ctx context.Context, professorID int64) ([]model.WeeklyRule, error) {
	rules, err := s.availRepo.GetWeeklyRulesByProfessor(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list weekly rules: %w", err)
	}
	return rules, nil
}

// ReplaceWeeklyRules swaps the caller's entire recurring schedule at once.
// Every rule is validated before anything is written.
func (s *AvailabilityService) ReplaceWeeklyRules(ctx context.Context, professorID int64, rules []model.WeeklyRule) ([]model.WeeklyRule, error) {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "invalid weekly rule")
		}
	}

	if err := s.availRepo.ReplaceWeeklyRules(ctx, professorID, rules); err != nil {
		return nil, fmt.Errorf("replace weekly rules: %w", err)
	}

	s.logger.Info("Weekly schedule replaced",
		zap.Int64("professor_id", professorID),
		zap.Int("rules", len(rules)),
	)

	return rules, nil
}

// RemoveWeeklyRule deletes one rule; only its owner may do so.
func (s *AvailabilityService) RemoveWeeklyRule(ctx context.Context, professorID, ruleID int64) error {
	rule, err := s.availRepo.GetWeeklyRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("get weekly rule: %w", err)
	}
	if rule == nil {
		return apperr.NotFound("weekly rule not found")
	}
	if rule.ProfessorID != professorID {
		return apperr.Forbidden("not your availability")
	}

	if err := s.availRepo.DeleteWeeklyRule(ctx, ruleID); err != nil {
		return fmt.Errorf("delete weekly rule: %w", err)
	}

	s.logger.Info("Weekly rule removed",
		zap.Int64("professor_id", professorID),
		zap.Int64("rule_id", ruleID),
	)

	return nil
}

// --- one-off windows ---

// AddWindow creates a single non-recurring availability window.
func (s *AvailabilityService) AddWindow(ctx context.Context, professorID int64, start, end time.Time) (*model.OneOffWindow, error) {
	if !start.Before(end) {
		return nil, apperr.Validation("start_time must be before end_time")
	}

	window := &model.OneOffWindow{
		ProfessorID: professorID,
		StartTime:   start,
		EndTime:     end,
	}
	if err := s.availRepo.CreateWindow(ctx, window); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	s.logger.Info("One-off window added",
		zap.Int64("professor_id", professorID),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	return window, nil
}

// ListWindows returns a professor's windows that have not yet ended.
func (s *AvailabilityService) ListWindows(ctx context.Context, professorID int64, now time.Time) ([]model.OneOffWindow, error) {
	windows, err := s.availRepo.GetFutureWindows(ctx, professorID, now)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return windows, nil
}

// RemoveWindow deletes one window; only its owner may do so.
func (s *AvailabilityService) RemoveWindow(ctx context.Context, professorID, windowID int64) error {
	window, err := s.availRepo.GetWindowByID(ctx, windowID)
	if err != nil {
		return fmt.Errorf("get window: %w", err)
	}
	if window == nil {
		return apperr.NotFound("window not found")
	}
	if window.ProfessorID != professorID {
		return apperr.Forbidden("not your availability")
	}

	if err := s.availRepo.DeleteWindow(ctx, windowID); err != nil {
		return fmt.Errorf("delete window: %w", err)
	}

	s.logger.Info("One-off window removed",
		zap.Int64("professor_id", professorID),
		zap.Int64("window_id", windowID),
	)

	return nil
}
