package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
	"github.com/linguameet/linguameet/internal/schedule"
)

// SlotService answers "when can this professor be booked". It never stores
// slots: every call derives them from the weekly rules and the current
// bookings, so a cancelled booking frees its slot with no extra bookkeeping.
type SlotService struct {
	availRepo   *repository.AvailabilityRepository
	bookingRepo *repository.BookingRepository
	duration    time.Duration
	logger      *zap.Logger
}

func NewSlotService(
	availRepo *repository.AvailabilityRepository,
	bookingRepo *repository.BookingRepository,
	slotDuration time.Duration,
	logger *zap.Logger,
) *SlotService {
	if slotDuration <= 0 {
		slotDuration = time.Hour
	}
	return &SlotService{
		availRepo:   availRepo,
		bookingRepo: bookingRepo,
		duration:    slotDuration,
		logger:      logger,
	}
}

// ListSlots derives the professor's open slots over [from, to]. futureOnly
// drops slots that already started relative to now; range listings for a
// calendar view pass false.
func (s *SlotService) ListSlots(ctx context.Context, professorID int64, from, to, now time.Time, futureOnly bool) ([]model.Slot, error) {
	rules, err := s.availRepo.GetWeeklyRulesByProfessor(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get weekly rules: %w", err)
	}

	bookings, err := s.bookingRepo.GetActiveInRange(ctx, professorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bookings in range: %w", err)
	}

	slots := schedule.Generate(schedule.Input{
		Rules:      rules,
		Bookings:   bookings,
		From:       from,
		To:         to,
		Duration:   s.duration,
		Now:        now,
		FutureOnly: futureOnly,
	})

	s.logger.Debug("Slots generated",
		zap.Int64("professor_id", professorID),
		zap.Int("rules", len(rules)),
		zap.Int("bookings", len(bookings)),
		zap.Int("slots", len(slots)),
	)

	return slots, nil
}

// NextSlots is the default listing: open slots over the coming days days,
// future starts only.
func (s *SlotService) NextSlots(ctx context.Context, professorID int64, days int, now time.Time) ([]model.Slot, error) {
	if days <= 0 {
		days = 7
	}
	return s.ListSlots(ctx, professorID, now, now.AddDate(0, 0, days), now, true)
}
