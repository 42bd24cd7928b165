package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository/base"
)

// AvailabilityRepository persists the two kinds of professor availability:
// recurring weekly rules and one-off windows.
type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// --- weekly rules ---

// CreateWeeklyRule inserts a single recurring rule.
func (r *AvailabilityRepository) CreateWeeklyRule(ctx context.Context, rule *model.WeeklyRule) error {
	query := `
		INSERT INTO weekly_availability (professor_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3::time, $4::time)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, rule.ProfessorID, rule.Weekday, rule.StartTime, rule.EndTime).
		Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("create weekly rule: %w", err)
	}

	return nil
}

// GetWeeklyRuleByID fetches one rule, nil when absent.
func (r *AvailabilityRepository) GetWeeklyRuleByID(ctx context.Context, id int64) (*model.WeeklyRule, error) {
	query := `
		SELECT id, professor_id, weekday,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM weekly_availability
		WHERE id = $1
	`

	var rule model.WeeklyRule
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&rule.ID, &rule.ProfessorID, &rule.Weekday, &rule.StartTime, &rule.EndTime)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get weekly rule by id: %w", err)
	}

	return &rule, nil
}

// GetWeeklyRulesByProfessor lists a professor's rules ordered by weekday
// then start time.
func (r *AvailabilityRepository) GetWeeklyRulesByProfessor(ctx context.Context, professorID int64) ([]model.WeeklyRule, error) {
	query := `
		SELECT id, professor_id, weekday,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM weekly_availability
		WHERE professor_id = $1
		ORDER BY weekday, start_time
	`

	rows, err := r.pool.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("get weekly rules by professor: %w", err)
	}
	defer rows.Close()

	var rules []model.WeeklyRule
	for rows.Next() {
		var rule model.WeeklyRule
		err := rows.Scan(&rule.ID, &rule.ProfessorID, &rule.Weekday, &rule.StartTime, &rule.EndTime)
		if err != nil {
			return nil, fmt.Errorf("scan weekly rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// ReplaceWeeklyRules swaps all of a professor's rules for the given set in
// one transaction, so readers never observe a half-replaced schedule.
func (r *AvailabilityRepository) ReplaceWeeklyRules(ctx context.Context, professorID int64, rules []model.WeeklyRule) error {
	return base.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM weekly_availability WHERE professor_id = $1`, professorID); err != nil {
			return fmt.Errorf("delete old weekly rules: %w", err)
		}

		for i := range rules {
			err := tx.QueryRow(ctx, `
				INSERT INTO weekly_availability (professor_id, weekday, start_time, end_time)
				VALUES ($1, $2, $3::time, $4::time)
				RETURNING id
			`, professorID, rules[i].Weekday, rules[i].StartTime, rules[i].EndTime).Scan(&rules[i].ID)
			if err != nil {
				return fmt.Errorf("insert weekly rule: %w", err)
			}
			rules[i].ProfessorID = professorID
		}

		return nil
	})
}

// DeleteWeeklyRule removes one rule by id.
func (r *AvailabilityRepository) DeleteWeeklyRule(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM weekly_availability WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete weekly rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("weekly rule not found")
	}

	return nil
}

// --- one-off windows ---

// CreateWindow inserts a single one-off availability window.
func (r *AvailabilityRepository) CreateWindow(ctx context.Context, window *model.OneOffWindow) error {
	query := `
		INSERT INTO availability_windows (professor_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, window.ProfessorID, window.StartTime, window.EndTime).
		Scan(&window.ID)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	return nil
}

// GetWindowByID fetches one window, nil when absent.
func (r *AvailabilityRepository) GetWindowByID(ctx context.Context, id int64) (*model.OneOffWindow, error) {
	query := `
		SELECT id, professor_id, start_time, end_time
		FROM availability_windows
		WHERE id = $1
	`

	var window model.OneOffWindow
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&window.ID, &window.ProfessorID, &window.StartTime, &window.EndTime)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get window by id: %w", err)
	}

	return &window, nil
}

// GetFutureWindows lists a professor's windows that have not ended by now.
// now is an explicit parameter so reads stay deterministic under test.
func (r *AvailabilityRepository) GetFutureWindows(ctx context.Context, professorID int64, now time.Time) ([]model.OneOffWindow, error) {
	query := `
		SELECT id, professor_id, start_time, end_time
		FROM availability_windows
		WHERE professor_id = $1
		  AND end_time >= $2
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, professorID, now)
	if err != nil {
		return nil, fmt.Errorf("get future windows: %w", err)
	}
	defer rows.Close()

	var windows []model.OneOffWindow
	for rows.Next() {
		var window model.OneOffWindow
		err := rows.Scan(&window.ID, &window.ProfessorID, &window.StartTime, &window.EndTime)
		if err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		windows = append(windows, window)
	}

	return windows, nil
}

// DeleteWindow removes one window by id.
func (r *AvailabilityRepository) DeleteWindow(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("window not found")
	}

	return nil
}
