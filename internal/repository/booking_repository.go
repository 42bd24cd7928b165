package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository/base"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateOverlapChecked inserts a booking in a single transaction that
// serializes concurrent creations for the same professor (advisory lock on
// the professor id) and re-checks overlap against committed non-cancelled
// bookings before inserting. The bookings_no_overlap exclusion constraint
// backstops the check; either path surfaces as a conflict error so the
// caller can tell the user the slot is gone.
func (r *BookingRepository) CreateOverlapChecked(ctx context.Context, booking *model.Booking) error {
	err := base.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, booking.ProfessorID); err != nil {
			return fmt.Errorf("acquire professor lock: %w", err)
		}

		var overlapping int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*)
			FROM bookings
			WHERE professor_id = $1
			  AND status <> 'cancelled'
			  AND start_time < $3
			  AND end_time > $2
		`, booking.ProfessorID, booking.StartTime, booking.EndTime).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if overlapping > 0 {
			return apperr.Conflict("slot no longer available")
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (student_id, professor_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`, booking.StudentID, booking.ProfessorID, booking.StartTime, booking.EndTime, booking.Status).
			Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" { // exclusion_violation
			return apperr.Conflict("slot no longer available")
		}
		return err
	}

	return nil
}

// GetByID fetches a booking by id, nil when absent.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, student_id, professor_id, start_time, end_time, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.ProfessorID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// List returns bookings filtered by student and/or professor, joined with
// both parties' display names, ordered by start time.
func (r *BookingRepository) List(ctx context.Context, studentID, professorID *int64) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.student_id, b.professor_id, b.start_time, b.end_time,
		       b.status, b.created_at, b.updated_at,
		       s.name AS student_name, p.name AS professor_name
		FROM bookings b
		JOIN users s ON s.id = b.student_id
		JOIN users p ON p.id = b.professor_id
		WHERE ($1::bigint IS NULL OR b.student_id = $1)
		  AND ($2::bigint IS NULL OR b.professor_id = $2)
		ORDER BY b.start_time
	`

	rows, err := r.pool.Query(ctx, query, studentID, professorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.ProfessorID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.StudentName,
			&booking.ProfessorName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

// GetActiveInRange loads the professor's non-cancelled bookings whose start
// date falls within [from, to]; this is the slot generator's collision set.
func (r *BookingRepository) GetActiveInRange(ctx context.Context, professorID int64, from, to time.Time) ([]model.Booking, error) {
	query := `
		SELECT id, student_id, professor_id, start_time, end_time, status, created_at, updated_at
		FROM bookings
		WHERE professor_id = $1
		  AND status <> 'cancelled'
		  AND start_time::date BETWEEN $2::date AND $3::date
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, professorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get active bookings in range: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.ProfessorID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// UpdateStatus sets a booking's status and returns the updated row, nil
// when the booking does not exist.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, student_id, professor_id, start_time, end_time, status, created_at, updated_at
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.ProfessorID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return &booking, nil
}

// CountAcceptedLessons counts a professor's accepted bookings, and
// CountDistinctStudents how many different students they taught; both feed
// the public profile stats.
func (r *BookingRepository) CountAcceptedLessons(ctx context.Context, professorID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE professor_id = $1 AND status = 'accepted'
	`, professorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accepted lessons: %w", err)
	}
	return count, nil
}

func (r *BookingRepository) CountDistinctStudents(ctx context.Context, professorID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT student_id) FROM bookings WHERE professor_id = $1 AND status = 'accepted'
	`, professorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count distinct students: %w", err)
	}
	return count, nil
}

// CountUpcoming counts a student's bookings starting at or after now.
func (r *BookingRepository) CountUpcoming(ctx context.Context, studentID int64, now time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE student_id = $1 AND start_time >= $2
	`, studentID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count upcoming bookings: %w", err)
	}
	return count, nil
}
