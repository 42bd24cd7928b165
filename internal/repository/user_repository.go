package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository/base"
)

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email already in use")

const userColumns = `id, name, email, password_hash, role, bio, nationality, timezone,
	avatar_url, video_url, price, level, stripe_account_id, stripe_account_status,
	stripe_payout_ready, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Bio,
		&user.Nationality,
		&user.Timezone,
		&user.AvatarURL,
		&user.VideoURL,
		&user.Price,
		&user.Level,
		&user.StripeAccountID,
		&user.StripeAccountStatus,
		&user.StripePayoutReady,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email maps to ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Timezone,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID fetches a user by id, nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail fetches a user by email, nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// GetByStripeAccountID resolves the user owning a connected payment account.
func (r *UserRepository) GetByStripeAccountID(ctx context.Context, accountID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_account_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by stripe account: %w", err)
	}

	return user, nil
}

// ProfileUpdate carries the optional simple profile fields; nil means
// "leave unchanged", mirroring field presence in the request body.
type ProfileUpdate struct {
	Bio         *string
	Nationality *string
	Price       *int
	Level       *string
	VideoURL    *string
}

// UpdateProfile applies the non-nil fields of upd to the user row.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	query := `
		UPDATE users
		SET bio         = COALESCE($1, bio),
		    nationality = COALESCE($2, nationality),
		    price       = COALESCE($3, price),
		    level       = COALESCE($4, level),
		    video_url   = COALESCE($5, video_url)
		WHERE id = $6
	`

	tag, err := r.pool.Exec(ctx, query, upd.Bio, upd.Nationality, upd.Price, upd.Level, upd.VideoURL, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// SetAvatarURL stores the public path of the processed avatar image.
func (r *UserRepository) SetAvatarURL(ctx context.Context, userID int64, url string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET avatar_url = $1 WHERE id = $2`, url, userID)
	if err != nil {
		return fmt.Errorf("set avatar url: %w", err)
	}
	return nil
}

// SetStripeAccount records the freshly created connected account.
func (r *UserRepository) SetStripeAccount(ctx context.Context, userID int64, accountID, status string) error {
	query := `
		UPDATE users
		SET stripe_account_id = $1, stripe_account_status = $2
		WHERE id = $3
	`

	_, err := r.pool.Exec(ctx, query, accountID, status, userID)
	if err != nil {
		return fmt.Errorf("set stripe account: %w", err)
	}
	return nil
}

// SetStripeStatus updates verification state from webhook events.
func (r *UserRepository) SetStripeStatus(ctx context.Context, userID int64, status string, payoutReady bool) error {
	query := `
		UPDATE users
		SET stripe_account_status = $1, stripe_payout_ready = $2
		WHERE id = $3
	`

	_, err := r.pool.Exec(ctx, query, status, payoutReady, userID)
	if err != nil {
		return fmt.Errorf("set stripe status: %w", err)
	}
	return nil
}

// Search finds users by case-insensitive name substring, optionally
// restricted to a role.
func (r *UserRepository) Search(ctx context.Context, nameQuery string, role *model.Role, limit int) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE name ILIKE '%' || $1 || '%'
		  AND ($2::text IS NULL OR role = $2)
		ORDER BY name
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, nameQuery, role, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// listTables maps each multi-valued profile field to its side table.
var listTables = map[string]string{
	"languages":      "user_languages",
	"specialties":    "user_specialties",
	"certifications": "user_certifications",
	"interests":      "user_interests",
}

// GetLists loads all multi-valued profile fields for a user.
func (r *UserRepository) GetLists(ctx context.Context, userID int64) (*model.ProfileLists, error) {
	lists := &model.ProfileLists{
		Languages:      []string{},
		Specialties:    []string{},
		Certifications: []string{},
		Interests:      []string{},
	}

	targets := map[string]*[]string{
		"languages":      &lists.Languages,
		"specialties":    &lists.Specialties,
		"certifications": &lists.Certifications,
		"interests":      &lists.Interests,
	}

	for field, table := range listTables {
		rows, err := r.pool.Query(ctx, `SELECT value FROM `+table+` WHERE user_id = $1 ORDER BY value`, userID)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", field, err)
		}

		for rows.Next() {
			var value string
			if err := rows.Scan(&value); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s: %w", field, err)
			}
			*targets[field] = append(*targets[field], value)
		}
		rows.Close()
	}

	return lists, nil
}

// ReplaceList swaps the full contents of one profile side table in a single
// transaction. A nil values slice is a caller bug; empty clears the list.
func (r *UserRepository) ReplaceList(ctx context.Context, userID int64, field string, values []string) error {
	table, ok := listTables[field]
	if !ok {
		return fmt.Errorf("unknown profile list %q", field)
	}

	return base.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear %s: %w", field, err)
		}
		for _, value := range values {
			if _, err := tx.Exec(ctx, `INSERT INTO `+table+` (user_id, value) VALUES ($1, $2)`, userID, value); err != nil {
				return fmt.Errorf("insert %s: %w", field, err)
			}
		}
		return nil
	})
}
