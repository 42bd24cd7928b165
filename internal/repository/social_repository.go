package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository/base"
)

// ErrDuplicateReview is returned when a student reviews the same professor twice.
var ErrDuplicateReview = errors.New("review already exists")

// SocialRepository covers the feed: posts, follows, reviews and progress.
type SocialRepository struct {
	pool *pgxpool.Pool
}

func NewSocialRepository(pool *pgxpool.Pool) *SocialRepository {
	return &SocialRepository{pool: pool}
}

// --- posts ---

func (r *SocialRepository) CreatePost(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (author_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, post.AuthorID, post.Content).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// Feed returns the latest posts authored by the user or by anyone they
// follow, newest first.
func (r *SocialRepository) Feed(ctx context.Context, userID int64, limit int) ([]*model.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.content, p.created_at, u.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		   OR p.author_id IN (SELECT following_id FROM follows WHERE follower_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt, &post.AuthorName)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &post)
	}

	return posts, nil
}

// ListPostsByAuthor returns one user's posts newest first.
func (r *SocialRepository) ListPostsByAuthor(ctx context.Context, authorID int64, limit int) ([]*model.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.content, p.created_at, u.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt, &post.AuthorName)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &post)
	}

	return posts, nil
}

// --- follows ---

// Follow is idempotent; following someone twice is a no-op.
func (r *SocialRepository) Follow(ctx context.Context, followerID, followingID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (r *SocialRepository) Unfollow(ctx context.Context, followerID, followingID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (r *SocialRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

// ListFollowing returns the users someone follows, ordered by name.
func (r *SocialRepository) ListFollowing(ctx context.Context, followerID int64) ([]*model.User, error) {
	query := `
		SELECT u.id, u.name, u.role, u.bio, u.avatar_url, u.price, u.level
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY u.name
	`

	rows, err := r.pool.Query(ctx, query, followerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(&user.ID, &user.Name, &user.Role, &user.Bio, &user.AvatarURL, &user.Price, &user.Level)
		if err != nil {
			return nil, fmt.Errorf("scan followed user: %w", err)
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *SocialRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)
	`, followerID, followingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return exists, nil
}

// --- reviews ---

// CreateReview inserts a review; the (student, professor) pair is unique.
func (r *SocialRepository) CreateReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (student_id, professor_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, review.StudentID, review.ProfessorID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// ListReviews returns a professor's reviews newest first, with the
// reviewer's display name.
func (r *SocialRepository) ListReviews(ctx context.Context, professorID int64) ([]*model.Review, error) {
	query := `
		SELECT rv.id, rv.student_id, rv.professor_id, rv.rating, rv.comment, rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.student_id
		WHERE rv.professor_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.StudentID,
			&review.ProfessorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

// AverageRating computes the professor's mean rating; 0 with no reviews.
func (r *SocialRepository) AverageRating(ctx context.Context, professorID int64) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE professor_id = $1
	`, professorID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

// --- progress ---

// GetProgress fetches a student's progress, nil when never recorded.
func (r *SocialRepository) GetProgress(ctx context.Context, studentID int64) (*model.Progress, error) {
	query := `
		SELECT student_id, level, streak, minutes_total
		FROM progress
		WHERE student_id = $1
	`

	var p model.Progress
	err := r.pool.QueryRow(ctx, query, studentID).
		Scan(&p.StudentID, &p.Level, &p.Streak, &p.MinutesTotal)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return &p, nil
}

// UpsertProgress writes the student's progress row, creating it on first use.
func (r *SocialRepository) UpsertProgress(ctx context.Context, p *model.Progress) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO progress (student_id, level, streak, minutes_total)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id) DO UPDATE
		SET level = EXCLUDED.level, streak = EXCLUDED.streak, minutes_total = EXCLUDED.minutes_total
	`, p.StudentID, p.Level, p.Streak, p.MinutesTotal)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}
