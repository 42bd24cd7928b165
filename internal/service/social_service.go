package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
)

const (
	feedPageSize   = 50
	maxPostLength  = 2000
	maxCommentSize = 2000
)

// SocialService covers the community surface: posts and the follow feed,
// professor reviews, and student progress tracking.
type SocialService struct {
	socialRepo  *repository.SocialRepository
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	logger      *zap.Logger
}

func NewSocialService(
	socialRepo *repository.SocialRepository,
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
	logger *zap.Logger,
) *SocialService {
	return &SocialService{
		socialRepo:  socialRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// --- posts ---

func (s *SocialService) CreatePost(ctx context.Context, authorID int64, content string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("post is empty")
	}
	if len(content) > maxPostLength {
		return nil, apperr.Validation("post too long")
	}

	post := &model.Post{AuthorID: authorID, Content: content}
	if err := s.socialRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// Feed returns the caller's timeline: own posts plus everyone they follow.
func (s *SocialService) Feed(ctx context.Context, userID int64) ([]*model.Post, error) {
	posts, err := s.socialRepo.Feed(ctx, userID, feedPageSize)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return posts, nil
}

// PostsByUser returns one user's posts for their profile page.
func (s *SocialService) PostsByUser(ctx context.Context, authorID int64) ([]*model.Post, error) {
	posts, err := s.socialRepo.ListPostsByAuthor(ctx, authorID, feedPageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// --- follows ---

func (s *SocialService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return apperr.Validation("cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if target == nil {
		return apperr.NotFound("user not found")
	}

	if err := s.socialRepo.Follow(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	s.logger.Info("User followed",
		zap.Int64("follower_id", followerID),
		zap.Int64("following_id", followingID),
	)

	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if err := s.socialRepo.Unfollow(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

// Following lists the users someone follows.
func (s *SocialService) Following(ctx context.Context, userID int64) ([]*model.User, error) {
	users, err := s.socialRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

// --- reviews ---

// AddReview lets a student review a professor they actually had an
// accepted lesson with. One review per pair.
func (s *SocialService) AddReview(ctx context.Context, studentID, professorID int64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentSize {
		return nil, apperr.Validation("comment too long")
	}

	professor, err := s.userRepo.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil || !professor.IsProfessor() {
		return nil, apperr.NotFound("professor not found")
	}

	lessons, err := s.bookingRepo.List(ctx, &studentID, &professorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	hadLesson := false
	for _, b := range lessons {
		if b.Status == model.BookingStatusAccepted {
			hadLesson = true
			break
		}
	}
	if !hadLesson {
		return nil, apperr.Forbidden("you can only review professors you had a lesson with")
	}

	review := &model.Review{
		StudentID:   studentID,
		ProfessorID: professorID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.socialRepo.CreateReview(ctx, review); err != nil {
		if err == repository.ErrDuplicateReview {
			return nil, apperr.Conflict("you already reviewed this professor")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

func (s *SocialService) ReviewsForProfessor(ctx context.Context, professorID int64) ([]*model.Review, error) {
	reviews, err := s.socialRepo.ListReviews(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// --- progress ---

// GetProgress returns a student's progress, zeroed on first read.
func (s *SocialService) GetProgress(ctx context.Context, studentID int64) (*model.Progress, error) {
	p, err := s.socialRepo.GetProgress(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if p == nil {
		p = &model.Progress{StudentID: studentID}
	}
	return p, nil
}

// RecordLesson bumps the student's progress counters after a lesson.
func (s *SocialService) RecordLesson(ctx context.Context, studentID int64, minutes int) (*model.Progress, error) {
	if minutes <= 0 {
		return nil, apperr.Validation("minutes must be positive")
	}

	p, err := s.GetProgress(ctx, studentID)
	if err != nil {
		return nil, err
	}

	p.MinutesTotal += minutes
	p.Streak++
	// Level up every ten hours of lessons.
	p.Level = p.MinutesTotal / 600

	if err := s.socialRepo.UpsertProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	return p, nil
}
