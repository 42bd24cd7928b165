package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/repository"
)

const (
	avatarSize     = 256
	searchPageSize = 25
)

// UserService serves public profiles and the owner-side profile editing:
// simple fields, the multi-valued lists, and avatar upload.
type UserService struct {
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	socialRepo  *repository.SocialRepository
	avatarDir   string
	logger      *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
	socialRepo *repository.SocialRepository,
	avatarDir string,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		socialRepo:  socialRepo,
		avatarDir:   avatarDir,
		logger:      logger,
	}
}

// ProfileDetail is the full public profile: the user row, the list fields,
// and the aggregate stats shown on the profile page.
type ProfileDetail struct {
	User          *model.User         `json:"user"`
	Lists         *model.ProfileLists `json:"lists"`
	Followers     int                 `json:"followers"`
	IsFollowing   bool                `json:"is_following"`
	LessonsTaught int                 `json:"lessons_taught,omitempty"`
	Students      int                 `json:"students,omitempty"`
	Rating        float64             `json:"rating,omitempty"`
	Reviews       []*model.Review     `json:"reviews,omitempty"`
	Progress      *model.Progress     `json:"progress,omitempty"`
}

// GetProfile aggregates everything the profile page needs in one call.
// Professor profiles additionally carry teaching stats and reviews;
// student profiles carry learning progress. viewerID is the authenticated
// caller, used only for the is_following flag (0 for anonymous).
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID int64) (*ProfileDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	lists, err := s.userRepo.GetLists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile lists: %w", err)
	}

	followers, err := s.socialRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}

	detail := &ProfileDetail{
		User:      user,
		Lists:     lists,
		Followers: followers,
	}

	if viewerID != 0 && viewerID != userID {
		if detail.IsFollowing, err = s.socialRepo.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, fmt.Errorf("check following: %w", err)
		}
	}

	if user.IsProfessor() {
		if detail.LessonsTaught, err = s.bookingRepo.CountAcceptedLessons(ctx, userID); err != nil {
			return nil, fmt.Errorf("count lessons: %w", err)
		}
		if detail.Students, err = s.bookingRepo.CountDistinctStudents(ctx, userID); err != nil {
			return nil, fmt.Errorf("count students: %w", err)
		}
		if detail.Rating, err = s.socialRepo.AverageRating(ctx, userID); err != nil {
			return nil, fmt.Errorf("average rating: %w", err)
		}
		if detail.Reviews, err = s.socialRepo.ListReviews(ctx, userID); err != nil {
			return nil, fmt.Errorf("list reviews: %w", err)
		}
	} else {
		progress, err := s.socialRepo.GetProgress(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get progress: %w", err)
		}
		if progress == nil {
			progress = &model.Progress{StudentID: userID}
		}
		detail.Progress = progress
	}

	return detail, nil
}

// UpdateProfile applies the present simple fields to the caller's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd repository.ProfileUpdate) (*model.User, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, upd); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ReplaceList swaps one of the caller's multi-valued profile fields.
func (s *UserService) ReplaceList(ctx context.Context, userID int64, field string, values []string) error {
	if values == nil {
		values = []string{}
	}
	if err := s.userRepo.ReplaceList(ctx, userID, field, values); err != nil {
		return apperr.Wrap(apperr.KindValidation, err, "replace profile list")
	}
	return nil
}

// SaveAvatar decodes the uploaded image, crops it to a square thumbnail
// and stores it under the public avatar directory. Returns the public URL.
func (s *UserService) SaveAvatar(ctx context.Context, userID int64, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, err, "decode avatar image")
	}

	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	filename := fmt.Sprintf("%d_%d.png", userID, time.Now().Unix())
	if err := imaging.Save(thumb, filepath.Join(s.avatarDir, filename)); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}

	url := "/avatars/" + filename
	if err := s.userRepo.SetAvatarURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("set avatar url: %w", err)
	}

	s.logger.Info("Avatar updated", zap.Int64("user_id", userID))

	return url, nil
}

// Search finds users by name, optionally restricted to a role.
func (s *UserService) Search(ctx context.Context, nameQuery string, roleFilter string) ([]*model.User, error) {
	var role *model.Role
	if roleFilter != "" {
		if !model.ValidRole(roleFilter) {
			return nil, apperr.Validation("unknown role %q", roleFilter)
		}
		r := model.Role(roleFilter)
		role = &r
	}

	users, err := s.userRepo.Search(ctx, nameQuery, role, searchPageSize)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}
