package service

import (
	"context"

	"github.com/edulane/tutora-backend/internal/model"
	"github.com/edulane/tutora-backend/internal/repository"
)

// UserService handles account business logic.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a teacher or student account with a pre-hashed password.
func (s *UserService) Register(ctx context.Context, u *model.User) error {
	return s.userRepo.Create(ctx, u)
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *model.UpdateProfileRequest) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if req.Timezone != "" {
		u.Timezone = req.Timezone
	}
	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListTeachers retrieves all tutor profiles for browsing.
func (s *UserService) ListTeachers(ctx context.Context) ([]model.User, error) {
	teachers, err := s.userRepo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []model.User{}
	}
	return teachers, nil
}
