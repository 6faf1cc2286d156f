package service

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"

	"go.uber.org/zap"
)

// UserService manages the caller's profile. The user ID always comes from
// the verified token.
type UserService struct {
	users domain.UserRepository
	clock domain.Clock
}

func NewUserService(users domain.UserRepository, clock domain.Clock) *UserService {
	return &UserService{users: users, clock: clock}
}

// GetUserProfile retrieves a user's profile information.
func (s *UserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user profile not found").WithContext("user_id", userID)
	}
	return dto.ToUserProfileResponse(user), nil
}

// UpsertProfile creates the profile on first call and updates it afterwards.
func (s *UserService) UpsertProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, bool, error) {
	now := s.clock.Now()
	existing, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		user := domain.NewUser(userID, req.Email, req.Name, now)
		if err := user.Validate(); err != nil {
			return nil, false, err
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, false, err
		}
		logger.Get().Info("User profile created", zap.String("user_id", userID))
		return dto.ToUserProfileResponse(user), true, nil
	}

	updated := domain.NewUser(userID, req.Email, req.Name, existing.CreatedAt)
	updated.UpdatedAt = now
	if err := updated.Validate(); err != nil {
		return nil, false, err
	}
	if err := s.users.UpdateUser(ctx, updated); err != nil {
		return nil, false, err
	}
	return dto.ToUserProfileResponse(updated), false, nil
}
