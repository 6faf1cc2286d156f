package dto

import (
	"time"

	"career-compass/internal/domain"
)

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest creates the profile on first use.
// @Description Request body for creating or updating the caller's profile
type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name,omitempty" validate:"max=255"`
}

func ToUserProfileResponse(u *domain.User) *UserProfileResponse {
	return &UserProfileResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}
