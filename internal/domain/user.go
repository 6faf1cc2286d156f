package domain

import (
	"context"
	"strings"
	"time"
)

// User represents a registered learner. The ID is the subject of the
// verified access token.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new User instance
func NewUser(id, email, name string, now time.Time) *User {
	return &User{
		ID:        id,
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(u.ID) == "" {
		errs = append(errs, NewMissingFieldError("id"))
	}
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}
