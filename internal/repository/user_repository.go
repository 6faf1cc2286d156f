package repository

import (
	"context"
	"database/sql"
	"errors"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, name, created_at, updated_at`

// UserRepository implements domain.UserRepository using sqlx.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name.String,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      util.StringToNullString(u.Name),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainUser(user)
	query := exec.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, m.ID, m.Email, m.Name, m.CreatedAt, m.UpdatedAt); err != nil {
		return classifyError("failed to create user", err)
	}
	return nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.User
	query := exec.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := exec.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("failed to get user by id", err)
	}
	return toDomainUser(&m), nil
}

// UpdateUser updates email and name.
func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainUser(user)
	query := exec.Rebind(`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?`)
	result, err := exec.ExecContext(ctx, query, m.Email, m.Name, m.UpdatedAt, m.ID)
	if err != nil {
		return classifyError("failed to update user", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return classifyError("failed to get rows affected for user update", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("user not found").WithContext("user_id", user.ID)
	}
	return nil
}
