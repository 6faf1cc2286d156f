package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

func TestToDomainUser(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := &models.User{
		ID:        "user1",
		Email:     "test@example.com",
		Name:      sql.NullString{String: "Test User", Valid: true},
		CreatedAt: now,
		UpdatedAt: now,
	}

	u := toDomainUser(m)
	assert.Equal(t, "user1", u.ID)
	assert.Equal(t, "Test User", u.Name)
	assert.True(t, now.Equal(u.CreatedAt))

	m.Name.Valid = false
	assert.Equal(t, "", toDomainUser(m).Name)
	assert.Nil(t, toDomainUser(nil))

	back := fromDomainUser(&domain.User{ID: "u", Email: "e@x.io"})
	assert.False(t, back.Name.Valid)
	assert.Nil(t, fromDomainUser(nil))
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(db)
	now := time.Now()
	user := domain.NewUser("user1", "a@b.io", "Ann", now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)")).
		WithArgs("user1", "a@b.io", sql.NullString{String: "Ann", Valid: true}, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_Error(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("ORA-00001: unique constraint violated"))

	err := repo.CreateUser(context.Background(), domain.NewUser("u", "a@b.io", "", time.Now()))
	assert.True(t, domain.HasCode(err, domain.CodeConcurrencyConflict))
}

func TestUserRepository_GetUserByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}).
			AddRow("user1", "a@b.io", "Ann", now, now)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, created_at, updated_at FROM users WHERE id = ?")).
			WithArgs("user1").
			WillReturnRows(rows)

		user, err := repo.GetUserByID(context.Background(), "user1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", user.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByID(context.Background(), "ghost")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(errors.New("boom"))

		_, err := repo.GetUserByID(context.Background(), "user1")
		assert.True(t, domain.HasCode(err, domain.CodePersistence))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUser(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(db)
	user := domain.NewUser("user1", "new@b.io", "Ann", time.Now())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?")).
		WithArgs("new@b.io", sqlmock.AnyArg(), sqlmock.AnyArg(), "user1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateUser(context.Background(), user))

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateUser(context.Background(), user)
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
