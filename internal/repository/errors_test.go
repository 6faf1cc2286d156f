package repository

import (
	"errors"
	"fmt"
	"testing"

	"career-compass/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg serialization wrapped", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"}), true},
		{"pg lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"pg check violation", &pgconn.PgError{Code: "23514"}, false},
		{"oracle unique", errors.New("ORA-00001: unique constraint (COMPASS.UQ_USER_SKILL_STATES_USER_SKILL) violated"), true},
		{"oracle deadlock", errors.New("ORA-00060: deadlock detected while waiting for resource"), true},
		{"oracle other", errors.New("ORA-00942: table or view does not exist"), false},
		{"plain", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
}

func TestClassifyError(t *testing.T) {
	assert.Nil(t, classifyError("x", nil))

	err := classifyError("failed to insert", &pgconn.PgError{Code: "23505"})
	assert.True(t, domain.HasCode(err, domain.CodeConcurrencyConflict))

	err = classifyError("failed to insert", errors.New("broken pipe"))
	assert.True(t, domain.HasCode(err, domain.CodePersistence))

	notFound := domain.NewNotFoundError("missing")
	assert.Same(t, notFound, classifyError("ignored", notFound))
}
