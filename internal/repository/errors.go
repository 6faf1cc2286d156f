package repository

import (
	"errors"
	"strings"

	"career-compass/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var pgConflictCodes = map[string]struct{}{
	"23505": {}, // unique_violation
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

var oracleConflictCodes = []string{
	"ORA-00001", // unique constraint violated
	"ORA-00060", // deadlock detected
	"ORA-08177", // can't serialize access
	"ORA-30006", // resource busy; WAIT timeout expired
}

// IsConflict reports whether err is a uniqueness, serialization, deadlock or
// lock timeout failure from either supported driver.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := pgConflictCodes[pgErr.Code]
		return ok
	}
	msg := err.Error()
	for _, code := range oracleConflictCodes {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

// classifyError wraps a driver error as a domain error. Errors that are
// already domain errors pass through.
func classifyError(message string, err error) error {
	if err == nil {
		return nil
	}
	if domain.ErrorCodeOf(err) != "" {
		return err
	}
	if IsConflict(err) {
		return domain.NewConcurrencyConflictError(message, err)
	}
	return domain.NewPersistenceError(message, err)
}
