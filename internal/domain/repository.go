package domain

import (
	"context"
	"time"
)

// TransactionManager runs fn inside one database transaction. Repositories
// called with the ctx passed to fn take part in that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AssessmentRepository persists the append-only assessment history.
type AssessmentRepository interface {
	// CreateRecord inserts one row in a single statement.
	CreateRecord(ctx context.Context, record *AssessmentRecord) error
	// ListLatestByUser returns the newest record of each skill the user was assessed on.
	ListLatestByUser(ctx context.Context, userID string) ([]*AssessmentRecord, error)
	// ListByUser returns a page of records, newest first, and the total count.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AssessmentRecord, int, error)
	// ListAllByUser returns every record of the user in storage order.
	ListAllByUser(ctx context.Context, userID string) ([]*AssessmentRecord, error)
	// ListUserIDs returns every user that has at least one record.
	ListUserIDs(ctx context.Context) ([]string, error)
	// HasSubmission reports whether a record of the submission exists for the skill.
	HasSubmission(ctx context.Context, userID, skillID, submissionID string) (bool, error)
}

// SkillStateRepository persists UserSkillState rows.
type SkillStateRepository interface {
	// GetForUpdate locks and returns the (user, skill) row, or nil when absent.
	// It must be called inside a transaction.
	GetForUpdate(ctx context.Context, userID, skillID string) (*UserSkillState, error)
	// Create inserts a new row. A second row for the same pair fails with a
	// CodeConcurrencyConflict error.
	Create(ctx context.Context, state *UserSkillState) error
	Update(ctx context.Context, state *UserSkillState) error
	ListByUser(ctx context.Context, userID string) ([]*UserSkillState, error)
	// IsSubmissionApplied reports whether the submission was already folded
	// into the (user, skill) state.
	IsSubmissionApplied(ctx context.Context, userID, skillID, submissionID string) (bool, error)
	// MarkSubmissionApplied records the submission as folded into the state.
	// Marking it twice fails with a CodeConcurrencyConflict error.
	MarkSubmissionApplied(ctx context.Context, userID, skillID, submissionID string, at time.Time) error
}
