package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

const skillStateColumns = `id, user_id, skill_id, score, skill_level, confidence, last_assessed, last_submission_id, created_at, updated_at`

// SkillStateRepository implements domain.SkillStateRepository using sqlx.
type SkillStateRepository struct {
	db *sqlx.DB
}

func NewSkillStateRepository(db *sqlx.DB) *SkillStateRepository {
	return &SkillStateRepository{db: db}
}

func toDomainSkillState(m *models.UserSkillState) *domain.UserSkillState {
	return &domain.UserSkillState{
		ID:               m.ID,
		UserID:           m.UserID,
		SkillID:          m.SkillID,
		Score:            m.Score,
		Level:            domain.Level(m.Level),
		Confidence:       m.Confidence,
		LastAssessed:     m.LastAssessed,
		LastSubmissionID: m.LastSubmissionID.String,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// GetForUpdate takes a row lock held until the surrounding transaction ends.
func (r *SkillStateRepository) GetForUpdate(ctx context.Context, userID, skillID string) (*domain.UserSkillState, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.UserSkillState
	query := exec.Rebind(`SELECT ` + skillStateColumns + ` FROM user_skill_states WHERE user_id = ? AND skill_id = ? FOR UPDATE`)
	if err := exec.GetContext(ctx, &m, query, userID, skillID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("failed to lock skill state", err)
	}
	return toDomainSkillState(&m), nil
}

// Create fails with a concurrency conflict when the (user, skill) row already exists.
func (r *SkillStateRepository) Create(ctx context.Context, state *domain.UserSkillState) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO user_skill_states (` + skillStateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		state.ID, state.UserID, state.SkillID, state.Score, string(state.Level), state.Confidence,
		state.LastAssessed, util.StringToNullString(state.LastSubmissionID), state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return classifyError("failed to create skill state", err)
	}
	return nil
}

func (r *SkillStateRepository) Update(ctx context.Context, state *domain.UserSkillState) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE user_skill_states
		SET score = ?, skill_level = ?, confidence = ?, last_assessed = ?, last_submission_id = ?, updated_at = ?
		WHERE id = ?`)
	result, err := exec.ExecContext(ctx, query,
		state.Score, string(state.Level), state.Confidence, state.LastAssessed,
		util.StringToNullString(state.LastSubmissionID), state.UpdatedAt, state.ID)
	if err != nil {
		return classifyError("failed to update skill state", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return classifyError("failed to get rows affected for skill state update", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("skill state not found").WithContext("skill_id", state.SkillID)
	}
	return nil
}

// ListByUser returns the user's states ordered by skill ID.
func (r *SkillStateRepository) ListByUser(ctx context.Context, userID string) ([]*domain.UserSkillState, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.UserSkillState
	query := exec.Rebind(`SELECT ` + skillStateColumns + ` FROM user_skill_states WHERE user_id = ? ORDER BY skill_id`)
	if err := exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, classifyError("failed to list skill states", err)
	}
	states := make([]*domain.UserSkillState, 0, len(rows))
	for i := range rows {
		states = append(states, toDomainSkillState(&rows[i]))
	}
	return states, nil
}

func (r *SkillStateRepository) IsSubmissionApplied(ctx context.Context, userID, skillID, submissionID string) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	var n int
	query := exec.Rebind(`SELECT COUNT(*) FROM skill_state_submissions WHERE user_id = ? AND skill_id = ? AND submission_id = ?`)
	if err := exec.GetContext(ctx, &n, query, userID, skillID, submissionID); err != nil {
		return false, classifyError("failed to look up applied submission", err)
	}
	return n > 0, nil
}

// MarkSubmissionApplied relies on the primary key of skill_state_submissions;
// a second mark surfaces as a concurrency conflict.
func (r *SkillStateRepository) MarkSubmissionApplied(ctx context.Context, userID, skillID, submissionID string, at time.Time) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO skill_state_submissions (user_id, skill_id, submission_id, applied_at) VALUES (?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, userID, skillID, submissionID, at); err != nil {
		return classifyError("failed to mark submission applied", err)
	}
	return nil
}
