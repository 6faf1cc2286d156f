package service

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/util"
)

// AssessmentRecorder appends one history row per scored skill. It is not
// idempotent: recording the same result twice stores two rows.
type AssessmentRecorder struct {
	repo  domain.AssessmentRepository
	clock domain.Clock
	newID func() string
}

func NewAssessmentRecorder(repo domain.AssessmentRepository, clock domain.Clock) *AssessmentRecorder {
	return &AssessmentRecorder{repo: repo, clock: clock, newID: util.NewULID}
}

func (r *AssessmentRecorder) Record(ctx context.Context, userID string, result *domain.SkillResult) (*domain.AssessmentRecord, error) {
	record := domain.NewAssessmentRecord(r.newID(), userID, result, r.clock.Now())
	if err := r.repo.CreateRecord(ctx, record); err != nil {
		return nil, domain.NewPersistenceError("failed to store assessment record", err).
			WithContext("skill_id", result.SkillID)
	}
	return record, nil
}
