package service

import (
	"context"
	"fmt"
	"time"

	"career-compass/internal/config"
	"career-compass/internal/domain"
	"career-compass/internal/logger"
	"career-compass/internal/metrics"
	"career-compass/internal/util"

	"go.uber.org/zap"
)

// SkillStateUpdater folds a scored result into the user's rolling skill state.
// Each attempt runs in one transaction holding the row lock of the
// (user, skill) pair; conflicts are retried with exponential backoff.
type SkillStateUpdater struct {
	tm         domain.TransactionManager
	repo       domain.SkillStateRepository
	clock      domain.Clock
	metrics    *metrics.Metrics
	maxRetries int
	backoff    time.Duration
	newID      func() string
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewSkillStateUpdater(
	tm domain.TransactionManager,
	repo domain.SkillStateRepository,
	clock domain.Clock,
	cfg config.AssessmentConfig,
	m *metrics.Metrics,
) *SkillStateUpdater {
	return &SkillStateUpdater{
		tm:         tm,
		repo:       repo,
		clock:      clock,
		metrics:    m,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		newID:      util.NewULID,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Apply inserts the state with confidence 1, or overwrites score and level and
// increments confidence. A result whose SubmissionID was applied to the pair
// before, at any earlier point, returns the row unchanged.
func (u *SkillStateUpdater) Apply(ctx context.Context, userID string, result *domain.SkillResult) (*domain.UserSkillState, error) {
	for attempt := 0; ; attempt++ {
		state, err := u.applyOnce(ctx, userID, result)
		if err == nil {
			return state, nil
		}
		if !domain.HasCode(err, domain.CodeConcurrencyConflict) {
			if domain.ErrorCodeOf(err) == "" {
				err = domain.NewPersistenceError("failed to update skill state", err)
			}
			return nil, err
		}
		if attempt >= u.maxRetries {
			return nil, domain.NewPersistenceError(
				fmt.Sprintf("skill state update still conflicting after %d retries", u.maxRetries), err).
				WithContext("skill_id", result.SkillID)
		}

		wait := u.backoff << attempt
		u.metrics.IncStateRetry()
		logger.Get().Warn("Retrying skill state update after conflict",
			zap.String("user_id", userID),
			zap.String("skill_id", result.SkillID),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if err := u.sleep(ctx, wait); err != nil {
			return nil, domain.NewPersistenceError("skill state update cancelled", err)
		}
	}
}

func (u *SkillStateUpdater) applyOnce(ctx context.Context, userID string, result *domain.SkillResult) (*domain.UserSkillState, error) {
	var state *domain.UserSkillState
	err := u.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := u.repo.GetForUpdate(txCtx, userID, result.SkillID)
		if err != nil {
			return err
		}

		applied := false
		if result.SubmissionID != "" {
			applied, err = u.repo.IsSubmissionApplied(txCtx, userID, result.SkillID, result.SubmissionID)
			if err != nil {
				return err
			}
			if applied && existing != nil {
				state = existing
				return nil
			}
		}
		now := u.clock.Now()

		if existing == nil {
			state = &domain.UserSkillState{
				ID:               u.newID(),
				UserID:           userID,
				SkillID:          result.SkillID,
				Score:            result.Percentage,
				Level:            result.Level,
				Confidence:       1,
				LastAssessed:     now,
				LastSubmissionID: result.SubmissionID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			err = u.repo.Create(txCtx, state)
		} else {
			existing.Score = result.Percentage
			existing.Level = result.Level
			existing.Confidence++
			existing.LastAssessed = now
			existing.LastSubmissionID = result.SubmissionID
			existing.UpdatedAt = now
			state = existing
			err = u.repo.Update(txCtx, existing)
		}
		if err != nil || result.SubmissionID == "" || applied {
			return err
		}
		return u.repo.MarkSubmissionApplied(txCtx, userID, result.SkillID, result.SubmissionID, now)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
