package service

import (
	"context"
	"sort"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/util"

	"go.uber.org/zap"
)

// Reconciler rebuilds skill state from the assessment history. It repairs
// states left behind when a request died between recording and applying.
type Reconciler struct {
	tm          domain.TransactionManager
	assessments domain.AssessmentRepository
	states      domain.SkillStateRepository
	clock       domain.Clock
	newID       func() string
}

func NewReconciler(tm domain.TransactionManager, assessments domain.AssessmentRepository, states domain.SkillStateRepository, clock domain.Clock) *Reconciler {
	return &Reconciler{tm: tm, assessments: assessments, states: states, clock: clock, newID: util.NewULID}
}

// ReconcileUser sets each state to its skill's latest record, most recent
// wins. Confidence becomes max(current, number of distinct submissions), and
// every submission in the history is marked applied so a later retry of one
// does not count it again. It returns the number of states written.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID string) (int, error) {
	records, err := r.assessments.ListAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	latest := domain.LatestPerSkill(records)
	submissions := domain.SubmissionsPerSkill(records)

	skillIDs := make([]string, 0, len(latest))
	for skillID := range latest {
		skillIDs = append(skillIDs, skillID)
	}
	sort.Strings(skillIDs)

	written := 0
	for _, skillID := range skillIDs {
		rec := latest[skillID]
		err := r.tm.WithTransaction(ctx, func(txCtx context.Context) error {
			existing, err := r.states.GetForUpdate(txCtx, userID, skillID)
			if err != nil {
				return err
			}
			now := r.clock.Now()
			count := len(submissions[skillID])
			if existing == nil {
				err = r.states.Create(txCtx, &domain.UserSkillState{
					ID:               r.newID(),
					UserID:           userID,
					SkillID:          skillID,
					Score:            rec.Percentage,
					Level:            rec.Level,
					Confidence:       count,
					LastAssessed:     rec.CreatedAt,
					LastSubmissionID: rec.SubmissionID,
					CreatedAt:        now,
					UpdatedAt:        now,
				})
			} else {
				existing.Score = rec.Percentage
				existing.Level = rec.Level
				existing.LastAssessed = rec.CreatedAt
				existing.LastSubmissionID = rec.SubmissionID
				if count > existing.Confidence {
					existing.Confidence = count
				}
				existing.UpdatedAt = now
				err = r.states.Update(txCtx, existing)
			}
			if err != nil {
				return err
			}
			return r.markApplied(txCtx, userID, skillID, submissions[skillID], now)
		})
		if err != nil {
			return written, err
		}
		written++
	}

	logger.Get().Info("Reconciled skill states", zap.String("user_id", userID), zap.Int("states", written))
	return written, nil
}

// markApplied skips IDs already marked. Records without a submission ID are
// marked under their own record ID.
func (r *Reconciler) markApplied(ctx context.Context, userID, skillID string, submissionIDs []string, at time.Time) error {
	for _, submissionID := range submissionIDs {
		applied, err := r.states.IsSubmissionApplied(ctx, userID, skillID, submissionID)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := r.states.MarkSubmissionApplied(ctx, userID, skillID, submissionID, at); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileAll reconciles every user with history. A failing user is logged
// and reported; the remaining users are still processed.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*dto.ReconcileResponse, error) {
	userIDs, err := r.assessments.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReconcileResponse{}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		n, err := r.ReconcileUser(ctx, userID)
		resp.StatesUpdated += n
		if err != nil {
			logger.Get().Error("Failed to reconcile user", zap.String("user_id", userID), zap.Error(err))
			resp.FailedUsers = append(resp.FailedUsers, userID)
			continue
		}
		resp.UsersReconciled++
	}
	return resp, nil
}
