package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-compass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededHistory(order []int) *memoryAssessmentRepo {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	scores := []domain.Percentage{40, 65, 90}
	repo := newMemoryAssessmentRepo()
	for _, i := range order {
		_ = repo.CreateRecord(context.Background(), &domain.AssessmentRecord{
			ID:           "rec-" + string(rune('a'+i)),
			UserID:       "7",
			SkillID:      "3",
			SubmissionID: "sub-" + string(rune('a'+i)),
			Percentage:   scores[i],
			Level:        domain.LevelFor(scores[i]),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	return repo
}

func TestReconciler_ReconcileUser_MostRecentWins(t *testing.T) {
	ctx := context.Background()
	for _, order := range [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}} {
		states := newMemoryStateRepo()
		reconciler := NewReconciler(&lockingTxManager{}, seededHistory(order), states, newStepClock())

		n, err := reconciler.ReconcileUser(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		state := states.get("7", "3")
		require.NotNil(t, state)
		assert.Equal(t, domain.Percentage(90), state.Score)
		assert.Equal(t, domain.LevelAdvanced, state.Level)
		assert.Equal(t, 3, state.Confidence)
		assert.Equal(t, "sub-c", state.LastSubmissionID)
		assert.Equal(t, time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC), state.LastAssessed)
	}
}

func TestReconciler_ReconcileUser_KeepsHigherConfidence(t *testing.T) {
	ctx := context.Background()
	states := newMemoryStateRepo()
	require.NoError(t, states.Create(ctx, &domain.UserSkillState{
		ID: "st", UserID: "7", SkillID: "3", Score: 10, Level: domain.LevelBeginner, Confidence: 5,
	}))
	reconciler := NewReconciler(&lockingTxManager{}, seededHistory([]int{0, 1, 2}), states, newStepClock())

	_, err := reconciler.ReconcileUser(ctx, "7")
	require.NoError(t, err)

	state := states.get("7", "3")
	assert.Equal(t, 5, state.Confidence)
	assert.Equal(t, domain.Percentage(90), state.Score)
	assert.Equal(t, "st", state.ID)
}

func TestReconciler_ReconcileUser_RepeatedSubmissionCountsOnce(t *testing.T) {
	ctx := context.Background()
	history := seededHistory([]int{0})
	// a retried submission left a second row for sub-a
	require.NoError(t, history.CreateRecord(ctx, &domain.AssessmentRecord{
		ID: "rec-a2", UserID: "7", SkillID: "3", SubmissionID: "sub-a",
		Percentage: 40, Level: domain.LevelBeginner,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 1, 0, time.UTC),
	}))
	states := newMemoryStateRepo()
	reconciler := NewReconciler(&lockingTxManager{}, history, states, newStepClock())

	_, err := reconciler.ReconcileUser(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, states.get("7", "3").Confidence)

	_, err = reconciler.ReconcileUser(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, states.get("7", "3").Confidence)
}

func TestReconciler_ReconcileUser_MarksHistoryApplied(t *testing.T) {
	ctx := context.Background()
	states := newMemoryStateRepo()
	reconciler := NewReconciler(&lockingTxManager{}, seededHistory([]int{0, 1, 2}), states, newStepClock())

	_, err := reconciler.ReconcileUser(ctx, "7")
	require.NoError(t, err)
	require.Equal(t, 3, states.get("7", "3").Confidence)

	// a late retry of a submission the reconciler already counted
	updater, _ := newTestUpdater(states, 3)
	state, err := updater.Apply(ctx, "7", skillResult("3", "sub-b", 65))
	require.NoError(t, err)
	assert.Equal(t, 3, state.Confidence)
	assert.Equal(t, domain.Percentage(90), state.Score)
}

func TestReconciler_ReconcileUser_NoHistory(t *testing.T) {
	reconciler := NewReconciler(&lockingTxManager{}, newMemoryAssessmentRepo(), newMemoryStateRepo(), newStepClock())
	n, err := reconciler.ReconcileUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconciler_ReconcileAll(t *testing.T) {
	ctx := context.Background()
	history := seededHistory([]int{0, 1, 2})
	require.NoError(t, history.CreateRecord(ctx, &domain.AssessmentRecord{
		ID: "rec-x", UserID: "8", SkillID: "3", Percentage: 20, Level: domain.LevelBeginner,
		CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, history.CreateRecord(ctx, &domain.AssessmentRecord{
		ID: "rec-y", UserID: "9", SkillID: "3", Percentage: 20, Level: domain.LevelBeginner,
		CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}))
	states := newMemoryStateRepo()
	reconciler := NewReconciler(&lockingTxManager{}, history, states, newStepClock())

	resp, err := reconciler.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UsersReconciled)
	assert.Equal(t, 3, resp.StatesUpdated)
	assert.Empty(t, resp.FailedUsers)

	// user 7 is reconciled first and fails
	states = newMemoryStateRepo()
	reconciler = NewReconciler(&lockingTxManager{}, history, states, newStepClock())
	states.getErrs = []error{errors.New("connection reset")}

	resp, err = reconciler.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.UsersReconciled)
	assert.Equal(t, []string{"7"}, resp.FailedUsers)
	assert.Nil(t, states.get("7", "3"))
	assert.NotNil(t, states.get("8", "3"))
}
