package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-compass/internal/config"
	"career-compass/internal/domain"
	"career-compass/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type assessmentFixture struct {
	users       *MockUserRepository
	catalog     *MockCatalogRepository
	questions   *MockQuestionRepository
	assessments *memoryAssessmentRepo
	states      *memoryStateRepo
	service     *AssessmentService
}

func newAssessmentFixture() *assessmentFixture {
	f := &assessmentFixture{
		users:       new(MockUserRepository),
		catalog:     new(MockCatalogRepository),
		questions:   new(MockQuestionRepository),
		assessments: newMemoryAssessmentRepo(),
		states:      newMemoryStateRepo(),
	}
	clock := newStepClock()
	recorder := NewAssessmentRecorder(f.assessments, clock)
	recorder.newID = sequentialIDs("rec")
	updater := NewSkillStateUpdater(&lockingTxManager{}, f.states, clock,
		config.AssessmentConfig{MaxRetries: 2, RetryBackoff: 0}, nil)
	f.service = NewAssessmentService(
		f.users, f.catalog,
		NewQuestionBank(f.questions, nil, 0, nil),
		NewScorer(), recorder, updater,
		f.assessments, f.states, nil,
	)
	return f
}

func (f *assessmentFixture) withUser(userID string) {
	f.users.On("GetUserByID", mock.Anything, userID).
		Return(&domain.User{ID: userID, Email: userID + "@example.com"}, nil)
}

func (f *assessmentFixture) withSkill(skillID string) {
	f.catalog.On("GetSkillByID", mock.Anything, skillID).
		Return(&domain.Skill{ID: skillID, DomainID: "d1", Name: skillID}, nil)
	f.questions.On("GetQuestionsBySkill", mock.Anything, skillID).Return(sampleQuestions(skillID), nil)
}

func TestAssessmentService_Submit_SingleSkill(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("3")

	taken := 2 * time.Minute
	resp, err := f.service.Submit(ctx, "7", &domain.Submission{
		ID: "sub-1",
		Skills: []domain.SkillSubmission{{
			SkillID:   "3",
			Answers:   domain.SubmittedAnswers{"q1": "A", "q2": "B", "q3": "X", "q4": ""},
			TimeTaken: &taken,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "sub-1", resp.SubmissionID)
	assert.Equal(t, dto.SubmissionCompleted, resp.Status)
	require.Len(t, resp.Results, 1)
	item := resp.Results[0]
	assert.Equal(t, 4, item.TotalQuestions)
	assert.Equal(t, 2, item.CorrectCount)
	assert.Equal(t, domain.Percentage(50), item.Percentage)
	assert.Equal(t, domain.LevelIntermediate, item.Level)
	assert.Equal(t, dto.SkillStatusSucceeded, item.Status)
	assert.True(t, item.Recorded)
	assert.Equal(t, 1, item.Confidence)
	require.NotNil(t, item.TimeTakenSeconds)
	assert.Equal(t, int64(120), *item.TimeTakenSeconds)
	assert.Equal(t, domain.Percentage(50), resp.OverallPercentage)
	assert.Equal(t, domain.LevelIntermediate, resp.OverallLevel)

	require.Equal(t, 1, f.assessments.count())
	state := f.states.get("7", "3")
	require.NotNil(t, state)
	assert.Equal(t, domain.Percentage(50), state.Score)
	assert.Equal(t, 1, state.Confidence)
}

func TestAssessmentService_Submit_MultipleSkillsOverall(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	f.withSkill("s2")

	resp, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
		{SkillID: "s1", Answers: domain.SubmittedAnswers{"q1": "A", "q2": "B", "q3": "C", "q4": "D"}},
		{SkillID: "s2", Answers: domain.SubmittedAnswers{"q1": "A", "q2": "B"}},
	}})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SubmissionID)
	assert.Equal(t, dto.SubmissionCompleted, resp.Status)
	assert.Equal(t, domain.Percentage(75), resp.OverallPercentage)
	assert.Equal(t, domain.LevelIntermediate, resp.OverallLevel)
	assert.Equal(t, 2, f.assessments.count())
}

func TestAssessmentService_Submit_RepeatedSubmissionsAccumulate(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("3")

	for i, answers := range []domain.SubmittedAnswers{
		{"q1": "A"},
		{"q1": "A", "q2": "B", "q3": "C"},
	} {
		_, err := f.service.Submit(ctx, "7", &domain.Submission{
			ID:     "sub-" + string(rune('a'+i)),
			Skills: []domain.SkillSubmission{{SkillID: "3", Answers: answers}},
		})
		require.NoError(t, err)
	}

	state := f.states.get("7", "3")
	assert.Equal(t, 2, state.Confidence)
	assert.Equal(t, domain.Percentage(75), state.Score)
	assert.Equal(t, 2, f.assessments.count())
}

func TestAssessmentService_Submit_RetrySameIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("3")
	submission := &domain.Submission{
		ID:     "idem-1",
		Skills: []domain.SkillSubmission{{SkillID: "3", Answers: domain.SubmittedAnswers{"q1": "A", "q2": "B"}}},
	}

	for i := 0; i < 2; i++ {
		resp, err := f.service.Submit(ctx, "7", submission)
		require.NoError(t, err)
		assert.Equal(t, "idem-1", resp.SubmissionID)
		assert.Equal(t, dto.SubmissionCompleted, resp.Status)
		assert.True(t, resp.Results[0].Recorded)
		assert.Equal(t, 1, resp.Results[0].Confidence)
	}
	assert.Equal(t, 1, f.assessments.count())
	assert.Equal(t, 1, f.states.get("7", "3").Confidence)

	reconciler := NewReconciler(&lockingTxManager{}, f.assessments, f.states, newStepClock())
	_, err := reconciler.ReconcileUser(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, f.states.get("7", "3").Confidence)
}

func TestAssessmentService_Submit_RetryAfterStateFailure(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	conflict := domain.NewConcurrencyConflictError("deadlock", nil)
	f.states.getErrs = []error{conflict, conflict, conflict}
	submission := &domain.Submission{
		ID:     "idem-2",
		Skills: []domain.SkillSubmission{{SkillID: "s1", Answers: domain.SubmittedAnswers{"q1": "A"}}},
	}

	resp, err := f.service.Submit(ctx, "7", submission)
	require.NoError(t, err)
	require.Equal(t, dto.SubmissionFailed, resp.Status)

	resp, err = f.service.Submit(ctx, "7", submission)
	require.NoError(t, err)
	assert.Equal(t, dto.SubmissionCompleted, resp.Status)
	assert.Equal(t, 1, resp.Results[0].Confidence)
	assert.Equal(t, 1, f.assessments.count())
}

func TestAssessmentService_Submit_InvalidAnswersWriteNothing(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	f.withSkill("s2")

	_, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
		{SkillID: "s1", Answers: domain.SubmittedAnswers{"q1": "A"}},
		{SkillID: "s2", Answers: domain.SubmittedAnswers{"nope": "A"}},
	}})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	assert.Equal(t, 0, f.assessments.count())
	assert.Nil(t, f.states.get("7", "s1"))
}

func TestAssessmentService_Submit_SkillWithoutQuestions(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.catalog.On("GetSkillByID", mock.Anything, "empty").Return(&domain.Skill{ID: "empty"}, nil)
	f.questions.On("GetQuestionsBySkill", mock.Anything, "empty").Return([]*domain.Question{}, nil)

	_, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
		{SkillID: "empty", Answers: domain.SubmittedAnswers{}},
	}})
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	assert.Equal(t, 0, f.assessments.count())
}

func TestAssessmentService_Submit_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	f.withSkill("s2")
	f.assessments.failSkill["s2"] = errors.New("disk full")

	resp, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
		{SkillID: "s1", Answers: domain.SubmittedAnswers{"q1": "A"}},
		{SkillID: "s2", Answers: domain.SubmittedAnswers{"q1": "A"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, dto.SubmissionPartial, resp.Status)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, dto.SkillStatusSucceeded, resp.Results[0].Status)
	assert.Equal(t, dto.SkillStatusFailed, resp.Results[1].Status)
	assert.False(t, resp.Results[1].Recorded)
	assert.Equal(t, string(domain.CodePersistence), resp.Results[1].ErrorCode)

	assert.NotNil(t, f.states.get("7", "s1"))
	assert.Nil(t, f.states.get("7", "s2"))
}

func TestAssessmentService_Submit_StateFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	conflict := domain.NewConcurrencyConflictError("deadlock", nil)
	f.states.getErrs = []error{conflict, conflict, conflict}

	resp, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
		{SkillID: "s1", Answers: domain.SubmittedAnswers{"q1": "A"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, dto.SubmissionFailed, resp.Status)
	assert.True(t, resp.Results[0].Recorded)
	assert.Equal(t, string(domain.CodePersistence), resp.Results[0].ErrorCode)
	assert.Equal(t, 1, f.assessments.count())
}

func TestAssessmentService_Submit_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("empty submission", func(t *testing.T) {
		f := newAssessmentFixture()
		_, err := f.service.Submit(ctx, "7", &domain.Submission{})
		assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	})

	t.Run("missing user id", func(t *testing.T) {
		f := newAssessmentFixture()
		_, err := f.service.Submit(ctx, "", &domain.Submission{Skills: []domain.SkillSubmission{{SkillID: "s1"}}})
		assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAssessmentFixture()
		f.users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)
		_, err := f.service.Submit(ctx, "ghost", &domain.Submission{Skills: []domain.SkillSubmission{{SkillID: "s1"}}})
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})

	t.Run("unknown skill", func(t *testing.T) {
		f := newAssessmentFixture()
		f.withUser("7")
		f.catalog.On("GetSkillByID", mock.Anything, "missing").Return(nil, nil)
		_, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{{SkillID: "missing"}}})
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
		assert.Equal(t, 0, f.assessments.count())
	})

	t.Run("duplicate skill", func(t *testing.T) {
		f := newAssessmentFixture()
		f.withUser("7")
		f.withSkill("s1")
		_, err := f.service.Submit(ctx, "7", &domain.Submission{Skills: []domain.SkillSubmission{
			{SkillID: "s1"}, {SkillID: "s1"},
		}})
		assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	})
}

func TestAssessmentService_Queries(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.withUser("7")
	f.withSkill("s1")
	f.withSkill("s2")

	for i, answers := range []domain.SubmittedAnswers{{"q1": "A"}, {"q1": "A", "q2": "B"}} {
		_, err := f.service.Submit(ctx, "7", &domain.Submission{
			ID: "sub-" + string(rune('a'+i)),
			Skills: []domain.SkillSubmission{
				{SkillID: "s1", Answers: answers},
				{SkillID: "s2", Answers: domain.SubmittedAnswers{}},
			},
		})
		require.NoError(t, err)
	}

	completed, err := f.service.CompletedAssessments(ctx, "7")
	require.NoError(t, err)
	require.Len(t, completed.Assessments, 2)
	assert.Equal(t, "s1", completed.Assessments[0].SkillID)
	assert.Equal(t, domain.Percentage(50), completed.Assessments[0].Percentage)

	history, err := f.service.History(ctx, "7", dto.Pagination{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, history.Total)
	assert.Len(t, history.Records, 3)
	assert.Equal(t, "sub-b", history.Records[0].SubmissionID)

	states, err := f.service.SkillStates(ctx, "7")
	require.NoError(t, err)
	require.Len(t, states.Skills, 2)
	assert.Equal(t, 2, states.Skills[0].Confidence)

	empty, err := f.service.SkillStates(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty.Skills)
	assert.Empty(t, empty.Skills)
}
