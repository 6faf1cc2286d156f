package service

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/metrics"
	"career-compass/internal/util"

	"go.uber.org/zap"
)

// QuestionSource yields the ordered questions of a skill.
type QuestionSource interface {
	GetQuestions(ctx context.Context, skillID string) ([]*domain.Question, error)
}

// ResultRecorder stores the history row of a scored skill.
type ResultRecorder interface {
	Record(ctx context.Context, userID string, result *domain.SkillResult) (*domain.AssessmentRecord, error)
}

// StateApplier folds a scored skill into the user's rolling state.
type StateApplier interface {
	Apply(ctx context.Context, userID string, result *domain.SkillResult) (*domain.UserSkillState, error)
}

// AssessmentService orchestrates submissions and serves assessment queries.
type AssessmentService struct {
	users       domain.UserRepository
	catalog     domain.CatalogRepository
	questions   QuestionSource
	scorer      *Scorer
	recorder    ResultRecorder
	updater     StateApplier
	assessments domain.AssessmentRepository
	states      domain.SkillStateRepository
	metrics     *metrics.Metrics
}

func NewAssessmentService(
	users domain.UserRepository,
	catalog domain.CatalogRepository,
	questions QuestionSource,
	scorer *Scorer,
	recorder ResultRecorder,
	updater StateApplier,
	assessments domain.AssessmentRepository,
	states domain.SkillStateRepository,
	m *metrics.Metrics,
) *AssessmentService {
	return &AssessmentService{
		users:       users,
		catalog:     catalog,
		questions:   questions,
		scorer:      scorer,
		recorder:    recorder,
		updater:     updater,
		assessments: assessments,
		states:      states,
		metrics:     m,
	}
}

// Submit scores every skill before writing anything, so invalid input never
// leaves partial history. Writes then run per skill: a failure is reported
// on that skill and never undoes the others. Retrying with the same
// submission ID records nothing new and leaves confidence where it is.
func (s *AssessmentService) Submit(ctx context.Context, userID string, submission *domain.Submission) (*dto.SubmitAssessmentResponse, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if submission == nil || len(submission.Skills) == 0 {
		return nil, domain.NewInvalidInputError("submission must contain at least one skill")
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(submission.Skills))
	for _, entry := range submission.Skills {
		if _, dup := seen[entry.SkillID]; dup {
			return nil, domain.NewInvalidInputError("skill appears more than once in the submission").
				WithContext("skill_id", entry.SkillID)
		}
		seen[entry.SkillID] = struct{}{}

		skill, err := s.catalog.GetSkillByID(ctx, entry.SkillID)
		if err != nil {
			return nil, err
		}
		if skill == nil {
			return nil, domain.NewNotFoundError("skill not found").WithContext("skill_id", entry.SkillID)
		}
	}

	submissionID := submission.ID
	if submissionID == "" {
		submissionID = util.NewULID()
	}

	results := make([]*domain.SkillResult, 0, len(submission.Skills))
	for _, entry := range submission.Skills {
		questions, err := s.questions.GetQuestions(ctx, entry.SkillID)
		if err != nil {
			return nil, err
		}
		result, err := s.scorer.Score(entry.SkillID, questions, entry.Answers, entry.TimeTaken)
		if err != nil {
			return nil, err
		}
		result.SubmissionID = submissionID
		results = append(results, result)
	}

	resp := &dto.SubmitAssessmentResponse{
		SubmissionID: submissionID,
		Results:      make([]dto.SkillResultResponse, 0, len(results)),
	}
	percentages := make([]domain.Percentage, 0, len(results))
	succeeded := 0
	for _, result := range results {
		item := s.persist(ctx, userID, result)
		if item.Status == dto.SkillStatusSucceeded {
			succeeded++
		}
		s.metrics.ObserveSkillResult(item.Status, string(result.Level))
		resp.Results = append(resp.Results, item)
		percentages = append(percentages, result.Percentage)
	}

	overall, err := domain.MeanPercentage(percentages)
	if err != nil {
		return nil, err
	}
	resp.OverallPercentage = overall
	resp.OverallLevel = domain.LevelFor(overall)

	switch succeeded {
	case len(results):
		resp.Status = dto.SubmissionCompleted
	case 0:
		resp.Status = dto.SubmissionFailed
	default:
		resp.Status = dto.SubmissionPartial
	}

	logger.Get().Info("Assessment submitted",
		zap.String("user_id", userID),
		zap.String("submission_id", submissionID),
		zap.Int("skills", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Float64("overall_percentage", overall.Float64()))
	return resp, nil
}

func (s *AssessmentService) persist(ctx context.Context, userID string, result *domain.SkillResult) dto.SkillResultResponse {
	item := dto.ToSkillResultResponse(result)

	recorded, err := s.alreadyRecorded(ctx, userID, result)
	if err != nil {
		logger.Get().Error("Failed to look up assessment record",
			zap.String("user_id", userID), zap.String("skill_id", result.SkillID), zap.Error(err))
		return failedItem(item, err)
	}
	if recorded {
		logger.Get().Info("Submission already recorded, skipping history write",
			zap.String("user_id", userID),
			zap.String("skill_id", result.SkillID),
			zap.String("submission_id", result.SubmissionID))
	} else if _, err := s.recorder.Record(ctx, userID, result); err != nil {
		logger.Get().Error("Failed to record assessment",
			zap.String("user_id", userID), zap.String("skill_id", result.SkillID), zap.Error(err))
		return failedItem(item, err)
	}
	item.Recorded = true

	state, err := s.updater.Apply(ctx, userID, result)
	if err != nil {
		logger.Get().Error("Failed to update skill state",
			zap.String("user_id", userID), zap.String("skill_id", result.SkillID), zap.Error(err))
		return failedItem(item, err)
	}
	item.Status = dto.SkillStatusSucceeded
	item.Confidence = state.Confidence
	return item
}

// alreadyRecorded reports whether a retried submission has its history row.
func (s *AssessmentService) alreadyRecorded(ctx context.Context, userID string, result *domain.SkillResult) (bool, error) {
	if result.SubmissionID == "" {
		return false, nil
	}
	return s.assessments.HasSubmission(ctx, userID, result.SkillID, result.SubmissionID)
}

func failedItem(item dto.SkillResultResponse, err error) dto.SkillResultResponse {
	item.Status = dto.SkillStatusFailed
	code := domain.ErrorCodeOf(err)
	if code == "" {
		code = domain.CodeInternal
	}
	item.ErrorCode = string(code)
	item.Error = err.Error()
	return item
}

func (s *AssessmentService) ensureUser(ctx context.Context, userID string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFoundError("user not found").WithContext("user_id", userID)
	}
	return nil
}

// CompletedAssessments returns the latest record of each skill the user took.
func (s *AssessmentService) CompletedAssessments(ctx context.Context, userID string) (*dto.CompletedAssessmentsResponse, error) {
	records, err := s.assessments.ListLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CompletedAssessmentsResponse{Assessments: make([]dto.AssessmentRecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Assessments = append(resp.Assessments, dto.ToAssessmentRecordResponse(r))
	}
	return resp, nil
}

// History pages through every record of the user, newest first.
func (s *AssessmentService) History(ctx context.Context, userID string, page dto.Pagination) (*dto.AssessmentHistoryResponse, error) {
	page = page.Normalize()
	records, total, err := s.assessments.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.AssessmentHistoryResponse{
		Records: make([]dto.AssessmentRecordResponse, 0, len(records)),
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	for _, r := range records {
		resp.Records = append(resp.Records, dto.ToAssessmentRecordResponse(r))
	}
	return resp, nil
}

func (s *AssessmentService) SkillStates(ctx context.Context, userID string) (*dto.SkillStatesResponse, error) {
	states, err := s.states.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SkillStatesResponse{Skills: make([]dto.SkillStateResponse, 0, len(states))}
	for _, st := range states {
		resp.Skills = append(resp.Skills, dto.ToSkillStateResponse(st))
	}
	return resp, nil
}
