package dto

import (
	"time"

	"career-compass/internal/domain"
)

// Per-skill and overall submission statuses.
const (
	SkillStatusSucceeded = "succeeded"
	SkillStatusFailed    = "failed"

	SubmissionCompleted = "completed"
	SubmissionPartial   = "partial"
	SubmissionFailed    = "failed"
)

// SubmitAssessmentRequest is the body of POST /api/assessments.
// @Description Answers for one or more skills
type SubmitAssessmentRequest struct {
	Skills []SkillAnswersRequest `json:"skills" validate:"required,min=1,dive"`
}

// SkillAnswersRequest maps question IDs to the chosen option text.
type SkillAnswersRequest struct {
	SkillID          string            `json:"skill_id" validate:"required"`
	Answers          map[string]string `json:"answers"`
	TimeTakenSeconds *int              `json:"time_taken_seconds,omitempty" validate:"omitempty,min=0"`
}

// SkillResultResponse is the outcome of one skill of a submission.
type SkillResultResponse struct {
	SkillID          string            `json:"skill_id"`
	TotalQuestions   int               `json:"total_questions"`
	CorrectCount     int               `json:"correct_count"`
	Percentage       domain.Percentage `json:"percentage"`
	Level            domain.Level      `json:"level"`
	TimeTakenSeconds *int64            `json:"time_taken_seconds,omitempty"`
	Status           string            `json:"status"`
	Recorded         bool              `json:"recorded"`
	Confidence       int               `json:"confidence,omitempty"`
	ErrorCode        string            `json:"error_code,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// SubmitAssessmentResponse
// @Description Per-skill results and the overall score of a submission
type SubmitAssessmentResponse struct {
	SubmissionID      string                `json:"submission_id"`
	Status            string                `json:"status"`
	Results           []SkillResultResponse `json:"results"`
	OverallPercentage domain.Percentage     `json:"overall_percentage"`
	OverallLevel      domain.Level          `json:"overall_level"`
}

type AssessmentRecordResponse struct {
	ID               string            `json:"id"`
	SkillID          string            `json:"skill_id"`
	SubmissionID     string            `json:"submission_id"`
	TotalQuestions   int               `json:"total_questions"`
	CorrectCount     int               `json:"correct_count"`
	Percentage       domain.Percentage `json:"percentage"`
	Level            domain.Level      `json:"level"`
	TimeTakenSeconds *int64            `json:"time_taken_seconds,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

type CompletedAssessmentsResponse struct {
	Assessments []AssessmentRecordResponse `json:"assessments"`
}

type AssessmentHistoryResponse struct {
	Records []AssessmentRecordResponse `json:"records"`
	Total   int                        `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
}

type SkillStateResponse struct {
	SkillID      string            `json:"skill_id"`
	Score        domain.Percentage `json:"score"`
	Level        domain.Level      `json:"level"`
	Confidence   int               `json:"confidence"`
	LastAssessed time.Time         `json:"last_assessed"`
}

type SkillStatesResponse struct {
	Skills []SkillStateResponse `json:"skills"`
}

// ReconcileRequest limits reconciliation to one user when UserID is set.
type ReconcileRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type ReconcileResponse struct {
	UsersReconciled int      `json:"users_reconciled"`
	StatesUpdated   int      `json:"states_updated"`
	FailedUsers     []string `json:"failed_users,omitempty"`
}

func durationSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(d.Seconds())
	return &s
}

func ToAssessmentRecordResponse(r *domain.AssessmentRecord) AssessmentRecordResponse {
	return AssessmentRecordResponse{
		ID:               r.ID,
		SkillID:          r.SkillID,
		SubmissionID:     r.SubmissionID,
		TotalQuestions:   r.TotalQuestions,
		CorrectCount:     r.CorrectCount,
		Percentage:       r.Percentage,
		Level:            r.Level,
		TimeTakenSeconds: durationSeconds(r.TimeTaken),
		CreatedAt:        r.CreatedAt,
	}
}

func ToSkillResultResponse(r *domain.SkillResult) SkillResultResponse {
	return SkillResultResponse{
		SkillID:          r.SkillID,
		TotalQuestions:   r.TotalQuestions,
		CorrectCount:     r.CorrectCount,
		Percentage:       r.Percentage,
		Level:            r.Level,
		TimeTakenSeconds: durationSeconds(r.TimeTaken),
	}
}

func ToSkillStateResponse(s *domain.UserSkillState) SkillStateResponse {
	return SkillStateResponse{
		SkillID:      s.SkillID,
		Score:        s.Score,
		Level:        s.Level,
		Confidence:   s.Confidence,
		LastAssessed: s.LastAssessed,
	}
}

// ToSubmission converts the request body; TimeTakenSeconds becomes a duration.
func (r *SubmitAssessmentRequest) ToSubmission(submissionID string) *domain.Submission {
	sub := &domain.Submission{ID: submissionID, Skills: make([]domain.SkillSubmission, 0, len(r.Skills))}
	for _, s := range r.Skills {
		entry := domain.SkillSubmission{SkillID: s.SkillID, Answers: domain.SubmittedAnswers(s.Answers)}
		if entry.Answers == nil {
			entry.Answers = domain.SubmittedAnswers{}
		}
		if s.TimeTakenSeconds != nil {
			d := time.Duration(*s.TimeTakenSeconds) * time.Second
			entry.TimeTaken = &d
		}
		sub.Skills = append(sub.Skills, entry)
	}
	return sub
}
