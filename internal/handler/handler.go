package handler

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/middleware"
	"career-compass/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AssessmentService defines the assessment operations used by the handlers.
type AssessmentService interface {
	Submit(ctx context.Context, userID string, submission *domain.Submission) (*dto.SubmitAssessmentResponse, error)
	CompletedAssessments(ctx context.Context, userID string) (*dto.CompletedAssessmentsResponse, error)
	History(ctx context.Context, userID string, page dto.Pagination) (*dto.AssessmentHistoryResponse, error)
	SkillStates(ctx context.Context, userID string) (*dto.SkillStatesResponse, error)
}

// Reconciler rebuilds skill states from history.
type Reconciler interface {
	ReconcileUser(ctx context.Context, userID string) (int, error)
	ReconcileAll(ctx context.Context) (*dto.ReconcileResponse, error)
}

type CatalogService interface {
	ListDomains(ctx context.Context) ([]dto.DomainResponse, error)
	ListSkills(ctx context.Context, domainID string) ([]dto.SkillResponse, error)
	GetSkill(ctx context.Context, skillID string) (*dto.SkillResponse, error)
	GetQuiz(ctx context.Context, skillID string) (*dto.QuizResponse, error)
	CreateQuestion(ctx context.Context, skillID string, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
}

type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	UpsertProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, bool, error)
}

type LearningService interface {
	CreatePath(ctx context.Context, userID string, req *dto.CreateLearningPathRequest) (*dto.LearningPathResponse, error)
	ListPaths(ctx context.Context, userID string) (*dto.LearningPathsResponse, error)
	UpdateProgress(ctx context.Context, userID, pathID string, progress domain.Percentage) (*dto.LearningPathResponse, error)
	AddCertificate(ctx context.Context, userID string, req *dto.CreateCertificateRequest) (*dto.CertificateResponse, error)
	ListCertificates(ctx context.Context, userID string) (*dto.CertificatesResponse, error)
}

type CareerService interface {
	Matches(ctx context.Context, userID string) (*dto.CareerMatchesResponse, error)
}

type KnowledgeService interface {
	Ingest(ctx context.Context, source, text string, metadata map[string]any) (*dto.IngestDocumentResponse, error)
	Search(ctx context.Context, query string, k int) (*dto.KnowledgeSearchResponse, error)
}

// callerID returns the authenticated user's ID. The user ID never comes from
// the request body or path.
func callerID(c *fiber.Ctx) (string, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok || principal.UserID == "" {
		return "", domain.NewUnauthorizedError("user ID not found in context")
	}
	return principal.UserID, nil
}

func parsePagination(c *fiber.Ctx) (dto.Pagination, error) {
	limit, errs := validation.ParseBoundedInt("limit", c.Query("limit"), dto.DefaultPageLimit, 1, dto.MaxPageLimit)
	if errs != nil {
		return dto.Pagination{}, errs
	}
	offset, errs := validation.ParseBoundedInt("offset", c.Query("offset"), 0, 0, 1_000_000)
	if errs != nil {
		return dto.Pagination{}, errs
	}
	return dto.Pagination{Limit: limit, Offset: offset}, nil
}
