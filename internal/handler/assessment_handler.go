package handler

import (
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssessmentHandler handles assessment submission and history requests
type AssessmentHandler struct {
	service    AssessmentService
	reconciler Reconciler
}

// NewAssessmentHandler creates a new AssessmentHandler instance
func NewAssessmentHandler(service AssessmentService, reconciler Reconciler) *AssessmentHandler {
	return &AssessmentHandler{service: service, reconciler: reconciler}
}

// SubmitAssessment godoc
// @Summary Submit an assessment
// @Description Scores answers for one or more skills, records each result and updates the caller's skill state. Per-skill write failures are reported in the results.
// @Tags assessments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Submission ID; a retried request with the same key does not count twice toward confidence"
// @Param request body dto.SubmitAssessmentRequest true "Answers per skill"
// @Success 200 {object} dto.SubmitAssessmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) SubmitAssessment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.SubmitAssessmentRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.service.Submit(c.UserContext(), userID, req.ToSubmission(middleware.IdempotencyKey(c)))
	if err != nil {
		return err
	}
	if resp.Status != dto.SubmissionCompleted {
		logger.Get().Warn("Assessment submission not fully persisted",
			zap.String("user_id", userID),
			zap.String("submission_id", resp.SubmissionID),
			zap.String("status", resp.Status))
	}
	return c.JSON(resp)
}

// GetCompletedAssessments godoc
// @Summary Latest assessment per skill
// @Description Returns the most recent assessment record of every skill the caller has taken
// @Tags assessments
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.CompletedAssessmentsResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/assessments [get]
func (h *AssessmentHandler) GetCompletedAssessments(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	resp, err := h.service.CompletedAssessments(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetAssessmentHistory godoc
// @Summary Assessment history
// @Description Pages through every assessment record of the caller, newest first
// @Tags assessments
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Records to skip" default(0)
// @Success 200 {object} dto.AssessmentHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/assessments/history [get]
func (h *AssessmentHandler) GetAssessmentHistory(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	page, err := parsePagination(c)
	if err != nil {
		return err
	}
	resp, err := h.service.History(c.UserContext(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetSkillStates godoc
// @Summary Current skill states
// @Description Returns the caller's rolling score, level and confidence per skill
// @Tags assessments
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.SkillStatesResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me/skills [get]
func (h *AssessmentHandler) GetSkillStates(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	resp, err := h.service.SkillStates(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Reconcile godoc
// @Summary Reconcile skill states
// @Description Rebuilds skill states from assessment history for one user, or for every user when user_id is omitted
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.ReconcileRequest false "Optional user filter"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/reconcile [post]
func (h *AssessmentHandler) Reconcile(c *fiber.Ctx) error {
	var req dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := middleware.ParseBody(c, &req); err != nil {
			return err
		}
	}

	if req.UserID != "" {
		n, err := h.reconciler.ReconcileUser(c.UserContext(), req.UserID)
		if err != nil {
			return err
		}
		return c.JSON(dto.ReconcileResponse{UsersReconciled: 1, StatesUpdated: n})
	}

	resp, err := h.reconciler.ReconcileAll(c.UserContext())
	if err != nil {
		return err
	}
	logger.Get().Info("Reconciliation finished",
		zap.Int("users", resp.UsersReconciled),
		zap.Int("states", resp.StatesUpdated),
		zap.Int("failed", len(resp.FailedUsers)))
	return c.JSON(resp)
}
