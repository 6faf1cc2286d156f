package handler

import (
	"career-compass/internal/dto"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// LearningHandler serves learning paths, certificates and career matches
type LearningHandler struct {
	learning LearningService
	careers  CareerService
}

func NewLearningHandler(learning LearningService, careers CareerService) *LearningHandler {
	return &LearningHandler{learning: learning, careers: careers}
}

// ListLearningPaths godoc
// @Summary List my learning paths
// @Tags learning
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.LearningPathsResponse
// @Router /users/me/learning-paths [get]
func (h *LearningHandler) ListLearningPaths(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	resp, err := h.learning.ListPaths(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateLearningPath godoc
// @Summary Start a learning path
// @Tags learning
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateLearningPathRequest true "Learning path"
// @Success 201 {object} dto.LearningPathResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me/learning-paths [post]
func (h *LearningHandler) CreateLearningPath(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.CreateLearningPathRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.learning.CreatePath(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateLearningPathProgress godoc
// @Summary Update learning path progress
// @Description Progress of 100 completes the path
// @Tags learning
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param pathID path string true "Learning path ID"
// @Param request body dto.UpdateProgressRequest true "Progress"
// @Success 200 {object} dto.LearningPathResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/me/learning-paths/{pathID} [patch]
func (h *LearningHandler) UpdateLearningPathProgress(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProgressRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.learning.UpdateProgress(c.UserContext(), userID, c.Params("pathID"), *req.Progress)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListCertificates godoc
// @Summary List my certificates
// @Tags learning
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.CertificatesResponse
// @Router /users/me/certificates [get]
func (h *LearningHandler) ListCertificates(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	resp, err := h.learning.ListCertificates(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AddCertificate godoc
// @Summary Add a certificate
// @Tags learning
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCertificateRequest true "Certificate"
// @Success 201 {object} dto.CertificateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me/certificates [post]
func (h *LearningHandler) AddCertificate(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCertificateRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.learning.AddCertificate(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCareerMatches godoc
// @Summary Career matches
// @Description Ranks careers by how many of their skill requirements the caller's current levels meet
// @Tags learning
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.CareerMatchesResponse
// @Router /users/me/career-matches [get]
func (h *LearningHandler) GetCareerMatches(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	resp, err := h.careers.Matches(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
