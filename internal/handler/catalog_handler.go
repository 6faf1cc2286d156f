package handler

import (
	"career-compass/internal/dto"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves domains, skills and quizzes
type CatalogHandler struct {
	service CatalogService
}

func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListDomains godoc
// @Summary List domains
// @Tags catalog
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.DomainResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /domains [get]
func (h *CatalogHandler) ListDomains(c *fiber.Ctx) error {
	domains, err := h.service.ListDomains(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(domains)
}

// ListSkills godoc
// @Summary List skills of a domain
// @Tags catalog
// @Security ApiKeyAuth
// @Produce json
// @Param domainID path string true "Domain ID"
// @Success 200 {array} dto.SkillResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /domains/{domainID}/skills [get]
func (h *CatalogHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.service.ListSkills(c.UserContext(), c.Params("domainID"))
	if err != nil {
		return err
	}
	return c.JSON(skills)
}

// GetSkill godoc
// @Summary Get a skill
// @Tags catalog
// @Security ApiKeyAuth
// @Produce json
// @Param skillID path string true "Skill ID"
// @Success 200 {object} dto.SkillResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /skills/{skillID} [get]
func (h *CatalogHandler) GetSkill(c *fiber.Ctx) error {
	skill, err := h.service.GetSkill(c.UserContext(), c.Params("skillID"))
	if err != nil {
		return err
	}
	return c.JSON(skill)
}

// GetQuiz godoc
// @Summary Get the quiz of a skill
// @Description Returns the skill's questions in order, without correct options
// @Tags catalog
// @Security ApiKeyAuth
// @Produce json
// @Param skillID path string true "Skill ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /skills/{skillID}/quiz [get]
func (h *CatalogHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuiz(c.UserContext(), c.Params("skillID"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// CreateQuestion godoc
// @Summary Author a question
// @Tags catalog
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param skillID path string true "Skill ID"
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /skills/{skillID}/questions [post]
func (h *CatalogHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}
	question, err := h.service.CreateQuestion(c.UserContext(), c.Params("skillID"), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}
