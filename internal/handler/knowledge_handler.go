package handler

import (
	"career-compass/internal/dto"
	"career-compass/internal/middleware"
	"career-compass/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type KnowledgeHandler struct {
	service KnowledgeService
}

func NewKnowledgeHandler(service KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

// IngestDocument godoc
// @Summary Ingest a knowledge document
// @Description Splits the text into paragraphs, embeds each and stores it for retrieval
// @Tags knowledge
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.IngestDocumentRequest true "Document"
// @Success 201 {object} dto.IngestDocumentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /knowledge/documents [post]
func (h *KnowledgeHandler) IngestDocument(c *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.Ingest(c.UserContext(), req.Source, req.Text, req.Metadata)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SearchKnowledge godoc
// @Summary Search knowledge
// @Tags knowledge
// @Security ApiKeyAuth
// @Produce json
// @Param q query string true "Query"
// @Param k query int false "Number of results (1-50)" default(5)
// @Success 200 {object} dto.KnowledgeSearchResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /knowledge/search [get]
func (h *KnowledgeHandler) SearchKnowledge(c *fiber.Ctx) error {
	k, errs := validation.ParseBoundedInt("k", c.Query("k"), 5, 1, 50)
	if errs != nil {
		return errs
	}
	resp, err := h.service.Search(c.UserContext(), c.Query("q"), k)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
