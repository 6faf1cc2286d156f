package handler

import (
	"career-compass/internal/config"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Assessment *AssessmentHandler
	Catalog    *CatalogHandler
	User       *UserHandler
	Learning   *LearningHandler
	Knowledge  *KnowledgeHandler
}

// RegisterRoutes mounts the /api routes. Every route requires a bearer
// token; writes additionally require a capability.
func RegisterRoutes(app fiber.Router, h Handlers, validator middleware.TokenValidator, authCfg config.AuthConfig) {
	api := app.Group("/api", middleware.Authenticate(validator, authCfg))
	require := middleware.RequireCapability

	// Catalog
	api.Get("/domains", h.Catalog.ListDomains)
	api.Get("/domains/:domainID/skills", h.Catalog.ListSkills)
	api.Get("/skills/:skillID", h.Catalog.GetSkill)
	api.Get("/skills/:skillID/quiz", h.Catalog.GetQuiz)
	api.Post("/skills/:skillID/questions", require(middleware.CapabilityWriteContent), h.Catalog.CreateQuestion)

	// Assessments
	api.Post("/assessments",
		require(middleware.CapabilitySubmitAssessment),
		middleware.ValidateIdempotencyKey(),
		h.Assessment.SubmitAssessment)

	// Current user
	api.Get("/users/me", h.User.GetMyProfile)
	api.Put("/users/me", require(middleware.CapabilityWriteProfile), h.User.UpdateMyProfile)
	me := api.Group("/users/me")
	me.Get("/assessments", h.Assessment.GetCompletedAssessments)
	me.Get("/assessments/history", h.Assessment.GetAssessmentHistory)
	me.Get("/skills", h.Assessment.GetSkillStates)
	me.Get("/learning-paths", h.Learning.ListLearningPaths)
	me.Post("/learning-paths", require(middleware.CapabilityWriteProfile), h.Learning.CreateLearningPath)
	me.Patch("/learning-paths/:pathID",
		require(middleware.CapabilityWriteProfile),
		middleware.ValidatePathID("pathID"),
		h.Learning.UpdateLearningPathProgress)
	me.Get("/certificates", h.Learning.ListCertificates)
	me.Post("/certificates", require(middleware.CapabilityWriteProfile), h.Learning.AddCertificate)
	me.Get("/career-matches", h.Learning.GetCareerMatches)

	// Admin
	api.Post("/admin/reconcile", require(middleware.CapabilityReconcile), h.Assessment.Reconcile)

	// Knowledge
	api.Post("/knowledge/documents", require(middleware.CapabilityWriteContent), h.Knowledge.IngestDocument)
	api.Get("/knowledge/search", h.Knowledge.SearchKnowledge)
}
