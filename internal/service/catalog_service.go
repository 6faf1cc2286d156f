package service

import (
	"context"
	"strings"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the skill taxonomy and quizzes and authors questions.
type CatalogService struct {
	catalog   domain.CatalogRepository
	questions domain.QuestionRepository
	bank      *QuestionBank
	clock     domain.Clock
}

func NewCatalogService(catalog domain.CatalogRepository, questions domain.QuestionRepository, bank *QuestionBank, clock domain.Clock) *CatalogService {
	return &CatalogService{catalog: catalog, questions: questions, bank: bank, clock: clock}
}

func (s *CatalogService) ListDomains(ctx context.Context) ([]dto.DomainResponse, error) {
	domains, err := s.catalog.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DomainResponse, 0, len(domains))
	for _, d := range domains {
		resp = append(resp, dto.ToDomainResponse(d))
	}
	return resp, nil
}

func (s *CatalogService) ListSkills(ctx context.Context, domainID string) ([]dto.SkillResponse, error) {
	d, err := s.catalog.GetDomainByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewNotFoundError("domain not found").WithContext("domain_id", domainID)
	}
	skills, err := s.catalog.ListSkillsByDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SkillResponse, 0, len(skills))
	for _, sk := range skills {
		resp = append(resp, dto.ToSkillResponse(sk))
	}
	return resp, nil
}

func (s *CatalogService) GetSkill(ctx context.Context, skillID string) (*dto.SkillResponse, error) {
	skill, err := s.requireSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToSkillResponse(skill)
	return &resp, nil
}

// GetQuiz returns the skill's questions without correct options or explanations.
func (s *CatalogService) GetQuiz(ctx context.Context, skillID string) (*dto.QuizResponse, error) {
	skill, err := s.requireSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	questions, err := s.bank.GetQuestions(ctx, skillID)
	if err != nil {
		return nil, err
	}
	resp := &dto.QuizResponse{SkillID: skill.ID, SkillName: skill.Name, Questions: make([]dto.QuizQuestionResponse, 0, len(questions))}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.ToQuizQuestionResponse(q))
	}
	return resp, nil
}

// CreateQuestion stores a new question and drops the skill's cached bank.
func (s *CatalogService) CreateQuestion(ctx context.Context, skillID string, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if _, err := s.requireSkill(ctx, skillID); err != nil {
		return nil, err
	}

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, strings.TrimSpace(opt))
	}
	question := &domain.Question{
		ID:            util.NewULID(),
		SkillID:       skillID,
		Text:          strings.TrimSpace(req.Text),
		Options:       options,
		CorrectOption: strings.TrimSpace(req.CorrectOption),
		Difficulty:    req.Difficulty,
		Explanation:   req.Explanation,
		Position:      req.Position,
		CreatedAt:     s.clock.Now(),
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.questions.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	s.bank.Invalidate(ctx, skillID)

	logger.Get().Info("Question authored", zap.String("skill_id", skillID), zap.String("question_id", question.ID))
	resp := dto.ToQuestionResponse(question)
	return &resp, nil
}

func (s *CatalogService) requireSkill(ctx context.Context, skillID string) (*domain.Skill, error) {
	skill, err := s.catalog.GetSkillByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, domain.NewNotFoundError("skill not found").WithContext("skill_id", skillID)
	}
	return skill, nil
}
