package service

import (
	"context"
	"strings"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/util"
)

// LearningService manages learning paths and certificates of a user.
type LearningService struct {
	users   domain.UserRepository
	catalog domain.CatalogRepository
	paths   domain.LearningPathRepository
	certs   domain.CertificateRepository
	states  domain.SkillStateRepository
	clock   domain.Clock
}

func NewLearningService(
	users domain.UserRepository,
	catalog domain.CatalogRepository,
	paths domain.LearningPathRepository,
	certs domain.CertificateRepository,
	states domain.SkillStateRepository,
	clock domain.Clock,
) *LearningService {
	return &LearningService{users: users, catalog: catalog, paths: paths, certs: certs, states: states, clock: clock}
}

func (s *LearningService) CreatePath(ctx context.Context, userID string, req *dto.CreateLearningPathRequest) (*dto.LearningPathResponse, error) {
	target, err := domain.ParseLevel(req.TargetLevel)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireSkill(ctx, req.SkillID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	path := &domain.LearningPath{
		ID:          util.NewULID(),
		UserID:      userID,
		SkillID:     req.SkillID,
		Title:       strings.TrimSpace(req.Title),
		TargetLevel: target,
		Status:      domain.LearningPathActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.paths.CreateLearningPath(ctx, path); err != nil {
		return nil, err
	}

	levels, err := s.currentLevels(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLearningPathResponse(path, levels[path.SkillID])
	return &resp, nil
}

// ListPaths annotates each path with the user's current level on its skill.
func (s *LearningService) ListPaths(ctx context.Context, userID string) (*dto.LearningPathsResponse, error) {
	paths, err := s.paths.ListLearningPathsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	levels, err := s.currentLevels(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.LearningPathsResponse{Paths: make([]dto.LearningPathResponse, 0, len(paths))}
	for _, p := range paths {
		resp.Paths = append(resp.Paths, dto.ToLearningPathResponse(p, levels[p.SkillID]))
	}
	return resp, nil
}

// UpdateProgress sets the path's progress; 100 completes it.
func (s *LearningService) UpdateProgress(ctx context.Context, userID, pathID string, progress domain.Percentage) (*dto.LearningPathResponse, error) {
	path, err := s.paths.GetLearningPath(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, domain.NewNotFoundError("learning path not found").WithContext("path_id", pathID)
	}
	path.SetProgress(progress, s.clock.Now())
	if err := s.paths.UpdateLearningPathProgress(ctx, path); err != nil {
		return nil, err
	}
	levels, err := s.currentLevels(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLearningPathResponse(path, levels[path.SkillID])
	return &resp, nil
}

func (s *LearningService) AddCertificate(ctx context.Context, userID string, req *dto.CreateCertificateRequest) (*dto.CertificateResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if req.SkillID != "" {
		if err := s.requireSkill(ctx, req.SkillID); err != nil {
			return nil, err
		}
	}
	now := s.clock.Now()
	if req.IssuedAt.After(now) {
		return nil, domain.NewInvalidInputError("issued_at must not be in the future")
	}

	cert := &domain.Certificate{
		ID:            util.NewULID(),
		UserID:        userID,
		SkillID:       req.SkillID,
		Title:         strings.TrimSpace(req.Title),
		Issuer:        strings.TrimSpace(req.Issuer),
		IssuedAt:      req.IssuedAt.UTC(),
		CredentialURL: req.CredentialURL,
		CreatedAt:     now,
	}
	if err := s.certs.CreateCertificate(ctx, cert); err != nil {
		return nil, err
	}
	resp := dto.ToCertificateResponse(cert)
	return &resp, nil
}

func (s *LearningService) ListCertificates(ctx context.Context, userID string) (*dto.CertificatesResponse, error) {
	certs, err := s.certs.ListCertificatesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CertificatesResponse{Certificates: make([]dto.CertificateResponse, 0, len(certs))}
	for _, c := range certs {
		resp.Certificates = append(resp.Certificates, dto.ToCertificateResponse(c))
	}
	return resp, nil
}

func (s *LearningService) currentLevels(ctx context.Context, userID string) (map[string]domain.Level, error) {
	return currentLevels(ctx, s.states, userID)
}

func (s *LearningService) requireUser(ctx context.Context, userID string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFoundError("user not found").WithContext("user_id", userID)
	}
	return nil
}

func (s *LearningService) requireSkill(ctx context.Context, skillID string) error {
	skill, err := s.catalog.GetSkillByID(ctx, skillID)
	if err != nil {
		return err
	}
	if skill == nil {
		return domain.NewNotFoundError("skill not found").WithContext("skill_id", skillID)
	}
	return nil
}

// currentLevels maps skill ID to the user's current level.
func currentLevels(ctx context.Context, states domain.SkillStateRepository, userID string) (map[string]domain.Level, error) {
	rows, err := states.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	levels := make(map[string]domain.Level, len(rows))
	for _, st := range rows {
		levels[st.SkillID] = st.Level
	}
	return levels, nil
}
