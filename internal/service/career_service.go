package service

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
)

// CareerService matches a user's current levels against career requirements.
type CareerService struct {
	careers domain.CareerRepository
	states  domain.SkillStateRepository
}

func NewCareerService(careers domain.CareerRepository, states domain.SkillStateRepository) *CareerService {
	return &CareerService{careers: careers, states: states}
}

// Matches ranks every career by match descending, then title.
func (s *CareerService) Matches(ctx context.Context, userID string) (*dto.CareerMatchesResponse, error) {
	levels, err := currentLevels(ctx, s.states, userID)
	if err != nil {
		return nil, err
	}
	careers, err := s.careers.ListCareers(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.CareerMatch, 0, len(careers))
	for _, c := range careers {
		matches = append(matches, domain.MatchCareer(c, levels))
	}
	domain.RankCareerMatches(matches)

	resp := &dto.CareerMatchesResponse{Careers: make([]dto.CareerMatchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Careers = append(resp.Careers, dto.ToCareerMatchResponse(m))
	}
	return resp, nil
}
