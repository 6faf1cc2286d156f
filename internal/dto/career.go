package dto

import "career-compass/internal/domain"

type CareerRequirementResponse struct {
	SkillID  string       `json:"skill_id"`
	MinLevel domain.Level `json:"min_level"`
}

// CareerMatchResponse
// @Description How well the caller's current levels cover a career
type CareerMatchResponse struct {
	CareerID    string                      `json:"career_id"`
	Title       string                      `json:"title"`
	Description string                      `json:"description,omitempty"`
	Match       domain.Percentage           `json:"match"`
	Met         []string                    `json:"met"`
	Missing     []CareerRequirementResponse `json:"missing"`
}

type CareerMatchesResponse struct {
	Careers []CareerMatchResponse `json:"careers"`
}

func ToCareerMatchResponse(m domain.CareerMatch) CareerMatchResponse {
	missing := make([]CareerRequirementResponse, 0, len(m.Missing))
	for _, req := range m.Missing {
		missing = append(missing, CareerRequirementResponse{SkillID: req.SkillID, MinLevel: req.MinLevel})
	}
	return CareerMatchResponse{
		CareerID:    m.Career.ID,
		Title:       m.Career.Title,
		Description: m.Career.Description,
		Match:       m.Match,
		Met:         m.Met,
		Missing:     missing,
	}
}
