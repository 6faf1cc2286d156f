package dto

import (
	"time"

	"career-compass/internal/domain"
)

// DomainResponse represents a skill domain in the API response
// @Description Skill domain information
type DomainResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SkillResponse struct {
	ID          string `json:"id"`
	DomainID    string `json:"domain_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QuizQuestionResponse never carries the correct option.
type QuizQuestionResponse struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty,omitempty"`
	Position   int      `json:"position"`
}

// QuizResponse
// @Description Questions of a skill without answers
type QuizResponse struct {
	SkillID   string                 `json:"skill_id"`
	SkillName string                 `json:"skill_name"`
	Questions []QuizQuestionResponse `json:"questions"`
}

// CreateQuestionRequest
// @Description Request body for authoring a question
type CreateQuestionRequest struct {
	Text          string   `json:"text" validate:"required,max=4000"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption string   `json:"correct_option" validate:"required"`
	Difficulty    string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Explanation   string   `json:"explanation,omitempty" validate:"max=4000"`
	Position      int      `json:"position" validate:"min=0"`
}

type QuestionResponse struct {
	ID            string    `json:"id"`
	SkillID       string    `json:"skill_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"correct_option"`
	Difficulty    string    `json:"difficulty,omitempty"`
	Explanation   string    `json:"explanation,omitempty"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToDomainResponse(d *domain.Domain) DomainResponse {
	return DomainResponse{ID: d.ID, Name: d.Name, Description: d.Description}
}

func ToSkillResponse(s *domain.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, DomainID: s.DomainID, Name: s.Name, Description: s.Description}
}

func ToQuizQuestionResponse(q *domain.Question) QuizQuestionResponse {
	return QuizQuestionResponse{ID: q.ID, Text: q.Text, Options: q.Options, Difficulty: q.Difficulty, Position: q.Position}
}

func ToQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:            q.ID,
		SkillID:       q.SkillID,
		Text:          q.Text,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Difficulty:    q.Difficulty,
		Explanation:   q.Explanation,
		Position:      q.Position,
		CreatedAt:     q.CreatedAt,
	}
}
