package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"career-compass/internal/domain"
)

// Scorer grades submitted answers against a question bank. It is pure and
// safe for concurrent use.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score counts exact matches after trimming surrounding whitespace. An
// unanswered question counts as incorrect.
func (s *Scorer) Score(skillID string, questions []*domain.Question, answers domain.SubmittedAnswers, timeTaken *time.Duration) (*domain.SkillResult, error) {
	if len(questions) == 0 {
		return nil, domain.NewInvalidInputError("skill has no questions").WithContext("skill_id", skillID)
	}

	known := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		known[q.ID] = q
	}

	var unknown []string
	for questionID := range answers {
		if _, ok := known[questionID]; !ok {
			unknown = append(unknown, questionID)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.NewInvalidInputError(fmt.Sprintf("answers reference %d unknown question(s)", len(unknown))).
			WithContext("skill_id", skillID).
			WithContext("question_ids", unknown)
	}

	correct := 0
	for _, q := range questions {
		answer, answered := answers[q.ID]
		if answered && strings.TrimSpace(answer) == strings.TrimSpace(q.CorrectOption) {
			correct++
		}
	}

	percentage, err := domain.PercentageOf(correct, len(questions))
	if err != nil {
		return nil, err
	}
	return &domain.SkillResult{
		SkillID:        skillID,
		TotalQuestions: len(questions),
		CorrectCount:   correct,
		Percentage:     percentage,
		Level:          domain.LevelFor(percentage),
		TimeTaken:      timeTaken,
	}, nil
}
