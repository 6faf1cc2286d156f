package domain

import (
	"context"
	"strings"
)

// Domain groups related skills, e.g. "Data Engineering".
type Domain struct {
	ID          string
	Name        string
	Description string
}

// Skill is a named competency area with its own question bank.
type Skill struct {
	ID          string
	DomainID    string
	Name        string
	Description string
}

// CatalogRepository reads the domain and skill taxonomy.
type CatalogRepository interface {
	ListDomains(ctx context.Context) ([]*Domain, error)
	GetDomainByID(ctx context.Context, domainID string) (*Domain, error)
	ListSkillsByDomain(ctx context.Context, domainID string) ([]*Skill, error)
	GetSkillByID(ctx context.Context, skillID string) (*Skill, error)
}

// QuestionRepository stores question banks.
type QuestionRepository interface {
	// GetQuestionsBySkill returns the questions ordered by position, then ID.
	GetQuestionsBySkill(ctx context.Context, skillID string) ([]*Question, error)
	CreateQuestion(ctx context.Context, question *Question) error
}

// Validate checks that a question can be graded.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.SkillID) == "" {
		errs = append(errs, NewMissingFieldError("skill_id"))
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, NewMissingFieldError("text"))
	}
	if len(q.Options) < 2 {
		errs = append(errs, ValidationError{Field: "options", Message: "at least two options are required", Value: len(q.Options)})
	}
	found := false
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" {
			errs = append(errs, ValidationError{Field: "options", Message: "options must not be blank"})
			break
		}
		if _, dup := seen[trimmed]; dup {
			errs = append(errs, ValidationError{Field: "options", Message: "options must be unique", Value: opt})
			break
		}
		seen[trimmed] = struct{}{}
		if trimmed == strings.TrimSpace(q.CorrectOption) {
			found = true
		}
	}
	if !found {
		errs = append(errs, ValidationError{Field: "correct_option", Message: "correct option must be one of the options", Value: q.CorrectOption})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
