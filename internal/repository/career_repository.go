package repository

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

type CareerRepository struct {
	db *sqlx.DB
}

func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

// ListCareers loads every career with its requirements in two queries.
func (r *CareerRepository) ListCareers(ctx context.Context) ([]*domain.Career, error) {
	exec := GetExecutor(ctx, r.db)

	var careerRows []models.Career
	if err := exec.SelectContext(ctx, &careerRows, `SELECT id, title, description FROM careers ORDER BY title, id`); err != nil {
		return nil, classifyError("failed to list careers", err)
	}

	var reqRows []models.CareerRequirement
	if err := exec.SelectContext(ctx, &reqRows, `SELECT career_id, skill_id, min_level FROM career_requirements ORDER BY career_id, skill_id`); err != nil {
		return nil, classifyError("failed to list career requirements", err)
	}

	careers := make([]*domain.Career, 0, len(careerRows))
	byID := make(map[string]*domain.Career, len(careerRows))
	for _, row := range careerRows {
		c := &domain.Career{ID: row.ID, Title: row.Title, Description: row.Description.String, Requirements: []domain.CareerRequirement{}}
		careers = append(careers, c)
		byID[c.ID] = c
	}
	for _, req := range reqRows {
		if c, ok := byID[req.CareerID]; ok {
			c.Requirements = append(c.Requirements, domain.CareerRequirement{SkillID: req.SkillID, MinLevel: domain.Level(req.MinLevel)})
		}
	}
	return careers, nil
}

// CreateCareer inserts the career and its requirements in the caller's
// transaction, if any. Used by the seed command.
func (r *CareerRepository) CreateCareer(ctx context.Context, career *domain.Career) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(`INSERT INTO careers (id, title, description) VALUES (?, ?, ?)`),
		career.ID, career.Title, util.StringToNullString(career.Description)); err != nil {
		return classifyError("failed to create career", err)
	}
	reqQuery := exec.Rebind(`INSERT INTO career_requirements (career_id, skill_id, min_level) VALUES (?, ?, ?)`)
	for _, req := range career.Requirements {
		if _, err := exec.ExecContext(ctx, reqQuery, career.ID, req.SkillID, string(req.MinLevel)); err != nil {
			return classifyError("failed to create career requirement", err)
		}
	}
	return nil
}
