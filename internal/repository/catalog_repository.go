package repository

import (
	"context"
	"database/sql"
	"errors"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

// CatalogRepository reads and seeds the domain/skill taxonomy.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func toDomainDomain(m *models.Domain) *domain.Domain {
	return &domain.Domain{ID: m.ID, Name: m.Name, Description: m.Description.String}
}

func toDomainSkill(m *models.Skill) *domain.Skill {
	return &domain.Skill{ID: m.ID, DomainID: m.DomainID, Name: m.Name, Description: m.Description.String}
}

func (r *CatalogRepository) ListDomains(ctx context.Context) ([]*domain.Domain, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Domain
	if err := exec.SelectContext(ctx, &rows, `SELECT id, name, description FROM domains ORDER BY name, id`); err != nil {
		return nil, classifyError("failed to list domains", err)
	}
	domains := make([]*domain.Domain, 0, len(rows))
	for i := range rows {
		domains = append(domains, toDomainDomain(&rows[i]))
	}
	return domains, nil
}

// GetDomainByID returns nil, nil when the domain does not exist.
func (r *CatalogRepository) GetDomainByID(ctx context.Context, domainID string) (*domain.Domain, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.Domain
	if err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT id, name, description FROM domains WHERE id = ?`), domainID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("failed to get domain", err)
	}
	return toDomainDomain(&m), nil
}

func (r *CatalogRepository) ListSkillsByDomain(ctx context.Context, domainID string) ([]*domain.Skill, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Skill
	query := exec.Rebind(`SELECT id, domain_id, name, description FROM skills WHERE domain_id = ? ORDER BY name, id`)
	if err := exec.SelectContext(ctx, &rows, query, domainID); err != nil {
		return nil, classifyError("failed to list skills", err)
	}
	skills := make([]*domain.Skill, 0, len(rows))
	for i := range rows {
		skills = append(skills, toDomainSkill(&rows[i]))
	}
	return skills, nil
}

// GetSkillByID returns nil, nil when the skill does not exist.
func (r *CatalogRepository) GetSkillByID(ctx context.Context, skillID string) (*domain.Skill, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.Skill
	if err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT id, domain_id, name, description FROM skills WHERE id = ?`), skillID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("failed to get skill", err)
	}
	return toDomainSkill(&m), nil
}

// CreateDomain is used by the seed command.
func (r *CatalogRepository) CreateDomain(ctx context.Context, d *domain.Domain) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO domains (id, name, description) VALUES (?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, d.ID, d.Name, util.StringToNullString(d.Description)); err != nil {
		return classifyError("failed to create domain", err)
	}
	return nil
}

// CreateSkill is used by the seed command.
func (r *CatalogRepository) CreateSkill(ctx context.Context, s *domain.Skill) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO skills (id, domain_id, name, description) VALUES (?, ?, ?, ?)`)
	if _, err := exec.ExecContext(ctx, query, s.ID, s.DomainID, s.Name, util.StringToNullString(s.Description)); err != nil {
		return classifyError("failed to create skill", err)
	}
	return nil
}
