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

const (
	learningPathColumns = `id, user_id, skill_id, title, target_level, progress, status, created_at, updated_at`
	certificateColumns  = `id, user_id, skill_id, title, issuer, issued_at, credential_url, created_at`
)

// LearningRepository stores learning paths and certificates.
type LearningRepository struct {
	db *sqlx.DB
}

func NewLearningRepository(db *sqlx.DB) *LearningRepository {
	return &LearningRepository{db: db}
}

func toDomainLearningPath(m *models.LearningPath) *domain.LearningPath {
	return &domain.LearningPath{
		ID:          m.ID,
		UserID:      m.UserID,
		SkillID:     m.SkillID,
		Title:       m.Title,
		TargetLevel: domain.Level(m.TargetLevel),
		Progress:    m.Progress,
		Status:      domain.LearningPathStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainCertificate(m *models.Certificate) *domain.Certificate {
	return &domain.Certificate{
		ID:            m.ID,
		UserID:        m.UserID,
		SkillID:       m.SkillID.String,
		Title:         m.Title,
		Issuer:        m.Issuer,
		IssuedAt:      m.IssuedAt,
		CredentialURL: m.CredentialURL.String,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *LearningRepository) CreateLearningPath(ctx context.Context, path *domain.LearningPath) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO learning_paths (` + learningPathColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		path.ID, path.UserID, path.SkillID, path.Title, string(path.TargetLevel),
		path.Progress, string(path.Status), path.CreatedAt, path.UpdatedAt)
	if err != nil {
		return classifyError("failed to create learning path", err)
	}
	return nil
}

func (r *LearningRepository) ListLearningPathsByUser(ctx context.Context, userID string) ([]*domain.LearningPath, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.LearningPath
	query := exec.Rebind(`SELECT ` + learningPathColumns + ` FROM learning_paths WHERE user_id = ? ORDER BY created_at, id`)
	if err := exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, classifyError("failed to list learning paths", err)
	}
	paths := make([]*domain.LearningPath, 0, len(rows))
	for i := range rows {
		paths = append(paths, toDomainLearningPath(&rows[i]))
	}
	return paths, nil
}

// GetLearningPath returns nil, nil when the path does not exist or belongs to another user.
func (r *LearningRepository) GetLearningPath(ctx context.Context, userID, pathID string) (*domain.LearningPath, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.LearningPath
	query := exec.Rebind(`SELECT ` + learningPathColumns + ` FROM learning_paths WHERE id = ? AND user_id = ?`)
	if err := exec.GetContext(ctx, &m, query, pathID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("failed to get learning path", err)
	}
	return toDomainLearningPath(&m), nil
}

func (r *LearningRepository) UpdateLearningPathProgress(ctx context.Context, path *domain.LearningPath) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE learning_paths SET progress = ?, status = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
	result, err := exec.ExecContext(ctx, query, path.Progress, string(path.Status), path.UpdatedAt, path.ID, path.UserID)
	if err != nil {
		return classifyError("failed to update learning path", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return classifyError("failed to get rows affected for learning path update", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("learning path not found").WithContext("path_id", path.ID)
	}
	return nil
}

func (r *LearningRepository) CreateCertificate(ctx context.Context, cert *domain.Certificate) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`INSERT INTO certificates (` + certificateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		cert.ID, cert.UserID, util.StringToNullString(cert.SkillID), cert.Title, cert.Issuer,
		cert.IssuedAt, util.StringToNullString(cert.CredentialURL), cert.CreatedAt)
	if err != nil {
		return classifyError("failed to create certificate", err)
	}
	return nil
}

// ListCertificatesByUser returns certificates newest issue first.
func (r *LearningRepository) ListCertificatesByUser(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Certificate
	query := exec.Rebind(`SELECT ` + certificateColumns + ` FROM certificates WHERE user_id = ? ORDER BY issued_at DESC, id`)
	if err := exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, classifyError("failed to list certificates", err)
	}
	certs := make([]*domain.Certificate, 0, len(rows))
	for i := range rows {
		certs = append(certs, toDomainCertificate(&rows[i]))
	}
	return certs, nil
}
