package repository

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

const assessmentColumns = `id, user_id, skill_id, submission_id, total_questions, correct_count, percentage, skill_level, time_taken_ms, created_at`

// AssessmentRepository implements domain.AssessmentRepository using sqlx.
// Rows are never updated or deleted.
type AssessmentRepository struct {
	db *sqlx.DB
}

func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func toDomainAssessmentRecord(m *models.AssessmentRecord) *domain.AssessmentRecord {
	return &domain.AssessmentRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		SkillID:        m.SkillID,
		SubmissionID:   m.SubmissionID,
		TotalQuestions: m.TotalQuestions,
		CorrectCount:   m.CorrectCount,
		Percentage:     m.Percentage,
		Level:          domain.Level(m.Level),
		TimeTaken:      util.NullInt64ToDuration(m.TimeTakenMs),
		CreatedAt:      m.CreatedAt,
	}
}

func fromDomainAssessmentRecord(r *domain.AssessmentRecord) *models.AssessmentRecord {
	return &models.AssessmentRecord{
		ID:             r.ID,
		UserID:         r.UserID,
		SkillID:        r.SkillID,
		SubmissionID:   r.SubmissionID,
		TotalQuestions: r.TotalQuestions,
		CorrectCount:   r.CorrectCount,
		Percentage:     r.Percentage,
		Level:          string(r.Level),
		TimeTakenMs:    util.DurationToNullInt64(r.TimeTaken),
		CreatedAt:      r.CreatedAt,
	}
}

func toDomainAssessmentRecords(rows []models.AssessmentRecord) []*domain.AssessmentRecord {
	records := make([]*domain.AssessmentRecord, 0, len(rows))
	for i := range rows {
		records = append(records, toDomainAssessmentRecord(&rows[i]))
	}
	return records
}

// CreateRecord inserts one row in a single statement.
func (r *AssessmentRepository) CreateRecord(ctx context.Context, record *domain.AssessmentRecord) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainAssessmentRecord(record)
	query := exec.Rebind(`INSERT INTO assessment_records (` + assessmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.UserID, m.SkillID, m.SubmissionID, m.TotalQuestions, m.CorrectCount,
		m.Percentage, m.Level, m.TimeTakenMs, m.CreatedAt)
	if err != nil {
		return classifyError("failed to create assessment record", err)
	}
	return nil
}

// ListLatestByUser returns the newest record of each skill, ordered by skill ID.
func (r *AssessmentRepository) ListLatestByUser(ctx context.Context, userID string) ([]*domain.AssessmentRecord, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + assessmentColumns + ` FROM (
		SELECT ar.*, ROW_NUMBER() OVER (PARTITION BY ar.skill_id ORDER BY ar.created_at DESC, ar.id DESC) AS rn
		FROM assessment_records ar
		WHERE ar.user_id = ?
	) latest
	WHERE rn = 1
	ORDER BY skill_id`)

	var rows []models.AssessmentRecord
	if err := exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, classifyError("failed to list latest assessments", err)
	}
	return toDomainAssessmentRecords(rows), nil
}

// ListByUser returns one page of the user's history, newest first, and the total count.
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.AssessmentRecord, int, error) {
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, exec.Rebind(`SELECT COUNT(*) FROM assessment_records WHERE user_id = ?`), userID); err != nil {
		return nil, 0, classifyError("failed to count assessments", err)
	}
	if total == 0 {
		return []*domain.AssessmentRecord{}, 0, nil
	}

	query := exec.Rebind(`SELECT ` + assessmentColumns + ` FROM assessment_records
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`)
	var rows []models.AssessmentRecord
	if err := exec.SelectContext(ctx, &rows, query, userID, offset, limit); err != nil {
		return nil, 0, classifyError("failed to list assessments", err)
	}
	return toDomainAssessmentRecords(rows), total, nil
}

// ListAllByUser returns every record without ordering guarantees.
func (r *AssessmentRepository) ListAllByUser(ctx context.Context, userID string) ([]*domain.AssessmentRecord, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.AssessmentRecord
	query := exec.Rebind(`SELECT ` + assessmentColumns + ` FROM assessment_records WHERE user_id = ?`)
	if err := exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, classifyError("failed to list assessments", err)
	}
	return toDomainAssessmentRecords(rows), nil
}

func (r *AssessmentRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	exec := GetExecutor(ctx, r.db)
	var ids []string
	if err := exec.SelectContext(ctx, &ids, `SELECT DISTINCT user_id FROM assessment_records ORDER BY user_id`); err != nil {
		return nil, classifyError("failed to list assessed users", err)
	}
	return ids, nil
}

func (r *AssessmentRepository) HasSubmission(ctx context.Context, userID, skillID, submissionID string) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	var n int
	query := exec.Rebind(`SELECT COUNT(*) FROM assessment_records WHERE user_id = ? AND skill_id = ? AND submission_id = ?`)
	if err := exec.GetContext(ctx, &n, query, userID, skillID, submissionID); err != nil {
		return false, classifyError("failed to look up assessment submission", err)
	}
	return n > 0, nil
}
