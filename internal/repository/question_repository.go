package repository

import (
	"context"

	"career-compass/internal/domain"
	"career-compass/internal/repository/models"
	"career-compass/internal/util"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, skill_id, question_text, options_json, correct_option, difficulty, explanation, position, created_at`

// QuestionRepository implements domain.QuestionRepository using sqlx.
type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	options := make([]string, len(m.Options))
	copy(options, m.Options)
	return &domain.Question{
		ID:            m.ID,
		SkillID:       m.SkillID,
		Text:          m.Text,
		Options:       options,
		CorrectOption: m.CorrectOption,
		Difficulty:    m.Difficulty.String,
		Explanation:   m.Explanation.String,
		Position:      m.Position,
		CreatedAt:     m.CreatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:            q.ID,
		SkillID:       q.SkillID,
		Text:          q.Text,
		Options:       models.StringSlice(q.Options),
		CorrectOption: q.CorrectOption,
		Difficulty:    util.StringToNullString(q.Difficulty),
		Explanation:   util.StringToNullString(q.Explanation),
		Position:      q.Position,
		CreatedAt:     q.CreatedAt,
	}
}

// GetQuestionsBySkill returns an empty slice when the skill has no questions.
func (r *QuestionRepository) GetQuestionsBySkill(ctx context.Context, skillID string) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Question
	query := exec.Rebind(`SELECT ` + questionColumns + ` FROM questions WHERE skill_id = ? ORDER BY position, id`)
	if err := exec.SelectContext(ctx, &rows, query, skillID); err != nil {
		return nil, classifyError("failed to get questions by skill", err)
	}
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	exec := GetExecutor(ctx, r.db)
	m := fromDomainQuestion(question)
	query := exec.Rebind(`INSERT INTO questions (` + questionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query,
		m.ID, m.SkillID, m.Text, m.Options, m.CorrectOption, m.Difficulty, m.Explanation, m.Position, m.CreatedAt)
	if err != nil {
		return classifyError("failed to create question", err)
	}
	return nil
}
