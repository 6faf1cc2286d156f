// Package models holds the row shapes read and written by the repositories.
// Tags are lower case; the Oracle connection upper-cases them.
package models

import (
	"database/sql"
	"time"

	"career-compass/internal/domain"
)

type User struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Name      sql.NullString `db:"name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type Domain struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
}

type Skill struct {
	ID          string         `db:"id"`
	DomainID    string         `db:"domain_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
}

type Question struct {
	ID            string         `db:"id"`
	SkillID       string         `db:"skill_id"`
	Text          string         `db:"question_text"`
	Options       StringSlice    `db:"options_json"`
	CorrectOption string         `db:"correct_option"`
	Difficulty    sql.NullString `db:"difficulty"`
	Explanation   sql.NullString `db:"explanation"`
	Position      int            `db:"position"`
	CreatedAt     time.Time      `db:"created_at"`
}

// AssessmentRecord is one row of assessment_records.
type AssessmentRecord struct {
	ID             string            `db:"id"`
	UserID         string            `db:"user_id"`
	SkillID        string            `db:"skill_id"`
	SubmissionID   string            `db:"submission_id"`
	TotalQuestions int               `db:"total_questions"`
	CorrectCount   int               `db:"correct_count"`
	Percentage     domain.Percentage `db:"percentage"`
	Level          string            `db:"skill_level"`
	TimeTakenMs    sql.NullInt64     `db:"time_taken_ms"`
	CreatedAt      time.Time         `db:"created_at"`
}

type UserSkillState struct {
	ID               string            `db:"id"`
	UserID           string            `db:"user_id"`
	SkillID          string            `db:"skill_id"`
	Score            domain.Percentage `db:"score"`
	Level            string            `db:"skill_level"`
	Confidence       int               `db:"confidence"`
	LastAssessed     time.Time         `db:"last_assessed"`
	LastSubmissionID sql.NullString    `db:"last_submission_id"`
	CreatedAt        time.Time         `db:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at"`
}

type LearningPath struct {
	ID          string            `db:"id"`
	UserID      string            `db:"user_id"`
	SkillID     string            `db:"skill_id"`
	Title       string            `db:"title"`
	TargetLevel string            `db:"target_level"`
	Progress    domain.Percentage `db:"progress"`
	Status      string            `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
}

type Certificate struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	SkillID       sql.NullString `db:"skill_id"`
	Title         string         `db:"title"`
	Issuer        string         `db:"issuer"`
	IssuedAt      time.Time      `db:"issued_at"`
	CredentialURL sql.NullString `db:"credential_url"`
	CreatedAt     time.Time      `db:"created_at"`
}

type Career struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
}

type CareerRequirement struct {
	CareerID string `db:"career_id"`
	SkillID  string `db:"skill_id"`
	MinLevel string `db:"min_level"`
}
