package domain

import (
	"context"
	"time"
)

type LearningPathStatus string

const (
	LearningPathActive    LearningPathStatus = "active"
	LearningPathCompleted LearningPathStatus = "completed"
)

// LearningPath tracks a user's progress towards a target level on one skill.
type LearningPath struct {
	ID          string
	UserID      string
	SkillID     string
	Title       string
	TargetLevel Level
	Progress    Percentage
	Status      LearningPathStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetProgress records progress; reaching 100 completes the path.
func (p *LearningPath) SetProgress(progress Percentage, now time.Time) {
	p.Progress = progress
	if progress >= MaxPercentage {
		p.Status = LearningPathCompleted
	} else {
		p.Status = LearningPathActive
	}
	p.UpdatedAt = now
}

// Certificate is an external credential a user attached to their profile.
type Certificate struct {
	ID            string
	UserID        string
	SkillID       string // optional
	Title         string
	Issuer        string
	IssuedAt      time.Time
	CredentialURL string
	CreatedAt     time.Time
}

type LearningPathRepository interface {
	CreateLearningPath(ctx context.Context, path *LearningPath) error
	ListLearningPathsByUser(ctx context.Context, userID string) ([]*LearningPath, error)
	GetLearningPath(ctx context.Context, userID, pathID string) (*LearningPath, error)
	UpdateLearningPathProgress(ctx context.Context, path *LearningPath) error
}

type CertificateRepository interface {
	CreateCertificate(ctx context.Context, cert *Certificate) error
	ListCertificatesByUser(ctx context.Context, userID string) ([]*Certificate, error)
}
