package dto

import (
	"time"

	"career-compass/internal/domain"
)

// CreateLearningPathRequest
// @Description Request body for starting a learning path
type CreateLearningPathRequest struct {
	SkillID     string `json:"skill_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	TargetLevel string `json:"target_level" validate:"required"`
}

// UpdateProgressRequest carries a 0-100 progress value; out-of-range values fail decoding.
type UpdateProgressRequest struct {
	Progress *domain.Percentage `json:"progress" validate:"required"`
}

type LearningPathResponse struct {
	ID            string            `json:"id"`
	SkillID       string            `json:"skill_id"`
	Title         string            `json:"title"`
	TargetLevel   domain.Level      `json:"target_level"`
	CurrentLevel  domain.Level      `json:"current_level,omitempty"`
	TargetReached bool              `json:"target_reached"`
	Progress      domain.Percentage `json:"progress"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type LearningPathsResponse struct {
	Paths []LearningPathResponse `json:"paths"`
}

// CreateCertificateRequest
// @Description Request body for adding a certificate
type CreateCertificateRequest struct {
	SkillID       string    `json:"skill_id,omitempty"`
	Title         string    `json:"title" validate:"required,max=255"`
	Issuer        string    `json:"issuer" validate:"required,max=255"`
	IssuedAt      time.Time `json:"issued_at" validate:"required"`
	CredentialURL string    `json:"credential_url,omitempty" validate:"omitempty,url,max=2000"`
}

type CertificateResponse struct {
	ID            string    `json:"id"`
	SkillID       string    `json:"skill_id,omitempty"`
	Title         string    `json:"title"`
	Issuer        string    `json:"issuer"`
	IssuedAt      time.Time `json:"issued_at"`
	CredentialURL string    `json:"credential_url,omitempty"`
}

type CertificatesResponse struct {
	Certificates []CertificateResponse `json:"certificates"`
}

// ToLearningPathResponse annotates the path with the user's current level, if any.
func ToLearningPathResponse(p *domain.LearningPath, current domain.Level) LearningPathResponse {
	return LearningPathResponse{
		ID:            p.ID,
		SkillID:       p.SkillID,
		Title:         p.Title,
		TargetLevel:   p.TargetLevel,
		CurrentLevel:  current,
		TargetReached: current.AtLeast(p.TargetLevel),
		Progress:      p.Progress,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToCertificateResponse(c *domain.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:            c.ID,
		SkillID:       c.SkillID,
		Title:         c.Title,
		Issuer:        c.Issuer,
		IssuedAt:      c.IssuedAt,
		CredentialURL: c.CredentialURL,
	}
}
