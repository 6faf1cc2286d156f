package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"career-compass/internal/domain"
	"career-compass/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRoutes(t *testing.T) {
	app, m := setupApp()
	m.catalog.ListDomainsFunc = func(ctx context.Context) ([]dto.DomainResponse, error) {
		return []dto.DomainResponse{{ID: "d1", Name: "Data"}}, nil
	}
	m.catalog.ListSkillsFunc = func(ctx context.Context, domainID string) ([]dto.SkillResponse, error) {
		if domainID != "d1" {
			return nil, domain.NewNotFoundError("domain not found")
		}
		return []dto.SkillResponse{{ID: "s1", Name: "SQL"}}, nil
	}
	m.catalog.GetSkillFunc = func(ctx context.Context, skillID string) (*dto.SkillResponse, error) {
		return &dto.SkillResponse{ID: skillID, Name: "SQL"}, nil
	}
	m.catalog.GetQuizFunc = func(ctx context.Context, skillID string) (*dto.QuizResponse, error) {
		return &dto.QuizResponse{SkillID: skillID, Questions: []dto.QuizQuestionResponse{{ID: "q1", Options: []string{"A", "B"}}}}, nil
	}

	resp, raw := doRequest(t, app, "GET", "/api/domains", "learner-token", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var domains []dto.DomainResponse
	require.NoError(t, json.Unmarshal(raw, &domains))
	assert.Equal(t, "Data", domains[0].Name)

	resp, _ = doRequest(t, app, "GET", "/api/domains/d1/skills", "learner-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, app, "GET", "/api/domains/d9/skills", "learner-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/api/skills/s1", "learner-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doRequest(t, app, "GET", "/api/skills/s1/quiz", "learner-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "correct_option")

	resp, _ = doRequest(t, app, "GET", "/api/domains", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateQuestion(t *testing.T) {
	body := dto.CreateQuestionRequest{Text: "2 + 2?", Options: []string{"3", "4"}, CorrectOption: "4", Difficulty: "easy"}

	t.Run("editor creates", func(t *testing.T) {
		app, m := setupApp()
		m.catalog.CreateQuestionFunc = func(ctx context.Context, skillID string, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
			assert.Equal(t, "s1", skillID)
			return &dto.QuestionResponse{ID: "q9", Text: req.Text, CorrectOption: req.CorrectOption}, nil
		}
		resp, raw := doRequest(t, app, "POST", "/api/skills/s1/questions", "editor-token", body)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	})

	t.Run("learner forbidden", func(t *testing.T) {
		app, _ := setupApp()
		resp, _ := doRequest(t, app, "POST", "/api/skills/s1/questions", "learner-token", body)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		app, _ := setupApp()
		bad := body
		bad.Difficulty = "extreme"
		resp, _ := doRequest(t, app, "POST", "/api/skills/s1/questions", "editor-token", bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
