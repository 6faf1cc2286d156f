package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"career-compass/internal/config"
	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	os.Exit(m.Run())
}

// Manual mock for middleware.TokenValidator
type ManualMockValidator struct {
	ValidateJWTFunc func(tokenString string) (*dto.AuthClaims, error)
}

func (m *ManualMockValidator) ValidateJWT(tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(tokenString)
	}
	return nil, errors.New("ValidateJWTFunc not set on mock")
}

var authCfg = config.AuthConfig{RoleCapabilities: map[string][]string{
	"learner": {middleware.CapabilitySubmitAssessment, middleware.CapabilityWriteProfile},
	"admin":   {middleware.CapabilityReconcile},
}}

func newApp(validator middleware.TokenValidator, capability string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handlers := []fiber.Handler{middleware.Authenticate(validator, authCfg)}
	if capability != "" {
		handlers = append(handlers, middleware.RequireCapability(capability))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(principal.UserID)
	})
	app.Get("/protected", handlers...)
	return app
}

func decodeError(t *testing.T, body []byte) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestAuthenticate(t *testing.T) {
	validator := &ManualMockValidator{ValidateJWTFunc: func(tokenString string) (*dto.AuthClaims, error) {
		switch tokenString {
		case "learner-token":
			return &dto.AuthClaims{UserID: "user-1", TokenType: dto.TokenTypeAccess, Roles: []string{"Learner"}}, nil
		case "admin-token":
			return &dto.AuthClaims{UserID: "admin-1", TokenType: dto.TokenTypeAccess, Roles: []string{"admin"}}, nil
		case "plain-error":
			return nil, errors.New("signature is invalid")
		default:
			return nil, domain.NewUnauthorizedError("invalid token")
		}
	}}

	tests := []struct {
		name       string
		authHeader string
		capability string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{"missing header", "", "", fiber.StatusUnauthorized, "", string(domain.CodeUnauthorized)},
		{"wrong scheme", "Basic abc", "", fiber.StatusUnauthorized, "", string(domain.CodeUnauthorized)},
		{"empty token", "Bearer ", "", fiber.StatusUnauthorized, "", string(domain.CodeUnauthorized)},
		{"invalid token", "Bearer nope", "", fiber.StatusUnauthorized, "", string(domain.CodeUnauthorized)},
		{"validator plain error", "Bearer plain-error", "", fiber.StatusUnauthorized, "", string(domain.CodeUnauthorized)},
		{"valid token", "Bearer learner-token", "", fiber.StatusOK, "user-1", ""},
		{"role grants capability", "Bearer learner-token", middleware.CapabilitySubmitAssessment, fiber.StatusOK, "user-1", ""},
		{"role lacks capability", "Bearer learner-token", middleware.CapabilityReconcile, fiber.StatusForbidden, "", string(domain.CodeForbidden)},
		{"admin capability", "Bearer admin-token", middleware.CapabilityReconcile, fiber.StatusOK, "admin-1", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(validator, tc.capability)
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tc.authHeader)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			body := make([]byte, 4096)
			n, _ := resp.Body.Read(body)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, decodeError(t, body[:n]).Code)
			} else {
				assert.Equal(t, tc.wantBody, string(body[:n]))
			}
		})
	}
}

func TestRequireCapability_WithoutAuthenticate(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", middleware.RequireCapability(middleware.CapabilityWriteContent), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.NewNotFoundError("skill not found"), fiber.StatusNotFound},
		{domain.NewInvalidInputError("bad"), fiber.StatusBadRequest},
		{domain.NewError(domain.CodeValidation, "bad", nil), fiber.StatusBadRequest},
		{domain.ValidationErrors{domain.NewMissingFieldError("email")}, fiber.StatusBadRequest},
		{domain.NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{domain.NewForbiddenError("no"), fiber.StatusForbidden},
		{domain.NewConcurrencyConflictError("busy", nil), fiber.StatusConflict},
		{domain.NewPersistenceError("db down", nil), fiber.StatusServiceUnavailable},
		{domain.NewEmbeddingServiceError(errors.New("ollama down")), fiber.StatusServiceUnavailable},
		{domain.NewInternalError("oops", nil), fiber.StatusInternalServerError},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
		{errors.New("unexpected"), fiber.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			err := tc.err
			app.Get("/", func(c *fiber.Ctx) error { return err })

			resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, testErr)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestErrorHandler_IncludesContext(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewNotFoundError("skill not found").WithContext("skill_id", "s9")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "s9", body.Details["skill_id"])
	assert.Equal(t, fiber.StatusNotFound, body.Status)
}

func TestParseBody(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Put("/profile", func(c *fiber.Ctx) error {
		var req dto.UpdateProfileRequest
		if err := middleware.ParseBody(c, &req); err != nil {
			return err
		}
		return c.SendString(req.Email)
	})

	send := func(body string) (int, string) {
		req := httptest.NewRequest("PUT", "/profile", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		buf := make([]byte, 4096)
		n, _ := resp.Body.Read(buf)
		return resp.StatusCode, string(buf[:n])
	}

	status, body := send(`{"email":"ada@example.com"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ada@example.com", body)

	status, body = send(`{"email":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, string(domain.CodeValidation))

	status, _ = send(`{"email":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestIdempotencyAndPathValidation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Post("/submit", middleware.ValidateIdempotencyKey(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.IdempotencyKey(c))
	})
	app.Get("/paths/:pathID", middleware.ValidatePathID("pathID"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/submit", nil)
	req.Header.Set(middleware.IdempotencyKeyHeader, "retry-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/submit", nil)
	req.Header.Set(middleware.IdempotencyKeyHeader, "bad key!")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/paths/01ARZ3NDEKTSV4RRFFQ69G5FAV", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/paths/not-a-ulid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
