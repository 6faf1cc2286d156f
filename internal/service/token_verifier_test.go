package service

import (
	"testing"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *dto.AuthClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func accessClaims(userID string, expiresIn time.Duration) *dto.AuthClaims {
	now := time.Now()
	return &dto.AuthClaims{
		UserID:    userID,
		TokenType: dto.TokenTypeAccess,
		Roles:     []string{"learner"},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func TestNewTokenVerifier_RequiresSecret(t *testing.T) {
	_, err := NewTokenVerifier("")
	assert.Error(t, err)
}

func TestTokenVerifier_ValidateJWT(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), accessClaims("user-1", time.Hour))
		claims, err := verifier.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, []string{"learner"}, claims.Roles)
	})

	t.Run("token type may be omitted", func(t *testing.T) {
		claims := accessClaims("user-1", time.Hour)
		claims.TokenType = ""
		_, err := verifier.ValidateJWT(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		token  func(t *testing.T) string
		reason string
	}{
		{"expired", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), accessClaims("user-1", -time.Minute))
		}, "token expired"},
		{"wrong secret", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte("other"), accessClaims("user-1", time.Hour))
		}, "invalid token"},
		{"disallowed algorithm", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS512, []byte(testSecret), accessClaims("user-1", time.Hour))
		}, "invalid token"},
		{"missing expiry", func(t *testing.T) string {
			claims := accessClaims("user-1", time.Hour)
			claims.ExpiresAt = nil
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
		}, "invalid token"},
		{"missing user id", func(t *testing.T) string {
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), accessClaims("", time.Hour))
		}, "token has no user_id"},
		{"refresh token", func(t *testing.T) string {
			claims := accessClaims("user-1", time.Hour)
			claims.TokenType = "refresh"
			return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
		}, "not an access token"},
		{"garbage", func(*testing.T) string { return "not-a-jwt" }, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.ValidateJWT(tt.token(t))
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
			assert.ErrorIs(t, err, ErrInvalidJWTToken)

			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.reason, domainErr.Message)
		})
	}
}
