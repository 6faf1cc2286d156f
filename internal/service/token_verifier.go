package service

import (
	"errors"
	"fmt"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// TokenVerifier validates HS256 access tokens issued elsewhere.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}, nil
}

// ValidateJWT returns the claims of a valid access token, or an unauthorized error.
func (v *TokenVerifier) ValidateJWT(tokenString string) (*dto.AuthClaims, error) {
	token, err := v.parser.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		snippet := tokenString[:min(len(tokenString), 20)] + "..."
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet))
			return nil, domain.NewError(domain.CodeUnauthorized, "token expired", fmt.Errorf("%w: %v", ErrInvalidJWTToken, err))
		}
		logger.Get().Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet))
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid token", fmt.Errorf("%w: %v", ErrInvalidJWTToken, err))
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, domain.NewError(domain.CodeUnauthorized, "invalid token", ErrInvalidJWTToken)
	}
	if claims.UserID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "token has no user_id", ErrInvalidJWTToken)
	}
	if claims.TokenType != "" && claims.TokenType != dto.TokenTypeAccess {
		return nil, domain.NewError(domain.CodeUnauthorized, "not an access token", ErrInvalidJWTToken)
	}
	return claims, nil
}
