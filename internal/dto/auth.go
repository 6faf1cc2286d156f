package dto

import "github.com/golang-jwt/jwt/v5"

const TokenTypeAccess = "access"

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string   `json:"user_id"`
	TokenType string   `json:"token_type"` // "access" or "refresh"
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}
