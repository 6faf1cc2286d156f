package middleware

import (
	"strings"

	"career-compass/internal/config"
	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	PrincipalKey        = "principal" // Key for storing the Principal in fiber.Ctx locals
)

// Capabilities granted through auth.role_capabilities.
const (
	CapabilitySubmitAssessment = "assessment:submit"
	CapabilityWriteProfile     = "profile:write"
	CapabilityWriteContent     = "content:write"
	CapabilityReconcile        = "admin:reconcile"
)

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	ValidateJWT(tokenString string) (*dto.AuthClaims, error)
}

// Principal is the authenticated caller.
type Principal struct {
	UserID       string
	Roles        []string
	Capabilities map[string]struct{}
}

func (p *Principal) Can(capability string) bool {
	_, ok := p.Capabilities[capability]
	return ok
}

// Authenticate requires a valid bearer access token and stores the caller's
// Principal in the context.
func Authenticate(validator TokenValidator, authCfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("token is empty")
		}

		claims, err := validator.ValidateJWT(tokenString)
		if err != nil {
			if domain.HasCode(err, domain.CodeUnauthorized) {
				return err
			}
			return domain.NewError(domain.CodeUnauthorized, "invalid token", err)
		}

		c.Locals(PrincipalKey, &Principal{
			UserID:       claims.UserID,
			Roles:        claims.Roles,
			Capabilities: authCfg.CapabilitiesFor(claims.Roles),
		})
		return c.Next()
	}
}

// RequireCapability rejects callers whose roles do not grant capability.
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !principal.Can(capability) {
			logger.Get().Warn("Capability denied",
				zap.String("user_id", principal.UserID),
				zap.Strings("roles", principal.Roles),
				zap.String("capability", capability))
			return domain.NewForbiddenError("missing capability").WithContext("capability", capability)
		}
		return c.Next()
	}
}

// PrincipalFrom returns the Principal stored by Authenticate.
func PrincipalFrom(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(PrincipalKey).(*Principal)
	return principal, ok && principal != nil
}
