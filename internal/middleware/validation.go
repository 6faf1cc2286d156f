package middleware

import (
	"career-compass/internal/domain"
	"career-compass/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyKeyLocal  = "idempotency_key"
)

// ParseBody decodes the JSON body into out and checks its validate tags.
func ParseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("invalid request body: " + err.Error())
	}
	return validation.Validate(out)
}

// ValidateIdempotencyKey checks the Idempotency-Key header and stores it for
// the handler.
func ValidateIdempotencyKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(IdempotencyKeyHeader)
		if errs := validation.ValidateIdempotencyKey(key); len(errs) > 0 {
			return errs
		}
		c.Locals(IdempotencyKeyLocal, key)
		return c.Next()
	}
}

// ValidatePathID rejects a malformed ULID route parameter.
func ValidatePathID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := validation.ValidateID(param, c.Params(param)); len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}

// IdempotencyKey returns the key stored by ValidateIdempotencyKey.
func IdempotencyKey(c *fiber.Ctx) string {
	key, _ := c.Locals(IdempotencyKeyLocal).(string)
	return key
}
