package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"career-compass/internal/domain"
	"career-compass/internal/util"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var idempotencyKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report JSON field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate checks the validate tags of a request struct. Failures are
// returned as domain.ValidationErrors.
func Validate(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInvalidInputError("request could not be validated")
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "email", "url":
		return domain.NewInvalidFormatError(field, fe.Value())
	case "min", "max":
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("field must satisfy %s=%s", fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		}
	case "oneof":
		return domain.ValidationError{
			Field:   field,
			Message: "field must be one of: " + fe.Param(),
			Value:   fe.Value(),
		}
	default:
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("field must satisfy %s constraint", fe.Tag()),
			Value:   fe.Value(),
		}
	}
}

// fieldPath drops the top-level struct name, e.g. "skills[0].skill_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidateID checks a ULID path parameter.
func ValidateID(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

// ValidateIdempotencyKey accepts an empty key or up to 64 characters of [A-Za-z0-9._:-].
func ValidateIdempotencyKey(key string) domain.ValidationErrors {
	if key == "" || idempotencyKeyPattern.MatchString(key) {
		return nil
	}
	return domain.ValidationErrors{domain.NewInvalidFormatError("Idempotency-Key", key)}
}

// ParseBoundedInt parses an optional integer query value. An empty value
// yields def.
func ParseBoundedInt(field, raw string, def, min, max int) (int, domain.ValidationErrors) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(field, raw)}
	}
	if n < min || n > max {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError(field, n, min, max)}
	}
	return n, nil
}
