package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinPercentage = 0.0
	MaxPercentage = 100.0
)

// Percentage is a score on the 0-100 scale and the only score type in the
// system. Constructors, JSON and SQL decoding all reject values outside the range.
type Percentage float64

// NewPercentage validates v and returns it as a Percentage.
func NewPercentage(v float64) (Percentage, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, NewInvalidInputError("percentage must be a finite number")
	}
	if v < MinPercentage || v > MaxPercentage {
		return 0, NewInvalidInputError(fmt.Sprintf("percentage %v is outside the range 0-100", v))
	}
	return Percentage(v), nil
}

// MustPercentage panics on an invalid value; intended for constants and tests.
func MustPercentage(v float64) Percentage {
	p, err := NewPercentage(v)
	if err != nil {
		panic(err)
	}
	return p
}

// PercentageOf returns 100 * part / total.
func PercentageOf(part, total int) (Percentage, error) {
	if total <= 0 {
		return 0, NewInvalidInputError("total must be greater than zero")
	}
	if part < 0 || part > total {
		return 0, NewInvalidInputError(fmt.Sprintf("part %d is outside the range 0-%d", part, total))
	}
	return NewPercentage(100 * float64(part) / float64(total))
}

// MeanPercentage is the arithmetic mean of ps.
func MeanPercentage(ps []Percentage) (Percentage, error) {
	if len(ps) == 0 {
		return 0, NewInvalidInputError("cannot average an empty set of percentages")
	}
	var sum float64
	for _, p := range ps {
		sum += float64(p)
	}
	return NewPercentage(sum / float64(len(ps)))
}

func (p Percentage) Float64() float64 {
	return float64(p)
}

func (p Percentage) validate() error {
	_, err := NewPercentage(float64(p))
	return err
}

// MarshalJSON implements json.Marshaler.
func (p Percentage) MarshalJSON() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return NewInvalidInputError("percentage must be a number")
	}
	parsed, err := NewPercentage(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer.
func (p Percentage) Value() (driver.Value, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return float64(p), nil
}

// Scan implements sql.Scanner. NUMERIC columns arrive as float64, int64 or text
// depending on the driver.
func (p *Percentage) Scan(src interface{}) error {
	var v float64
	switch t := src.(type) {
	case nil:
		*p = 0
		return nil
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int64:
		v = float64(t)
	case []byte:
		return p.scanString(string(t))
	case string:
		return p.scanString(t)
	default:
		return fmt.Errorf("percentage: unsupported scan type %T", src)
	}
	parsed, err := NewPercentage(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p *Percentage) scanString(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("percentage: cannot parse %q: %w", s, err)
	}
	parsed, err := NewPercentage(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
