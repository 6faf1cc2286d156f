package domain

import (
	"fmt"
	"strings"
)

// Level is the competency tier derived from a percentage.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// Lower bounds of each tier, inclusive.
const (
	IntermediateThreshold Percentage = 50
	AdvancedThreshold     Percentage = 80
)

// LevelFor applies the fixed threshold table: >= 80 Advanced, >= 50 Intermediate,
// otherwise Beginner.
func LevelFor(p Percentage) Level {
	switch {
	case p >= AdvancedThreshold:
		return LevelAdvanced
	case p >= IntermediateThreshold:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// ParseLevel accepts a level name in any letter case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner, nil
	case "intermediate":
		return LevelIntermediate, nil
	case "advanced":
		return LevelAdvanced, nil
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown level %q", s))
}

func (l Level) Valid() bool {
	return l.Rank() > 0
}

// Rank orders levels; unknown levels rank 0.
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	}
	return 0
}

// AtLeast reports whether l is the same tier as other or above it.
func (l Level) AtLeast(other Level) bool {
	return l.Valid() && l.Rank() >= other.Rank()
}
