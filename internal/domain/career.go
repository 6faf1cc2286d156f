package domain

import (
	"context"
	"sort"
)

// CareerRequirement is a skill a career needs, at MinLevel or above.
type CareerRequirement struct {
	SkillID  string
	MinLevel Level
}

type Career struct {
	ID           string
	Title        string
	Description  string
	Requirements []CareerRequirement
}

// CareerMatch describes how well a user's current levels cover a career.
type CareerMatch struct {
	Career  *Career
	Match   Percentage
	Met     []string
	Missing []CareerRequirement
}

type CareerRepository interface {
	ListCareers(ctx context.Context) ([]*Career, error)
}

// MatchCareer compares current levels (by skill ID) with the career's
// requirements. A career without requirements is a full match.
func MatchCareer(career *Career, levels map[string]Level) CareerMatch {
	match := CareerMatch{Career: career, Met: []string{}, Missing: []CareerRequirement{}}
	if len(career.Requirements) == 0 {
		match.Match = MaxPercentage
		return match
	}
	for _, req := range career.Requirements {
		if current, ok := levels[req.SkillID]; ok && current.AtLeast(req.MinLevel) {
			match.Met = append(match.Met, req.SkillID)
		} else {
			match.Missing = append(match.Missing, req)
		}
	}
	// len(Met) <= len(Requirements), so this cannot fail.
	match.Match, _ = PercentageOf(len(match.Met), len(career.Requirements))
	return match
}

// RankCareerMatches sorts by match descending, then by title.
func RankCareerMatches(matches []CareerMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Match != matches[j].Match {
			return matches[i].Match > matches[j].Match
		}
		return matches[i].Career.Title < matches[j].Career.Title
	})
}
