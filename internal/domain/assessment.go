package domain

import (
	"sort"
	"time"
)

// Question belongs to one skill and is immutable once authored.
type Question struct {
	ID            string
	SkillID       string
	Text          string
	Options       []string
	CorrectOption string
	Difficulty    string
	Explanation   string
	Position      int
	CreatedAt     time.Time
}

// SubmittedAnswers maps a question ID to the chosen option text.
// A missing key means the question was left unanswered.
type SubmittedAnswers map[string]string

// SkillSubmission is the part of a submission that covers one skill.
type SkillSubmission struct {
	SkillID   string
	Answers   SubmittedAnswers
	TimeTaken *time.Duration
}

// Submission is one assessment covering one or more skills.
type Submission struct {
	ID     string
	Skills []SkillSubmission
}

// SkillResult is the outcome of scoring one skill in one submission.
type SkillResult struct {
	SkillID        string
	SubmissionID   string
	TotalQuestions int
	CorrectCount   int
	Percentage     Percentage
	Level          Level
	TimeTaken      *time.Duration
}

// AssessmentRecord is an append-only history row for one skill of one submission.
type AssessmentRecord struct {
	ID             string
	UserID         string
	SkillID        string
	SubmissionID   string
	TotalQuestions int
	CorrectCount   int
	Percentage     Percentage
	Level          Level
	TimeTaken      *time.Duration
	CreatedAt      time.Time
}

// UserSkillState is the rolling current state of a user on a skill.
// There is at most one per (UserID, SkillID).
type UserSkillState struct {
	ID               string
	UserID           string
	SkillID          string
	Score            Percentage
	Level            Level
	Confidence       int
	LastAssessed     time.Time
	LastSubmissionID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewAssessmentRecord copies a scored result into a history row.
func NewAssessmentRecord(id, userID string, result *SkillResult, createdAt time.Time) *AssessmentRecord {
	return &AssessmentRecord{
		ID:             id,
		UserID:         userID,
		SkillID:        result.SkillID,
		SubmissionID:   result.SubmissionID,
		TotalQuestions: result.TotalQuestions,
		CorrectCount:   result.CorrectCount,
		Percentage:     result.Percentage,
		Level:          result.Level,
		TimeTaken:      result.TimeTaken,
		CreatedAt:      createdAt,
	}
}

// IsNewerThan orders records by CreatedAt, then by ID. IDs are ULIDs so the
// tie-break follows generation order.
func (r *AssessmentRecord) IsNewerThan(other *AssessmentRecord) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.After(other.CreatedAt)
	}
	return r.ID > other.ID
}

// LatestPerSkill picks the newest record of each skill. The result does not
// depend on the order of records.
func LatestPerSkill(records []*AssessmentRecord) map[string]*AssessmentRecord {
	latest := make(map[string]*AssessmentRecord)
	for _, rec := range records {
		if rec == nil {
			continue
		}
		current, ok := latest[rec.SkillID]
		if !ok || rec.IsNewerThan(current) {
			latest[rec.SkillID] = rec
		}
	}
	return latest
}

// SubmissionsPerSkill lists the distinct submission IDs of each skill,
// sorted. A record without a submission ID stands for itself.
func SubmissionsPerSkill(records []*AssessmentRecord) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, rec := range records {
		if rec == nil {
			continue
		}
		key := rec.SubmissionID
		if key == "" {
			key = rec.ID
		}
		if seen[rec.SkillID] == nil {
			seen[rec.SkillID] = make(map[string]struct{})
		}
		seen[rec.SkillID][key] = struct{}{}
	}
	out := make(map[string][]string, len(seen))
	for skillID, ids := range seen {
		list := make([]string, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Strings(list)
		out[skillID] = list
	}
	return out
}

// CountPerSkill counts distinct submissions by skill. Repeated records of the
// same submission count once.
func CountPerSkill(records []*AssessmentRecord) map[string]int {
	counts := make(map[string]int)
	for skillID, ids := range SubmissionsPerSkill(records) {
		counts[skillID] = len(ids)
	}
	return counts
}

// SortRecordsNewestFirst sorts in place using IsNewerThan.
func SortRecordsNewestFirst(records []*AssessmentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].IsNewerThan(records[j])
	})
}
