package validation

import (
	"testing"
	"time"

	"career-compass/internal/domain"
	"career-compass/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SubmitAssessmentRequest(t *testing.T) {
	assert.NoError(t, Validate(&dto.SubmitAssessmentRequest{
		Skills: []dto.SkillAnswersRequest{{SkillID: "s1", Answers: map[string]string{"q1": "A"}}},
	}))

	err := Validate(&dto.SubmitAssessmentRequest{})
	require.Error(t, err)
	errs, ok := err.(domain.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "skills", errs[0].Field)

	negative := -5
	err = Validate(&dto.SubmitAssessmentRequest{
		Skills: []dto.SkillAnswersRequest{{SkillID: "", TimeTakenSeconds: &negative}},
	})
	errs, ok = err.(domain.ValidationErrors)
	require.True(t, ok)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"skills[0].skill_id", "skills[0].time_taken_seconds"}, fields)
}

func TestValidate_Messages(t *testing.T) {
	err := Validate(&dto.UpdateProfileRequest{Email: "not-an-email"})
	errs, ok := err.(domain.ValidationErrors)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "field has an invalid format", errs[0].Message)

	err = Validate(&dto.CreateQuestionRequest{Text: "?", Options: []string{"a", "b"}, CorrectOption: "a", Difficulty: "extreme"})
	errs, ok = err.(domain.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "difficulty", errs[0].Field)
	assert.Contains(t, errs[0].Message, "easy medium hard")

	assert.NoError(t, Validate(&dto.CreateCertificateRequest{Title: "CKA", Issuer: "CNCF", IssuedAt: time.Now()}))
}

func TestValidateID(t *testing.T) {
	assert.Nil(t, ValidateID("path_id", "01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.Len(t, ValidateID("path_id", ""), 1)
	assert.Equal(t, "field has an invalid format", ValidateID("path_id", "not-a-ulid")[0].Message)
}

func TestValidateIdempotencyKey(t *testing.T) {
	assert.Nil(t, ValidateIdempotencyKey(""))
	assert.Nil(t, ValidateIdempotencyKey("retry-2024-03-01:7"))
	assert.NotNil(t, ValidateIdempotencyKey("has space"))
	assert.NotNil(t, ValidateIdempotencyKey(string(make([]byte, 65))))
}

func TestParseBoundedInt(t *testing.T) {
	n, errs := ParseBoundedInt("limit", "", 20, 1, 100)
	assert.Nil(t, errs)
	assert.Equal(t, 20, n)

	n, errs = ParseBoundedInt("limit", "50", 20, 1, 100)
	assert.Nil(t, errs)
	assert.Equal(t, 50, n)

	_, errs = ParseBoundedInt("limit", "abc", 20, 1, 100)
	assert.Len(t, errs, 1)

	_, errs = ParseBoundedInt("limit", "500", 20, 1, 100)
	assert.Equal(t, "field must be between 1 and 100", errs[0].Message)
}
