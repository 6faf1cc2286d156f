package cache

import "strings"

const (
	GlobalKeyPrefix = "compass"
)

// Service and object names used in cache keys.
const (
	ServiceAssessment = "assessment"
	ObjectQuestions   = "questions"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuestionBankKey is the key holding the cached question bank of a skill.
func QuestionBankKey(skillID string) string {
	return GenerateCacheKey(ServiceAssessment, ObjectQuestions, skillID)
}
