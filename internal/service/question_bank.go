package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"career-compass/internal/cache"
	"career-compass/internal/domain"
	"career-compass/internal/logger"
	"career-compass/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuestionBank is the read-through accessor for a skill's questions. The
// cache is optional; any cache failure falls through to the repository.
type QuestionBank struct {
	repo    domain.QuestionRepository
	store   domain.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	sfGroup singleflight.Group
}

func NewQuestionBank(repo domain.QuestionRepository, store domain.Cache, ttl time.Duration, m *metrics.Metrics) *QuestionBank {
	return &QuestionBank{repo: repo, store: store, ttl: ttl, metrics: m}
}

// GetQuestions returns the skill's questions ordered by position, then ID.
// A skill without questions yields an empty slice.
func (b *QuestionBank) GetQuestions(ctx context.Context, skillID string) ([]*domain.Question, error) {
	key := cache.QuestionBankKey(skillID)

	if questions, ok := b.fromCache(ctx, key); ok {
		return questions, nil
	}

	v, err, _ := b.sfGroup.Do(key, func() (interface{}, error) {
		questions, err := b.repo.GetQuestionsBySkill(ctx, skillID)
		if err != nil {
			return nil, err
		}
		if questions == nil {
			questions = []*domain.Question{}
		}
		b.toCache(ctx, key, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Question), nil
}

// Invalidate drops the cached bank of a skill.
func (b *QuestionBank) Invalidate(ctx context.Context, skillID string) {
	if b.store == nil {
		return
	}
	if err := b.store.Delete(ctx, cache.QuestionBankKey(skillID)); err != nil {
		logger.Get().Warn("Failed to invalidate question bank cache", zap.String("skill_id", skillID), zap.Error(err))
	}
}

func (b *QuestionBank) fromCache(ctx context.Context, key string) ([]*domain.Question, bool) {
	if b.store == nil {
		return nil, false
	}
	raw, err := b.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			b.metrics.ObserveQuestionBankCache("miss")
		} else {
			b.metrics.ObserveQuestionBankCache("error")
			logger.Get().Warn("Question bank cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var questions []*domain.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		b.metrics.ObserveQuestionBankCache("error")
		logger.Get().Warn("Discarding undecodable question bank cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	b.metrics.ObserveQuestionBankCache("hit")
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, true
}

func (b *QuestionBank) toCache(ctx context.Context, key string, questions []*domain.Question) {
	if b.store == nil {
		return
	}
	data, err := json.Marshal(questions)
	if err != nil {
		logger.Get().Warn("Failed to encode question bank", zap.String("key", key), zap.Error(err))
		return
	}
	if err := b.store.Set(ctx, key, string(data), b.ttl); err != nil {
		logger.Get().Warn("Question bank cache write failed", zap.String("key", key), zap.Error(err))
	}
}
