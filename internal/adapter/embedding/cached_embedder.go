package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"career-compass/internal/cache"
	"career-compass/internal/domain"
	"career-compass/internal/logger"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour

// CachedEmbedder stores embeddings in the cache keyed by a hash of the text,
// so re-ingesting a document or repeating a search does not call the model again.
type CachedEmbedder struct {
	next    embeddings.Embedder
	cache   domain.Cache
	source  string
	ttl     time.Duration
	sfGroup singleflight.Group
}

var _ embeddings.Embedder = (*CachedEmbedder)(nil)

func NewCachedEmbedder(next embeddings.Embedder, c domain.Cache, source string, ttl time.Duration) *CachedEmbedder {
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}
	return &CachedEmbedder{next: next, cache: c, source: source, ttl: ttl}
}

func hashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (e *CachedEmbedder) key(text string) string {
	return cache.GenerateCacheKey("embedding", e.source, hashString(text))
}

func (e *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var vec []float32
	if err := gob.NewDecoder(bytes.NewReader([]byte(raw))).Decode(&vec); err != nil || len(vec) == 0 {
		logger.Get().Warn("Discarding undecodable cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (e *CachedEmbedder) store(ctx context.Context, key string, vec []float32) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(vec); err != nil {
		logger.Get().Warn("Failed to encode embedding for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, key, buffer.String(), e.ttl); err != nil {
		logger.Get().Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

// EmbedQuery implements embeddings.Embedder.
func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}
	key := e.key(text)
	if vec, ok := e.lookup(ctx, key); ok {
		return vec, nil
	}

	res, err, _ := e.sfGroup.Do(key, func() (interface{}, error) {
		vec, err := e.next.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding using %s: %w", e.source, err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("received empty embedding from %s", e.source)
		}
		e.store(ctx, key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]float32), nil
}

// EmbedDocuments implements embeddings.Embedder. Only texts without a cached
// embedding are sent to the model, in one batch.
func (e *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := e.lookup(ctx, e.key(text)); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := e.next.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings using %s: %w", e.source, err)
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missing))
	}
	for j, vec := range fresh {
		vectors[missingIdx[j]] = vec
		e.store(ctx, e.key(missing[j]), vec)
	}
	return vectors, nil
}
