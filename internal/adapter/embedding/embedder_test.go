package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"career-compass/internal/config"
	"career-compass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbedder is a mock type for the embeddings.Embedder interface
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

func TestNewEmbedder(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		e, err := NewEmbedder(config.EmbeddingConfig{
			Source: SourceOllama,
			Ollama: config.OllamaConfig{ServerURL: "http://localhost:11434", Model: "nomic-embed-text"},
		})
		assert.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("ollama empty server URL", func(t *testing.T) {
		_, err := NewOllamaEmbedder("", "nomic-embed-text")
		assert.ErrorContains(t, err, "ollama server URL cannot be empty")
	})

	t.Run("ollama empty model", func(t *testing.T) {
		_, err := NewOllamaEmbedder("http://localhost:11434", "")
		assert.ErrorContains(t, err, "ollama model name cannot be empty")
	})

	t.Run("openai empty key", func(t *testing.T) {
		_, err := NewEmbedder(config.EmbeddingConfig{Source: SourceOpenAI})
		assert.ErrorContains(t, err, "openai API key cannot be empty")
	})

	t.Run("unsupported source", func(t *testing.T) {
		_, err := NewEmbedder(config.EmbeddingConfig{Source: "bert"})
		assert.ErrorContains(t, err, "unsupported embedding source")
	})
}

func TestCachedEmbedder_EmbedQuery(t *testing.T) {
	ctx := context.Background()
	next := new(MockEmbedder)
	c := newMemoryCache()
	embedder := NewCachedEmbedder(next, c, SourceOllama, time.Hour)

	next.On("EmbedQuery", ctx, "what is a join?").Return([]float32{0.1, 0.2}, nil).Once()

	vec, err := embedder.EmbedQuery(ctx, "what is a join?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)

	// served from cache
	vec, err = embedder.EmbedQuery(ctx, "what is a join?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
	next.AssertExpectations(t)

	_, err = embedder.EmbedQuery(ctx, "")
	assert.Error(t, err)
}

func TestCachedEmbedder_EmbedQuery_Error(t *testing.T) {
	ctx := context.Background()
	next := new(MockEmbedder)
	embedder := NewCachedEmbedder(next, newMemoryCache(), SourceOpenAI, 0)

	next.On("EmbedQuery", ctx, "text").Return(nil, errors.New("rate limited"))

	_, err := embedder.EmbedQuery(ctx, "text")
	assert.ErrorContains(t, err, "rate limited")
}

func TestCachedEmbedder_EmbedDocuments_OnlyMisses(t *testing.T) {
	ctx := context.Background()
	next := new(MockEmbedder)
	c := newMemoryCache()
	embedder := NewCachedEmbedder(next, c, SourceOllama, time.Hour)

	next.On("EmbedDocuments", ctx, []string{"a", "b"}).Return([][]float32{{1, 0}, {0, 1}}, nil).Once()
	vectors, err := embedder.EmbedDocuments(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)

	next.On("EmbedDocuments", ctx, []string{"c"}).Return([][]float32{{1, 1}}, nil).Once()
	vectors, err = embedder.EmbedDocuments(ctx, []string{"b", "c", "a"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {1, 0}}, vectors)

	next.AssertExpectations(t)
}

func TestCachedEmbedder_EmbedDocuments_LengthMismatch(t *testing.T) {
	ctx := context.Background()
	next := new(MockEmbedder)
	embedder := NewCachedEmbedder(next, newMemoryCache(), SourceOllama, time.Hour)

	next.On("EmbedDocuments", ctx, []string{"a", "b"}).Return([][]float32{{1}}, nil)
	_, err := embedder.EmbedDocuments(ctx, []string{"a", "b"})
	assert.ErrorContains(t, err, "returned 1 vectors for 2 texts")
}
