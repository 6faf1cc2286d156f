package service

import (
	"context"
	"strings"

	"career-compass/internal/domain"
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/metrics"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
)

const (
	DefaultSearchResults = 5
	MaxSearchResults     = 50
)

// KnowledgeService chunks reference text into the vector store and searches it.
type KnowledgeService struct {
	store   vectorstores.VectorStore
	metrics *metrics.Metrics
}

func NewKnowledgeService(store vectorstores.VectorStore, m *metrics.Metrics) *KnowledgeService {
	return &KnowledgeService{store: store, metrics: m}
}

// SplitParagraphs splits text on runs of blank or whitespace-only lines and
// drops chunks that are empty after trimming.
func SplitParagraphs(text string) []string {
	var (
		chunks  []string
		current []string
	)
	flush := func() {
		if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return chunks
}

// Ingest stores one document per paragraph with source and chunk_index metadata.
func (s *KnowledgeService) Ingest(ctx context.Context, source, text string, metadata map[string]any) (*dto.IngestDocumentResponse, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, domain.NewInvalidInputError("source is required")
	}
	chunks := SplitParagraphs(text)
	if len(chunks) == 0 {
		return nil, domain.NewInvalidInputError("text contains no content to ingest")
	}

	docs := make([]schema.Document, 0, len(chunks))
	for i, chunk := range chunks {
		meta := make(map[string]any, len(metadata)+2)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["source"] = source
		meta["chunk_index"] = i
		docs = append(docs, schema.Document{PageContent: chunk, Metadata: meta})
	}

	ids, err := s.store.AddDocuments(ctx, docs)
	if err != nil {
		logger.Get().Error("Failed to ingest knowledge document", zap.String("source", source), zap.Error(err))
		return nil, domain.NewEmbeddingServiceError(err)
	}
	s.metrics.AddKnowledgeChunks(len(ids))

	logger.Get().Info("Knowledge document ingested", zap.String("source", source), zap.Int("chunks", len(ids)))
	return &dto.IngestDocumentResponse{Source: source, Chunks: len(ids), IDs: ids}, nil
}

// Search returns the k most similar chunks. k is clamped to 1..MaxSearchResults.
func (s *KnowledgeService) Search(ctx context.Context, query string, k int) (*dto.KnowledgeSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewInvalidInputError("query is required")
	}
	if k <= 0 {
		k = DefaultSearchResults
	}
	if k > MaxSearchResults {
		k = MaxSearchResults
	}

	docs, err := s.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, domain.NewEmbeddingServiceError(err)
	}
	resp := &dto.KnowledgeSearchResponse{Query: query, Results: make([]dto.KnowledgeSearchResult, 0, len(docs))}
	for _, d := range docs {
		resp.Results = append(resp.Results, dto.KnowledgeSearchResult{Content: d.PageContent, Score: d.Score, Metadata: d.Metadata})
	}
	return resp, nil
}
