package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"career-compass/internal/logger"
	"career-compass/internal/util"

	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"go.uber.org/zap"
)

const (
	defaultNamespace = "default"

	fieldContent   = "content"
	fieldMetadata  = "metadata"
	fieldEmbedding = "embedding"
)

var (
	ErrEmbedderRequired = errors.New("vectorstore: embedder is required")
	ErrInvalidK         = errors.New("vectorstore: number of documents must be positive")
)

// RedisStore keeps one hash per document and a set of document IDs per
// namespace. Similarity search is a linear cosine scan over the namespace,
// which is adequate for the size of a curated knowledge base.
type RedisStore struct {
	client   redis.Cmdable
	embedder embeddings.Embedder
	prefix   string
	newID    func() string
}

var _ vectorstores.VectorStore = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable, embedder embeddings.Embedder, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "knowledge"
	}
	return &RedisStore{client: client, embedder: embedder, prefix: prefix, newID: util.NewULID}
}

func (s *RedisStore) docKey(id string) string {
	return s.prefix + ":doc:" + id
}

func (s *RedisStore) indexKey(namespace string) string {
	return s.prefix + ":" + namespace + ":index"
}

func (s *RedisStore) resolve(options []vectorstores.Option) (vectorstores.Options, embeddings.Embedder) {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.NameSpace == "" {
		opts.NameSpace = defaultNamespace
	}
	embedder := s.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}
	return opts, embedder
}

// AddDocuments embeds docs and stores them. It returns the generated IDs in
// the order of docs.
func (s *RedisStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}
	opts, embedder := s.resolve(options)
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	pipe := s.client.TxPipeline()
	for i, doc := range docs {
		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata of document %d: %w", i, err)
		}
		vecJSON, err := json.Marshal(vectors[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode embedding of document %d: %w", i, err)
		}

		ids[i] = s.newID()
		pipe.HSet(ctx, s.docKey(ids[i]),
			fieldContent, doc.PageContent,
			fieldMetadata, string(metaJSON),
			fieldEmbedding, string(vecJSON),
		)
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	pipe.SAdd(ctx, s.indexKey(opts.NameSpace), members...)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store documents: %w", err)
	}
	return ids, nil
}

type scoredDocument struct {
	id  string
	doc schema.Document
}

// SimilaritySearch returns up to numDocuments documents ordered by cosine
// similarity to query. ScoreThreshold and map[string]any equality Filters
// on metadata are honoured.
func (s *RedisStore) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	if numDocuments <= 0 {
		return nil, ErrInvalidK
	}
	opts, embedder := s.resolve(options)
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	filters, _ := opts.Filters.(map[string]any)

	queryVec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	ids, err := s.client.SMembers(ctx, s.indexKey(opts.NameSpace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return []schema.Document{}, nil
	}
	sort.Strings(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.docKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	scored := make([]scoredDocument, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		doc, vec, err := decodeDocument(fields)
		if err != nil {
			logger.Get().Warn("Skipping undecodable document", zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		if !matchesFilters(doc.Metadata, filters) {
			continue
		}
		similarity, err := util.Cosine(queryVec, vec)
		if err != nil {
			logger.Get().Warn("Skipping document with mismatched embedding", zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		if opts.ScoreThreshold > 0 && float32(similarity) < opts.ScoreThreshold {
			continue
		}
		doc.Score = float32(similarity)
		scored = append(scored, scoredDocument{id: ids[i], doc: doc})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].doc.Score != scored[j].doc.Score {
			return scored[i].doc.Score > scored[j].doc.Score
		}
		return scored[i].id < scored[j].id
	})
	if len(scored) > numDocuments {
		scored = scored[:numDocuments]
	}

	result := make([]schema.Document, len(scored))
	for i, sd := range scored {
		result[i] = sd.doc
	}
	return result, nil
}

func decodeDocument(fields map[string]string) (schema.Document, []float32, error) {
	doc := schema.Document{PageContent: fields[fieldContent], Metadata: map[string]any{}}
	if raw := fields[fieldMetadata]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc.Metadata); err != nil {
			return doc, nil, fmt.Errorf("metadata: %w", err)
		}
	}
	var vec []float32
	if err := json.Unmarshal([]byte(fields[fieldEmbedding]), &vec); err != nil {
		return doc, nil, fmt.Errorf("embedding: %w", err)
	}
	return doc, vec, nil
}

// matchesFilters compares metadata values after a JSON round trip, so
// numbers in filters match regardless of their Go type.
func matchesFilters(metadata map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(normalize(got), normalize(want)) {
			return false
		}
	}
	return true
}

func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return strings.TrimSpace(string(data))
	}
	return out
}
