package embedding

import (
	"fmt"

	"career-compass/internal/config"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
)

const (
	SourceOllama = "ollama"
	SourceOpenAI = "openai"

	defaultOpenAIModel = "text-embedding-3-small"
)

// NewEmbedder builds the embedder selected by cfg.Source.
func NewEmbedder(cfg config.EmbeddingConfig) (embeddings.Embedder, error) {
	switch cfg.Source {
	case SourceOllama:
		return NewOllamaEmbedder(cfg.Ollama.ServerURL, cfg.Ollama.Model)
	case SourceOpenAI:
		return NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unsupported embedding source: %q", cfg.Source)
	}
}

// NewOllamaEmbedder requires the Ollama server URL and model name.
func NewOllamaEmbedder(serverURL, modelName string) (embeddings.Embedder, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from Ollama client: %w", err)
	}
	return embedder, nil
}

// NewOpenAIEmbedder requires an API key; the model defaults to text-embedding-3-small.
func NewOpenAIEmbedder(apiKey, modelName string) (embeddings.Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from OpenAI client: %w", err)
	}
	return embedder, nil
}
