package dto

// IngestDocumentRequest
// @Description Text to chunk, embed and store for retrieval
type IngestDocumentRequest struct {
	Source   string         `json:"source" validate:"required,max=255"`
	Text     string         `json:"text" validate:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type IngestDocumentResponse struct {
	Source string   `json:"source"`
	Chunks int      `json:"chunks"`
	IDs    []string `json:"ids"`
}

type KnowledgeSearchResult struct {
	Content  string         `json:"content"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type KnowledgeSearchResponse struct {
	Query   string                  `json:"query"`
	Results []KnowledgeSearchResult `json:"results"`
}
