package retrieval

import (
	"context"

	"nistai/internal/domain"
)

// Embedder vectorizes question text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator summarizes matched passages into an answer. Optional.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (string, error)
}
