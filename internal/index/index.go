// Package index provides the per-request in-memory vector index built
// over a document's text units.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"nistai/internal/domain"
)

// Index holds one document's text units and their embeddings. It is
// built once per analysis request, read-only afterwards, and owned by
// that request alone.
type Index struct {
	units   []domain.TextUnit
	vectors [][]float32
}

// Builder constructs indexes using an embedding provider.
type Builder struct {
	embedder domain.Embedder
}

// NewBuilder creates an index builder.
func NewBuilder(embedder domain.Embedder) *Builder {
	return &Builder{embedder: embedder}
}

// Build embeds every unit and returns a fresh index. Any embedding
// failure aborts the build; there is no partial index.
func (b *Builder) Build(ctx context.Context, units []domain.TextUnit) (*Index, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: document contains no text", domain.ErrUnreadableDocument)
	}

	vectors := make([][]float32, len(units))
	for i, u := range units {
		res, err := b.embedder.Embed(ctx, u.Content)
		if err != nil {
			return nil, fmt.Errorf("embed unit %d: %w", i, err)
		}
		vectors[i] = res.Embedding
	}

	return &Index{units: units, vectors: vectors}, nil
}

// Size returns the number of indexed units.
func (ix *Index) Size() int {
	return len(ix.units)
}

// Search scores every unit against the query vector and returns the
// topK best matches in descending score order. Ties keep original
// document order, so results are deterministic. Returns all units when
// the index holds fewer than topK.
func (ix *Index) Search(query []float32, topK int) []domain.Match {
	matches := make([]domain.Match, len(ix.units))
	for i := range ix.units {
		matches[i] = domain.Match{
			Unit:  ix.units[i],
			Score: cosine(ix.vectors[i], query),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches
}

// cosine returns the cosine similarity of a and b clamped to [0,1].
// OpenAI-style embeddings of natural language sit in the positive
// range; anything below zero carries no retrieval signal here.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
