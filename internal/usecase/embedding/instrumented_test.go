package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"nistai/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return s.result, s.err
}

func TestInstrumented_Passthrough(t *testing.T) {
	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{1, 2},
		TotalTokens: 5,
	}}
	emb := NewInstrumentedEmbedder(inner, "openai", "test-model", zap.NewNop())

	res, err := emb.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 2 || res.TotalTokens != 5 {
		t.Errorf("result not passed through: %+v", res)
	}
}

func TestInstrumented_ErrorWrapped(t *testing.T) {
	inner := &stubEmbedder{err: domain.ErrEmbeddingUnavailable}
	emb := NewInstrumentedEmbedder(inner, "openai", "test-model", zap.NewNop())

	_, err := emb.Embed(context.Background(), "text")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}
