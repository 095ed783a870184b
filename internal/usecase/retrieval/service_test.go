package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"nistai/internal/domain"
	"nistai/internal/index"
)

// --- Mocks ---

type mockEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vectors[text]}, nil
}

type mockGenerator struct {
	output   string
	err      error
	called   bool
	lastUser string
}

func (m *mockGenerator) Generate(_ context.Context, messages []domain.Message) (string, error) {
	m.called = true
	for _, msg := range messages {
		if msg.Role == domain.RoleUser {
			m.lastUser = msg.Content
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

func buildIndex(t *testing.T, emb *mockEmbedder, contents ...string) *index.Index {
	t.Helper()
	units := make([]domain.TextUnit, len(contents))
	for i, c := range contents {
		units[i] = domain.TextUnit{Content: c, SourceName: "doc.pdf", PageLabel: i + 1}
	}
	ix, err := index.NewBuilder(emb).Build(context.Background(), units)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return ix
}

// --- Tests ---

func TestQuery_TopKValidation(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	svc := New(emb, nil, zap.NewNop())
	ix := buildIndex(t, emb, "a")

	for _, topK := range []int{0, -1} {
		_, err := svc.Query(context.Background(), ix, "question", topK)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("topK=%d: expected ErrInvalidQuery, got %v", topK, err)
		}
	}
}

func TestQuery_ConcatenationFallback(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"risk details":  {1, 0},
		"other content": {0, 1},
		"what risks?":   {1, 0},
	}}
	svc := New(emb, nil, zap.NewNop())
	ix := buildIndex(t, emb, "risk details", "other content")

	res, err := svc.Query(context.Background(), ix, "what risks?", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Question != "what risks?" {
		t.Errorf("question not preserved: %q", res.Question)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Matches))
	}
	if res.Matches[0].Unit.Content != "risk details" {
		t.Errorf("best match should come first, got %q", res.Matches[0].Unit.Content)
	}
	if !strings.Contains(res.Answer, "risk details") || !strings.Contains(res.Answer, "other content") {
		t.Errorf("fallback answer should concatenate matched contents, got %q", res.Answer)
	}
}

func TestQuery_GeneratorAnswers(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{
		"incident log": {1, 0},
		"question":     {1, 0},
	}}
	gen := &mockGenerator{output: "The organization had one incident."}
	svc := New(emb, gen, zap.NewNop())
	ix := buildIndex(t, emb, "incident log")

	res, err := svc.Query(context.Background(), ix, "question", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gen.called {
		t.Fatal("expected generator to be called")
	}
	if res.Answer != "The organization had one incident." {
		t.Errorf("unexpected answer: %q", res.Answer)
	}
	if !strings.Contains(gen.lastUser, "incident log") {
		t.Errorf("generator prompt should contain the matched excerpt, got %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "question") {
		t.Errorf("generator prompt should contain the question, got %q", gen.lastUser)
	}
}

func TestQuery_GeneratorFailurePropagates(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{"a": {1, 0}, "q": {1, 0}}}
	gen := &mockGenerator{err: domain.ErrGenerationUnavailable}
	svc := New(emb, gen, zap.NewNop())
	ix := buildIndex(t, emb, "a")

	_, err := svc.Query(context.Background(), ix, "q", 1)
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
}

func TestQuery_EmbedFailure(t *testing.T) {
	emb := &mockEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	ix := buildIndex(t, emb, "a")

	emb.err = domain.ErrEmbeddingUnavailable
	svc := New(emb, nil, zap.NewNop())

	_, err := svc.Query(context.Background(), ix, "q", 1)
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}
