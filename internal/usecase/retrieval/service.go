// Package retrieval runs single questions against a document index.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nistai/internal/domain"
	"nistai/internal/index"
)

// DefaultTopK is the number of matches returned when none is configured.
const DefaultTopK = 10

const answerInstruction = "Answer the question using only the provided document excerpts. " +
	"Be specific and cite concrete facts from the excerpts. " +
	"If the excerpts do not contain the answer, say so."

// Service retrieves the most relevant passages for a question and
// summarizes them into an answer.
type Service struct {
	embedder  Embedder
	generator Generator
	logger    *zap.Logger
}

// New creates a retrieval service. generator may be nil, in which case
// answers are the concatenated matched passages.
func New(embedder Embedder, generator Generator, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, generator: generator, logger: logger}
}

// Query runs one question against the index and returns the topK best
// matches with a synthesized answer. topK must be >= 1.
func (s *Service) Query(
	ctx context.Context, idx *index.Index, question string, topK int,
) (domain.RetrievalResult, error) {
	if topK < 1 {
		return domain.RetrievalResult{}, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidQuery, topK)
	}

	embResult, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("vectorize question: %w", err)
	}

	matches := idx.Search(embResult.Embedding, topK)

	answer, err := s.answer(ctx, question, matches)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	s.logger.Debug("retrieval query completed",
		zap.String("question", question),
		zap.Int("matches", len(matches)),
	)

	return domain.RetrievalResult{
		Question: question,
		Matches:  matches,
		Answer:   answer,
	}, nil
}

// answer summarizes the matched passages via the generator, or falls
// back to concatenation when no generator is wired.
func (s *Service) answer(ctx context.Context, question string, matches []domain.Match) (string, error) {
	if s.generator == nil {
		return concatenate(matches), nil
	}

	out, err := s.generator.Generate(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: answerInstruction},
		{Role: domain.RoleUser, Content: excerptBlock(matches) + "\n\nQuestion: " + question},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	return out, nil
}

func concatenate(matches []domain.Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Unit.Content != "" {
			parts = append(parts, m.Unit.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func excerptBlock(matches []domain.Match) string {
	var b strings.Builder
	b.WriteString("Document excerpts:\n")
	for _, m := range matches {
		if m.Unit.PageLabel > 0 {
			fmt.Fprintf(&b, "\n[page %d] %s\n", m.Unit.PageLabel, m.Unit.Content)
		} else {
			fmt.Fprintf(&b, "\n%s\n", m.Unit.Content)
		}
	}
	return b.String()
}
