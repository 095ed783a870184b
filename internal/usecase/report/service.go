// Package report turns aggregated retrieval output into the final
// structured assessment report via one constrained generation call.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nistai/internal/domain"
)

// Generator is the text-generation contract consumed by the synthesizer.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (string, error)
}

// Service synthesizes assessment reports.
type Service struct {
	generator Generator
	logger    *zap.Logger
}

// New creates a report synthesizer.
func New(generator Generator, logger *zap.Logger) *Service {
	return &Service{generator: generator, logger: logger}
}

// Synthesize bundles the retrieval results into a single evidence
// block, makes one generation call, and parses the output strictly as
// an AssessmentReport. A parse or schema failure is
// domain.ErrMalformedReport; there is exactly one attempt, no repair.
func (s *Service) Synthesize(
	ctx context.Context, results []domain.RetrievalResult,
) (domain.AssessmentReport, error) {
	bundle := evidenceBundle(results)

	raw, err := s.generator.Generate(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt},
		{Role: domain.RoleUser, Content: "Here is the output from the vector search over the assessment document:\n\n" + bundle},
	})
	if err != nil {
		return domain.AssessmentReport{}, fmt.Errorf("generate report: %w", err)
	}

	cleaned := stripCodeFence(raw)

	var rep domain.AssessmentReport
	if err := json.Unmarshal([]byte(cleaned), &rep); err != nil {
		s.logger.Warn("report output failed to parse",
			zap.Int("output_bytes", len(raw)),
			zap.Error(err),
		)
		return domain.AssessmentReport{}, fmt.Errorf("%w: parse: %v", domain.ErrMalformedReport, err)
	}

	if err := rep.Validate(); err != nil {
		s.logger.Warn("report output failed schema validation", zap.Error(err))
		return domain.AssessmentReport{}, fmt.Errorf("%w: %v", domain.ErrMalformedReport, err)
	}

	return rep, nil
}

// evidenceBundle serializes the questions, answers, and supporting
// passages into a single text block for the generation prompt.
func evidenceBundle(results []domain.RetrievalResult) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, res.Question)
		fmt.Fprintf(&b, "Answer: %s\n", res.Answer)
		b.WriteString("Supporting passages:\n")
		for _, m := range res.Matches {
			if m.Unit.PageLabel > 0 {
				fmt.Fprintf(&b, "- [page %d, score %.3f] %s\n", m.Unit.PageLabel, m.Score, m.Unit.Content)
			} else {
				fmt.Fprintf(&b, "- [score %.3f] %s\n", m.Score, m.Unit.Content)
			}
		}
	}
	return b.String()
}

// stripCodeFence removes a leading ```/```json fence line and a
// trailing ``` fence if the model wrapped its JSON in one.
func stripCodeFence(s string) string {
	out := strings.TrimSpace(s)

	if strings.HasPrefix(out, "```") {
		if idx := strings.IndexByte(out, '\n'); idx >= 0 {
			out = out[idx+1:]
		} else {
			out = strings.TrimPrefix(out, "```json")
			out = strings.TrimPrefix(out, "```")
		}
	}

	out = strings.TrimSpace(out)
	if strings.HasSuffix(out, "```") {
		out = strings.TrimSuffix(out, "```")
	}

	return strings.TrimSpace(out)
}
