package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"nistai/internal/domain"
)

const wellFormedReport = `{
	"executive_summary": "Acme Corp is a logistics company with a developing security program.",
	"security_risks": [
		{"title": "Phishing exposure", "details": ["No awareness training"], "impact": "Credential theft", "severity": "High"}
	],
	"security_gaps": [
		{"area": "Monitoring", "current_state": "None", "required_state": "Central SIEM", "priority": "High"}
	],
	"nist_framework_scores": {
		"identify": {"score": 3, "findings": ["Inventory maintained"], "key_gaps": "No risk register"},
		"protect": {"score": 2, "findings": ["Firewalls in place"], "key_gaps": "No MFA"},
		"detect": {"score": 2, "findings": ["AV only"], "key_gaps": "No log review"},
		"respond": {"score": 1, "findings": ["Ad-hoc response"], "key_gaps": "No IR plan"},
		"recover": {"score": 2, "findings": ["Backups exist"], "key_gaps": "Untested restores"}
	},
	"recommendations": [
		{"title": "Roll out MFA", "priority": "Critical", "implementation_complexity": "Medium", "expected_impact": "Large"}
	]
}`

type mockGenerator struct {
	output     string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (m *mockGenerator) Generate(_ context.Context, messages []domain.Message) (string, error) {
	m.calls++
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleSystem:
			m.lastSystem = msg.Content
		case domain.RoleUser:
			m.lastUser = msg.Content
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

func sampleResults() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{
			Question: "What are the top risks?",
			Answer:   "Phishing and unpatched systems.",
			Matches: []domain.Match{
				{Unit: domain.TextUnit{Content: "page one text", SourceName: "doc.pdf", PageLabel: 1}, Score: 0.9},
			},
		},
		{
			Question: "What incidents occurred?",
			Answer:   "One ransomware event in Q2.",
			Matches: []domain.Match{
				{Unit: domain.TextUnit{Content: "page two text", SourceName: "doc.pdf", PageLabel: 2}, Score: 0.8},
			},
		},
	}
}

func TestSynthesize_OK(t *testing.T) {
	gen := &mockGenerator{output: wellFormedReport}
	svc := New(gen, zap.NewNop())

	rep, err := svc.Synthesize(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generation call, got %d", gen.calls)
	}
	if rep.NISTScores.Identify.Score != 3 {
		t.Errorf("unexpected identify score: %d", rep.NISTScores.Identify.Score)
	}
	if !strings.HasPrefix(rep.ExecutiveSummary, "Acme Corp") {
		t.Errorf("unexpected executive summary: %q", rep.ExecutiveSummary)
	}
}

func TestSynthesize_PromptCarriesSchemaAndEvidence(t *testing.T) {
	gen := &mockGenerator{output: wellFormedReport}
	svc := New(gen, zap.NewNop())

	if _, err := svc.Synthesize(context.Background(), sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The system instruction is the only channel through which the
	// provider learns the output shape.
	for _, field := range []string{
		"executive_summary", "security_risks", "security_gaps",
		"nist_framework_scores", "recommendations",
		"identify", "protect", "detect", "respond", "recover",
		"implementation_complexity",
	} {
		if !strings.Contains(gen.lastSystem, field) {
			t.Errorf("system prompt missing schema field %q", field)
		}
	}

	for _, fragment := range []string{
		"What are the top risks?", "Phishing and unpatched systems.",
		"What incidents occurred?", "page two text",
	} {
		if !strings.Contains(gen.lastUser, fragment) {
			t.Errorf("evidence bundle missing %q", fragment)
		}
	}
}

func TestSynthesize_FencedOutput(t *testing.T) {
	gen := &mockGenerator{output: "```json\n" + wellFormedReport + "\n```"}
	svc := New(gen, zap.NewNop())

	rep, err := svc.Synthesize(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
	if rep.NISTScores.Recover.Score != 2 {
		t.Errorf("unexpected recover score: %d", rep.NISTScores.Recover.Score)
	}
}

func TestSynthesize_NotJSON(t *testing.T) {
	gen := &mockGenerator{output: "I am sorry, I cannot produce a report."}
	svc := New(gen, zap.NewNop())

	_, err := svc.Synthesize(context.Background(), sampleResults())
	if !errors.Is(err, domain.ErrMalformedReport) {
		t.Errorf("expected ErrMalformedReport, got %v", err)
	}
}

func TestSynthesize_MissingRecoverKey(t *testing.T) {
	broken := strings.Replace(wellFormedReport,
		`"recover": {"score": 2, "findings": ["Backups exist"], "key_gaps": "Untested restores"}`,
		`"recover": {}`, 1)
	gen := &mockGenerator{output: broken}
	svc := New(gen, zap.NewNop())

	_, err := svc.Synthesize(context.Background(), sampleResults())
	if !errors.Is(err, domain.ErrMalformedReport) {
		t.Errorf("expected ErrMalformedReport for empty recover, got %v", err)
	}
}

func TestSynthesize_ScoreOutOfRange(t *testing.T) {
	broken := strings.Replace(wellFormedReport, `"identify": {"score": 3`, `"identify": {"score": 6`, 1)
	gen := &mockGenerator{output: broken}
	svc := New(gen, zap.NewNop())

	_, err := svc.Synthesize(context.Background(), sampleResults())
	if !errors.Is(err, domain.ErrMalformedReport) {
		t.Errorf("expected ErrMalformedReport for score 6, got %v", err)
	}
}

func TestSynthesize_NonIntegerScore(t *testing.T) {
	broken := strings.Replace(wellFormedReport, `"identify": {"score": 3`, `"identify": {"score": "three"`, 1)
	gen := &mockGenerator{output: broken}
	svc := New(gen, zap.NewNop())

	_, err := svc.Synthesize(context.Background(), sampleResults())
	if !errors.Is(err, domain.ErrMalformedReport) {
		t.Errorf("expected ErrMalformedReport for string score, got %v", err)
	}
}

func TestSynthesize_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrGenerationUnavailable}
	svc := New(gen, zap.NewNop())

	_, err := svc.Synthesize(context.Background(), sampleResults())
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrMalformedReport) {
		t.Error("provider failure must not be reported as malformed output")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  \n```json\n{\"a\": 1}\n```\n", `{"a": 1}`},
		{"fence only at start", "```json\n{\"a\": 1}", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
