package loader

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"nistai/internal/domain"
)

func TestAssemble_PerPage(t *testing.T) {
	pages := []string{"first page", "second page", "third page"}

	units := assemble(pages, "report.pdf", false)

	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	for i, u := range units {
		if u.PageLabel != i+1 {
			t.Errorf("unit %d: expected page label %d, got %d", i, i+1, u.PageLabel)
		}
		if u.Content != pages[i] {
			t.Errorf("unit %d: content mismatch: %q", i, u.Content)
		}
		if u.SourceName != "report.pdf" {
			t.Errorf("unit %d: expected source report.pdf, got %q", i, u.SourceName)
		}
	}
}

func TestAssemble_WholeDocument(t *testing.T) {
	pages := []string{"first page", "second page", "third page"}

	units := assemble(pages, "report.pdf", true)

	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	want := "first page\nsecond page\nthird page"
	if units[0].Content != want {
		t.Errorf("expected joined content %q, got %q", want, units[0].Content)
	}
	if units[0].PageLabel != 0 {
		t.Errorf("whole-document unit should have no page label, got %d", units[0].PageLabel)
	}
}

func TestAssemble_EmptyPagesKept(t *testing.T) {
	units := assemble([]string{"text", "", "more"}, "doc.pdf", false)
	if len(units) != 3 {
		t.Fatalf("expected 3 units including the empty page, got %d", len(units))
	}
	if units[1].Content != "" || units[1].PageLabel != 2 {
		t.Errorf("empty page should keep its position: %+v", units[1])
	}
}

func TestLoad_NotAPDF(t *testing.T) {
	svc := New(false, zap.NewNop())

	_, err := svc.Load([]byte("this is plain text, not a pdf"), "bogus.pdf")
	if err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}
	if !errors.Is(err, domain.ErrUnreadableDocument) {
		t.Errorf("expected ErrUnreadableDocument, got %v", err)
	}
}

func TestLoad_TruncatedPDF(t *testing.T) {
	svc := New(false, zap.NewNop())

	// A valid header with garbage after it.
	_, err := svc.Load([]byte("%PDF-1.7\nbroken"), "truncated.pdf")
	if err == nil {
		t.Fatal("expected error for truncated PDF")
	}
	if !errors.Is(err, domain.ErrUnreadableDocument) {
		t.Errorf("expected ErrUnreadableDocument, got %v", err)
	}
}
