// Package loader extracts per-page text from PDF documents.
package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"nistai/internal/domain"
)

// Service turns raw PDF bytes into ordered text units.
type Service struct {
	wholeDocument bool
	logger        *zap.Logger
}

// New creates a loader. When wholeDocument is true, Load returns a
// single unit joining all pages; otherwise one unit per page.
func New(wholeDocument bool, logger *zap.Logger) *Service {
	return &Service{wholeDocument: wholeDocument, logger: logger}
}

// Load parses data as a PDF and returns its text units in page order.
// Returns domain.ErrUnreadableDocument if data is not a readable PDF.
func (s *Service) Load(data []byte, sourceName string) ([]domain.TextUnit, error) {
	pages, err := extractPages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, sourceName, err)
	}

	s.logger.Debug("document parsed",
		zap.String("source", sourceName),
		zap.Int("pages", len(pages)),
		zap.Bool("whole_document", s.wholeDocument),
	)

	return assemble(pages, sourceName, s.wholeDocument), nil
}

// extractPages returns the plain text of every page in order.
func extractPages(data []byte) (pages []string, err error) {
	// The pdf library panics on some malformed cross-reference tables
	// instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// assemble builds text units from per-page texts. In whole-document
// mode all pages are joined with a single newline into one unit.
func assemble(pages []string, sourceName string, wholeDocument bool) []domain.TextUnit {
	if wholeDocument {
		return []domain.TextUnit{{
			Content:    strings.Join(pages, "\n"),
			SourceName: sourceName,
		}}
	}

	units := make([]domain.TextUnit, len(pages))
	for i, text := range pages {
		units[i] = domain.TextUnit{
			Content:    text,
			SourceName: sourceName,
			PageLabel:  i + 1,
		}
	}
	return units
}
