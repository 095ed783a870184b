// Package analysis orchestrates the full document pipeline: scratch
// save, text extraction, per-request index build, the fixed question
// sweep, and report synthesis.
package analysis

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"time"

	"go.uber.org/zap"

	"nistai/internal/domain"
	"nistai/internal/index"
	"nistai/internal/metrics"
)

// Loader extracts text units from raw document bytes.
type Loader interface {
	Load(data []byte, sourceName string) ([]domain.TextUnit, error)
}

// Indexer builds a per-request vector index over text units.
type Indexer interface {
	Build(ctx context.Context, units []domain.TextUnit) (*index.Index, error)
}

// Retriever runs one question against an index.
type Retriever interface {
	Query(ctx context.Context, idx *index.Index, question string, topK int) (domain.RetrievalResult, error)
}

// Synthesizer turns aggregated retrieval results into the final report.
type Synthesizer interface {
	Synthesize(ctx context.Context, results []domain.RetrievalResult) (domain.AssessmentReport, error)
}

// Fetcher downloads a document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Service runs the analysis pipeline end to end.
type Service struct {
	loader      Loader
	indexer     Indexer
	retriever   Retriever
	synthesizer Synthesizer
	fetcher     Fetcher

	scratchDir string
	topK       int
	questions  []string
	logger     *zap.Logger
}

// Config holds the orchestrator dependencies and settings.
type Config struct {
	Loader      Loader
	Indexer     Indexer
	Retriever   Retriever
	Synthesizer Synthesizer
	Fetcher     Fetcher
	ScratchDir  string
	TopK        int
	Logger      *zap.Logger
}

// New creates the analysis service. The question bank is fixed at
// construction time.
func New(cfg Config) *Service {
	return &Service{
		loader:      cfg.Loader,
		indexer:     cfg.Indexer,
		retriever:   cfg.Retriever,
		synthesizer: cfg.Synthesizer,
		fetcher:     cfg.Fetcher,
		scratchDir:  cfg.ScratchDir,
		topK:        cfg.TopK,
		questions:   Questions(),
		logger:      cfg.Logger,
	}
}

// AnalyzeFile analyzes an uploaded document.
func (s *Service) AnalyzeFile(
	ctx context.Context, filename string, data []byte,
) (domain.AssessmentReport, error) {
	if filename == "" {
		return domain.AssessmentReport{}, fmt.Errorf("%w: missing filename", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return domain.AssessmentReport{}, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	return s.analyze(ctx, "upload", filename, data)
}

// AnalyzeURL downloads a document and analyzes it. The URL is
// validated before any network call is made.
func (s *Service) AnalyzeURL(ctx context.Context, rawURL string) (domain.AssessmentReport, error) {
	if rawURL == "" {
		return domain.AssessmentReport{}, fmt.Errorf("%w: missing pdf_url", domain.ErrInvalidInput)
	}

	data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues("url", "error").Inc()
		return domain.AssessmentReport{}, err
	}

	return s.analyze(ctx, "url", filenameFromURL(rawURL), data)
}

func (s *Service) analyze(
	ctx context.Context, source, filename string, data []byte,
) (domain.AssessmentReport, error) {
	start := time.Now()

	scratch, err := s.saveScratch(filename, data)
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(source, "error").Inc()
		return domain.AssessmentReport{}, err
	}
	defer func() {
		if rmErr := os.Remove(scratch); rmErr != nil {
			s.logger.Warn("failed to remove scratch file",
				zap.String("path", scratch), zap.Error(rmErr))
		}
	}()

	report, err := s.run(ctx, filename, data)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(source, status).Inc()
	metrics.AnalysisDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.AssessmentReport{}, err
	}

	s.logger.Info("analysis completed",
		zap.String("source", source),
		zap.String("filename", filename),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (s *Service) run(
	ctx context.Context, filename string, data []byte,
) (domain.AssessmentReport, error) {
	units, err := s.loader.Load(data, filename)
	if err != nil {
		return domain.AssessmentReport{}, err
	}

	idx, err := s.indexer.Build(ctx, units)
	if err != nil {
		return domain.AssessmentReport{}, err
	}
	s.logger.Debug("index built",
		zap.String("filename", filename), zap.Int("units", idx.Size()))

	results := make([]domain.RetrievalResult, 0, len(s.questions))
	for _, question := range s.questions {
		res, err := s.retriever.Query(ctx, idx, question, s.topK)
		if err != nil {
			return domain.AssessmentReport{}, err
		}
		results = append(results, res)
	}

	confidence := AverageConfidence(results)
	metrics.RetrievalConfidence.Observe(confidence)
	s.logger.Debug("retrieval sweep completed",
		zap.Int("questions", len(results)),
		zap.Float64("avg_confidence", confidence),
	)

	return s.synthesizer.Synthesize(ctx, results)
}

// saveScratch writes the document to the scratch directory and returns
// the path. The caller removes the file when the pipeline is done.
func (s *Service) saveScratch(filename string, data []byte) (string, error) {
	f, err := os.CreateTemp(s.scratchDir, "nistai-*-"+path.Base(filename))
	if err != nil {
		return "", fmt.Errorf("%w: create scratch file: %v", domain.ErrStorage, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: write scratch file: %v", domain.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: close scratch file: %v", domain.ErrStorage, err)
	}
	return f.Name(), nil
}

// AverageConfidence is the mean similarity score across every match of
// every result. An empty set yields exactly 0.0.
func AverageConfidence(results []domain.RetrievalResult) float64 {
	var sum float64
	var n int
	for _, res := range results {
		for _, m := range res.Matches {
			sum += m.Score
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "document.pdf"
	}
	return path.Base(u.Path)
}
