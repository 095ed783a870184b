// Package chi exposes the analysis pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nistai/internal/domain"
	healthuc "nistai/internal/usecase/health"
)

// maxUploadBytes caps the multipart form we are willing to buffer.
const maxUploadBytes = 32 << 20

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeInvalidInput       = "invalid_input"
	codeFetchFailed        = "fetch_failed"
	codeUnreadableDocument = "unreadable_document"
	codeInvalidQuery       = "invalid_query"
	codeEmbeddingProvider  = "embedding_provider_error"
	codeGenerationProvider = "generation_provider_error"
	codeMalformedReport    = "malformed_report"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// AnalysisService is the pipeline surface the server needs.
type AnalysisService interface {
	AnalyzeFile(ctx context.Context, filename string, data []byte) (domain.AssessmentReport, error)
	AnalyzeURL(ctx context.Context, url string) (domain.AssessmentReport, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server routes analysis requests to the use case services.
type Server struct {
	analysis      AnalysisService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(analysis AnalysisService, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		analysis: analysis,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput),
		sentinelHandler(domain.ErrFetchFailed, http.StatusBadRequest, codeFetchFailed),
		sentinelHandler(domain.ErrUnreadableDocument, http.StatusBadRequest, codeUnreadableDocument),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationUnavailable, http.StatusBadGateway, codeGenerationProvider),
		sentinelHandler(domain.ErrMalformedReport, http.StatusBadGateway, codeMalformedReport),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/nistai", s.analyzeUpload)
	r.Post("/nistai_url", s.analyzeURL)
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metricsHandler)
}

// analyzeUpload handles POST /nistai with a multipart "file" field.
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read uploaded file")
		return
	}

	report, err := s.analysis.AnalyzeFile(r.Context(), header.Filename, data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseEnvelope{Response: report})
}

// analyzeURL handles POST /nistai_url?pdf_url=...
func (s *Server) analyzeURL(w http.ResponseWriter, r *http.Request) {
	pdfURL := r.URL.Query().Get("pdf_url")

	report, err := s.analysis.AnalyzeURL(r.Context(), pdfURL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseEnvelope{Response: report})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// metricsHandler handles GET /metrics.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type responseEnvelope struct {
	Response domain.AssessmentReport `json:"response"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Code: code, Detail: detail})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrFetchFailed,
		domain.ErrUnreadableDocument,
		domain.ErrInvalidQuery,
		domain.ErrEmbeddingUnavailable,
		domain.ErrGenerationUnavailable,
		domain.ErrMalformedReport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
