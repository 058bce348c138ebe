package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/ingest"
	healthuc "github.com/homegrid/intentd/internal/usecase/health"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest              = "bad_request"
	CodeValidationFailed        = "validation_failed"
	CodeRateLimited             = "rate_limited"
	CodeEmbeddingProviderError  = "embedding_provider_error"
	CodeGenerationProviderError = "generation_provider_error"
	CodeCatalogUnavailable      = "catalog_unavailable"
	CodeInternalError           = "internal_error"
)

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the resolution engine over HTTP.
type Server struct {
	resolver      Resolver
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(resolver Resolver, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		resolver: resolver,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, CodeGenerationProviderError),
		sentinelHandler(domain.ErrCatalogInvalid, http.StatusServiceUnavailable, CodeCatalogUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/resolve/text", s.ResolveText)
	r.Post("/v1/resolve/image", s.ResolveImage)
	r.Post("/v1/resolve/document", s.ResolveDocument)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// resolveTextRequest is the JSON body for POST /v1/resolve/text.
type resolveTextRequest struct {
	Text string `json:"text"`
}

// ResolveText handles POST /v1/resolve/text.
func (s *Server) ResolveText(w http.ResponseWriter, r *http.Request) {
	var req resolveTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.resolver.ResolveFromText(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ResolveImage handles POST /v1/resolve/image. The request body is the raw
// image; the Content-Type header carries the mime type.
func (s *Server) ResolveImage(w http.ResponseWriter, r *http.Request) {
	mimeType := r.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	image, err := io.ReadAll(io.LimitReader(r.Body, ingest.MaxDocumentBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Failed to read request body")
		return
	}
	if len(image) > ingest.MaxDocumentBytes {
		writeError(w, http.StatusRequestEntityTooLarge, CodeValidationFailed, "image too large")
		return
	}

	result, err := s.resolver.ResolveFromImage(r.Context(), image, mimeType)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ResolveDocument handles POST /v1/resolve/document. PDF bodies are converted
// to text first; text/plain bodies go straight through.
func (s *Server) ResolveDocument(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, ingest.MaxDocumentBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Failed to read request body")
		return
	}
	if len(body) > ingest.MaxDocumentBytes {
		writeError(w, http.StatusRequestEntityTooLarge, CodeValidationFailed, "document too large")
		return
	}

	var text string
	switch contentType {
	case "application/pdf":
		text, err = ingest.PDFText(body)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
	case "text/plain", "":
		text = string(body)
	default:
		writeError(w, http.StatusUnsupportedMediaType, CodeValidationFailed,
			"content type must be application/pdf or text/plain")
		return
	}

	result, err := s.resolver.ResolveFromDocumentText(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// healthResponse is the JSON body for GET /health.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrCatalogInvalid,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
		domain.ErrRateLimited,
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
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
