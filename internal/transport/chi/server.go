// Package chi exposes the read-only HTTP surface: health, metrics,
// stored profiles and criteria search. Ingestion and audits stay on the
// command line, the API never mutates the corpus.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/decision"
	"github.com/cvlens/cvlens/internal/domain"
	"github.com/cvlens/cvlens/internal/logger"
	"github.com/cvlens/cvlens/internal/metrics"
	healthuc "github.com/cvlens/cvlens/internal/usecase/health"
)

const defaultTopN = 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the HTTP API.
type Server struct {
	profiles      ProfileReader
	ranker        Ranker
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(profiles ProfileReader, ranker Ranker, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		profiles: profiles,
		ranker:   ranker,
		health:   health,
		logger:   logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"),
			sentinelHandler(domain.ErrCollectionEmpty, http.StatusConflict, "collection_empty"),
			sentinelHandler(domain.ErrUnknownStrategy, http.StatusBadRequest, "unknown_strategy"),
			sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		},
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chirouter.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.loggerMiddleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chirouter.Router) {
		r.Get("/profiles", s.ListProfiles)
		r.Get("/profiles/{id}", s.GetProfile)
		r.Post("/search", s.Search)
	})
	return r
}

func (s *Server) loggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.ContextWithLogger(r.Context(), s.logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type profileResponse struct {
	ID              string `json:"id"`
	CandidateName   string `json:"candidate_name"`
	Titles          string `json:"titles,omitempty"`
	Skills          string `json:"skills,omitempty"`
	YearsExperience int    `json:"years_experience"`
	Filename        string `json:"filename"`
}

func profileToResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:              p.ID,
		CandidateName:   p.CandidateName,
		Titles:          p.Titles,
		Skills:          p.Skills,
		YearsExperience: p.YearsExperience,
		Filename:        p.Filename,
	}
}

// ListProfiles handles GET /api/v1/profiles.
func (s *Server) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ids, err := s.profiles.ListIDs(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ids":   ids,
		"total": len(ids),
	})
}

// GetProfile handles GET /api/v1/profiles/{id}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	p, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileToResponse(p))
}

type searchRequest struct {
	Title         string `json:"title"`
	Skills        string `json:"skills"`
	MinExperience int    `json:"min_experience"`
	Strategy      int    `json:"strategy"`
	TopN          int    `json:"top_n"`
}

type rankedResponse struct {
	Profile   profileResponse `json:"profile"`
	Score     float64         `json:"score"`
	Breakdown string          `json:"breakdown"`
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	strategy, err := decision.Parse(req.Strategy)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	target := domain.CriteriaTarget{
		Title:         req.Title,
		SkillsText:    req.Skills,
		MinExperience: req.MinExperience,
	}
	result, err := s.ranker.Rank(r.Context(), target, strategy, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]rankedResponse, len(result.Top))
	for i, rc := range result.Top {
		items[i] = rankedResponse{
			Profile:   profileToResponse(rc.Profile),
			Score:     rc.Score,
			Breakdown: rc.Breakdown,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"evaluated": result.Evaluated,
		"strategy":  strategy.String(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":   report.Status,
		"checks":   report.Checks,
		"profiles": report.Profiles,
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
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProfileNotFound,
		domain.ErrCollectionEmpty,
		domain.ErrUnknownStrategy,
		domain.ErrEmbeddingProviderError,
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
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
