// Package rest exposes the analysis and recommendation services over a JSON
// HTTP API.
package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/app/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/app/progress"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// Analyzer runs the full emotion analysis flow.
type Analyzer interface {
	Analyze(ctx context.Context, text string, reporter *progress.Reporter) (*emotion.Result, error)
}

// Recommender produces recommendations for explicit mood parameters.
type Recommender interface {
	Recommend(ctx context.Context, params mood.Parameters) ([]track.Recommendation, error)
}

// Handler serves the public API.
type Handler struct {
	analyzer   Analyzer
	recommends Recommender
	router     chi.Router
}

// NewHandler creates the API handler. allowedOrigins configures CORS.
func NewHandler(analyzer Analyzer, recommends Recommender, allowedOrigins []string) (*Handler, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if recommends == nil {
		return nil, errors.New("recommender is required")
	}

	h := &Handler{analyzer: analyzer, recommends: recommends}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(allowedOrigins))

	router.Route("/api", func(r chi.Router) {
		r.Post("/emotion/analyze", h.analyze)
		r.Post("/emotion/analyze/stream", h.analyzeStream)
		r.Post("/recommendations", h.recommend)
		r.Get("/health", h.health)
	})
	h.router = router

	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Text, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var params mood.Parameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recs, err := h.recommends.Recommend(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if recs == nil {
		recs = []track.Recommendation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps a service error onto a status code. Validation
// failures are the caller's fault; everything else that escapes the services
// is an upstream dependency failing.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *mood.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	zlog.Error().Msgf("request failed: %v", err)
	writeError(w, http.StatusBadGateway, "upstream service error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Msgf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
