package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/internal/report"
	"github.com/wonny/hotstock/backend/internal/store"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// RunStore loads and saves pipeline runs
type RunStore interface {
	SaveRun(ctx context.Context, result *contracts.RunResult) error
	LatestRun(ctx context.Context) (*contracts.RunResult, error)
}

// PipelineRunner executes one recommendation cycle
type PipelineRunner interface {
	Run(ctx context.Context) (*contracts.RunResult, error)
}

// RecommendationHandler serves recommendation API endpoints
// ⭐ SSOT: 推荐 API 处理只在这里
type RecommendationHandler struct {
	pipeline PipelineRunner
	repo     RunStore
	renderer *report.Renderer
	logger   *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(pipeline PipelineRunner, repo RunStore, renderer *report.Renderer, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		pipeline: pipeline,
		repo:     repo,
		renderer: renderer,
		logger:   log,
	}
}

// Latest returns the most recent stored run as JSON
func (h *RecommendationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	result, err := h.repo.LatestRun(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no runs stored yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest run")
		writeError(w, http.StatusInternalServerError, "failed to load latest run")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// LatestReport returns the most recent run rendered as markdown
func (h *RecommendationHandler) LatestReport(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	result, err := h.repo.LatestRun(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no runs stored yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest run")
		writeError(w, http.StatusInternalServerError, "failed to load latest run")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.renderer.Render(result)))
}

// TriggerRun executes the pipeline on demand and stores the outcome
func (h *RecommendationHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("On-demand run failed")
		writeError(w, http.StatusBadGateway, "recommendation run failed")
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveRun(r.Context(), result); err != nil {
			// Persistence is best-effort; the run result still goes out
			h.logger.WithError(err).Warn("Failed to persist run")
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":            result.Date,
		"stats":           result.Stats,
		"recommendations": len(result.Recommendations),
		"duration_ms":     result.Duration.Milliseconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
