// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/engagement"
)

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	catalog     *catalog.Service
	graph       *engagement.Graph
	ranker      *engagement.PopularityRanker
	sets        *engagement.SetGraphQueries
	recommender *engagement.RecommendationEngine
	pinger      Pinger
	startTime   time.Time
}

// NewHandler creates the handler set. pinger may be nil when no
// database-backed readiness check applies.
func NewHandler(
	catalogSvc *catalog.Service,
	graph *engagement.Graph,
	ranker *engagement.PopularityRanker,
	sets *engagement.SetGraphQueries,
	recommender *engagement.RecommendationEngine,
	pinger Pinger,
) *Handler {
	return &Handler{
		catalog:     catalogSvc,
		graph:       graph,
		ranker:      ranker,
		sets:        sets,
		recommender: recommender,
		pinger:      pinger,
		startTime:   time.Now(),
	}
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: storage answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			NewResponseWriter(w, r).ServiceUnavailable("Storage not ready")
			return
		}
	}
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}

// Health reports status and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
