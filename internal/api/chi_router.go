// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinegraph/cinegraph/internal/middleware"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middlewareConfig selects the secure
// defaults.
func NewRouter(handler *Handler, middlewareConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(middlewareConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	// CORS must be global to handle OPTIONS preflight.
	r.Use(router.chiMiddleware.CORS())

	// Permissive rate limiting for health endpoints so monitoring probes
	// are never starved.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Film catalog and the like graph.
	r.Route("/api/v1/films", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", router.handler.ListFilms)
		r.Get("/popular", router.handler.PopularFilms)
		r.Get("/common", router.handler.CommonFilms)
		r.Get("/{filmID}", router.handler.GetFilm)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/", router.handler.CreateFilm)
			r.Put("/", router.handler.UpdateFilm)
			r.Delete("/{filmID}", router.handler.DeleteFilm)
			r.Put("/{filmID}/like/{userID}", router.handler.AddLike)
			r.Delete("/{filmID}/like/{userID}", router.handler.RemoveLike)
		})
	})

	// Users, the follow graph, feed, and recommendations.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", router.handler.ListUsers)
		r.Get("/{userID}", router.handler.GetUser)
		r.Get("/{userID}/friends", router.handler.ListFollowees)
		r.Get("/{userID}/friends/common/{otherID}", router.handler.CommonFollowees)
		r.Get("/{userID}/feed", router.handler.Feed)
		r.Get("/{userID}/recommendations", router.handler.Recommendations)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/", router.handler.CreateUser)
			r.Put("/", router.handler.UpdateUser)
			r.Delete("/{userID}", router.handler.DeleteUser)
			r.Put("/{userID}/friends/{friendID}", router.handler.AddFollow)
			r.Delete("/{userID}/friends/{friendID}", router.handler.RemoveFollow)
		})
	})

	// Reviews and review usefulness votes.
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", router.handler.ListReviews)
		r.Get("/{reviewID}", router.handler.GetReview)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/", router.handler.CreateReview)
			r.Put("/", router.handler.UpdateReview)
			r.Delete("/{reviewID}", router.handler.DeleteReview)
			r.Put("/{reviewID}/like/{userID}", router.handler.AddReviewVote(true))
			r.Delete("/{reviewID}/like/{userID}", router.handler.RemoveReviewVote(true))
			r.Put("/{reviewID}/dislike/{userID}", router.handler.AddReviewVote(false))
			r.Delete("/{reviewID}/dislike/{userID}", router.handler.RemoveReviewVote(false))
		})
	})

	// Reference tables, read-only.
	r.Route("/api/v1/genres", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handler.ListGenres)
		r.Get("/{genreID}", router.handler.GetGenre)
	})
	r.Route("/api/v1/mpa", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handler.ListMPA)
		r.Get("/{mpaID}", router.handler.GetMPA)
	})

	// Prometheus scrape endpoint, outside the API envelope.
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
