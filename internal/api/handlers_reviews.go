// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"net/http"

	"github.com/cinegraph/cinegraph/internal/metrics"
	"github.com/cinegraph/cinegraph/internal/models"
	"github.com/cinegraph/cinegraph/internal/validation"
)

// CreateReview handles POST /api/v1/reviews.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := decodeBody(r, &review); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(review); verr != nil {
		NewResponseWriter(w, r).ValidationError("Request validation failed", verr.Fields())
		return
	}
	created, err := h.graph.AddReview(r.Context(), review)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("review", "add")
	NewResponseWriter(w, r).Created(created)
}

// UpdateReview handles PUT /api/v1/reviews. The review ID travels in the
// body; only content and positivity change.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := decodeBody(r, &review); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(review); verr != nil {
		NewResponseWriter(w, r).ValidationError("Request validation failed", verr.Fields())
		return
	}
	updated, err := h.graph.UpdateReview(r.Context(), review)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("review", "update")
	NewResponseWriter(w, r).Success(updated)
}

// DeleteReview handles DELETE /api/v1/reviews/{reviewID}.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err := h.graph.RemoveReview(r.Context(), reviewID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("review", "remove")
	NewResponseWriter(w, r).NoContent()
}

// GetReview handles GET /api/v1/reviews/{reviewID}.
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	review, err := h.graph.ReviewByID(r.Context(), reviewID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(review)
}

// ListReviews handles GET /api/v1/reviews?filmId=&count=. Without filmId
// the listing spans all films.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	filmID, err := queryInt64Ptr(r, "filmId")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	count, err := queryInt(r, "count", 10)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	var scope int64
	if filmID != nil {
		scope = *filmID
	}
	reviews, err := h.graph.ReviewsForFilm(r.Context(), scope, count)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(reviews)
}

// AddReviewVote handles PUT /api/v1/reviews/{reviewID}/like/{userID} and
// .../dislike/{userID}.
func (h *Handler) AddReviewVote(useful bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, userID, ok := h.reviewVoteParams(w, r)
		if !ok {
			return
		}
		if err := h.graph.AddReviewVote(r.Context(), reviewID, userID, useful); err != nil {
			respondServiceError(w, r, err)
			return
		}
		NewResponseWriter(w, r).NoContent()
	}
}

// RemoveReviewVote handles DELETE /api/v1/reviews/{reviewID}/like/{userID}
// and .../dislike/{userID}.
func (h *Handler) RemoveReviewVote(useful bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, userID, ok := h.reviewVoteParams(w, r)
		if !ok {
			return
		}
		if err := h.graph.RemoveReviewVote(r.Context(), reviewID, userID, useful); err != nil {
			respondServiceError(w, r, err)
			return
		}
		NewResponseWriter(w, r).NoContent()
	}
}

func (h *Handler) reviewVoteParams(w http.ResponseWriter, r *http.Request) (reviewID, userID int64, ok bool) {
	reviewID, err := pathID(r, "reviewID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	userID, err = pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	return reviewID, userID, true
}
