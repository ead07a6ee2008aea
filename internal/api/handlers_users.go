// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"net/http"
	"time"

	"github.com/cinegraph/cinegraph/internal/metrics"
	"github.com/cinegraph/cinegraph/internal/models"
)

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeBody(r, &user); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	created, err := h.catalog.CreateUser(r.Context(), user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(created)
}

// UpdateUser handles PUT /api/v1/users. The user ID travels in the body.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeBody(r, &user); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	updated, err := h.catalog.UpdateUser(r.Context(), user)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(updated)
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.catalog.AllUsers(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(users)
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	user, err := h.catalog.UserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(user)
}

// DeleteUser handles DELETE /api/v1/users/{userID}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err := h.catalog.DeleteUser(r.Context(), userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// AddFollow handles PUT /api/v1/users/{userID}/friends/{friendID}.
func (h *Handler) AddFollow(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.followParams(w, r)
	if !ok {
		return
	}
	if err := h.graph.AddFollow(r.Context(), userID, friendID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("follow", "add")
	NewResponseWriter(w, r).NoContent()
}

// RemoveFollow handles DELETE /api/v1/users/{userID}/friends/{friendID}.
func (h *Handler) RemoveFollow(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.followParams(w, r)
	if !ok {
		return
	}
	if err := h.graph.RemoveFollow(r.Context(), userID, friendID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("follow", "remove")
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) followParams(w http.ResponseWriter, r *http.Request) (userID, friendID int64, ok bool) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	friendID, err = pathID(r, "friendID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	return userID, friendID, true
}

// ListFollowees handles GET /api/v1/users/{userID}/friends.
func (h *Handler) ListFollowees(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	users, err := h.graph.Followees(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(users)
}

// CommonFollowees handles GET /api/v1/users/{userID}/friends/common/{otherID}.
func (h *Handler) CommonFollowees(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	otherID, err := pathID(r, "otherID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	users, err := h.sets.CommonFollowees(r.Context(), userID, otherID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(users)
}

// Feed handles GET /api/v1/users/{userID}/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	events, err := h.graph.FeedFor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(events)
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	start := time.Now()
	films, err := h.recommender.Recommend(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordRecommendation(time.Since(start))
	NewResponseWriter(w, r).Success(films)
}
