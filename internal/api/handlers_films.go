// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"net/http"

	"github.com/cinegraph/cinegraph/internal/metrics"
	"github.com/cinegraph/cinegraph/internal/models"
)

// CreateFilm handles POST /api/v1/films.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeBody(r, &film); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	created, err := h.catalog.CreateFilm(r.Context(), film)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(created)
}

// UpdateFilm handles PUT /api/v1/films. The film ID travels in the body.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := decodeBody(r, &film); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	updated, err := h.catalog.UpdateFilm(r.Context(), film)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(updated)
}

// ListFilms handles GET /api/v1/films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.catalog.AllFilms(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(films)
}

// GetFilm handles GET /api/v1/films/{filmID}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "filmID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	film, err := h.catalog.FilmByID(r.Context(), filmID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(film)
}

// DeleteFilm handles DELETE /api/v1/films/{filmID}.
func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "filmID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err := h.catalog.DeleteFilm(r.Context(), filmID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// AddLike handles PUT /api/v1/films/{filmID}/like/{userID}.
func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likeParams(w, r)
	if !ok {
		return
	}
	if err := h.graph.AddLike(r.Context(), userID, filmID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("like", "add")
	NewResponseWriter(w, r).NoContent()
}

// RemoveLike handles DELETE /api/v1/films/{filmID}/like/{userID}.
func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likeParams(w, r)
	if !ok {
		return
	}
	if err := h.graph.RemoveLike(r.Context(), userID, filmID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	metrics.RecordMutation("like", "remove")
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) likeParams(w http.ResponseWriter, r *http.Request) (filmID, userID int64, ok bool) {
	filmID, err := pathID(r, "filmID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	userID, err = pathID(r, "userID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return 0, 0, false
	}
	return filmID, userID, true
}

// PopularFilms handles GET /api/v1/films/popular?count=&genreId=&year=.
func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", 10)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	genreID, err := queryInt64Ptr(r, "genreId")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	year, err := queryIntPtr(r, "year")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	films, err := h.ranker.Popular(r.Context(), count, genreID, year)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(films)
}

// CommonFilms handles GET /api/v1/films/common?userId=&friendId=.
func (h *Handler) CommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64Ptr(r, "userId")
	if err != nil || userID == nil {
		NewResponseWriter(w, r).BadRequest("userId query parameter is required")
		return
	}
	friendID, err := queryInt64Ptr(r, "friendId")
	if err != nil || friendID == nil {
		NewResponseWriter(w, r).BadRequest("friendId query parameter is required")
		return
	}
	films, err := h.sets.CommonFilms(r.Context(), *userID, *friendID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(films)
}
