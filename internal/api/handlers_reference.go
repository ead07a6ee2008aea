// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import "net/http"

// ListGenres handles GET /api/v1/genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.AllGenres(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(genres)
}

// GetGenre handles GET /api/v1/genres/{genreID}.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	genreID, err := pathID(r, "genreID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	genre, err := h.catalog.GenreByID(r.Context(), genreID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(genre)
}

// ListMPA handles GET /api/v1/mpa.
func (h *Handler) ListMPA(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.catalog.AllMPA(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(ratings)
}

// GetMPA handles GET /api/v1/mpa/{mpaID}.
func (h *Handler) GetMPA(w http.ResponseWriter, r *http.Request) {
	mpaID, err := pathID(r, "mpaID")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	rating, err := h.catalog.MPAByID(r.Context(), mpaID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(rating)
}
