// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package models defines the domain types shared across storage, the
// engagement core and the HTTP boundary layer.
//
// Wire conventions: durations are integer minutes, calendar dates are
// ISO-8601 date strings (see Date).
package models

// EarliestReleaseYear is the first year a film can be released
// (the Lumière screening of 1895). Used by filter validation.
const EarliestReleaseYear = 1895

// LatestReleaseYear bounds the year filter on popularity queries.
const LatestReleaseYear = 2100

// Film is a catalog entry. LikeCount is derived from the like relation and
// never stored on the film row.
type Film struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"max=200"`
	ReleaseDate Date      `json:"releaseDate"`
	Duration    int       `json:"duration" validate:"gt=0"` // minutes
	MPA         MPARating `json:"mpa"`
	Genres      []Genre   `json:"genres"`
	LikeCount   int       `json:"likeCount"`
}

// ReleaseYear returns the film's release year, or 0 for an unset date.
func (f *Film) ReleaseYear() int {
	if f.ReleaseDate.IsZero() {
		return 0
	}
	return f.ReleaseDate.Year()
}

// Genre is a reference-table entry (Comedy, Drama, ...).
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// MPARating is a reference-table entry for the MPA age rating (G, PG, ...).
type MPARating struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}
