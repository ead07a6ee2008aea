// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package models

// Review is a user's write-up for a film. Useful is the derived usefulness
// score: +1 per "useful" vote, -1 per "not useful" vote.
type Review struct {
	ReviewID   int64  `json:"reviewId"`
	Content    string `json:"content" validate:"required"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId"`
	FilmID     int64  `json:"filmId"`
	Useful     int    `json:"useful"`
}
