// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package engagement

import (
	"context"
	"fmt"
	"sort"

	"github.com/cinegraph/cinegraph/internal/models"
)

// PopularityRanker orders catalog films by how many distinct users like
// them. Rankings are computed from current storage state on every call;
// nothing is precomputed or cached.
type PopularityRanker struct {
	store   Store
	catalog Catalog
}

// NewPopularityRanker builds a ranker over the given store and catalog.
func NewPopularityRanker(store Store, catalog Catalog) *PopularityRanker {
	return &PopularityRanker{store: store, catalog: catalog}
}

// Popular returns up to count films ordered by like count descending.
// Ties break by film ID ascending, so equal-count results are stable
// across calls. Optional genreID and year filters restrict the candidate
// set before ranking; both nil means the whole catalog. Zero-like films
// still rank (at the bottom), and a count larger than the candidate set
// returns everything available.
func (r *PopularityRanker) Popular(ctx context.Context, count int, genreID *int64, year *int) ([]models.Film, error) {
	if count < 1 {
		return nil, fmt.Errorf("count %d: must be at least 1: %w", count, ErrInvalidArgument)
	}
	if genreID != nil && *genreID < 1 {
		return nil, fmt.Errorf("genre %d: %w", *genreID, ErrInvalidArgument)
	}
	if year != nil && (*year < models.EarliestReleaseYear || *year > models.LatestReleaseYear) {
		return nil, fmt.Errorf("year %d: must be within [%d, %d]: %w",
			*year, models.EarliestReleaseYear, models.LatestReleaseYear, ErrInvalidArgument)
	}

	films, err := r.catalog.FilmsByFilter(ctx, genreID, year)
	if err != nil {
		return nil, fmt.Errorf("filtering films: %w", err)
	}
	if len(films) == 0 {
		return []models.Film{}, nil
	}

	ids := make([]int64, len(films))
	for i := range films {
		ids[i] = films[i].ID
	}
	counts, err := r.store.LikeCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}
	for i := range films {
		films[i].LikeCount = counts[films[i].ID]
	}

	sortFilmsByPopularity(films)

	if count < len(films) {
		films = films[:count]
	}
	return films, nil
}

// sortFilmsByPopularity orders by like count descending, film ID ascending
// on ties.
func sortFilmsByPopularity(films []models.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		if films[i].LikeCount != films[j].LikeCount {
			return films[i].LikeCount > films[j].LikeCount
		}
		return films[i].ID < films[j].ID
	})
}
