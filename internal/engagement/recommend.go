// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package engagement

import (
	"context"
	"fmt"
	"sort"

	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/models"
)

// RecommendationEngine suggests films by collaborative filtering over the
// like relation. The algorithm is deliberately simple and deterministic:
//
//  1. Find the neighbor: the other user whose liked set has the largest
//     overlap with the target's. Ties break toward the lowest user ID.
//  2. Candidates are the neighbor's likes the target has not liked.
//  3. Rank candidates by overall liker count descending, film ID
//     ascending on ties.
//
// A target with no likes, no overlapping neighbor, or a neighbor whose
// likes are a subset of the target's gets an empty result.
type RecommendationEngine struct {
	store   Store
	catalog Catalog
}

// NewRecommendationEngine builds the engine over the given backends.
func NewRecommendationEngine(store Store, catalog Catalog) *RecommendationEngine {
	return &RecommendationEngine{store: store, catalog: catalog}
}

// Recommend returns suggested films for userID, best-ranked first.
func (e *RecommendationEngine) Recommend(ctx context.Context, userID int64) ([]models.Film, error) {
	ok, err := e.catalog.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking user %d: %w", userID, err)
	}
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	liked, err := e.store.LikedFilmIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading likes of %d: %w", userID, err)
	}
	if len(liked) == 0 {
		return []models.Film{}, nil
	}

	neighborID, overlap, err := e.topNeighbor(ctx, userID, liked)
	if err != nil {
		return nil, err
	}
	if overlap == 0 {
		return []models.Film{}, nil
	}

	neighborLiked, err := e.store.LikedFilmIDs(ctx, neighborID)
	if err != nil {
		return nil, fmt.Errorf("loading likes of neighbor %d: %w", neighborID, err)
	}
	candidates := subtract(neighborLiked, liked)
	if len(candidates) == 0 {
		return []models.Film{}, nil
	}

	films, err := e.catalog.FilmsByIDs(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolving candidate films: %w", err)
	}
	counts, err := e.store.LikeCounts(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("counting candidate likes: %w", err)
	}
	for i := range films {
		films[i].LikeCount = counts[films[i].ID]
	}
	sortFilmsByPopularity(films)

	logging.Debug().
		Int64("user_id", userID).
		Int64("neighbor_id", neighborID).
		Int("overlap", overlap).
		Int("candidates", len(films)).
		Msg("Recommendations computed")
	return films, nil
}

// topNeighbor finds the user (other than userID) with the most likes in
// common with the given liked set. Returns overlap 0 when nobody shares a
// film.
func (e *RecommendationEngine) topNeighbor(ctx context.Context, userID int64, liked []int64) (int64, int, error) {
	overlaps := make(map[int64]int)
	for _, filmID := range liked {
		likers, err := e.store.LikersOf(ctx, filmID)
		if err != nil {
			return 0, 0, fmt.Errorf("loading likers of film %d: %w", filmID, err)
		}
		for _, likerID := range likers {
			if likerID != userID {
				overlaps[likerID]++
			}
		}
	}
	if len(overlaps) == 0 {
		return 0, 0, nil
	}

	ids := make([]int64, 0, len(overlaps))
	for id := range overlaps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var bestID int64
	best := 0
	for _, id := range ids {
		if overlaps[id] > best {
			bestID, best = id, overlaps[id]
		}
	}
	return bestID, best, nil
}

// subtract returns the IDs in a that are not in b, deduplicated,
// preserving a's encounter order.
func subtract(a, b []int64) []int64 {
	inB := make(map[int64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	var out []int64
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, skip := inB[id]; !skip {
			out = append(out, id)
		}
	}
	return out
}
