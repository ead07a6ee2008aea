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

// SetGraphQueries answers intersection questions over the engagement
// graph: films two users both like and users two users both follow.
// Both queries are symmetric in their arguments and read-only.
type SetGraphQueries struct {
	store   Store
	catalog Catalog
}

// NewSetGraphQueries builds the query service over the given backends.
func NewSetGraphQueries(store Store, catalog Catalog) *SetGraphQueries {
	return &SetGraphQueries{store: store, catalog: catalog}
}

// CommonFilms returns the films both users like, ordered by overall like
// count descending with film ID ascending on ties. Comparing a user with
// themselves is rejected; disjoint tastes yield an empty slice.
func (q *SetGraphQueries) CommonFilms(ctx context.Context, userA, userB int64) ([]models.Film, error) {
	if userA == userB {
		return nil, fmt.Errorf("comparing user %d with themselves: %w", userA, ErrInvalidArgument)
	}
	if err := q.requireUsers(ctx, userA, userB); err != nil {
		return nil, err
	}

	likedA, err := q.store.LikedFilmIDs(ctx, userA)
	if err != nil {
		return nil, fmt.Errorf("loading likes of %d: %w", userA, err)
	}
	likedB, err := q.store.LikedFilmIDs(ctx, userB)
	if err != nil {
		return nil, fmt.Errorf("loading likes of %d: %w", userB, err)
	}

	common := intersect(likedA, likedB)
	if len(common) == 0 {
		return []models.Film{}, nil
	}

	films, err := q.catalog.FilmsByIDs(ctx, common)
	if err != nil {
		return nil, fmt.Errorf("resolving films: %w", err)
	}
	counts, err := q.store.LikeCounts(ctx, common)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}
	for i := range films {
		films[i].LikeCount = counts[films[i].ID]
	}
	sortFilmsByPopularity(films)
	return films, nil
}

// CommonFollowees returns the users both arguments follow, ordered by user
// ID ascending. The underlying follow relation is directed, so only
// outgoing edges count.
func (q *SetGraphQueries) CommonFollowees(ctx context.Context, userA, userB int64) ([]models.User, error) {
	if userA == userB {
		return nil, fmt.Errorf("comparing user %d with themselves: %w", userA, ErrInvalidArgument)
	}
	if err := q.requireUsers(ctx, userA, userB); err != nil {
		return nil, err
	}

	followsA, err := q.store.FolloweesOf(ctx, userA)
	if err != nil {
		return nil, fmt.Errorf("loading followees of %d: %w", userA, err)
	}
	followsB, err := q.store.FolloweesOf(ctx, userB)
	if err != nil {
		return nil, fmt.Errorf("loading followees of %d: %w", userB, err)
	}

	common := intersect(followsA, followsB)
	if len(common) == 0 {
		return []models.User{}, nil
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	users, err := q.catalog.UsersByIDs(ctx, common)
	if err != nil {
		return nil, fmt.Errorf("resolving users: %w", err)
	}
	return users, nil
}

func (q *SetGraphQueries) requireUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		ok, err := q.catalog.UserExists(ctx, id)
		if err != nil {
			return fmt.Errorf("checking user %d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
	}
	return nil
}

// intersect returns the IDs present in both slices, deduplicated,
// preserving a's encounter order.
func intersect(a, b []int64) []int64 {
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
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
