// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/cinegraph/cinegraph/internal/models"
)

// newRecommendFixture seeds users 1..users and films 1..films with the
// given like edges.
func newRecommendFixture(t *testing.T, users, films int, likes map[int64][]int64) *RecommendationEngine {
	t.Helper()
	eng := NewMemoryEngine()
	ctx := context.Background()
	for i := 0; i < users; i++ {
		_, err := eng.PutUser(ctx, models.User{Email: "u@example.com", Login: "u"})
		checkNoError(t, err)
	}
	for i := 0; i < films; i++ {
		_, err := eng.PutFilm(ctx, models.Film{
			Name:        "Film",
			ReleaseDate: models.NewDate(2010, time.May, 5),
			Duration:    95,
		})
		checkNoError(t, err)
	}
	for userID, filmIDs := range likes {
		for _, filmID := range filmIDs {
			checkNoError(t, eng.AddLike(ctx, userID, filmID))
		}
	}
	return NewRecommendationEngine(eng, eng)
}

func TestRecommendFromBestNeighbor(t *testing.T) {
	// User 1 overlaps user 2 on films 1,2 and user 3 on film 1 only.
	// User 2 is the neighbor; their extra films 3,4 are the candidates.
	e := newRecommendFixture(t, 3, 5, map[int64][]int64{
		1: {1, 2},
		2: {1, 2, 3, 4},
		3: {1, 5},
	})

	films, err := e.Recommend(context.Background(), 1)
	checkNoError(t, err)
	// Films 3 and 4 each have one liker; the tie breaks by film ID.
	checkFilmIDs(t, "recommendations", filmIDs(films), 3, 4)
}

func TestRecommendRankedByGlobalLikes(t *testing.T) {
	// Both candidates come from neighbor 2, but film 4 has more likers
	// overall (users 3 and 4 also like it) so it ranks first.
	e := newRecommendFixture(t, 4, 4, map[int64][]int64{
		1: {1},
		2: {1, 3, 4},
		3: {4},
		4: {4},
	})

	films, err := e.Recommend(context.Background(), 1)
	checkNoError(t, err)
	checkFilmIDs(t, "recommendations", filmIDs(films), 4, 3)
	checkIntEqual(t, "top candidate likers", films[0].LikeCount, 3)
}

func TestRecommendNeighborTieBreaksLowestID(t *testing.T) {
	// Users 2 and 3 both overlap user 1 on exactly one film. User 2 wins
	// the tie, so only user 2's extras are recommended.
	e := newRecommendFixture(t, 3, 4, map[int64][]int64{
		1: {1, 2},
		2: {1, 3},
		3: {2, 4},
	})

	films, err := e.Recommend(context.Background(), 1)
	checkNoError(t, err)
	checkFilmIDs(t, "recommendations", filmIDs(films), 3)
}

func TestRecommendEmptyCases(t *testing.T) {
	ctx := context.Background()

	// No likes at all: nothing to base recommendations on.
	e := newRecommendFixture(t, 2, 2, map[int64][]int64{
		2: {1, 2},
	})
	films, err := e.Recommend(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "no basis", len(films), 0)

	// Likes but no overlapping neighbor.
	e = newRecommendFixture(t, 2, 2, map[int64][]int64{
		1: {1},
		2: {2},
	})
	films, err = e.Recommend(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "no neighbor", len(films), 0)

	// Neighbor's likes are a subset of the target's.
	e = newRecommendFixture(t, 2, 2, map[int64][]int64{
		1: {1, 2},
		2: {1},
	})
	films, err = e.Recommend(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "subset neighbor", len(films), 0)
}

func TestRecommendUnknownUser(t *testing.T) {
	e := newRecommendFixture(t, 1, 1, nil)
	_, err := e.Recommend(context.Background(), 404)
	checkErrorIs(t, err, ErrNotFound)
}

func TestRecommendDeterministic(t *testing.T) {
	e := newRecommendFixture(t, 4, 6, map[int64][]int64{
		1: {1, 2, 3},
		2: {1, 2, 4, 5},
		3: {2, 3, 6},
		4: {4, 5, 6},
	})
	ctx := context.Background()

	first, err := e.Recommend(ctx, 1)
	checkNoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(ctx, 1)
		checkNoError(t, err)
		checkFilmIDs(t, "repeat run", filmIDs(again), filmIDs(first)...)
	}
}
