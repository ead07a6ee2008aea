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

// seedSetQueries builds three users and four films:
//
//	user 1 likes films 1,2,3 and follows users 2,3
//	user 2 likes films 2,3,4 and follows user 3
//	user 3 likes nothing and follows nobody
func seedSetQueries(t *testing.T) *MemoryEngine {
	t.Helper()
	eng := NewMemoryEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := eng.PutUser(ctx, models.User{Email: "u@example.com", Login: "u"})
		checkNoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := eng.PutFilm(ctx, models.Film{
			Name:        "Film",
			ReleaseDate: models.NewDate(1999, time.March, 1),
			Duration:    120,
		})
		checkNoError(t, err)
	}
	for _, filmID := range []int64{1, 2, 3} {
		checkNoError(t, eng.AddLike(ctx, 1, filmID))
	}
	for _, filmID := range []int64{2, 3, 4} {
		checkNoError(t, eng.AddLike(ctx, 2, filmID))
	}
	checkNoError(t, eng.AddFollow(ctx, 1, 2))
	checkNoError(t, eng.AddFollow(ctx, 1, 3))
	checkNoError(t, eng.AddFollow(ctx, 2, 3))
	return eng
}

func TestCommonFilms(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)
	ctx := context.Background()

	films, err := q.CommonFilms(ctx, 1, 2)
	checkNoError(t, err)
	// Films 2 and 3 each have two likers; the tie breaks by ID.
	checkFilmIDs(t, "common films", filmIDs(films), 2, 3)
	checkIntEqual(t, "like count", films[0].LikeCount, 2)

	// Symmetric in its arguments.
	swapped, err := q.CommonFilms(ctx, 2, 1)
	checkNoError(t, err)
	checkFilmIDs(t, "common films swapped", filmIDs(swapped), 2, 3)
}

func TestCommonFilmsDisjoint(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)

	// User 3 likes nothing: the intersection is empty, not an error.
	films, err := q.CommonFilms(context.Background(), 1, 3)
	checkNoError(t, err)
	checkLen(t, "disjoint common films", len(films), 0)
}

func TestCommonFilmsSelfComparison(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)

	_, err := q.CommonFilms(context.Background(), 1, 1)
	checkErrorIs(t, err, ErrInvalidArgument)
}

func TestCommonFilmsUnknownUser(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)

	_, err := q.CommonFilms(context.Background(), 1, 77)
	checkErrorIs(t, err, ErrNotFound)
}

func TestCommonFollowees(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)
	ctx := context.Background()

	users, err := q.CommonFollowees(ctx, 1, 2)
	checkNoError(t, err)
	checkLen(t, "common followees", len(users), 1)
	checkInt64Equal(t, "common followee", users[0].ID, 3)

	// Incoming edges do not count: user 3 follows nobody.
	users, err = q.CommonFollowees(ctx, 2, 3)
	checkNoError(t, err)
	checkLen(t, "common followees with 3", len(users), 0)
}

func TestCommonFolloweesSelfComparison(t *testing.T) {
	eng := seedSetQueries(t)
	q := NewSetGraphQueries(eng, eng)

	_, err := q.CommonFollowees(context.Background(), 2, 2)
	checkErrorIs(t, err, ErrInvalidArgument)
}

func TestCommonFolloweesSortedByID(t *testing.T) {
	eng := seedSetQueries(t)
	ctx := context.Background()

	// Two extra followees shared by users 1 and 2, added in reverse order.
	for i := 0; i < 2; i++ {
		_, err := eng.PutUser(ctx, models.User{Email: "u@example.com", Login: "u"})
		checkNoError(t, err)
	}
	for _, followerID := range []int64{1, 2} {
		checkNoError(t, eng.AddFollow(ctx, followerID, 5))
		checkNoError(t, eng.AddFollow(ctx, followerID, 4))
	}

	q := NewSetGraphQueries(eng, eng)
	users, err := q.CommonFollowees(ctx, 1, 2)
	checkNoError(t, err)
	checkLen(t, "common followees", len(users), 3)
	for i, want := range []int64{3, 4, 5} {
		checkInt64Equal(t, "followee order", users[i].ID, want)
	}
}
