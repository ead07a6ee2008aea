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

// newTestGraph wires a Graph over a fresh MemoryEngine with a fixed clock
// and seeds the given numbers of users and films (IDs 1..n).
func newTestGraph(t *testing.T, users, films int) (*Graph, *MemoryEngine) {
	t.Helper()
	eng := NewMemoryEngine()
	ctx := context.Background()
	for i := 1; i <= users; i++ {
		_, err := eng.PutUser(ctx, models.User{
			Email: "user@example.com",
			Login: "user",
		})
		checkNoError(t, err)
	}
	for i := 1; i <= films; i++ {
		_, err := eng.PutFilm(ctx, models.Film{
			Name:        "Film",
			ReleaseDate: models.NewDate(2000, time.January, 1),
			Duration:    100,
		})
		checkNoError(t, err)
	}
	g := NewGraph(eng, eng, eng, eng, eng)
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g, eng
}

func TestAddLikeIdempotent(t *testing.T) {
	g, eng := newTestGraph(t, 2, 1)
	ctx := context.Background()

	checkNoError(t, g.AddLike(ctx, 1, 1))
	checkNoError(t, g.AddLike(ctx, 1, 1))

	likers, err := eng.LikersOf(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "likers", len(likers), 1)

	counts, err := eng.LikeCounts(ctx, []int64{1})
	checkNoError(t, err)
	checkIntEqual(t, "like count", counts[1], 1)

	// Both attempts are visible in the feed even though the second
	// changed nothing.
	feed, err := g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 2)
}

func TestRemoveLikeMissingEdge(t *testing.T) {
	g, _ := newTestGraph(t, 1, 1)
	ctx := context.Background()

	checkErrorIs(t, g.RemoveLike(ctx, 1, 1), ErrNotFound)

	// No event is logged for the failed removal.
	feed, err := g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 0)
}

func TestLikeUnknownUserOrFilm(t *testing.T) {
	g, _ := newTestGraph(t, 1, 1)
	ctx := context.Background()

	checkErrorIs(t, g.AddLike(ctx, 99, 1), ErrNotFound)
	checkErrorIs(t, g.AddLike(ctx, 1, 99), ErrNotFound)
}

func TestFollowIsDirected(t *testing.T) {
	g, eng := newTestGraph(t, 2, 0)
	ctx := context.Background()

	checkNoError(t, g.AddFollow(ctx, 1, 2))

	ofOne, err := eng.FolloweesOf(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "followees of 1", len(ofOne), 1)
	checkInt64Equal(t, "followee", ofOne[0], 2)

	// The reverse edge does not exist.
	ofTwo, err := eng.FolloweesOf(ctx, 2)
	checkNoError(t, err)
	checkLen(t, "followees of 2", len(ofTwo), 0)

	// Removing the nonexistent reverse edge fails and leaves 1->2 intact.
	checkErrorIs(t, g.RemoveFollow(ctx, 2, 1), ErrNotFound)
	ofOne, err = eng.FolloweesOf(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "followees of 1 after failed reverse removal", len(ofOne), 1)
}

func TestFollowSelfRejected(t *testing.T) {
	g, _ := newTestGraph(t, 1, 0)
	checkErrorIs(t, g.AddFollow(context.Background(), 1, 1), ErrInvalidArgument)
}

func TestFeedOrderedByTimestamp(t *testing.T) {
	g, eng := newTestGraph(t, 2, 2)
	ctx := context.Background()

	// Append out of chronological order: t=100 first, then t=50.
	clock := int64(100)
	g.now = func() time.Time { return time.UnixMilli(clock) }
	checkNoError(t, g.AddLike(ctx, 1, 1))
	clock = 50
	checkNoError(t, g.AddLike(ctx, 1, 2))

	feed, err := g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 2)
	checkInt64Equal(t, "first event timestamp", feed[0].Timestamp, 50)
	checkInt64Equal(t, "second event timestamp", feed[1].Timestamp, 100)

	// Same timestamp: insertion order (event ID) breaks the tie. Both
	// follow events land at t=50, between nothing and the t=100 like.
	checkNoError(t, g.AddFollow(ctx, 1, 2))
	checkNoError(t, g.RemoveFollow(ctx, 1, 2))
	feed, err = g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 4)
	if feed[1].Operation != models.OperationAdd || feed[2].Operation != models.OperationRemove {
		t.Errorf("tied events out of insertion order: %v then %v", feed[1].Operation, feed[2].Operation)
	}

	// Events of user 2 never leak into user 1's feed.
	_, err = eng.PutUser(ctx, models.User{Email: "u@example.com", Login: "u"})
	checkNoError(t, err)
	checkNoError(t, g.AddLike(ctx, 2, 1))
	feed, err = g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed after other user's like", len(feed), 4)
}

func TestFeedEventShape(t *testing.T) {
	g, _ := newTestGraph(t, 2, 1)
	ctx := context.Background()

	checkNoError(t, g.AddLike(ctx, 1, 1))
	checkNoError(t, g.AddFollow(ctx, 1, 2))

	feed, err := g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 2)

	like := feed[0]
	if like.EventType != models.EventTypeLike || like.Operation != models.OperationAdd {
		t.Errorf("expected LIKE/ADD, got %s/%s", like.EventType, like.Operation)
	}
	checkInt64Equal(t, "like entity", like.EntityID, 1)
	checkInt64Equal(t, "like actor", like.UserID, 1)
	checkInt64Equal(t, "like timestamp", like.Timestamp, 1700000000000)

	follow := feed[1]
	if follow.EventType != models.EventTypeFriend || follow.Operation != models.OperationAdd {
		t.Errorf("expected FRIEND/ADD, got %s/%s", follow.EventType, follow.Operation)
	}
	checkInt64Equal(t, "follow entity", follow.EntityID, 2)
}

func TestFeedUnknownUser(t *testing.T) {
	g, _ := newTestGraph(t, 1, 0)
	_, err := g.FeedFor(context.Background(), 42)
	checkErrorIs(t, err, ErrNotFound)
}

func TestReviewLifecycleEvents(t *testing.T) {
	g, _ := newTestGraph(t, 2, 1)
	ctx := context.Background()

	positive := true
	stored, err := g.AddReview(ctx, models.Review{
		Content:    "A quiet masterpiece.",
		IsPositive: &positive,
		UserID:     1,
		FilmID:     1,
	})
	checkNoError(t, err)
	if stored.ReviewID == 0 {
		t.Fatal("expected assigned review ID")
	}

	negative := false
	stored.IsPositive = &negative
	stored.Content = "On reflection, overrated."
	_, err = g.UpdateReview(ctx, stored)
	checkNoError(t, err)

	checkNoError(t, g.RemoveReview(ctx, stored.ReviewID))

	feed, err := g.FeedFor(ctx, 1)
	checkNoError(t, err)
	checkLen(t, "feed", len(feed), 3)
	wantOps := []models.Operation{models.OperationAdd, models.OperationUpdate, models.OperationRemove}
	for i, op := range wantOps {
		if feed[i].EventType != models.EventTypeReview || feed[i].Operation != op {
			t.Errorf("event %d: expected REVIEW/%s, got %s/%s", i, op, feed[i].EventType, feed[i].Operation)
		}
		checkInt64Equal(t, "review entity", feed[i].EntityID, stored.ReviewID)
	}
}

func TestReviewVotesAdjustUseful(t *testing.T) {
	g, _ := newTestGraph(t, 3, 1)
	ctx := context.Background()

	positive := true
	stored, err := g.AddReview(ctx, models.Review{
		Content:    "Watch it twice.",
		IsPositive: &positive,
		UserID:     1,
		FilmID:     1,
	})
	checkNoError(t, err)

	checkNoError(t, g.AddReviewVote(ctx, stored.ReviewID, 2, true))
	checkNoError(t, g.AddReviewVote(ctx, stored.ReviewID, 3, false))

	got, err := g.ReviewByID(ctx, stored.ReviewID)
	checkNoError(t, err)
	checkIntEqual(t, "useful", got.Useful, 0)

	checkNoError(t, g.RemoveReviewVote(ctx, stored.ReviewID, 3, false))
	got, err = g.ReviewByID(ctx, stored.ReviewID)
	checkNoError(t, err)
	checkIntEqual(t, "useful after withdrawal", got.Useful, 1)
}
