// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package engagement is the core of Cinegraph: it turns raw like/follow
// edges into popularity rankings, personalized recommendations, set-based
// social queries and a chronological activity feed.
//
// The package never talks to a concrete store. All state flows through the
// Store, EventLog, ReviewStore and Catalog contracts, so a relational
// backend (internal/database) and the in-memory engine (memory.go) are
// interchangeable. Every read recomputes from current storage state; there
// is no caching layer.
package engagement

import (
	"context"
	"errors"

	"github.com/cinegraph/cinegraph/internal/models"
)

// Sentinel errors. Wrap with fmt.Errorf("...: %w", err) to add context;
// callers test with errors.Is.
var (
	// ErrNotFound reports a missing user, film, review or edge where
	// existence is required.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a malformed request: non-positive count,
	// self-referential common query, out-of-range filter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable reports a storage failure. It is propagated to
	// the caller unchanged and never retried inside this package.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store owns the like (user↔film) and follow (user→user, directed)
// relations. Implementations provide statement-level atomicity only;
// referenced users and films are assumed to exist (the service layer
// checks foreign keys before delegating).
type Store interface {
	// AddLike records that userID likes filmID. Idempotent: liking twice
	// has no additional effect.
	AddLike(ctx context.Context, userID, filmID int64) error

	// RemoveLike deletes the like edge. Returns ErrNotFound when the edge
	// does not exist.
	RemoveLike(ctx context.Context, userID, filmID int64) error

	// HasLike reports whether the like edge exists.
	HasLike(ctx context.Context, userID, filmID int64) (bool, error)

	// LikedFilmIDs returns the distinct films userID likes.
	LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error)

	// LikersOf returns the distinct users who like filmID.
	LikersOf(ctx context.Context, filmID int64) ([]int64, error)

	// LikeCounts returns the liker count per film for the given films.
	// Films with no likes map to zero.
	LikeCounts(ctx context.Context, filmIDs []int64) (map[int64]int, error)

	// AddFollow records the directed edge follower→followee. Idempotent.
	AddFollow(ctx context.Context, followerID, followeeID int64) error

	// RemoveFollow deletes the directed edge. Returns ErrNotFound when
	// the edge does not exist.
	RemoveFollow(ctx context.Context, followerID, followeeID int64) error

	// FolloweesOf returns the users that userID follows. The relation is
	// directed: A following B says nothing about B following A.
	FolloweesOf(ctx context.Context, userID int64) ([]int64, error)
}

// EventLog is the append-only, time-ordered record of domain actions.
// It never inspects or mutates the graph; the Graph service writes to it
// in the same transaction as the corresponding mutation.
type EventLog interface {
	// Append records the event. The implementation assigns EventID.
	Append(ctx context.Context, event models.Event) error

	// FeedFor returns the events acted by userID, ascending by timestamp
	// with EventID (insertion order) breaking ties. Finite and
	// re-queryable; each call re-reads current state.
	FeedFor(ctx context.Context, userID int64) ([]models.Event, error)
}

// ReviewStore owns reviews and their usefulness votes.
type ReviewStore interface {
	// AddReview persists a new review and returns it with ReviewID set.
	AddReview(ctx context.Context, review models.Review) (models.Review, error)

	// UpdateReview replaces content and positivity of an existing review
	// and returns the stored result. ErrNotFound when absent.
	UpdateReview(ctx context.Context, review models.Review) (models.Review, error)

	// RemoveReview deletes a review, returning the removed record so the
	// caller can attribute the feed event. ErrNotFound when absent.
	RemoveReview(ctx context.Context, reviewID int64) (models.Review, error)

	// ReviewByID fetches one review. ErrNotFound when absent.
	ReviewByID(ctx context.Context, reviewID int64) (models.Review, error)

	// ReviewsForFilm lists reviews sorted by useful score descending,
	// reviewID ascending on ties. filmID 0 means all films. count caps
	// the result.
	ReviewsForFilm(ctx context.Context, filmID int64, count int) ([]models.Review, error)

	// AddReviewVote records a usefulness vote (+1 useful, -1 not useful)
	// from userID. Re-voting the same way is idempotent.
	AddReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error

	// RemoveReviewVote withdraws a vote. ErrNotFound when the vote does
	// not exist.
	RemoveReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error
}

// Catalog resolves film and user records for the engagement queries.
// The films/users CRUD itself lives outside this package.
type Catalog interface {
	// FilmExists reports whether the film is present in the catalog.
	FilmExists(ctx context.Context, filmID int64) (bool, error)

	// UserExists reports whether the user is present in the catalog.
	UserExists(ctx context.Context, userID int64) (bool, error)

	// FilmsByIDs materializes film records for the given IDs, genres and
	// MPA included. Order follows the input slice; unknown IDs are
	// skipped.
	FilmsByIDs(ctx context.Context, filmIDs []int64) ([]models.Film, error)

	// FilmsByFilter lists films matching the optional genre and release
	// year predicates (AND-combined when both are present). Nil means no
	// constraint.
	FilmsByFilter(ctx context.Context, genreID *int64, year *int) ([]models.Film, error)

	// UsersByIDs materializes user records for the given IDs. Order
	// follows the input slice; unknown IDs are skipped.
	UsersByIDs(ctx context.Context, userIDs []int64) ([]models.User, error)
}

// TxRunner executes fn atomically when the backend supports transactions.
// The DuckDB engine carries a *sql.Tx through ctx; the in-memory engine
// runs fn directly (single-process legacy fallback, no multi-statement
// atomicity).
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
