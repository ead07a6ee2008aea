// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/models"
)

// Graph is the engagement service. Every mutation updates the relation and
// appends the matching feed event inside one TxRunner transaction, so an
// observer never sees a mutation without its event or vice versa.
type Graph struct {
	store   Store
	events  EventLog
	reviews ReviewStore
	catalog Catalog
	tx      TxRunner

	// now supplies event timestamps; overridable in tests.
	now func() time.Time
}

// NewGraph builds the engagement service over the given backend contracts.
func NewGraph(store Store, events EventLog, reviews ReviewStore, catalog Catalog, tx TxRunner) *Graph {
	return &Graph{
		store:   store,
		events:  events,
		reviews: reviews,
		catalog: catalog,
		tx:      tx,
		now:     time.Now,
	}
}

// epochMillis converts the clock reading to the feed timestamp unit.
func (g *Graph) epochMillis() int64 {
	return g.now().UnixMilli()
}

// requireUser maps a missing user to ErrNotFound.
func (g *Graph) requireUser(ctx context.Context, userID int64) error {
	ok, err := g.catalog.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("checking user %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// requireFilm maps a missing film to ErrNotFound.
func (g *Graph) requireFilm(ctx context.Context, filmID int64) error {
	ok, err := g.catalog.FilmExists(ctx, filmID)
	if err != nil {
		return fmt.Errorf("checking film %d: %w", filmID, err)
	}
	if !ok {
		return fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	return nil
}

// AddLike records that userID likes filmID and logs a LIKE/ADD event.
// Re-liking an already-liked film is a no-op on the relation but still
// appends a feed event, preserving the user's visible activity.
func (g *Graph) AddLike(ctx context.Context, userID, filmID int64) error {
	if err := g.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := g.requireFilm(ctx, filmID); err != nil {
		return err
	}
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		if err := g.store.AddLike(ctx, userID, filmID); err != nil {
			return fmt.Errorf("adding like: %w", err)
		}
		return g.append(ctx, userID, models.EventTypeLike, models.OperationAdd, filmID)
	})
	if err != nil {
		return err
	}
	logging.Debug().Int64("user_id", userID).Int64("film_id", filmID).Msg("Like added")
	return nil
}

// RemoveLike deletes the like edge and logs a LIKE/REMOVE event. Removing
// a like that does not exist returns ErrNotFound and logs nothing.
func (g *Graph) RemoveLike(ctx context.Context, userID, filmID int64) error {
	if err := g.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := g.requireFilm(ctx, filmID); err != nil {
		return err
	}
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		if err := g.store.RemoveLike(ctx, userID, filmID); err != nil {
			return fmt.Errorf("removing like: %w", err)
		}
		return g.append(ctx, userID, models.EventTypeLike, models.OperationRemove, filmID)
	})
	if err != nil {
		return err
	}
	logging.Debug().Int64("user_id", userID).Int64("film_id", filmID).Msg("Like removed")
	return nil
}

// HasLike reports whether the like edge exists.
func (g *Graph) HasLike(ctx context.Context, userID, filmID int64) (bool, error) {
	return g.store.HasLike(ctx, userID, filmID)
}

// AddFollow records the directed follower→followee edge and logs a
// FRIEND/ADD event attributed to the follower. Following yourself is
// rejected as invalid.
func (g *Graph) AddFollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return fmt.Errorf("user %d cannot follow themselves: %w", followerID, ErrInvalidArgument)
	}
	if err := g.requireUser(ctx, followerID); err != nil {
		return err
	}
	if err := g.requireUser(ctx, followeeID); err != nil {
		return err
	}
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		if err := g.store.AddFollow(ctx, followerID, followeeID); err != nil {
			return fmt.Errorf("adding follow: %w", err)
		}
		return g.append(ctx, followerID, models.EventTypeFriend, models.OperationAdd, followeeID)
	})
	if err != nil {
		return err
	}
	logging.Debug().Int64("follower_id", followerID).Int64("followee_id", followeeID).Msg("Follow added")
	return nil
}

// RemoveFollow deletes the directed edge and logs a FRIEND/REMOVE event.
// ErrNotFound when the edge does not exist; the reverse edge is untouched.
func (g *Graph) RemoveFollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return fmt.Errorf("user %d cannot unfollow themselves: %w", followerID, ErrInvalidArgument)
	}
	if err := g.requireUser(ctx, followerID); err != nil {
		return err
	}
	if err := g.requireUser(ctx, followeeID); err != nil {
		return err
	}
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		if err := g.store.RemoveFollow(ctx, followerID, followeeID); err != nil {
			return fmt.Errorf("removing follow: %w", err)
		}
		return g.append(ctx, followerID, models.EventTypeFriend, models.OperationRemove, followeeID)
	})
	if err != nil {
		return err
	}
	logging.Debug().Int64("follower_id", followerID).Int64("followee_id", followeeID).Msg("Follow removed")
	return nil
}

// Followees returns the user records that userID follows.
func (g *Graph) Followees(ctx context.Context, userID int64) ([]models.User, error) {
	if err := g.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := g.store.FolloweesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing followees of %d: %w", userID, err)
	}
	return g.catalog.UsersByIDs(ctx, ids)
}

// FeedFor returns the activity feed of userID: the events the user acted,
// ascending by timestamp. An existing user with no activity gets an empty
// feed, not an error.
func (g *Graph) FeedFor(ctx context.Context, userID int64) ([]models.Event, error) {
	if err := g.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	events, err := g.events.FeedFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading feed for %d: %w", userID, err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// AddReview validates and persists a review, logging REVIEW/ADD attributed
// to the author with the new review's ID as the entity.
func (g *Graph) AddReview(ctx context.Context, review models.Review) (models.Review, error) {
	if err := g.requireUser(ctx, review.UserID); err != nil {
		return models.Review{}, err
	}
	if err := g.requireFilm(ctx, review.FilmID); err != nil {
		return models.Review{}, err
	}
	var stored models.Review
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = g.reviews.AddReview(ctx, review)
		if err != nil {
			return fmt.Errorf("adding review: %w", err)
		}
		return g.append(ctx, stored.UserID, models.EventTypeReview, models.OperationAdd, stored.ReviewID)
	})
	if err != nil {
		return models.Review{}, err
	}
	logging.Debug().Int64("review_id", stored.ReviewID).Int64("user_id", stored.UserID).Msg("Review added")
	return stored, nil
}

// UpdateReview replaces the review's content and positivity. The feed event
// is attributed to the original author, matching how the feed tracks
// ownership rather than the editor.
func (g *Graph) UpdateReview(ctx context.Context, review models.Review) (models.Review, error) {
	var stored models.Review
	err := g.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = g.reviews.UpdateReview(ctx, review)
		if err != nil {
			return fmt.Errorf("updating review %d: %w", review.ReviewID, err)
		}
		return g.append(ctx, stored.UserID, models.EventTypeReview, models.OperationUpdate, stored.ReviewID)
	})
	if err != nil {
		return models.Review{}, err
	}
	return stored, nil
}

// RemoveReview deletes the review and logs REVIEW/REMOVE attributed to its
// author.
func (g *Graph) RemoveReview(ctx context.Context, reviewID int64) error {
	return g.tx.InTx(ctx, func(ctx context.Context) error {
		removed, err := g.reviews.RemoveReview(ctx, reviewID)
		if err != nil {
			return fmt.Errorf("removing review %d: %w", reviewID, err)
		}
		return g.append(ctx, removed.UserID, models.EventTypeReview, models.OperationRemove, removed.ReviewID)
	})
}

// ReviewByID fetches a single review.
func (g *Graph) ReviewByID(ctx context.Context, reviewID int64) (models.Review, error) {
	return g.reviews.ReviewByID(ctx, reviewID)
}

// ReviewsForFilm lists reviews, most useful first. filmID 0 spans all
// films; count caps the result.
func (g *Graph) ReviewsForFilm(ctx context.Context, filmID int64, count int) ([]models.Review, error) {
	if count < 1 {
		return nil, fmt.Errorf("count %d: must be at least 1: %w", count, ErrInvalidArgument)
	}
	if filmID != 0 {
		if err := g.requireFilm(ctx, filmID); err != nil {
			return nil, err
		}
	}
	reviews, err := g.reviews.ReviewsForFilm(ctx, filmID, count)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// AddReviewVote records a usefulness vote. Votes adjust the review's
// Useful score but do not produce feed events.
func (g *Graph) AddReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error {
	if err := g.requireUser(ctx, userID); err != nil {
		return err
	}
	if _, err := g.reviews.ReviewByID(ctx, reviewID); err != nil {
		return err
	}
	return g.reviews.AddReviewVote(ctx, reviewID, userID, useful)
}

// RemoveReviewVote withdraws a usefulness vote.
func (g *Graph) RemoveReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error {
	if err := g.requireUser(ctx, userID); err != nil {
		return err
	}
	return g.reviews.RemoveReviewVote(ctx, reviewID, userID, useful)
}

// append writes one feed event with the service clock's timestamp. Called
// inside the same transaction as the mutation it records.
func (g *Graph) append(ctx context.Context, userID int64, et models.EventType, op models.Operation, entityID int64) error {
	event := models.Event{
		Timestamp: g.epochMillis(),
		UserID:    userID,
		EventType: et,
		Operation: op,
		EntityID:  entityID,
	}
	if err := g.events.Append(ctx, event); err != nil {
		return fmt.Errorf("appending %s/%s event: %w", et, op, err)
	}
	return nil
}
