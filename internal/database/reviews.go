// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cinegraph/cinegraph/internal/engagement"
	"github.com/cinegraph/cinegraph/internal/models"
)

// reviewColumns aggregates the vote balance into the useful score.
const reviewColumns = `
	r.review_id, r.content, r.is_positive, r.user_id, r.film_id,
	COALESCE((SELECT SUM(v.vote) FROM review_votes v WHERE v.review_id = r.review_id), 0)
`

// AddReview implements engagement.ReviewStore.
func (db *DB) AddReview(ctx context.Context, review models.Review) (models.Review, error) {
	row := db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO reviews (content, is_positive, user_id, film_id)
		 VALUES (?, ?, ?, ?)
		 RETURNING review_id`,
		review.Content, *review.IsPositive, review.UserID, review.FilmID)
	if err := row.Scan(&review.ReviewID); err != nil {
		return models.Review{}, storageErr("inserting review", err)
	}
	review.Useful = 0
	return review, nil
}

// UpdateReview implements engagement.ReviewStore. Authorship and film
// binding never change on update.
func (db *DB) UpdateReview(ctx context.Context, review models.Review) (models.Review, error) {
	result, err := db.q(ctx).ExecContext(ctx,
		`UPDATE reviews SET content = ?, is_positive = ? WHERE review_id = ?`,
		review.Content, *review.IsPositive, review.ReviewID)
	if err != nil {
		return models.Review{}, storageErr("updating review", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.Review{}, storageErr("reading rows affected", err)
	}
	if affected == 0 {
		return models.Review{}, notFoundErr("review", review.ReviewID)
	}
	return db.ReviewByID(ctx, review.ReviewID)
}

// RemoveReview implements engagement.ReviewStore.
func (db *DB) RemoveReview(ctx context.Context, reviewID int64) (models.Review, error) {
	stored, err := db.ReviewByID(ctx, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if _, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM reviews WHERE review_id = ?`, reviewID); err != nil {
		return models.Review{}, storageErr("deleting review", err)
	}
	if _, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM review_votes WHERE review_id = ?`, reviewID); err != nil {
		return models.Review{}, storageErr("deleting review votes", err)
	}
	return stored, nil
}

// ReviewByID implements engagement.ReviewStore.
func (db *DB) ReviewByID(ctx context.Context, reviewID int64) (models.Review, error) {
	row := db.q(ctx).QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews r WHERE r.review_id = ?`, reviewID)
	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, notFoundErr("review", reviewID)
	}
	if err != nil {
		return models.Review{}, storageErr("querying review", err)
	}
	return review, nil
}

// ReviewsForFilm implements engagement.ReviewStore.
func (db *DB) ReviewsForFilm(ctx context.Context, filmID int64, count int) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r`
	var args []any
	if filmID != 0 {
		query += ` WHERE r.film_id = ?`
		args = append(args, filmID)
	}
	query += ` ORDER BY 6 DESC, r.review_id LIMIT ?`
	args = append(args, count)

	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("querying reviews", err)
	}
	defer closeWithLog(rows, "rows")

	var reviews []models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, storageErr("scanning review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating reviews", err)
	}
	return reviews, nil
}

// AddReviewVote implements engagement.ReviewStore. A later vote from the
// same user replaces the earlier one.
func (db *DB) AddReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error {
	vote := -1
	if useful {
		vote = 1
	}
	_, err := db.q(ctx).ExecContext(ctx,
		`INSERT INTO review_votes (review_id, user_id, vote) VALUES (?, ?, ?)
		 ON CONFLICT (review_id, user_id) DO UPDATE SET vote = excluded.vote`,
		reviewID, userID, vote)
	if err != nil {
		return storageErr("inserting review vote", err)
	}
	return nil
}

// RemoveReviewVote implements engagement.ReviewStore.
func (db *DB) RemoveReviewVote(ctx context.Context, reviewID, userID int64, useful bool) error {
	vote := -1
	if useful {
		vote = 1
	}
	result, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM review_votes WHERE review_id = ? AND user_id = ? AND vote = ?`,
		reviewID, userID, vote)
	if err != nil {
		return storageErr("deleting review vote", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("reading rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("vote on review %d by user %d: %w", reviewID, userID, engagement.ErrNotFound)
	}
	return nil
}

func scanReview(row rowScanner) (models.Review, error) {
	var review models.Review
	var isPositive bool
	err := row.Scan(&review.ReviewID, &review.Content, &isPositive,
		&review.UserID, &review.FilmID, &review.Useful)
	if err != nil {
		return models.Review{}, err
	}
	review.IsPositive = &isPositive
	return review, nil
}
