// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"context"
	"fmt"

	"github.com/cinegraph/cinegraph/internal/engagement"
)

// Like and follow edge storage. Composite primary keys make inserts
// naturally idempotent via ON CONFLICT DO NOTHING.

// AddLike implements engagement.Store.
func (db *DB) AddLike(ctx context.Context, userID, filmID int64) error {
	_, err := db.q(ctx).ExecContext(ctx,
		`INSERT INTO likes (user_id, film_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, filmID)
	if err != nil {
		return storageErr("inserting like", err)
	}
	return nil
}

// RemoveLike implements engagement.Store.
func (db *DB) RemoveLike(ctx context.Context, userID, filmID int64) error {
	result, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND film_id = ?`,
		userID, filmID)
	if err != nil {
		return storageErr("deleting like", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("reading rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("like %d->%d: %w", userID, filmID, engagement.ErrNotFound)
	}
	return nil
}

// HasLike implements engagement.Store.
func (db *DB) HasLike(ctx context.Context, userID, filmID int64) (bool, error) {
	var exists bool
	err := db.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = ? AND film_id = ?)`,
		userID, filmID).Scan(&exists)
	if err != nil {
		return false, storageErr("checking like", err)
	}
	return exists, nil
}

// LikedFilmIDs implements engagement.Store.
func (db *DB) LikedFilmIDs(ctx context.Context, userID int64) ([]int64, error) {
	return db.queryIDs(ctx,
		`SELECT film_id FROM likes WHERE user_id = ? ORDER BY film_id`, userID)
}

// LikersOf implements engagement.Store.
func (db *DB) LikersOf(ctx context.Context, filmID int64) ([]int64, error) {
	return db.queryIDs(ctx,
		`SELECT user_id FROM likes WHERE film_id = ? ORDER BY user_id`, filmID)
}

// LikeCounts implements engagement.Store. Unliked films are reported with
// an explicit zero so ranking can keep them.
func (db *DB) LikeCounts(ctx context.Context, filmIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(filmIDs))
	if len(filmIDs) == 0 {
		return counts, nil
	}
	for _, id := range filmIDs {
		counts[id] = 0
	}

	query, args := expandIn(
		`SELECT film_id, COUNT(*) FROM likes WHERE film_id IN (%s) GROUP BY film_id`,
		filmIDs)
	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("counting likes", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var filmID int64
		var count int
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, storageErr("scanning like count", err)
		}
		counts[filmID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating like counts", err)
	}
	return counts, nil
}

// AddFollow implements engagement.Store.
func (db *DB) AddFollow(ctx context.Context, followerID, followeeID int64) error {
	_, err := db.q(ctx).ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		followerID, followeeID)
	if err != nil {
		return storageErr("inserting follow", err)
	}
	return nil
}

// RemoveFollow implements engagement.Store.
func (db *DB) RemoveFollow(ctx context.Context, followerID, followeeID int64) error {
	result, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
	if err != nil {
		return storageErr("deleting follow", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("reading rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("follow %d->%d: %w", followerID, followeeID, engagement.ErrNotFound)
	}
	return nil
}

// FolloweesOf implements engagement.Store.
func (db *DB) FolloweesOf(ctx context.Context, userID int64) ([]int64, error) {
	return db.queryIDs(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY followee_id`, userID)
}

// queryIDs runs a single-column BIGINT query.
func (db *DB) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("querying ids", err)
	}
	defer closeWithLog(rows, "rows")

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scanning id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating ids", err)
	}
	return ids, nil
}

// expandIn builds an IN clause with one placeholder per value. The query
// template must contain a single %s.
func expandIn(template string, ids []int64) (string, []any) {
	placeholders := make([]byte, 0, len(ids)*2-1)
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}
	return fmt.Sprintf(template, placeholders), args
}
