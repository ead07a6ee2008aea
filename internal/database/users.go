// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinegraph/cinegraph/internal/models"
)

// CreateUser implements catalog.Store.
func (db *DB) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := db.q(ctx).QueryRowContext(ctx,
		`INSERT INTO users (email, login, name, birthday)
		 VALUES (?, ?, ?, ?)
		 RETURNING user_id`,
		user.Email, user.Login, user.Name, nullDate(user.Birthday))
	if err := row.Scan(&user.ID); err != nil {
		return models.User{}, storageErr("inserting user", err)
	}
	return user, nil
}

// UpdateUser implements catalog.Store.
func (db *DB) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	result, err := db.q(ctx).ExecContext(ctx,
		`UPDATE users SET email = ?, login = ?, name = ?, birthday = ?
		 WHERE user_id = ?`,
		user.Email, user.Login, user.Name, nullDate(user.Birthday), user.ID)
	if err != nil {
		return models.User{}, storageErr("updating user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.User{}, storageErr("reading rows affected", err)
	}
	if affected == 0 {
		return models.User{}, notFoundErr("user", user.ID)
	}
	return user, nil
}

// DeleteUser implements catalog.Store. The user's likes, follows (both
// directions), events, reviews and votes go with them.
func (db *DB) DeleteUser(ctx context.Context, userID int64) error {
	return db.InTx(ctx, func(ctx context.Context) error {
		result, err := db.q(ctx).ExecContext(ctx,
			`DELETE FROM users WHERE user_id = ?`, userID)
		if err != nil {
			return storageErr("deleting user", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storageErr("reading rows affected", err)
		}
		if affected == 0 {
			return notFoundErr("user", userID)
		}
		cascades := []string{
			`DELETE FROM likes WHERE user_id = ?`,
			`DELETE FROM follows WHERE follower_id = ? OR followee_id = ?`,
			`DELETE FROM events WHERE user_id = ?`,
			`DELETE FROM review_votes WHERE user_id = ?`,
			`DELETE FROM review_votes WHERE review_id IN (SELECT review_id FROM reviews WHERE user_id = ?)`,
			`DELETE FROM reviews WHERE user_id = ?`,
		}
		for _, stmt := range cascades {
			args := []any{userID}
			if stmt == `DELETE FROM follows WHERE follower_id = ? OR followee_id = ?` {
				args = []any{userID, userID}
			}
			if _, err := db.q(ctx).ExecContext(ctx, stmt, args...); err != nil {
				return storageErr("cascading user delete", err)
			}
		}
		return nil
	})
}

// UserByID implements catalog.Store.
func (db *DB) UserByID(ctx context.Context, userID int64) (models.User, error) {
	row := db.q(ctx).QueryRowContext(ctx,
		`SELECT user_id, email, login, name, birthday FROM users WHERE user_id = ?`,
		userID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, notFoundErr("user", userID)
	}
	if err != nil {
		return models.User{}, storageErr("querying user", err)
	}
	return user, nil
}

// AllUsers implements catalog.Store.
func (db *DB) AllUsers(ctx context.Context) ([]models.User, error) {
	return db.queryUsers(ctx,
		`SELECT user_id, email, login, name, birthday FROM users ORDER BY user_id`)
}

// UserExists implements engagement.Catalog.
func (db *DB) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := db.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, storageErr("checking user", err)
	}
	return exists, nil
}

// UsersByIDs implements engagement.Catalog.
func (db *DB) UsersByIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}
	query, args := expandIn(
		`SELECT user_id, email, login, name, birthday
		 FROM users WHERE user_id IN (%s) ORDER BY user_id`, userIDs)
	return db.queryUsers(ctx, query, args...)
}

func (db *DB) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("querying users", err)
	}
	defer closeWithLog(rows, "rows")

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scanning user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating users", err)
	}
	return users, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var birthday sql.NullTime
	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday); err != nil {
		return models.User{}, err
	}
	if birthday.Valid {
		user.Birthday = models.Date{Time: birthday.Time.UTC()}
	}
	return user, nil
}
