// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"context"
)

// schemaStatements creates the catalog tables, the engagement edge tables
// and the append-only event log. DuckDB has no auto-increment column, so
// every generated ID draws from an explicit sequence.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_user_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_film_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_event_id START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_review_id START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		user_id  BIGINT PRIMARY KEY DEFAULT nextval('seq_user_id'),
		email    VARCHAR NOT NULL,
		login    VARCHAR NOT NULL,
		name     VARCHAR NOT NULL,
		birthday DATE
	)`,

	`CREATE TABLE IF NOT EXISTS mpa_ratings (
		mpa_id BIGINT PRIMARY KEY,
		name   VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS genres (
		genre_id BIGINT PRIMARY KEY,
		name     VARCHAR NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS films (
		film_id      BIGINT PRIMARY KEY DEFAULT nextval('seq_film_id'),
		name         VARCHAR NOT NULL,
		description  VARCHAR,
		release_date DATE,
		duration     INTEGER NOT NULL,
		mpa_id       BIGINT
	)`,

	`CREATE TABLE IF NOT EXISTS film_genres (
		film_id  BIGINT NOT NULL,
		genre_id BIGINT NOT NULL,
		PRIMARY KEY (film_id, genre_id)
	)`,

	`CREATE TABLE IF NOT EXISTS likes (
		user_id BIGINT NOT NULL,
		film_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, film_id)
	)`,

	`CREATE TABLE IF NOT EXISTS follows (
		follower_id BIGINT NOT NULL,
		followee_id BIGINT NOT NULL,
		PRIMARY KEY (follower_id, followee_id)
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		event_id   BIGINT PRIMARY KEY DEFAULT nextval('seq_event_id'),
		ts         BIGINT NOT NULL,
		user_id    BIGINT NOT NULL,
		event_type VARCHAR NOT NULL,
		operation  VARCHAR NOT NULL,
		entity_id  BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		review_id   BIGINT PRIMARY KEY DEFAULT nextval('seq_review_id'),
		content     VARCHAR NOT NULL,
		is_positive BOOLEAN NOT NULL,
		user_id     BIGINT NOT NULL,
		film_id     BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS review_votes (
		review_id BIGINT NOT NULL,
		user_id   BIGINT NOT NULL,
		vote      SMALLINT NOT NULL,
		PRIMARY KEY (review_id, user_id)
	)`,
}

// createTables applies the schema. All statements are idempotent.
func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return storageErr("creating schema", err)
		}
	}
	return nil
}

// seedReferenceData fills the genre and MPA tables. Anti-joins keep the
// seed idempotent across restarts.
func (db *DB) seedReferenceData(ctx context.Context) error {
	seeds := []string{
		`INSERT INTO genres (genre_id, name)
		 SELECT * FROM (VALUES
			(1, 'Comedy'), (2, 'Drama'), (3, 'Animation'),
			(4, 'Thriller'), (5, 'Documentary'), (6, 'Action')
		 ) AS v(genre_id, name)
		 WHERE genre_id NOT IN (SELECT genre_id FROM genres)`,
		`INSERT INTO mpa_ratings (mpa_id, name)
		 SELECT * FROM (VALUES
			(1, 'G'), (2, 'PG'), (3, 'PG-13'), (4, 'R'), (5, 'NC-17')
		 ) AS v(mpa_id, name)
		 WHERE mpa_id NOT IN (SELECT mpa_id FROM mpa_ratings)`,
	}
	for _, stmt := range seeds {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return storageErr("seeding reference data", err)
		}
	}
	return nil
}
