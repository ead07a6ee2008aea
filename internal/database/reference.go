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

// Genre and MPA reference tables. Read-mostly; rows come from the seed or
// an operator migration.

// AllGenres implements catalog.Store.
func (db *DB) AllGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := db.q(ctx).QueryContext(ctx,
		`SELECT genre_id, name FROM genres ORDER BY genre_id`)
	if err != nil {
		return nil, storageErr("querying genres", err)
	}
	defer closeWithLog(rows, "rows")

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, storageErr("scanning genre", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating genres", err)
	}
	return genres, nil
}

// GenreByID implements catalog.Store.
func (db *DB) GenreByID(ctx context.Context, genreID int64) (models.Genre, error) {
	var genre models.Genre
	err := db.q(ctx).QueryRowContext(ctx,
		`SELECT genre_id, name FROM genres WHERE genre_id = ?`, genreID).
		Scan(&genre.ID, &genre.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Genre{}, notFoundErr("genre", genreID)
	}
	if err != nil {
		return models.Genre{}, storageErr("querying genre", err)
	}
	return genre, nil
}

// AllMPA implements catalog.Store.
func (db *DB) AllMPA(ctx context.Context) ([]models.MPARating, error) {
	rows, err := db.q(ctx).QueryContext(ctx,
		`SELECT mpa_id, name FROM mpa_ratings ORDER BY mpa_id`)
	if err != nil {
		return nil, storageErr("querying mpa ratings", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []models.MPARating
	for rows.Next() {
		var rating models.MPARating
		if err := rows.Scan(&rating.ID, &rating.Name); err != nil {
			return nil, storageErr("scanning mpa rating", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating mpa ratings", err)
	}
	return ratings, nil
}

// MPAByID implements catalog.Store.
func (db *DB) MPAByID(ctx context.Context, mpaID int64) (models.MPARating, error) {
	var rating models.MPARating
	err := db.q(ctx).QueryRowContext(ctx,
		`SELECT mpa_id, name FROM mpa_ratings WHERE mpa_id = ?`, mpaID).
		Scan(&rating.ID, &rating.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MPARating{}, notFoundErr("mpa", mpaID)
	}
	if err != nil {
		return models.MPARating{}, storageErr("querying mpa rating", err)
	}
	return rating, nil
}
