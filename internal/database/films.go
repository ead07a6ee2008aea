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

// filmColumns is the base projection shared by every film query. The MPA
// name joins in so a single round trip fills the rating; genres need an
// extra query because they are one-to-many.
const filmColumns = `
	f.film_id, f.name, f.description, f.release_date, f.duration,
	f.mpa_id, m.name
`

// CreateFilm implements catalog.Store.
func (db *DB) CreateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	err := db.InTx(ctx, func(ctx context.Context) error {
		row := db.q(ctx).QueryRowContext(ctx,
			`INSERT INTO films (name, description, release_date, duration, mpa_id)
			 VALUES (?, ?, ?, ?, ?)
			 RETURNING film_id`,
			film.Name, nullString(film.Description), nullDate(film.ReleaseDate),
			film.Duration, nullID(film.MPA.ID))
		if err := row.Scan(&film.ID); err != nil {
			return storageErr("inserting film", err)
		}
		return db.replaceFilmGenres(ctx, film.ID, film.Genres)
	})
	if err != nil {
		return models.Film{}, err
	}
	return db.FilmByID(ctx, film.ID)
}

// UpdateFilm implements catalog.Store.
func (db *DB) UpdateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	err := db.InTx(ctx, func(ctx context.Context) error {
		result, err := db.q(ctx).ExecContext(ctx,
			`UPDATE films
			 SET name = ?, description = ?, release_date = ?, duration = ?, mpa_id = ?
			 WHERE film_id = ?`,
			film.Name, nullString(film.Description), nullDate(film.ReleaseDate),
			film.Duration, nullID(film.MPA.ID), film.ID)
		if err != nil {
			return storageErr("updating film", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storageErr("reading rows affected", err)
		}
		if affected == 0 {
			return notFoundErr("film", film.ID)
		}
		return db.replaceFilmGenres(ctx, film.ID, film.Genres)
	})
	if err != nil {
		return models.Film{}, err
	}
	return db.FilmByID(ctx, film.ID)
}

// DeleteFilm implements catalog.Store. Likes, genre links and reviews of
// the film go with it.
func (db *DB) DeleteFilm(ctx context.Context, filmID int64) error {
	return db.InTx(ctx, func(ctx context.Context) error {
		result, err := db.q(ctx).ExecContext(ctx,
			`DELETE FROM films WHERE film_id = ?`, filmID)
		if err != nil {
			return storageErr("deleting film", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return storageErr("reading rows affected", err)
		}
		if affected == 0 {
			return notFoundErr("film", filmID)
		}
		cascades := []string{
			`DELETE FROM film_genres WHERE film_id = ?`,
			`DELETE FROM likes WHERE film_id = ?`,
			`DELETE FROM review_votes WHERE review_id IN (SELECT review_id FROM reviews WHERE film_id = ?)`,
			`DELETE FROM reviews WHERE film_id = ?`,
		}
		for _, stmt := range cascades {
			if _, err := db.q(ctx).ExecContext(ctx, stmt, filmID); err != nil {
				return storageErr("cascading film delete", err)
			}
		}
		return nil
	})
}

// FilmByID implements catalog.Store.
func (db *DB) FilmByID(ctx context.Context, filmID int64) (models.Film, error) {
	row := db.q(ctx).QueryRowContext(ctx,
		`SELECT `+filmColumns+`
		 FROM films f LEFT JOIN mpa_ratings m ON m.mpa_id = f.mpa_id
		 WHERE f.film_id = ?`, filmID)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Film{}, notFoundErr("film", filmID)
	}
	if err != nil {
		return models.Film{}, storageErr("querying film", err)
	}
	films := []models.Film{film}
	if err := db.attachGenres(ctx, films); err != nil {
		return models.Film{}, err
	}
	return films[0], nil
}

// AllFilms implements catalog.Store.
func (db *DB) AllFilms(ctx context.Context) ([]models.Film, error) {
	return db.queryFilms(ctx,
		`SELECT `+filmColumns+`
		 FROM films f LEFT JOIN mpa_ratings m ON m.mpa_id = f.mpa_id
		 ORDER BY f.film_id`)
}

// FilmExists implements engagement.Catalog.
func (db *DB) FilmExists(ctx context.Context, filmID int64) (bool, error) {
	var exists bool
	err := db.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM films WHERE film_id = ?)`, filmID).Scan(&exists)
	if err != nil {
		return false, storageErr("checking film", err)
	}
	return exists, nil
}

// FilmsByIDs implements engagement.Catalog.
func (db *DB) FilmsByIDs(ctx context.Context, filmIDs []int64) ([]models.Film, error) {
	if len(filmIDs) == 0 {
		return []models.Film{}, nil
	}
	query, args := expandIn(
		`SELECT `+filmColumns+`
		 FROM films f LEFT JOIN mpa_ratings m ON m.mpa_id = f.mpa_id
		 WHERE f.film_id IN (%s)
		 ORDER BY f.film_id`, filmIDs)
	return db.queryFilms(ctx, query, args...)
}

// FilmsByFilter implements engagement.Catalog.
func (db *DB) FilmsByFilter(ctx context.Context, genreID *int64, year *int) ([]models.Film, error) {
	query := `SELECT ` + filmColumns + `
		 FROM films f LEFT JOIN mpa_ratings m ON m.mpa_id = f.mpa_id`
	var args []any
	var clauses []string
	if genreID != nil {
		clauses = append(clauses,
			`f.film_id IN (SELECT film_id FROM film_genres WHERE genre_id = ?)`)
		args = append(args, *genreID)
	}
	if year != nil {
		clauses = append(clauses, `EXTRACT(YEAR FROM f.release_date) = ?`)
		args = append(args, *year)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY f.film_id`
	return db.queryFilms(ctx, query, args...)
}

// queryFilms runs a filmColumns query and attaches genres.
func (db *DB) queryFilms(ctx context.Context, query string, args ...any) ([]models.Film, error) {
	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("querying films", err)
	}
	defer closeWithLog(rows, "rows")

	var films []models.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, storageErr("scanning film", err)
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating films", err)
	}
	if err := db.attachGenres(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanFilm.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (models.Film, error) {
	var film models.Film
	var description, mpaName sql.NullString
	var releaseDate sql.NullTime
	var mpaID sql.NullInt64
	err := row.Scan(&film.ID, &film.Name, &description, &releaseDate,
		&film.Duration, &mpaID, &mpaName)
	if err != nil {
		return models.Film{}, err
	}
	film.Description = description.String
	if releaseDate.Valid {
		film.ReleaseDate = models.Date{Time: releaseDate.Time.UTC()}
	}
	if mpaID.Valid {
		film.MPA = models.MPARating{ID: mpaID.Int64, Name: mpaName.String}
	}
	return film, nil
}

// attachGenres loads the genre lists for the given films in one query.
func (db *DB) attachGenres(ctx context.Context, films []models.Film) error {
	if len(films) == 0 {
		return nil
	}
	ids := make([]int64, len(films))
	index := make(map[int64]int, len(films))
	for i := range films {
		ids[i] = films[i].ID
		index[films[i].ID] = i
		films[i].Genres = nil
	}

	query, args := expandIn(
		`SELECT fg.film_id, g.genre_id, g.name
		 FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id
		 WHERE fg.film_id IN (%s)
		 ORDER BY fg.film_id, g.genre_id`, ids)
	rows, err := db.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return storageErr("querying film genres", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var filmID int64
		var genre models.Genre
		if err := rows.Scan(&filmID, &genre.ID, &genre.Name); err != nil {
			return storageErr("scanning film genre", err)
		}
		if i, ok := index[filmID]; ok {
			films[i].Genres = append(films[i].Genres, genre)
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("iterating film genres", err)
	}
	return nil
}

// replaceFilmGenres rewrites the genre links for one film, deduplicating
// the input.
func (db *DB) replaceFilmGenres(ctx context.Context, filmID int64, genres []models.Genre) error {
	if _, err := db.q(ctx).ExecContext(ctx,
		`DELETE FROM film_genres WHERE film_id = ?`, filmID); err != nil {
		return storageErr("clearing film genres", err)
	}
	seen := make(map[int64]struct{}, len(genres))
	for _, genre := range genres {
		if _, dup := seen[genre.ID]; dup {
			continue
		}
		seen[genre.ID] = struct{}{}
		if _, err := db.q(ctx).ExecContext(ctx,
			`INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?)`,
			filmID, genre.ID); err != nil {
			return storageErr("linking film genre", err)
		}
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(d models.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
