// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package catalog manages the film and user records plus the genre and
// MPA reference tables. Engagement edges reference this catalog but live
// in their own package; deleting a film or user cascades to its edges in
// storage.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/cinegraph/cinegraph/internal/engagement"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/models"
	"github.com/cinegraph/cinegraph/internal/validation"
)

// earliestReleaseDate is the first screening date a film may carry
// (December 28, 1895).
var earliestReleaseDate = time.Date(models.EarliestReleaseYear, time.December, 28, 0, 0, 0, 0, time.UTC)

// Store is the persistence contract for catalog records. Implementations
// map missing rows to engagement.ErrNotFound.
type Store interface {
	CreateFilm(ctx context.Context, film models.Film) (models.Film, error)
	UpdateFilm(ctx context.Context, film models.Film) (models.Film, error)
	DeleteFilm(ctx context.Context, filmID int64) error
	FilmByID(ctx context.Context, filmID int64) (models.Film, error)
	AllFilms(ctx context.Context) ([]models.Film, error)

	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	UserByID(ctx context.Context, userID int64) (models.User, error)
	AllUsers(ctx context.Context) ([]models.User, error)

	AllGenres(ctx context.Context) ([]models.Genre, error)
	GenreByID(ctx context.Context, genreID int64) (models.Genre, error)
	AllMPA(ctx context.Context) ([]models.MPARating, error)
	MPAByID(ctx context.Context, mpaID int64) (models.MPARating, error)
}

// Service validates and persists catalog records.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds the catalog service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateFilm validates and stores a new film.
func (s *Service) CreateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	if err := s.checkFilm(film); err != nil {
		return models.Film{}, err
	}
	created, err := s.store.CreateFilm(ctx, film)
	if err != nil {
		return models.Film{}, fmt.Errorf("creating film: %w", err)
	}
	logging.Info().Int64("film_id", created.ID).Str("name", created.Name).Msg("Film created")
	return created, nil
}

// UpdateFilm validates and replaces an existing film.
func (s *Service) UpdateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	if err := s.checkFilm(film); err != nil {
		return models.Film{}, err
	}
	updated, err := s.store.UpdateFilm(ctx, film)
	if err != nil {
		return models.Film{}, fmt.Errorf("updating film %d: %w", film.ID, err)
	}
	return updated, nil
}

// DeleteFilm removes a film; its likes cascade in storage.
func (s *Service) DeleteFilm(ctx context.Context, filmID int64) error {
	if err := s.store.DeleteFilm(ctx, filmID); err != nil {
		return fmt.Errorf("deleting film %d: %w", filmID, err)
	}
	logging.Info().Int64("film_id", filmID).Msg("Film deleted")
	return nil
}

// FilmByID fetches one film.
func (s *Service) FilmByID(ctx context.Context, filmID int64) (models.Film, error) {
	return s.store.FilmByID(ctx, filmID)
}

// AllFilms lists the catalog ordered by film ID.
func (s *Service) AllFilms(ctx context.Context) ([]models.Film, error) {
	films, err := s.store.AllFilms(ctx)
	if err != nil {
		return nil, err
	}
	if films == nil {
		films = []models.Film{}
	}
	return films, nil
}

// CreateUser validates and stores a new user. A blank name defaults to the
// login.
func (s *Service) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := s.checkUser(user); err != nil {
		return models.User{}, err
	}
	user.Name = user.DisplayName()
	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	logging.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("User created")
	return created, nil
}

// UpdateUser validates and replaces an existing user.
func (s *Service) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := s.checkUser(user); err != nil {
		return models.User{}, err
	}
	user.Name = user.DisplayName()
	updated, err := s.store.UpdateUser(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("updating user %d: %w", user.ID, err)
	}
	return updated, nil
}

// DeleteUser removes a user; their likes, follows and events cascade in
// storage.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting user %d: %w", userID, err)
	}
	logging.Info().Int64("user_id", userID).Msg("User deleted")
	return nil
}

// UserByID fetches one user.
func (s *Service) UserByID(ctx context.Context, userID int64) (models.User, error) {
	return s.store.UserByID(ctx, userID)
}

// AllUsers lists users ordered by user ID.
func (s *Service) AllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// AllGenres lists the genre reference table.
func (s *Service) AllGenres(ctx context.Context) ([]models.Genre, error) {
	return s.store.AllGenres(ctx)
}

// GenreByID fetches one genre.
func (s *Service) GenreByID(ctx context.Context, genreID int64) (models.Genre, error) {
	return s.store.GenreByID(ctx, genreID)
}

// AllMPA lists the MPA rating reference table.
func (s *Service) AllMPA(ctx context.Context) ([]models.MPARating, error) {
	return s.store.AllMPA(ctx)
}

// MPAByID fetches one MPA rating.
func (s *Service) MPAByID(ctx context.Context, mpaID int64) (models.MPARating, error) {
	return s.store.MPAByID(ctx, mpaID)
}

// checkFilm applies struct tags plus the release-date floor.
func (s *Service) checkFilm(film models.Film) error {
	if verr := validation.ValidateStruct(film); verr != nil {
		return fmt.Errorf("%s: %w", verr.Error(), engagement.ErrInvalidArgument)
	}
	if !film.ReleaseDate.IsZero() && film.ReleaseDate.Before(earliestReleaseDate) {
		return fmt.Errorf("release date %s predates %s: %w",
			film.ReleaseDate, earliestReleaseDate.Format("2006-01-02"), engagement.ErrInvalidArgument)
	}
	return nil
}

// checkUser applies struct tags plus the birthday-in-the-past rule.
func (s *Service) checkUser(user models.User) error {
	if verr := validation.ValidateStruct(user); verr != nil {
		return fmt.Errorf("%s: %w", verr.Error(), engagement.ErrInvalidArgument)
	}
	if !user.Birthday.IsZero() && user.Birthday.After(s.now()) {
		return fmt.Errorf("birthday %s is in the future: %w", user.Birthday, engagement.ErrInvalidArgument)
	}
	return nil
}
