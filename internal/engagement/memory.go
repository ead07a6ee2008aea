// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package engagement

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cinegraph/cinegraph/internal/models"
)

// MemoryEngine is a mutex-guarded, map-backed implementation of every
// engagement contract. It backs tests and ad-hoc runs without a database
// file. InTx runs the function directly: there is no rollback, so a
// partial failure can leave a mutation without its event. The relational
// backend is the durable option.
type MemoryEngine struct {
	mu sync.RWMutex

	users map[int64]models.User
	films map[int64]models.Film

	likes   map[int64]map[int64]struct{} // userID -> filmID set
	follows map[int64]map[int64]struct{} // followerID -> followeeID set

	events      []models.Event
	nextEventID int64

	reviews      map[int64]models.Review
	reviewVotes  map[int64]map[int64]int // reviewID -> userID -> +1/-1
	nextReviewID int64

	nextUserID int64
	nextFilmID int64

	genres map[int64]models.Genre
	mpa    map[int64]models.MPARating
}

// NewMemoryEngine returns an engine with the standard genre and MPA
// reference rows preloaded.
func NewMemoryEngine() *MemoryEngine {
	m := &MemoryEngine{
		users:        make(map[int64]models.User),
		films:        make(map[int64]models.Film),
		likes:        make(map[int64]map[int64]struct{}),
		follows:      make(map[int64]map[int64]struct{}),
		reviews:      make(map[int64]models.Review),
		reviewVotes:  make(map[int64]map[int64]int),
		genres:       make(map[int64]models.Genre),
		mpa:          make(map[int64]models.MPARating),
		nextEventID:  1,
		nextReviewID: 1,
		nextUserID:   1,
		nextFilmID:   1,
	}
	for _, g := range []models.Genre{
		{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}, {ID: 3, Name: "Animation"},
		{ID: 4, Name: "Thriller"}, {ID: 5, Name: "Documentary"}, {ID: 6, Name: "Action"},
	} {
		m.genres[g.ID] = g
	}
	for _, r := range []models.MPARating{
		{ID: 1, Name: "G"}, {ID: 2, Name: "PG"}, {ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"}, {ID: 5, Name: "NC-17"},
	} {
		m.mpa[r.ID] = r
	}
	return m
}

// InTx implements TxRunner without transactional guarantees.
func (m *MemoryEngine) InTx(_ context.Context, fn func(ctx context.Context) error) error {
	return fn(context.Background())
}

// PutUser stores a user, assigning an ID when unset, and returns it.
func (m *MemoryEngine) PutUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.nextUserID
		m.nextUserID++
	} else if user.ID >= m.nextUserID {
		m.nextUserID = user.ID + 1
	}
	m.users[user.ID] = user
	return user, nil
}

// PutFilm stores a film, assigning an ID when unset, and returns it.
func (m *MemoryEngine) PutFilm(_ context.Context, film models.Film) (models.Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if film.ID == 0 {
		film.ID = m.nextFilmID
		m.nextFilmID++
	} else if film.ID >= m.nextFilmID {
		m.nextFilmID = film.ID + 1
	}
	m.films[film.ID] = film
	return film, nil
}

// AddLike implements Store.
func (m *MemoryEngine) AddLike(_ context.Context, userID, filmID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.likes[userID]
	if !ok {
		set = make(map[int64]struct{})
		m.likes[userID] = set
	}
	set[filmID] = struct{}{}
	return nil
}

// RemoveLike implements Store.
func (m *MemoryEngine) RemoveLike(_ context.Context, userID, filmID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.likes[userID]
	if _, ok := set[filmID]; !ok {
		return fmt.Errorf("like %d->%d: %w", userID, filmID, ErrNotFound)
	}
	delete(set, filmID)
	return nil
}

// HasLike implements Store.
func (m *MemoryEngine) HasLike(_ context.Context, userID, filmID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.likes[userID][filmID]
	return ok, nil
}

// LikedFilmIDs implements Store. Results are sorted ascending for
// determinism.
func (m *MemoryEngine) LikedFilmIDs(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.likes[userID]), nil
}

// LikersOf implements Store.
func (m *MemoryEngine) LikersOf(_ context.Context, filmID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int64
	for userID, set := range m.likes {
		if _, ok := set[filmID]; ok {
			out = append(out, userID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// LikeCounts implements Store.
func (m *MemoryEngine) LikeCounts(_ context.Context, filmIDs []int64) (map[int64]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[int64]int, len(filmIDs))
	for _, filmID := range filmIDs {
		counts[filmID] = 0
	}
	for _, set := range m.likes {
		for filmID := range set {
			if _, wanted := counts[filmID]; wanted {
				counts[filmID]++
			}
		}
	}
	return counts, nil
}

// AddFollow implements Store.
func (m *MemoryEngine) AddFollow(_ context.Context, followerID, followeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.follows[followerID]
	if !ok {
		set = make(map[int64]struct{})
		m.follows[followerID] = set
	}
	set[followeeID] = struct{}{}
	return nil
}

// RemoveFollow implements Store.
func (m *MemoryEngine) RemoveFollow(_ context.Context, followerID, followeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.follows[followerID]
	if _, ok := set[followeeID]; !ok {
		return fmt.Errorf("follow %d->%d: %w", followerID, followeeID, ErrNotFound)
	}
	delete(set, followeeID)
	return nil
}

// FolloweesOf implements Store.
func (m *MemoryEngine) FolloweesOf(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.follows[userID]), nil
}

// Append implements EventLog.
func (m *MemoryEngine) Append(_ context.Context, event models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.EventID = m.nextEventID
	m.nextEventID++
	m.events = append(m.events, event)
	return nil
}

// FeedFor implements EventLog.
func (m *MemoryEngine) FeedFor(_ context.Context, userID int64) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Event
	for _, ev := range m.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// AddReview implements ReviewStore.
func (m *MemoryEngine) AddReview(_ context.Context, review models.Review) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review.ReviewID = m.nextReviewID
	m.nextReviewID++
	review.Useful = 0
	m.reviews[review.ReviewID] = review
	return review, nil
}

// UpdateReview implements ReviewStore. Only content and positivity change;
// authorship, film binding and votes are preserved.
func (m *MemoryEngine) UpdateReview(_ context.Context, review models.Review) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[review.ReviewID]
	if !ok {
		return models.Review{}, fmt.Errorf("review %d: %w", review.ReviewID, ErrNotFound)
	}
	stored.Content = review.Content
	stored.IsPositive = review.IsPositive
	m.reviews[stored.ReviewID] = stored
	stored.Useful = m.usefulLocked(stored.ReviewID)
	return stored, nil
}

// RemoveReview implements ReviewStore.
func (m *MemoryEngine) RemoveReview(_ context.Context, reviewID int64) (models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[reviewID]
	if !ok {
		return models.Review{}, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
	}
	delete(m.reviews, reviewID)
	delete(m.reviewVotes, reviewID)
	return stored, nil
}

// ReviewByID implements ReviewStore.
func (m *MemoryEngine) ReviewByID(_ context.Context, reviewID int64) (models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.reviews[reviewID]
	if !ok {
		return models.Review{}, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
	}
	stored.Useful = m.usefulLocked(reviewID)
	return stored, nil
}

// ReviewsForFilm implements ReviewStore.
func (m *MemoryEngine) ReviewsForFilm(_ context.Context, filmID int64, count int) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Review
	for _, r := range m.reviews {
		if filmID == 0 || r.FilmID == filmID {
			r.Useful = m.usefulLocked(r.ReviewID)
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Useful != out[j].Useful {
			return out[i].Useful > out[j].Useful
		}
		return out[i].ReviewID < out[j].ReviewID
	})
	if count < len(out) {
		out = out[:count]
	}
	return out, nil
}

// AddReviewVote implements ReviewStore. A later vote from the same user
// overwrites the earlier one.
func (m *MemoryEngine) AddReviewVote(_ context.Context, reviewID, userID int64, useful bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
	}
	votes, ok := m.reviewVotes[reviewID]
	if !ok {
		votes = make(map[int64]int)
		m.reviewVotes[reviewID] = votes
	}
	if useful {
		votes[userID] = 1
	} else {
		votes[userID] = -1
	}
	return nil
}

// RemoveReviewVote implements ReviewStore.
func (m *MemoryEngine) RemoveReviewVote(_ context.Context, reviewID, userID int64, useful bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := -1
	if useful {
		want = 1
	}
	votes := m.reviewVotes[reviewID]
	if votes[userID] != want {
		return fmt.Errorf("vote on review %d by user %d: %w", reviewID, userID, ErrNotFound)
	}
	delete(votes, userID)
	return nil
}

// usefulLocked sums the votes for a review. Caller holds the lock.
func (m *MemoryEngine) usefulLocked(reviewID int64) int {
	total := 0
	for _, v := range m.reviewVotes[reviewID] {
		total += v
	}
	return total
}

// FilmExists implements Catalog.
func (m *MemoryEngine) FilmExists(_ context.Context, filmID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.films[filmID]
	return ok, nil
}

// UserExists implements Catalog.
func (m *MemoryEngine) UserExists(_ context.Context, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok, nil
}

// FilmsByIDs implements Catalog.
func (m *MemoryEngine) FilmsByIDs(_ context.Context, filmIDs []int64) ([]models.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Film, 0, len(filmIDs))
	for _, id := range filmIDs {
		if film, ok := m.films[id]; ok {
			out = append(out, film)
		}
	}
	return out, nil
}

// FilmsByFilter implements Catalog.
func (m *MemoryEngine) FilmsByFilter(_ context.Context, genreID *int64, year *int) ([]models.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Film, 0, len(m.films))
	for _, film := range m.films {
		if genreID != nil && !hasGenre(film, *genreID) {
			continue
		}
		if year != nil && film.ReleaseYear() != *year {
			continue
		}
		out = append(out, film)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UsersByIDs implements Catalog.
func (m *MemoryEngine) UsersByIDs(_ context.Context, userIDs []int64) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(userIDs))
	for _, id := range userIDs {
		if user, ok := m.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

// The remaining methods implement the catalog storage contract so the
// engine can back the full HTTP surface in tests and database-less runs.

// CreateFilm stores a new film, resolving genre and MPA names from the
// reference tables.
func (m *MemoryEngine) CreateFilm(ctx context.Context, film models.Film) (models.Film, error) {
	film.ID = 0
	m.resolveReferences(&film)
	return m.PutFilm(ctx, film)
}

// UpdateFilm replaces an existing film.
func (m *MemoryEngine) UpdateFilm(_ context.Context, film models.Film) (models.Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[film.ID]; !ok {
		return models.Film{}, fmt.Errorf("film %d: %w", film.ID, ErrNotFound)
	}
	m.resolveReferencesLocked(&film)
	m.films[film.ID] = film
	return film, nil
}

// DeleteFilm removes a film and its likes and reviews.
func (m *MemoryEngine) DeleteFilm(_ context.Context, filmID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[filmID]; !ok {
		return fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	delete(m.films, filmID)
	for _, set := range m.likes {
		delete(set, filmID)
	}
	for id, r := range m.reviews {
		if r.FilmID == filmID {
			delete(m.reviews, id)
			delete(m.reviewVotes, id)
		}
	}
	return nil
}

// FilmByID fetches one film.
func (m *MemoryEngine) FilmByID(_ context.Context, filmID int64) (models.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	film, ok := m.films[filmID]
	if !ok {
		return models.Film{}, fmt.Errorf("film %d: %w", filmID, ErrNotFound)
	}
	return film, nil
}

// AllFilms lists the catalog ordered by film ID.
func (m *MemoryEngine) AllFilms(ctx context.Context) ([]models.Film, error) {
	return m.FilmsByFilter(ctx, nil, nil)
}

// CreateUser stores a new user.
func (m *MemoryEngine) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = 0
	return m.PutUser(ctx, user)
}

// UpdateUser replaces an existing user.
func (m *MemoryEngine) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return models.User{}, fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	m.users[user.ID] = user
	return user, nil
}

// DeleteUser removes a user and their edges, events, reviews and votes.
func (m *MemoryEngine) DeleteUser(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	delete(m.users, userID)
	delete(m.likes, userID)
	delete(m.follows, userID)
	for _, set := range m.follows {
		delete(set, userID)
	}
	kept := m.events[:0]
	for _, ev := range m.events {
		if ev.UserID != userID {
			kept = append(kept, ev)
		}
	}
	m.events = kept
	for id, r := range m.reviews {
		if r.UserID == userID {
			delete(m.reviews, id)
			delete(m.reviewVotes, id)
		}
	}
	for _, votes := range m.reviewVotes {
		delete(votes, userID)
	}
	return nil
}

// UserByID fetches one user.
func (m *MemoryEngine) UserByID(_ context.Context, userID int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

// AllUsers lists users ordered by user ID.
func (m *MemoryEngine) AllUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AllGenres lists the genre reference table.
func (m *MemoryEngine) AllGenres(_ context.Context) ([]models.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Genre, 0, len(m.genres))
	for _, g := range m.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GenreByID fetches one genre.
func (m *MemoryEngine) GenreByID(_ context.Context, genreID int64) (models.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.genres[genreID]
	if !ok {
		return models.Genre{}, fmt.Errorf("genre %d: %w", genreID, ErrNotFound)
	}
	return g, nil
}

// AllMPA lists the MPA reference table.
func (m *MemoryEngine) AllMPA(_ context.Context) ([]models.MPARating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MPARating, 0, len(m.mpa))
	for _, r := range m.mpa {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MPAByID fetches one MPA rating.
func (m *MemoryEngine) MPAByID(_ context.Context, mpaID int64) (models.MPARating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.mpa[mpaID]
	if !ok {
		return models.MPARating{}, fmt.Errorf("mpa %d: %w", mpaID, ErrNotFound)
	}
	return r, nil
}

func (m *MemoryEngine) resolveReferences(film *models.Film) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.resolveReferencesLocked(film)
}

// resolveReferencesLocked fills genre and MPA names and drops duplicate
// genres. Caller holds the lock.
func (m *MemoryEngine) resolveReferencesLocked(film *models.Film) {
	if film.MPA.ID != 0 {
		if r, ok := m.mpa[film.MPA.ID]; ok {
			film.MPA = r
		}
	}
	seen := make(map[int64]struct{}, len(film.Genres))
	resolved := film.Genres[:0]
	for _, g := range film.Genres {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		if full, ok := m.genres[g.ID]; ok {
			g = full
		}
		resolved = append(resolved, g)
	}
	film.Genres = resolved
}

func hasGenre(film models.Film, genreID int64) bool {
	for _, g := range film.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
