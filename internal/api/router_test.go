// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/engagement"
	"github.com/cinegraph/cinegraph/internal/models"
)

// testEnvelope mirrors APIResponse with the payload left raw so each test
// can decode into its own type.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	mem := engagement.NewMemoryEngine()
	catalogSvc := catalog.NewService(mem)
	graph := engagement.NewGraph(mem, mem, mem, mem, mem)
	ranker := engagement.NewPopularityRanker(mem, mem)
	sets := engagement.NewSetGraphQueries(mem, mem)
	recommender := engagement.NewRecommendationEngine(mem, mem)

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true

	handler := NewHandler(catalogSvc, graph, ranker, sets, recommender, nil)
	return NewRouter(handler, cfg).Setup()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func decodeData(t *testing.T, env testEnvelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

func filmPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": "A test picture",
		"releaseDate": "1999-03-31",
		"duration":    120,
		"mpa":         map[string]interface{}{"id": 1},
		"genres":      []map[string]interface{}{{"id": 1}},
	}
}

func userPayload(login string) map[string]interface{} {
	return map[string]interface{}{
		"email":    login + "@example.com",
		"login":    login,
		"name":     "",
		"birthday": "1990-05-15",
	}
}

func createFilm(t *testing.T, h http.Handler, name string) models.Film {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/films", filmPayload(name))
	checkStatus(t, rec, http.StatusCreated)
	var film models.Film
	decodeData(t, env, &film)
	return film
}

func createUser(t *testing.T, h http.Handler, login string) models.User {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/users", userPayload(login))
	checkStatus(t, rec, http.StatusCreated)
	var user models.User
	decodeData(t, env, &user)
	return user
}

func TestFilmLifecycle(t *testing.T) {
	h := newTestAPI(t)

	film := createFilm(t, h, "Memento")
	if film.ID < 1 {
		t.Fatalf("created film ID = %d, want >= 1", film.ID)
	}
	if film.MPA.Name != "G" {
		t.Errorf("MPA name = %q, want resolved %q", film.MPA.Name, "G")
	}

	rec, env := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/films/%d", film.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var fetched models.Film
	decodeData(t, env, &fetched)
	if fetched.Name != "Memento" {
		t.Errorf("fetched name = %q, want %q", fetched.Name, "Memento")
	}

	update := filmPayload("Memento (Director's Cut)")
	update["id"] = film.ID
	rec, env = doJSON(t, h, http.MethodPut, "/api/v1/films", update)
	checkStatus(t, rec, http.StatusOK)
	var updated models.Film
	decodeData(t, env, &updated)
	if updated.Name != "Memento (Director's Cut)" {
		t.Errorf("updated name = %q", updated.Name)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/films", nil)
	checkStatus(t, rec, http.StatusOK)
	var all []models.Film
	decodeData(t, env, &all)
	if len(all) != 1 {
		t.Fatalf("film count = %d, want 1", len(all))
	}

	rec, _ = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/films/%d", film.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	rec, env = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/films/%d", film.ID), nil)
	checkStatus(t, rec, http.StatusNotFound)
	if env.Success {
		t.Error("error envelope reports success")
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeNotFound)
	}
}

func TestCreateFilmRejectsInvalidPayload(t *testing.T) {
	h := newTestAPI(t)

	bad := filmPayload("")
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/films", bad)
	checkStatus(t, rec, http.StatusBadRequest)
	if env.Error == nil {
		t.Fatal("expected error envelope")
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/films/abc", nil)
	checkStatus(t, rec, http.StatusBadRequest)
}

func TestCreateUserAppliesLoginFallback(t *testing.T) {
	h := newTestAPI(t)

	user := createUser(t, h, "dolly")
	if user.Name != "dolly" {
		t.Errorf("name = %q, want login fallback %q", user.Name, "dolly")
	}

	bad := userPayload("has space")
	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/users", bad)
	checkStatus(t, rec, http.StatusBadRequest)
}

func TestLikeEndpoints(t *testing.T) {
	h := newTestAPI(t)
	user := createUser(t, h, "alice")
	first := createFilm(t, h, "First")
	second := createFilm(t, h, "Second")

	rec, _ := doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/films/%d/like/%d", second.ID, user.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	// Re-liking is accepted without duplicating the edge.
	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/films/%d/like/%d", second.ID, user.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/films/popular?count=10", nil)
	checkStatus(t, rec, http.StatusOK)
	var popular []models.Film
	decodeData(t, env, &popular)
	if len(popular) != 2 || popular[0].ID != second.ID || popular[1].ID != first.ID {
		t.Fatalf("popular = %+v, want liked film first", popular)
	}
	if popular[0].LikeCount != 1 {
		t.Errorf("like count = %d, want 1", popular[0].LikeCount)
	}

	rec, _ = doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/v1/films/%d/like/%d", second.ID, user.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	// Removing an absent edge is a 404.
	rec, _ = doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/v1/films/%d/like/%d", second.ID, user.ID), nil)
	checkStatus(t, rec, http.StatusNotFound)

	// Unknown user is a 404, not a silent no-op.
	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/films/%d/like/%d", first.ID, int64(99)), nil)
	checkStatus(t, rec, http.StatusNotFound)
}

func TestPopularFilmsRejectsBadFilters(t *testing.T) {
	h := newTestAPI(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/films/popular?count=0", nil)
	checkStatus(t, rec, http.StatusBadRequest)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/films/popular?year=1800", nil)
	checkStatus(t, rec, http.StatusBadRequest)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/films/popular?year=abc", nil)
	checkStatus(t, rec, http.StatusBadRequest)
}

func TestFollowAndFeedEndpoints(t *testing.T) {
	h := newTestAPI(t)
	alice := createUser(t, h, "alice")
	bob := createUser(t, h, "bob")
	carol := createUser(t, h, "carol")

	rec, _ := doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/users/%d/friends/%d", alice.ID, carol.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)
	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/users/%d/friends/%d", bob.ID, carol.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	// Following yourself is rejected.
	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/users/%d/friends/%d", alice.ID, alice.ID), nil)
	checkStatus(t, rec, http.StatusBadRequest)

	rec, env := doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/friends", alice.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var friends []models.User
	decodeData(t, env, &friends)
	if len(friends) != 1 || friends[0].ID != carol.ID {
		t.Fatalf("friends = %+v, want [carol]", friends)
	}

	rec, env = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/friends/common/%d", alice.ID, bob.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var common []models.User
	decodeData(t, env, &common)
	if len(common) != 1 || common[0].ID != carol.ID {
		t.Fatalf("common followees = %+v, want [carol]", common)
	}

	rec, env = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/feed", alice.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var feed []models.Event
	decodeData(t, env, &feed)
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
	if feed[0].EventType != models.EventTypeFriend || feed[0].Operation != models.OperationAdd {
		t.Errorf("feed event = %+v, want FRIEND/ADD", feed[0])
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	h := newTestAPI(t)
	alice := createUser(t, h, "alice")
	bob := createUser(t, h, "bob")
	shared := createFilm(t, h, "Shared")
	extra := createFilm(t, h, "Extra")

	for _, like := range []struct{ userID, filmID int64 }{
		{alice.ID, shared.ID},
		{bob.ID, shared.ID},
		{bob.ID, extra.ID},
	} {
		rec, _ := doJSON(t, h, http.MethodPut,
			fmt.Sprintf("/api/v1/films/%d/like/%d", like.filmID, like.userID), nil)
		checkStatus(t, rec, http.StatusNoContent)
	}

	rec, env := doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/users/%d/recommendations", alice.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var films []models.Film
	decodeData(t, env, &films)
	if len(films) != 1 || films[0].ID != extra.ID {
		t.Fatalf("recommendations = %+v, want [Extra]", films)
	}
}

func TestReviewEndpoints(t *testing.T) {
	h := newTestAPI(t)
	author := createUser(t, h, "author")
	voter := createUser(t, h, "voter")
	film := createFilm(t, h, "Reviewed")

	positive := true
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/reviews", models.Review{
		Content:    "Worth watching",
		IsPositive: &positive,
		UserID:     author.ID,
		FilmID:     film.ID,
	})
	checkStatus(t, rec, http.StatusCreated)
	var review models.Review
	decodeData(t, env, &review)
	if review.ReviewID < 1 {
		t.Fatalf("review ID = %d, want >= 1", review.ReviewID)
	}

	// Missing content fails validation before the service is reached.
	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/reviews", models.Review{
		IsPositive: &positive,
		UserID:     author.ID,
		FilmID:     film.ID,
	})
	checkStatus(t, rec, http.StatusBadRequest)
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeValidationFailed)
	}

	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/reviews/%d/like/%d", review.ReviewID, voter.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	rec, env = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/reviews/%d", review.ReviewID), nil)
	checkStatus(t, rec, http.StatusOK)
	var fetched models.Review
	decodeData(t, env, &fetched)
	if fetched.Useful != 1 {
		t.Errorf("useful = %d after like, want 1", fetched.Useful)
	}

	// Flipping the vote to a dislike replaces it.
	rec, _ = doJSON(t, h, http.MethodPut,
		fmt.Sprintf("/api/v1/reviews/%d/dislike/%d", review.ReviewID, voter.ID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	rec, env = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/reviews?filmId=%d&count=10", film.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var listed []models.Review
	decodeData(t, env, &listed)
	if len(listed) != 1 || listed[0].Useful != -1 {
		t.Fatalf("listed = %+v, want one review with useful -1", listed)
	}

	rec, _ = doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/v1/reviews/%d", review.ReviewID), nil)
	checkStatus(t, rec, http.StatusNoContent)

	rec, _ = doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/reviews/%d", review.ReviewID), nil)
	checkStatus(t, rec, http.StatusNotFound)
}

func TestReferenceEndpoints(t *testing.T) {
	h := newTestAPI(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/genres", nil)
	checkStatus(t, rec, http.StatusOK)
	var genres []models.Genre
	decodeData(t, env, &genres)
	if len(genres) != 6 {
		t.Fatalf("genre count = %d, want 6", len(genres))
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/genres/1", nil)
	checkStatus(t, rec, http.StatusOK)
	var genre models.Genre
	decodeData(t, env, &genre)
	if genre.Name != "Comedy" {
		t.Errorf("genre 1 = %q, want Comedy", genre.Name)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/genres/999", nil)
	checkStatus(t, rec, http.StatusNotFound)

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/mpa", nil)
	checkStatus(t, rec, http.StatusOK)
	var ratings []models.MPARating
	decodeData(t, env, &ratings)
	if len(ratings) != 5 {
		t.Fatalf("MPA count = %d, want 5", len(ratings))
	}
}

func TestCommonFilmsEndpoint(t *testing.T) {
	h := newTestAPI(t)
	alice := createUser(t, h, "alice")
	bob := createUser(t, h, "bob")
	shared := createFilm(t, h, "Shared")
	solo := createFilm(t, h, "Solo")

	for _, like := range []struct{ userID, filmID int64 }{
		{alice.ID, shared.ID},
		{alice.ID, solo.ID},
		{bob.ID, shared.ID},
	} {
		rec, _ := doJSON(t, h, http.MethodPut,
			fmt.Sprintf("/api/v1/films/%d/like/%d", like.filmID, like.userID), nil)
		checkStatus(t, rec, http.StatusNoContent)
	}

	rec, env := doJSON(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/films/common?userId=%d&friendId=%d", alice.ID, bob.ID), nil)
	checkStatus(t, rec, http.StatusOK)
	var common []models.Film
	decodeData(t, env, &common)
	if len(common) != 1 || common[0].ID != shared.ID {
		t.Fatalf("common films = %+v, want [Shared]", common)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/films/common?userId=1", nil)
	checkStatus(t, rec, http.StatusBadRequest)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestAPI(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/health/live", nil)
	checkStatus(t, rec, http.StatusOK)
	if !env.Success {
		t.Error("liveness envelope reports failure")
	}

	// No pinger configured, readiness passes through.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/health/ready", nil)
	checkStatus(t, rec, http.StatusOK)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/health/", nil)
	checkStatus(t, rec, http.StatusOK)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers on health route")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	h := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
}
