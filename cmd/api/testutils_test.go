package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movieapi/internal/data/mocks"
)

const creedBody = `{"title":"Creed III","release_date":"03/03/2023","genre":"Action","country":"AU","language":"English","actors":["Michael B. Jordan","Lead"]}`

func newTestApplication(t *testing.T) (*application, *mocks.Catalog) {
	t.Helper()

	models, catalog := mocks.NewModels()

	app := &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: models,
	}
	app.config.env = "testing"

	return app, catalog
}

// testStores holds the testify mocks behind a newMockedApplication
type testStores struct {
	movies    *mocks.MovieStore
	genres    *mocks.GenreStore
	actors    *mocks.ActorStore
	countries *mocks.CountryStore
}

// for tests that only need one canned value or error from the store
func newMockedApplication(t *testing.T) (*application, testStores) {
	t.Helper()

	models, movies, genres, actors, countries := mocks.Models()

	app := &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: models,
	}
	app.config.env = "testing"

	return app, testStores{movies: movies, genres: genres, actors: actors, countries: countries}
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(recipient, templateFile string, data any) error {
	args := m.Called(recipient, templateFile, data)
	return args.Error(0)
}

type testResponse struct {
	status  int
	headers http.Header
	body    string
}

// do sends a request through the full middleware chain
func do(t *testing.T, h http.Handler, method, target, body string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	res := rr.Result()
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return testResponse{status: res.StatusCode, headers: res.Header, body: string(b)}
}

func (r testResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(r.body), dst), r.body)
}

// errorMessage returns the "error" field of a JSON error envelope
func (r testResponse) errorMessage(t *testing.T) string {
	t.Helper()

	var env struct {
		Error string `json:"error"`
	}
	r.decode(t, &env)
	return env.Error
}

type movieJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Status      string `json:"status"`
	Genre       string `json:"genre"`
	Country     string `json:"country"`
	Language    string `json:"language"`
	Cast        []struct {
		Actor string `json:"actor"`
		Role  string `json:"role"`
	} `json:"cast"`
}

func seedCreed(t *testing.T, h http.Handler) movieJSON {
	t.Helper()

	res := do(t, h, http.MethodPost, "/movies", creedBody)
	require.Equal(t, http.StatusCreated, res.status, res.body)

	var env struct {
		Movie movieJSON `json:"movie"`
	}
	res.decode(t, &env)
	return env.Movie
}
