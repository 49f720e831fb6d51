package data

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieapi/internal/validator"
)

var movieColumns = []string{
	"movie_id", "title", "release_date", "score", "overview", "orig_title", "status",
	"budget", "revenue", "language", "country", "genre",
}

func creedRow(rows *sqlmock.Rows) *sqlmock.Rows {
	return rows.AddRow(int64(42), "Creed III", time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC), 7.1, "",
		"Creed III", "released", int64(75000000), int64(0), "English", "AU", "Action")
}

// expectMovieRead queues the two queries getMovie issues
func expectMovieRead(mock sqlmock.Sqlmock, id int64, cast ...string) {
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.movie_id = $1")).
		WithArgs(id).
		WillReturnRows(creedRow(sqlmock.NewRows(movieColumns)))

	castRows := sqlmock.NewRows([]string{"actor", "role"})
	for i := 0; i+1 < len(cast); i += 2 {
		castRows.AddRow(cast[i], cast[i+1])
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.actor, r.role FROM crew_assignment ca")).
		WithArgs(id).
		WillReturnRows(castRows)
}

func creedInput() *MovieInput {
	return &MovieInput{
		Title:       "Creed III",
		ReleaseDate: "03/03/2023",
		Genre:       "Drama, Action",
		Country:     "AU",
		Language:    "English",
		Actors:      []string{"A", "Lead", "B", "Support"},
		Budget:      75000000,
	}
}

func TestMovieInsertPairsActorsWithRoles(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	expectResolve(mock, Languages, "English", 1)
	expectResolve(mock, Countries, "AU", 2)
	expectResolve(mock, Genres, "Action", 3)
	expectResolve(mock, Actors, "A", 10)
	expectResolve(mock, Roles, "Lead", 20)
	expectResolve(mock, Actors, "B", 11)
	expectResolve(mock, Roles, "Support", 21)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies (title, release_date, score, overview, orig_title, status, language_id, budget, revenue, country_id)")).
		WithArgs("Creed III", sqlmock.AnyArg(), 0.0, "", "Creed III", "released", int64(1), int64(75000000), int64(0), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(int64(42)))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genre_assignment (movie_id, genre_id)")).
		WithArgs(int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// exactly two crew rows: (A, Lead) and (B, Support)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignment (movie_id, actor_id, role_id, credit_order)")).
		WithArgs(int64(42), int64(10), int64(20), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignment (movie_id, actor_id, role_id, credit_order)")).
		WithArgs(int64(42), int64(11), int64(21), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectMovieRead(mock, 42, "A", "Lead", "B", "Support")
	mock.ExpectCommit()

	movie, created, err := movies.Insert(creedInput())
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, int64(42), movie.ID)
	assert.Equal(t, "Creed III", movie.Title)
	assert.Equal(t, "03/03/2023", movie.ReleaseDate.String())
	assert.Equal(t, []CastMember{{Actor: "A", Role: "Lead"}, {Actor: "B", Role: "Support"}}, movie.Cast)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieInsertDropsUnpairedTrailingActor(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	input := creedInput()
	input.Actors = []string{"A", "Lead", "B"}

	mock.ExpectBegin()
	expectResolve(mock, Languages, "English", 1)
	expectResolve(mock, Countries, "AU", 2)
	expectResolve(mock, Genres, "Action", 3)
	expectResolve(mock, Actors, "A", 10)
	expectResolve(mock, Roles, "Lead", 20)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies")).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genre_assignment")).
		WithArgs(int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignment")).
		WithArgs(int64(42), int64(10), int64(20), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectMovieRead(mock, 42, "A", "Lead")
	mock.ExpectCommit()

	_, _, err := movies.Insert(input)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieInsertExistingTitleIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	input := creedInput()
	input.Actors = []string{"A", "Lead"}

	mock.ExpectBegin()
	expectResolve(mock, Languages, "English", 1)
	expectResolve(mock, Countries, "AU", 2)
	expectResolve(mock, Genres, "Action", 3)
	expectResolve(mock, Actors, "A", 10)
	expectResolve(mock, Roles, "Lead", 20)

	// ON CONFLICT DO NOTHING returns no row
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies")).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT movie_id FROM movies WHERE title = $1")).
		WithArgs("Creed III").
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(int64(42)))

	// no assignment writes in between
	expectMovieRead(mock, 42, "Michael B. Jordan", "Lead")
	mock.ExpectCommit()

	movie, created, err := movies.Insert(input)
	require.NoError(t, err)
	assert.False(t, created, "an existing title is not a new movie")
	assert.Equal(t, int64(42), movie.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieInsertRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	input := creedInput()
	input.Language = "  "

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, _, err := movies.Insert(input)
	assert.ErrorIs(t, err, ErrBlankReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieInsertRejectsBadDate(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	input := creedInput()
	input.ReleaseDate = "2023-03-03"

	_, _, err := movies.Insert(input)
	assert.ErrorIs(t, err, ErrInvalidReleaseDateFormat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateTitleOnly(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM movies WHERE movie_id = $1)")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// release_date, budget and the other columns are never touched
	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET title = $1 WHERE movie_id = $2")).
		WithArgs("New", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectMovieRead(mock, 42)
	mock.ExpectCommit()

	_, err := movies.Update(42, &MovieUpdate{Title: "New"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateSeveralColumnsInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	expectResolve(mock, Countries, "NZ", 5)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET release_date = $1, budget = $2, country_id = $3 WHERE movie_id = $4")).
		WithArgs(sqlmock.AnyArg(), int64(100), int64(5), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectMovieRead(mock, 42)
	mock.ExpectCommit()

	_, err := movies.Update(42, &MovieUpdate{ReleaseDate: "01/31/2024", Budget: 100, Country: "NZ"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateReplacesCast(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	expectResolve(mock, Genres, "Drama", 4)
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (movie_id) DO UPDATE SET genre_id = EXCLUDED.genre_id")).
		WithArgs(int64(42), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectResolve(mock, Actors, "C", 12)
	expectResolve(mock, Roles, "Cameo", 22)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM crew_assignment WHERE movie_id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO crew_assignment")).
		WithArgs(int64(42), int64(12), int64(22), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectMovieRead(mock, 42, "C", "Cameo")
	mock.ExpectCommit()

	movie, err := movies.Update(42, &MovieUpdate{Genre: "Drama", Actors: []string{"C", "Cameo"}})
	require.NoError(t, err)
	assert.Equal(t, []CastMember{{Actor: "C", Role: "Cameo"}}, movie.Cast)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateKeepsCastWithoutCompletePair(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// no DELETE FROM crew_assignment, the existing cast is read back as is
	expectMovieRead(mock, 42, "Michael B. Jordan", "Lead")
	mock.ExpectCommit()

	movie, err := movies.Update(42, &MovieUpdate{Actors: []string{"Solo"}})
	require.NoError(t, err)
	assert.Equal(t, []CastMember{{Actor: "Michael B. Jordan", Role: "Lead"}}, movie.Cast)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetCastKeepsCreditOrder(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.movie_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(creedRow(sqlmock.NewRows(movieColumns)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ca.movie_id = $1 ORDER BY ca.credit_order, a.actor")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"actor", "role"}).
			AddRow("Michael B. Jordan", "Adonis Creed").
			AddRow("Jonathan Majors", "Damian Anderson"))

	movie, err := movies.Get(42)
	require.NoError(t, err)
	assert.Equal(t, []CastMember{
		{Actor: "Michael B. Jordan", Role: "Adonis Creed"},
		{Actor: "Jonathan Majors", Role: "Damian Anderson"},
	}, movie.Cast)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateMissingMovie(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := movies.Update(9, &MovieUpdate{Title: "New"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieUpdateDuplicateTitle(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET title = $1")).
		WithArgs("Taken", int64(42)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := movies.Update(42, &MovieUpdate{Title: "Taken"})
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieDelete(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE movie_id = $1")).
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE movie_id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.ErrorIs(t, movies.Delete(999), ErrRecordNotFound)
	assert.NoError(t, movies.Delete(42))
	assert.ErrorIs(t, movies.Delete(0), ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGet(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	expectMovieRead(mock, 42, "Michael B. Jordan", "Lead")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.movie_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(movieColumns))

	movie, err := movies.Get(42)
	require.NoError(t, err)
	assert.Equal(t, "AU", movie.Country)
	assert.Equal(t, "Action", movie.Genre)
	assert.Equal(t, []CastMember{{Actor: "Michael B. Jordan", Role: "Lead"}}, movie.Cast)

	_, err = movies.Get(7)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetAllUsesSafeSortColumn(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.title LIKE $1 ORDER BY m.release_date DESC, m.movie_id ASC")).
		WithArgs("%Creed%").
		WillReturnRows(creedRow(sqlmock.NewRows(movieColumns)))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.title LIKE $1 ORDER BY m.movie_id ASC")).
		WithArgs("%%").
		WillReturnRows(sqlmock.NewRows(movieColumns))

	found, err := movies.GetAll(Filters{Search: "Creed", SortBy: "release_date", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Creed III", found[0].Title)

	none, err := movies.GetAll(Filters{SortOrder: "asc"})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetAllForCountryAndGenre(t *testing.T) {
	db, mock := newMockDB(t)
	movies := MovieModel{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.country = $1 ORDER BY g.genre ASC, m.movie_id ASC")).
		WithArgs("AU").
		WillReturnRows(creedRow(sqlmock.NewRows(movieColumns)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ga.genre_id = $1 ORDER BY m.movie_id ASC")).
		WithArgs(int64(3)).
		WillReturnRows(creedRow(sqlmock.NewRows(movieColumns)))

	byCountry, err := movies.GetAllForCountry("AU", Filters{SortBy: "genre", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Len(t, byCountry, 1)

	byGenre, err := movies.GetAllForGenre(3)
	require.NoError(t, err)
	assert.Len(t, byGenre, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateMovieInput(t *testing.T) {
	v := validator.New()
	ValidateMovieInput(v, creedInput())
	assert.True(t, v.Valid())

	missing := creedInput()
	missing.Country = ""
	missing.ReleaseDate = "2022-01-01"
	v = validator.New()
	ValidateMovieInput(v, missing)
	assert.Equal(t, "Missing required fields", v.First())

	badDate := creedInput()
	badDate.ReleaseDate = "2022-01-01"
	v = validator.New()
	ValidateMovieInput(v, badDate)
	assert.Equal(t, "Invalid release_date format. Please use MM/DD/YYYY", v.First())

	noActors := creedInput()
	noActors.Actors = []string{}
	v = validator.New()
	ValidateMovieInput(v, noActors)
	assert.Equal(t, "Missing required fields", v.First())

	blankActor := creedInput()
	blankActor.Actors = []string{"A", " "}
	v = validator.New()
	ValidateMovieInput(v, blankActor)
	assert.Equal(t, "actors must not contain blank names", v.First())

	loneActor := creedInput()
	loneActor.Actors = []string{"Solo"}
	v = validator.New()
	ValidateMovieInput(v, loneActor)
	assert.Equal(t, "actors must contain at least one actor and role pair", v.First())
}

func TestValidateMovieUpdate(t *testing.T) {
	v := validator.New()
	ValidateMovieUpdate(v, &MovieUpdate{})
	assert.Equal(t, "No fields to update", v.First())

	v = validator.New()
	ValidateMovieUpdate(v, &MovieUpdate{ReleaseDate: "31/01/2024"})
	assert.Equal(t, "Invalid release_date format. Please use MM/DD/YYYY", v.First())

	v = validator.New()
	ValidateMovieUpdate(v, &MovieUpdate{Budget: 10})
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateMovieUpdate(v, &MovieUpdate{Actors: []string{"Solo"}})
	assert.Equal(t, "actors must contain at least one actor and role pair", v.First())
}
