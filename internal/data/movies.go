package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"movieapi/internal/validator"
)

type Movie struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	ReleaseDate   ReleaseDate  `json:"release_date,omitzero"`
	Score         float64      `json:"score"`
	Overview      string       `json:"overview"`
	OriginalTitle string       `json:"original_title"`
	Status        string       `json:"status"`
	Budget        int64        `json:"budget"`
	Revenue       int64        `json:"revenue"`
	Language      string       `json:"language,omitempty"`
	Country       string       `json:"country,omitempty"`
	Genre         string       `json:"genre,omitempty"`
	Cast          []CastMember `json:"cast,omitempty"` // only populated on single movie reads
}

type CastMember struct {
	Actor string `json:"actor"`
	Role  string `json:"role"`
}

// MovieInput carries everything needed to catalogue a new movie.
// Actors interleaves names and roles: [actor, role, actor, role, ...]
type MovieInput struct {
	Title         string
	ReleaseDate   string
	Genre         string
	Country       string
	Language      string
	Actors        []string
	Overview      string
	Status        string
	OriginalTitle string
	Score         float64
	Budget        int64
	Revenue       int64
}

// MovieUpdate is a partial update. Zero values mean "leave unchanged", so an
// update can never blank out a column.
type MovieUpdate struct {
	Title       string
	ReleaseDate string
	Genre       string
	Actors      []string
	Overview    string
	Status      string
	Score       float64
	Budget      int64
	Revenue     int64
	Country     string
	Language    string
}

func (u *MovieUpdate) Empty() bool {
	return u.Title == "" && u.ReleaseDate == "" && u.Genre == "" && len(u.Actors) == 0 &&
		u.Overview == "" && u.Status == "" && u.Score == 0 && u.Budget == 0 &&
		u.Revenue == 0 && u.Country == "" && u.Language == ""
}

const missingFields = "Missing required fields"

const invalidReleaseDate = "Invalid release_date format. Please use MM/DD/YYYY"

func ValidateMovieInput(v *validator.Validator, m *MovieInput) {
	v.Check(validator.NotBlank(m.Title), "fields", missingFields)
	v.Check(validator.NotBlank(m.ReleaseDate), "fields", missingFields)
	v.Check(validator.NotBlank(m.Genre), "fields", missingFields)
	v.Check(validator.NotBlank(m.Country), "fields", missingFields)
	v.Check(validator.NotBlank(m.Language), "fields", missingFields)
	v.Check(len(m.Actors) > 0, "fields", missingFields)

	v.Check(validator.ValidDate(strings.TrimSpace(m.ReleaseDate), ReleaseDateLayout), "release_date", invalidReleaseDate)
	v.Check(len(m.Title) <= 500, "title", "title must not be more than 500 bytes long")
	v.Check(m.Budget >= 0, "budget", "budget must not be negative")
	v.Check(m.Revenue >= 0, "revenue", "revenue must not be negative")
	v.Check(LastGenre(m.Genre) != "", "genre", "genre must contain at least one name")
	validateActors(v, m.Actors)
}

func ValidateMovieUpdate(v *validator.Validator, u *MovieUpdate) {
	v.Check(!u.Empty(), "fields", "No fields to update")

	if u.ReleaseDate != "" {
		v.Check(validator.ValidDate(strings.TrimSpace(u.ReleaseDate), ReleaseDateLayout), "release_date", invalidReleaseDate)
	}

	v.Check(len(u.Title) <= 500, "title", "title must not be more than 500 bytes long")
	v.Check(u.Budget >= 0, "budget", "budget must not be negative")
	v.Check(u.Revenue >= 0, "revenue", "revenue must not be negative")
	validateActors(v, u.Actors)
}

func validateActors(v *validator.Validator, actors []string) {
	for _, name := range actors {
		if !validator.NotBlank(name) {
			v.AddError("actors", "actors must not contain blank names")
			return
		}
	}

	// a lone name would leave the cast empty
	v.Check(len(actors) == 0 || len(actors) >= 2, "actors", "actors must contain at least one actor and role pair")
}

// the LEFT JOINs keep movies whose reference rows are missing
// genre_assignment is keyed by movie_id so the genre join never fans out
const selectMovies = `
		SELECT m.movie_id, m.title, m.release_date, m.score, m.overview, m.orig_title, m.status,
			m.budget, m.revenue, COALESCE(l.language, ''), COALESCE(c.country, ''), COALESCE(g.genre, '')
		FROM movies m
		LEFT JOIN languages l ON l.language_id = m.language_id
		LEFT JOIN countries c ON c.country_id = m.country_id
		LEFT JOIN genre_assignment ga ON ga.movie_id = m.movie_id
		LEFT JOIN genres g ON g.genre_id = ga.genre_id`

func movieFields(m *Movie) []any {
	return []any{
		&m.ID, &m.Title, &m.ReleaseDate, &m.Score, &m.Overview, &m.OriginalTitle, &m.Status,
		&m.Budget, &m.Revenue, &m.Language, &m.Country, &m.Genre,
	}
}

type MovieModel struct {
	DB *sql.DB
}

func (m MovieModel) GetAll(filters Filters) ([]*Movie, error) {
	query := fmt.Sprintf(`%s
		WHERE m.title LIKE $1
		ORDER BY %s`, selectMovies, filters.orderBy())

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return queryMovies(ctx, m.DB, query, "%"+filters.Search+"%")
}

func (m MovieModel) GetAllForGenre(genreID int64) ([]*Movie, error) {
	query := selectMovies + `
		WHERE ga.genre_id = $1
		ORDER BY m.movie_id ASC`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return queryMovies(ctx, m.DB, query, genreID)
}

func (m MovieModel) GetAllForCountry(country string, filters Filters) ([]*Movie, error) {
	query := fmt.Sprintf(`%s
		WHERE c.country = $1
		ORDER BY %s`, selectMovies, filters.orderBy())

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return queryMovies(ctx, m.DB, query, country)
}

func queryMovies(ctx context.Context, q querier, query string, args ...any) ([]*Movie, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*Movie{}

	for rows.Next() {
		var movie Movie

		err := rows.Scan(movieFields(&movie)...)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (m MovieModel) Get(id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return getMovie(ctx, m.DB, id)
}

func getMovie(ctx context.Context, q querier, id int64) (*Movie, error) {
	query := selectMovies + `
		WHERE m.movie_id = $1`

	var movie Movie

	err := q.QueryRowContext(ctx, query, id).Scan(movieFields(&movie)...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	movie.Cast, err = getCast(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

func getCast(ctx context.Context, q querier, movieID int64) ([]CastMember, error) {
	query := `
		SELECT a.actor, r.role
		FROM crew_assignment ca
		INNER JOIN actors a ON a.actor_id = ca.actor_id
		INNER JOIN roles r ON r.role_id = ca.role_id
		WHERE ca.movie_id = $1
		ORDER BY ca.credit_order, a.actor`

	rows, err := q.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cast []CastMember

	for rows.Next() {
		var member CastMember
		if err := rows.Scan(&member.Actor, &member.Role); err != nil {
			return nil, err
		}

		cast = append(cast, member)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return cast, nil
}

// Insert catalogues a movie together with its language, country, genre and
// cast. Inserting a title that already exists changes nothing and returns the
// stored movie with created set to false.
func (m MovieModel) Insert(input *MovieInput) (*Movie, bool, error) {
	releaseDate, err := ParseReleaseDate(input.ReleaseDate)
	if err != nil {
		return nil, false, err
	}

	title := strings.TrimSpace(input.Title)

	originalTitle := input.OriginalTitle
	if originalTitle == "" {
		originalTitle = title
	}

	status := input.Status
	if status == "" {
		status = "released"
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	// no-op once the transaction has been committed
	defer tx.Rollback()

	languageID, err := resolveID(ctx, tx, Languages, input.Language)
	if err != nil {
		return nil, false, err
	}

	countryID, err := resolveID(ctx, tx, Countries, input.Country)
	if err != nil {
		return nil, false, err
	}

	genreID, err := resolveID(ctx, tx, Genres, LastGenre(input.Genre))
	if err != nil {
		return nil, false, err
	}

	crew, err := resolveCrew(ctx, tx, input.Actors)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO movies (title, release_date, score, overview, orig_title, status, language_id, budget, revenue, country_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (title) DO NOTHING
		RETURNING movie_id`

	args := []any{title, releaseDate, input.Score, input.Overview, originalTitle, status, languageID, input.Budget, input.Revenue, countryID}

	var id int64

	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// title already catalogued, hand back what is stored
		err = tx.QueryRowContext(ctx, `SELECT movie_id FROM movies WHERE title = $1`, title).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, false, ErrRecordNotFound
			}
			return nil, false, err
		}

		movie, err := commitMovie(ctx, tx, id)
		return movie, false, err
	case err != nil:
		return nil, false, err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO genre_assignment (movie_id, genre_id) VALUES ($1, $2)`, id, genreID)
	if err != nil {
		return nil, false, err
	}

	err = insertCrew(ctx, tx, id, crew)
	if err != nil {
		return nil, false, err
	}

	movie, err := commitMovie(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}

	return movie, true, nil
}

// Update applies the non-zero fields of input. A new genre replaces the
// current assignment and a non-empty actor list replaces the whole cast.
func (m MovieModel) Update(id int64, input *MovieUpdate) (*Movie, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool

	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE movie_id = $1)`, id).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrRecordNotFound
	}

	var (
		set  []string
		args []any
	)

	// column names are literals, only values travel as parameters
	assign := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		assign("title", title)
	}

	if input.ReleaseDate != "" {
		releaseDate, err := ParseReleaseDate(input.ReleaseDate)
		if err != nil {
			return nil, err
		}
		assign("release_date", releaseDate)
	}

	if input.Score != 0 {
		assign("score", input.Score)
	}

	if input.Overview != "" {
		assign("overview", input.Overview)
	}

	if input.Status != "" {
		assign("status", input.Status)
	}

	if input.Budget != 0 {
		assign("budget", input.Budget)
	}

	if input.Revenue != 0 {
		assign("revenue", input.Revenue)
	}

	if input.Language != "" {
		languageID, err := resolveID(ctx, tx, Languages, input.Language)
		if err != nil {
			return nil, err
		}
		assign("language_id", languageID)
	}

	if input.Country != "" {
		countryID, err := resolveID(ctx, tx, Countries, input.Country)
		if err != nil {
			return nil, err
		}
		assign("country_id", countryID)
	}

	if len(set) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE movies SET %s WHERE movie_id = $%d`, strings.Join(set, ", "), len(args))

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateTitle
			}
			return nil, err
		}
	}

	if input.Genre != "" {
		genreID, err := resolveID(ctx, tx, Genres, LastGenre(input.Genre))
		if err != nil {
			return nil, err
		}

		query := `
			INSERT INTO genre_assignment (movie_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT (movie_id) DO UPDATE SET genre_id = EXCLUDED.genre_id`

		_, err = tx.ExecContext(ctx, query, id, genreID)
		if err != nil {
			return nil, err
		}
	}

	if len(input.Actors) > 0 {
		crew, err := resolveCrew(ctx, tx, input.Actors)
		if err != nil {
			return nil, err
		}

		// a list without a complete pair leaves the current cast alone
		if len(crew) > 0 {
			_, err = tx.ExecContext(ctx, `DELETE FROM crew_assignment WHERE movie_id = $1`, id)
			if err != nil {
				return nil, err
			}

			err = insertCrew(ctx, tx, id, crew)
			if err != nil {
				return nil, err
			}
		}
	}

	return commitMovie(ctx, tx, id)
}

// credit_order keeps the cast in the order it was submitted
func insertCrew(ctx context.Context, tx *sql.Tx, movieID int64, crew []crewPair) error {
	query := `
		INSERT INTO crew_assignment (movie_id, actor_id, role_id, credit_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`

	for i, pair := range crew {
		_, err := tx.ExecContext(ctx, query, movieID, pair.actorID, pair.roleID, i)
		if err != nil {
			return err
		}
	}

	return nil
}

// commitMovie reads the movie back inside the transaction, then commits
func commitMovie(ctx context.Context, tx *sql.Tx, id int64) (*Movie, error) {
	movie, err := getMovie(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return movie, nil
}

func (m MovieModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
