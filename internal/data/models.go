package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("a movie with this title already exists")
	ErrBlankReference = errors.New("reference value must not be blank")
)

// every store call gets its own deadline
const queryTimeout = 3 * time.Second

// handlers depend on these interfaces so they can be exercised against the
// in-memory implementations in the mocks package
type MovieStore interface {
	GetAll(filters Filters) ([]*Movie, error)
	Get(id int64) (*Movie, error)
	// created is false when the title was already catalogued
	Insert(input *MovieInput) (movie *Movie, created bool, err error)
	Update(id int64, input *MovieUpdate) (*Movie, error)
	Delete(id int64) error
	GetAllForGenre(genreID int64) ([]*Movie, error)
	GetAllForCountry(country string, filters Filters) ([]*Movie, error)
}

type GenreStore interface {
	GetAll() ([]*Genre, error)
	Get(id int64) (*Genre, error)
}

type ActorStore interface {
	Search(term string) ([]string, error)
}

type CountryStore interface {
	GetAll() ([]string, error)
}

type Models struct {
	Movies    MovieStore
	Genres    GenreStore
	Actors    ActorStore
	Countries CountryStore
}

func NewModels(db *sql.DB) Models {
	return Models{
		Movies:    MovieModel{DB: db},
		Genres:    GenreModel{DB: db},
		Actors:    ActorModel{DB: db},
		Countries: CountryModel{DB: db},
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// 23505 is postgres' unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
