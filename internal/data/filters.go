package data

import (
	"fmt"

	"movieapi/internal/validator"
)

// SortSafelist holds the sort_by values clients may ask for
var SortSafelist = []string{"title", "release_date", "genre", "revenue", "budget", "score"}

// maps a sort tag to the column it orders by. Query text is only ever built
// from these values.
var sortColumns = map[string]string{
	"title":        "m.title",
	"release_date": "m.release_date",
	"genre":        "g.genre",
	"revenue":      "m.revenue",
	"budget":       "m.budget",
	"score":        "m.score",
}

type Filters struct {
	Search    string
	SortBy    string
	SortOrder string
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.SortBy == "" || validator.PermittedValue(f.SortBy, SortSafelist...), "sort_by", "Invalid sort_by parameter")
	v.Check(validator.PermittedValue(f.SortOrder, "asc", "desc"), "sort_order", "Invalid sort_order parameter")
}

// sortColumn panics on a tag outside the safelist. Handlers run
// ValidateFilters first so this only fires on a programming error.
func (f Filters) sortColumn() string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		panic("unsafe sort parameter: " + f.SortBy)
	}

	return column
}

func (f Filters) sortDirection() string {
	if f.SortOrder == "desc" {
		return "DESC"
	}

	return "ASC"
}

// orderBy always ends with movie_id so results are stable across calls
func (f Filters) orderBy() string {
	if f.SortBy == "" {
		return "m.movie_id ASC"
	}

	return fmt.Sprintf("%s %s, m.movie_id ASC", f.sortColumn(), f.sortDirection())
}
