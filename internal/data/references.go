package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Reference identifies one of the name -> id lookup tables.
// Table and column names are only ever taken from referenceTables,
// never from callers.
type Reference int

const (
	Languages Reference = iota
	Countries
	Genres
	Actors
	Roles
)

type referenceTable struct {
	table    string
	nameCol  string
	idColumn string
}

var referenceTables = map[Reference]referenceTable{
	Languages: {table: "languages", nameCol: "language", idColumn: "language_id"},
	Countries: {table: "countries", nameCol: "country", idColumn: "country_id"},
	Genres:    {table: "genres", nameCol: "genre", idColumn: "genre_id"},
	Actors:    {table: "actors", nameCol: "actor", idColumn: "actor_id"},
	Roles:     {table: "roles", nameCol: "role", idColumn: "role_id"},
}

func (r Reference) String() string {
	t, ok := referenceTables[r]
	if !ok {
		return fmt.Sprintf("Reference(%d)", int(r))
	}

	return t.table
}

// resolveID returns the id of the row named value, inserting it first if it
// doesn't exist yet. Concurrent callers converge on the same row through the
// UNIQUE constraint on the name column and ON CONFLICT DO NOTHING.
func resolveID(ctx context.Context, q querier, ref Reference, value string) (int64, error) {
	t, ok := referenceTables[ref]
	if !ok {
		panic(fmt.Sprintf("unknown reference table %d", int(ref)))
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%s: %w", ref, ErrBlankReference)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1)
		ON CONFLICT (%s) DO NOTHING`, t.table, t.nameCol, t.nameCol)

	_, err := q.ExecContext(ctx, insert, value)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", t.table, err)
	}

	lookup := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`, t.idColumn, t.table, t.nameCol)

	var id int64
	err = q.QueryRowContext(ctx, lookup, value).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, fmt.Errorf("lookup in %s: %w", t.table, err)
		}
	}

	return id, nil
}

// crewPair is one (actor, role) pairing of a movie's cast
type crewPair struct {
	actorID int64
	roleID  int64
}

// PairCast pairs even positions (actor names) with odd positions
// (role names). A trailing actor without a role is dropped.
func PairCast(names []string) []CastMember {
	var cast []CastMember

	for i := 0; i+1 < len(names); i += 2 {
		cast = append(cast, CastMember{
			Actor: strings.TrimSpace(names[i]),
			Role:  strings.TrimSpace(names[i+1]),
		})
	}

	return cast
}

// resolveCrew looks up (or creates) the actor and role ids of each pair
// returned by PairCast, keeping their order
func resolveCrew(ctx context.Context, q querier, names []string) ([]crewPair, error) {
	var crew []crewPair

	for _, member := range PairCast(names) {
		actorID, err := resolveID(ctx, q, Actors, member.Actor)
		if err != nil {
			return nil, err
		}

		roleID, err := resolveID(ctx, q, Roles, member.Role)
		if err != nil {
			return nil, err
		}

		crew = append(crew, crewPair{actorID: actorID, roleID: roleID})
	}

	return crew, nil
}

// LastGenre picks the last non-blank entry of a comma separated genre list;
// a movie carries a single genre assignment
func LastGenre(genres string) string {
	parts := strings.Split(genres, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if g := strings.TrimSpace(parts[i]); g != "" {
			return g
		}
	}

	return ""
}
