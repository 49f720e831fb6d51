// Package mocks provides test doubles for the data store interfaces: testify
// mocks for single calls and an in-memory Catalog for multi-step scenarios.
package mocks

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"movieapi/internal/data"
)

type Catalog struct {
	mu      sync.Mutex
	nextID  int64
	movies  map[int64]*data.Movie
	refs    map[data.Reference]map[string]int64
	genreOf map[int64]int64
}

func NewModels() (data.Models, *Catalog) {
	c := &Catalog{
		movies:  make(map[int64]*data.Movie),
		refs:    make(map[data.Reference]map[string]int64),
		genreOf: make(map[int64]int64),
	}

	models := data.Models{
		Movies:    movieStore{c},
		Genres:    genreStore{c},
		Actors:    actorStore{c},
		Countries: countryStore{c},
	}

	return models, c
}

// resolve must be called with mu held
func (c *Catalog) resolve(ref data.Reference, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, data.ErrBlankReference
	}

	table, ok := c.refs[ref]
	if !ok {
		table = make(map[string]int64)
		c.refs[ref] = table
	}

	if id, ok := table[value]; ok {
		return id, nil
	}

	id := int64(len(table) + 1)
	table[value] = id
	return id, nil
}

func (c *Catalog) name(ref data.Reference, id int64) string {
	for name, refID := range c.refs[ref] {
		if refID == id {
			return name
		}
	}
	return ""
}

func (c *Catalog) snapshot(m *data.Movie) *data.Movie {
	movie := *m
	movie.Genre = c.name(data.Genres, c.genreOf[m.ID])
	movie.Cast = slices.Clone(m.Cast)
	return &movie
}

// Len reports how many rows ref's table holds
func (c *Catalog) Len(ref data.Reference) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.refs[ref])
}

func (c *Catalog) sorted(match func(*data.Movie) bool, filters data.Filters) []*data.Movie {
	movies := []*data.Movie{}
	for _, m := range c.movies {
		if match(m) {
			movies = append(movies, c.snapshot(m))
		}
	}

	slices.SortStableFunc(movies, func(a, b *data.Movie) int {
		var order int
		switch filters.SortBy {
		case "title":
			order = cmp.Compare(a.Title, b.Title)
		case "release_date":
			order = time.Time(a.ReleaseDate).Compare(time.Time(b.ReleaseDate))
		case "genre":
			order = cmp.Compare(a.Genre, b.Genre)
		case "revenue":
			order = cmp.Compare(a.Revenue, b.Revenue)
		case "budget":
			order = cmp.Compare(a.Budget, b.Budget)
		case "score":
			order = cmp.Compare(a.Score, b.Score)
		}

		if filters.SortOrder == "desc" {
			order = -order
		}

		if order == 0 {
			return cmp.Compare(a.ID, b.ID)
		}
		return order
	})

	return movies
}

type movieStore struct{ c *Catalog }

func (s movieStore) GetAll(filters data.Filters) ([]*data.Movie, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	return s.c.sorted(func(m *data.Movie) bool {
		return strings.Contains(m.Title, filters.Search)
	}, filters), nil
}

func (s movieStore) Get(id int64) (*data.Movie, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	m, ok := s.c.movies[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}

	return s.c.snapshot(m), nil
}

func (s movieStore) Insert(input *data.MovieInput) (*data.Movie, bool, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	releaseDate, err := data.ParseReleaseDate(input.ReleaseDate)
	if err != nil {
		return nil, false, err
	}

	title := strings.TrimSpace(input.Title)
	for _, m := range s.c.movies {
		if m.Title == title {
			return s.c.snapshot(m), false, nil
		}
	}

	if _, err := s.c.resolve(data.Languages, input.Language); err != nil {
		return nil, false, err
	}
	if _, err := s.c.resolve(data.Countries, input.Country); err != nil {
		return nil, false, err
	}

	genreID, err := s.c.resolve(data.Genres, data.LastGenre(input.Genre))
	if err != nil {
		return nil, false, err
	}

	s.c.nextID++
	movie := &data.Movie{
		ID:            s.c.nextID,
		Title:         title,
		ReleaseDate:   releaseDate,
		Score:         input.Score,
		Overview:      input.Overview,
		OriginalTitle: cmp.Or(input.OriginalTitle, title),
		Status:        cmp.Or(input.Status, "released"),
		Budget:        input.Budget,
		Revenue:       input.Revenue,
		Language:      strings.TrimSpace(input.Language),
		Country:       strings.TrimSpace(input.Country),
		Cast:          data.PairCast(input.Actors),
	}

	s.c.movies[movie.ID] = movie
	s.c.genreOf[movie.ID] = genreID

	return s.c.snapshot(movie), true, nil
}

func (s movieStore) Update(id int64, input *data.MovieUpdate) (*data.Movie, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	m, ok := s.c.movies[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		for _, other := range s.c.movies {
			if other.ID != id && other.Title == title {
				return nil, data.ErrDuplicateTitle
			}
		}
		m.Title = title
	}

	if input.ReleaseDate != "" {
		releaseDate, err := data.ParseReleaseDate(input.ReleaseDate)
		if err != nil {
			return nil, err
		}
		m.ReleaseDate = releaseDate
	}

	m.Score = cmp.Or(input.Score, m.Score)
	m.Overview = cmp.Or(input.Overview, m.Overview)
	m.Status = cmp.Or(input.Status, m.Status)
	m.Budget = cmp.Or(input.Budget, m.Budget)
	m.Revenue = cmp.Or(input.Revenue, m.Revenue)

	if input.Language != "" {
		if _, err := s.c.resolve(data.Languages, input.Language); err != nil {
			return nil, err
		}
		m.Language = strings.TrimSpace(input.Language)
	}

	if input.Country != "" {
		if _, err := s.c.resolve(data.Countries, input.Country); err != nil {
			return nil, err
		}
		m.Country = strings.TrimSpace(input.Country)
	}

	if input.Genre != "" {
		genreID, err := s.c.resolve(data.Genres, data.LastGenre(input.Genre))
		if err != nil {
			return nil, err
		}
		s.c.genreOf[id] = genreID
	}

	if cast := data.PairCast(input.Actors); len(cast) > 0 {
		m.Cast = cast
	}

	return s.c.snapshot(m), nil
}

func (s movieStore) Delete(id int64) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	if _, ok := s.c.movies[id]; !ok {
		return data.ErrRecordNotFound
	}

	delete(s.c.movies, id)
	delete(s.c.genreOf, id)
	return nil
}

func (s movieStore) GetAllForGenre(genreID int64) ([]*data.Movie, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	return s.c.sorted(func(m *data.Movie) bool {
		return s.c.genreOf[m.ID] == genreID
	}, data.Filters{}), nil
}

func (s movieStore) GetAllForCountry(country string, filters data.Filters) ([]*data.Movie, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	return s.c.sorted(func(m *data.Movie) bool {
		return m.Country == country
	}, filters), nil
}

type genreStore struct{ c *Catalog }

func (s genreStore) GetAll() ([]*data.Genre, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	genres := []*data.Genre{}
	for name, id := range s.c.refs[data.Genres] {
		genres = append(genres, &data.Genre{ID: id, Name: name})
	}

	slices.SortFunc(genres, func(a, b *data.Genre) int { return cmp.Compare(a.ID, b.ID) })
	return genres, nil
}

func (s genreStore) Get(id int64) (*data.Genre, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	name := s.c.name(data.Genres, id)
	if name == "" {
		return nil, data.ErrRecordNotFound
	}

	return &data.Genre{ID: id, Name: name}, nil
}

type actorStore struct{ c *Catalog }

func (s actorStore) Search(term string) ([]string, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	titles := []string{}
	for _, m := range s.c.movies {
		for _, member := range m.Cast {
			if strings.Contains(member.Actor, term) {
				titles = append(titles, m.Title)
				break
			}
		}
	}

	slices.Sort(titles)
	return titles, nil
}

type countryStore struct{ c *Catalog }

func (s countryStore) GetAll() ([]string, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	var countries []string
	for name := range s.c.refs[data.Countries] {
		countries = append(countries, name)
	}

	slices.Sort(countries)
	return countries, nil
}
