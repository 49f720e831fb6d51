package mocks

import (
	"github.com/stretchr/testify/mock"

	"movieapi/internal/data"
)

// Models wires fresh testify mocks into a data.Models
func Models() (data.Models, *MovieStore, *GenreStore, *ActorStore, *CountryStore) {
	movies := new(MovieStore)
	genres := new(GenreStore)
	actors := new(ActorStore)
	countries := new(CountryStore)

	models := data.Models{
		Movies:    movies,
		Genres:    genres,
		Actors:    actors,
		Countries: countries,
	}

	return models, movies, genres, actors, countries
}

type MovieStore struct {
	mock.Mock
}

func (m *MovieStore) GetAll(filters data.Filters) ([]*data.Movie, error) {
	args := m.Called(filters)
	return movies(args, 0), args.Error(1)
}

func (m *MovieStore) Get(id int64) (*data.Movie, error) {
	args := m.Called(id)
	movie, _ := args.Get(0).(*data.Movie)
	return movie, args.Error(1)
}

func (m *MovieStore) Insert(input *data.MovieInput) (*data.Movie, bool, error) {
	args := m.Called(input)
	movie, _ := args.Get(0).(*data.Movie)
	return movie, args.Bool(1), args.Error(2)
}

func (m *MovieStore) Update(id int64, input *data.MovieUpdate) (*data.Movie, error) {
	args := m.Called(id, input)
	movie, _ := args.Get(0).(*data.Movie)
	return movie, args.Error(1)
}

func (m *MovieStore) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MovieStore) GetAllForGenre(genreID int64) ([]*data.Movie, error) {
	args := m.Called(genreID)
	return movies(args, 0), args.Error(1)
}

func (m *MovieStore) GetAllForCountry(country string, filters data.Filters) ([]*data.Movie, error) {
	args := m.Called(country, filters)
	return movies(args, 0), args.Error(1)
}

// nil is allowed wherever a slice is expected
func movies(args mock.Arguments, index int) []*data.Movie {
	list, _ := args.Get(index).([]*data.Movie)
	return list
}

type GenreStore struct {
	mock.Mock
}

func (m *GenreStore) GetAll() ([]*data.Genre, error) {
	args := m.Called()
	genres, _ := args.Get(0).([]*data.Genre)
	return genres, args.Error(1)
}

func (m *GenreStore) Get(id int64) (*data.Genre, error) {
	args := m.Called(id)
	genre, _ := args.Get(0).(*data.Genre)
	return genre, args.Error(1)
}

type ActorStore struct {
	mock.Mock
}

func (m *ActorStore) Search(term string) ([]string, error) {
	args := m.Called(term)
	titles, _ := args.Get(0).([]string)
	return titles, args.Error(1)
}

type CountryStore struct {
	mock.Mock
}

func (m *CountryStore) GetAll() ([]string, error) {
	args := m.Called()
	countries, _ := args.Get(0).([]string)
	return countries, args.Error(1)
}
