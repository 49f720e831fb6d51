package data

import (
	"context"
	"database/sql"
	"errors"
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GenreModel struct {
	DB *sql.DB
}

func (m GenreModel) GetAll() ([]*Genre, error) {
	query := `
		SELECT genre_id, genre
		FROM genres
		ORDER BY genre_id`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []*Genre{}

	for rows.Next() {
		var genre Genre
		err := rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, &genre)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

func (m GenreModel) Get(id int64) (*Genre, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT genre_id, genre
		FROM genres
		WHERE genre_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var genre Genre

	err := m.DB.QueryRowContext(ctx, query, id).Scan(&genre.ID, &genre.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &genre, nil
}
