package data

import (
	"context"
	"database/sql"
)

type ActorModel struct {
	DB *sql.DB
}

// Search returns the titles of movies featuring an actor whose name
// contains term (case sensitive)
func (m ActorModel) Search(term string) ([]string, error) {
	query := `
		SELECT DISTINCT m.title
		FROM movies m
		INNER JOIN crew_assignment ca ON ca.movie_id = m.movie_id
		INNER JOIN actors a ON a.actor_id = ca.actor_id
		WHERE a.actor LIKE $1
		ORDER BY m.title`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := []string{}

	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}

		titles = append(titles, title)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return titles, nil
}
