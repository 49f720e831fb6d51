package data

import (
	"context"
	"database/sql"
)

type CountryModel struct {
	DB *sql.DB
}

func (m CountryModel) GetAll() ([]string, error) {
	query := `
		SELECT country
		FROM countries
		ORDER BY country`

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var countries []string

	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, err
		}

		countries = append(countries, country)
	}
	// check if any errors occurred during the iteration
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return countries, nil
}
