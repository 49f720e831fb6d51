package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"movieapi/internal/data"
	"movieapi/internal/validator"
)

var columns = []string{
	"title", "release_date", "score", "genre", "overview", "crew",
	"orig_title", "status", "language", "budget", "revenue", "country",
}

// data.MovieStore satisfies this
type movieInserter interface {
	Insert(input *data.MovieInput) (*data.Movie, bool, error)
}

// importMovies inserts every valid row of the CSV in r.
// Rows that fail to parse or validate, or whose title is already catalogued,
// are logged and skipped. A store error aborts the import.
func importMovies(store movieInserter, r io.Reader, logger *slog.Logger) (imported, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return 0, 0, fmt.Errorf("header is missing column %q", name)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				logger.Warn("skipping row", "error", err)
				skipped++
				continue
			}
			return imported, skipped, err
		}

		line, _ := reader.FieldPos(0)

		row := make(map[string]string, len(columns))
		for _, name := range columns {
			row[name] = record[index[name]]
		}

		input, err := toMovieInput(row)
		if err != nil {
			logger.Warn("skipping row", "line", line, "error", err)
			skipped++
			continue
		}

		v := validator.New()
		if data.ValidateMovieInput(v, input); !v.Valid() {
			logger.Warn("skipping row", "line", line, "title", input.Title, "error", v.First())
			skipped++
			continue
		}

		movie, created, err := store.Insert(input)
		if err != nil {
			return imported, skipped, fmt.Errorf("line %d: %w", line, err)
		}

		if !created {
			logger.Info("skipping row", "line", line, "title", movie.Title, "reason", "already catalogued")
			skipped++
			continue
		}

		imported++
		if imported%100 == 0 {
			logger.Info("import progress", "imported", imported, "skipped", skipped)
		}
		logger.Debug("movie imported", "id", movie.ID, "title", movie.Title)
	}

	return imported, skipped, nil
}

func toMovieInput(row map[string]string) (*data.MovieInput, error) {
	score, err := parseNumber(row["score"])
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	budget, err := parseNumber(row["budget"])
	if err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}

	revenue, err := parseNumber(row["revenue"])
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	var actors []string
	if crew := strings.TrimSpace(row["crew"]); crew != "" {
		for name := range strings.SplitSeq(crew, ",") {
			actors = append(actors, strings.TrimSpace(name))
		}
	}

	input := &data.MovieInput{
		Title:         strings.TrimSpace(row["title"]),
		ReleaseDate:   strings.TrimSpace(row["release_date"]),
		Genre:         row["genre"],
		Country:       strings.TrimSpace(row["country"]),
		Language:      strings.TrimSpace(row["language"]),
		Actors:        actors,
		Overview:      strings.TrimSpace(row["overview"]),
		Status:        strings.TrimSpace(row["status"]),
		OriginalTitle: strings.TrimSpace(row["orig_title"]),
		Score:         score,
		Budget:        int64(math.Round(budget)),
		Revenue:       int64(math.Round(revenue)),
	}

	return input, nil
}

// amounts in the export are written as floats, eg "75000000.00"
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
