package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"movieapi/internal/data"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load .env file", "error", err)
	}

	var (
		file string
		dsn  string
	)

	flag.StringVar(&file, "file", "imdb_movies.csv", "CSV file to import")
	flag.StringVar(&dsn, "db-dsn", os.Getenv("MOVIEAPI_DB_DSN"), "PostgreSQL DSN")
	flag.Parse()

	f, err := os.Open(file)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer f.Close()

	db, err := openDB(dsn)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	models := data.NewModels(db)

	start := time.Now()
	imported, skipped, err := importMovies(models.Movies, f, logger)
	if err != nil {
		logger.Error(err.Error(), "imported", imported, "skipped", skipped)
		os.Exit(1)
	}

	logger.Info("import finished", "file", file, "imported", imported, "skipped", skipped, "duration", time.Since(start))
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
