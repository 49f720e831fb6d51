package main

import (
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	// import pq driver so that it can register itself with the database/sql package
	// `_` is an alias to stop the compiler from complaining that package isn't being used
	_ "github.com/lib/pq"

	"movieapi/internal/data"
	"movieapi/internal/mailer"
)

const version = "1.0.0"

// env args passed via cmd flags on app start
type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	notify struct {
		recipient string
	}
}

// satisfied by *mailer.Mailer
type mailSender interface {
	Send(recipient, templateFile string, data any) error
}

type application struct {
	config config
	logger *slog.Logger
	models data.Models
	mailer mailSender // nil when no SMTP host is configured
	wg     sync.WaitGroup
}

func main() {
	// structured logger that writes to the standard output stream
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// values in .env become defaults for the flags below
	// a missing file is fine, real environment variables still apply
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load .env file", "error", err)
	}

	var cfg config

	// read cmd-line flags and assign them to the config struct.
	// default port is 4000
	// default environment is "development"
	flag.IntVar(&cfg.port, "port", envInt("PORT", 4000), "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("MOVIEAPI_DB_DSN"), "PostgreSQL DSN")

	// DB connection pool settings from cmd-line flags
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")

	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// leaving -smtp-host empty disables the create notification
	flag.StringVar(&cfg.smtp.host, "smtp-host", os.Getenv("MOVIEAPI_SMTP_HOST"), "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", envInt("MOVIEAPI_SMTP_PORT", 2525), "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("MOVIEAPI_SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("MOVIEAPI_SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "Movie API <no-reply@movieapi.local>", "SMTP sender")
	flag.StringVar(&cfg.notify.recipient, "notify-recipient", os.Getenv("MOVIEAPI_NOTIFY_RECIPIENT"), "Address notified when a movie is created")

	flag.Parse()

	// open a database connection pool
	// in the event of an error we log the error and exit the application immediately
	db, err := openDB(cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// close the connection pool before main() function exits
	defer db.Close()
	logger.Info("database connection pool established")

	expvar.NewString("version").Set(version)
	// each Var is evaluated when /debug/vars is requested
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))

	app := &application{
		config: cfg,
		logger: logger,
		models: data.NewModels(db),
	}

	if cfg.smtp.host != "" {
		app.mailer, err = mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	}

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// envInt reads an integer default from the environment, falling back when unset or malformed
func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func openDB(cfg config) (*sql.DB, error) {
	// create an empty connection pool
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	// max number of open connections (in-use + idle)
	// a value less than or equal to zero means there is no limit
	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	// a value less than or equal to zero means there is no limit
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	// a value less than or equal to zero means connections are not closed due to their idle time
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	// create context with a 5-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// establish a new connection to the database, passing in the context
	// If connection couldn't be successfully established within 5 seconds then this will return an error
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	// sql.DB connection pool
	return db, nil
}
