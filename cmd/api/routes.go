package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// without this server would return plain text 404 response
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	// without this server would return plain text 405 response
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.indexHandler)
	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)
	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	router.HandlerFunc(http.MethodGet, "/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, "/movies", app.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodPatch, "/movies/:id", app.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.deleteMovieHandler)

	router.HandlerFunc(http.MethodGet, "/genres", app.listGenresHandler)
	router.HandlerFunc(http.MethodGet, "/genres/:id/movies", app.listGenreMoviesHandler)

	router.HandlerFunc(http.MethodGet, "/actors", app.searchActorsHandler)

	router.HandlerFunc(http.MethodGet, "/countries/:code", app.listCountryMoviesHandler)

	// flow:- metrics -> recoverPanic -> rateLimit -> router
	return app.metrics(app.recoverPanic(app.rateLimit(router)))
}
