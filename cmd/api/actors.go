package main

import (
	"net/http"
	"strings"
)

// returns the titles of movies whose cast matches ?search=
func (app *application) searchActorsHandler(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(app.readString(r.URL.Query(), "search", ""))
	if term == "" {
		app.notFoundMessage(w, r, "Search term must be provided")
		return
	}

	titles, err := app.models.Actors.Search(term)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(titles) == 0 {
		app.notFoundMessage(w, r, "No actors found")
		return
	}

	err = app.writeJSON(w, http.StatusOK, titles, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
