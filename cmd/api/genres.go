package main

import (
	"errors"
	"net/http"

	"movieapi/internal/data"
)

func (app *application) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.models.Genres.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(genres) == 0 {
		app.notFoundMessage(w, r, "No genres found")
		return
	}

	err = app.writeJSON(w, http.StatusOK, genres, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// movies are listed by id, this route takes no sort parameters
func (app *application) listGenreMoviesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundMessage(w, r, "Genre not found")
		return
	}

	genre, err := app.models.Genres.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessage(w, r, "Genre not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	movies, err := app.models.Movies.GetAllForGenre(genre.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(movies) == 0 {
		app.notFoundMessage(w, r, "No movies found for this genre")
		return
	}

	err = app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
