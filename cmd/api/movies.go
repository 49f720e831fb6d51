package main

import (
	"errors"
	"fmt"
	"net/http"

	"movieapi/internal/data"
	"movieapi/internal/validator"
)

func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.Filters{
		Search:    app.readString(qs, "search", ""),
		SortBy:    app.readString(qs, "sort_by", ""),
		SortOrder: app.readString(qs, "sort_order", "asc"),
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	movies, err := app.models.Movies.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(movies) == 0 {
		app.notFoundMessage(w, r, "No movies found")
		return
	}

	err = app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	// all attributes must be exported i.e `be public`
	// so that they are visble to encoding/json package
	// struct tags must match the incoming json request key
	var input struct {
		Title         string   `json:"title"`
		ReleaseDate   string   `json:"release_date"`
		Genre         string   `json:"genre"`
		Country       string   `json:"country"`
		Language      string   `json:"language"`
		Actors        []string `json:"actors"`
		Overview      string   `json:"overview"`
		Status        string   `json:"status"`
		OriginalTitle string   `json:"original_title"`
		Score         float64  `json:"score"`
		Budget        int64    `json:"budget"`
		Revenue       int64    `json:"revenue"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movieInput := &data.MovieInput{
		Title:         input.Title,
		ReleaseDate:   input.ReleaseDate,
		Genre:         input.Genre,
		Country:       input.Country,
		Language:      input.Language,
		Actors:        input.Actors,
		Overview:      input.Overview,
		Status:        input.Status,
		OriginalTitle: input.OriginalTitle,
		Score:         input.Score,
		Budget:        input.Budget,
		Revenue:       input.Revenue,
	}

	v := validator.New()
	if data.ValidateMovieInput(v, movieInput); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	movie, created, err := app.models.Movies.Insert(movieInput)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	// re-posting a catalogued title returns it without announcing it again
	if created {
		app.notifyMovieCreated(movie)
	}

	// let the client know where to find the newly-created resource
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	env := envelope{
		"message": "Movie created successfully",
		"success": true,
		"movie":   movie,
	}

	err = app.writeJSON(w, http.StatusCreated, env, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sends the "movie created" email in a background goroutine
// so the client doesn't wait on the SMTP round trip
func (app *application) notifyMovieCreated(movie *data.Movie) {
	if app.mailer == nil || app.config.notify.recipient == "" {
		return
	}

	app.background(func() {
		err := app.mailer.Send(app.config.notify.recipient, "movie_created.tmpl.html", movie)
		if err != nil {
			app.logger.Error(err.Error(), "movie_id", movie.ID)
		}
	})
}

func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundMessage(w, r, "Movie not found")
		return
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessage(w, r, "Movie not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundMessage(w, r, "Movie not found")
		return
	}

	// zero values are treated as "not supplied"
	var input struct {
		Title       string   `json:"title"`
		ReleaseDate string   `json:"release_date"`
		Genre       string   `json:"genre"`
		Actors      []string `json:"actors"`
		Overview    string   `json:"overview"`
		Status      string   `json:"status"`
		Score       float64  `json:"score"`
		Budget      int64    `json:"budget"`
		Revenue     int64    `json:"revenue"`
		Country     string   `json:"country"`
		Language    string   `json:"language"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update := &data.MovieUpdate{
		Title:       input.Title,
		ReleaseDate: input.ReleaseDate,
		Genre:       input.Genre,
		Actors:      input.Actors,
		Overview:    input.Overview,
		Status:      input.Status,
		Score:       input.Score,
		Budget:      input.Budget,
		Revenue:     input.Revenue,
		Country:     input.Country,
		Language:    input.Language,
	}

	v := validator.New()
	if data.ValidateMovieUpdate(v, update); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	movie, err := app.models.Movies.Update(id, update)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessage(w, r, "Movie not found")
		default:
			app.storeErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "movie": movie}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundMessage(w, r, "Movie could not be deleted")
		return
	}

	err = app.models.Movies.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessage(w, r, "Movie could not be deleted")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Movie deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
