package main

import (
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"

	"movieapi/internal/data"
	"movieapi/internal/validator"
)

func (app *application) listCountryMoviesHandler(w http.ResponseWriter, r *http.Request) {
	code := httprouter.ParamsFromContext(r.Context()).ByName("code")

	countries, err := app.models.Countries.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !slices.Contains(countries, code) {
		app.notFoundMessage(w, r, "Country not found")
		return
	}

	qs := r.URL.Query()

	filters := data.Filters{
		SortBy:    app.readString(qs, "sort_by", ""),
		SortOrder: app.readString(qs, "sort_order", "asc"),
	}

	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	movies, err := app.models.Movies.GetAllForCountry(code, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(movies) == 0 {
		app.notFoundMessage(w, r, "No movies found for this country")
		return
	}

	err = app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
