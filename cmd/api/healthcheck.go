package main

import (
	"net/http"
)

// all our handlers are methods on the application struct
// this is how dependencies reach them
// without resorting to global variables or closures
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) indexHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"message": "Welcome to the Movie API"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
