package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("POST /api/recommendations", app.recommendationsPOST)
	mux.HandleFunc("POST /api/recommend", app.browsePOST)
	// Kept for clients of the first API version.
	mux.HandleFunc("POST /recommend", app.browsePOST)

	return app.logAndTraceRequest(app.recoverPanic(secureHeaders(app.timeout(mux))))
}
