package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/myrjola/fitrec/internal/advisor"
	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/errors"
)

// maxBodyBytes limits request bodies. The largest valid request is a few dozen bytes.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type browseResponse struct {
	Success         bool                 `json:"success"`
	Recommendations []catalog.Definition `json:"recommendations"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed to write response", errors.SlogError(err))
	}
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Success: false, Error: message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		errorResponse{Success: false, Error: "Server error while processing recommendation"})
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// measurement is a JSON number or a string holding one. Clients of the form-based frontend send strings.
type measurement float64

func (m *measurement) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrap(err, "parse measurement", slog.String("value", string(data)))
	}
	*m = measurement(f)
	return nil
}

type recommendationsRequest struct {
	Age    measurement `json:"age"`
	Height measurement `json:"height"`
	Weight measurement `json:"weight"`
}

func (app *application) recommendationsPOST(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "invalid request body", errors.SlogError(err))
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Age == 0 || req.Height == 0 || req.Weight == 0 {
		app.clientError(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	res, err := app.advisor.Recommend(r.Context(), body.Profile{
		Age:      float64(req.Age),
		HeightCm: float64(req.Height),
		WeightKg: float64(req.Weight),
	})
	if errors.Is(err, advisor.ErrInvalidProfile) {
		app.clientError(w, r, http.StatusBadRequest, advisor.ErrInvalidProfile.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "recommend"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, res)
}

type browseRequest struct {
	WorkoutType     string `json:"workoutType"`
	DifficultyLevel string `json:"difficultyLevel"`
}

// browsePOST lists catalog workouts of a type, optionally filtered by experience level.
func (app *application) browsePOST(w http.ResponseWriter, r *http.Request) {
	var req browseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "invalid request body", errors.SlogError(err))
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WorkoutType == "" {
		app.clientError(w, r, http.StatusBadRequest, "Workout type is required")
		return
	}

	workouts, err := app.advisor.Browse(req.WorkoutType, req.DifficultyLevel)
	if errors.Is(err, catalog.ErrUnknownType) {
		app.clientError(w, r, http.StatusBadRequest, "Invalid workout type")
		return
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "browse"))
		return
	}
	if workouts == nil {
		workouts = []catalog.Definition{}
	}
	app.writeJSON(w, r, http.StatusOK, browseResponse{Success: true, Recommendations: workouts})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// An empty body is an empty object.
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "decode json")
	}
	return nil
}
