// Command smoketest checks that a deployed server answers the recommendation API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fitrec/internal/e2etest"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/logging"
)

type recommendation struct {
	BMICategory string            `json:"bmi_category"`
	Endurance   []json.RawMessage `json:"endurance_workouts"`
	Strength    []json.RawMessage `json:"strength_workouts"`
	Error       string            `json:"error"`
}

type browse struct {
	Success         bool              `json:"success"`
	Recommendations []json.RawMessage `json:"recommendations"`
	Error           string            `json:"error"`
}

// TestAPI requests a recommendation and browses the catalog.
func TestAPI(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	var rec recommendation
	status, err := client.PostJSON(ctx, "/api/recommendations",
		map[string]float64{"age": 30, "height": 170, "weight": 65}, &rec) //nolint:mnd // a normal adult.
	if err != nil {
		return errors.Wrap(err, "post recommendations")
	}
	if status != http.StatusOK || rec.BMICategory != "Normal" {
		return fmt.Errorf("unexpected recommendation: status %d, category %q, error %q",
			status, rec.BMICategory, rec.Error)
	}
	if len(rec.Endurance) == 0 || len(rec.Strength) == 0 {
		return errors.New("recommendation is missing workouts")
	}

	var b browse
	if status, err = client.PostJSON(ctx, "/api/recommend", map[string]string{"workoutType": "semua"}, &b); err != nil {
		return errors.Wrap(err, "post recommend")
	}
	if status != http.StatusOK || !b.Success || len(b.Recommendations) == 0 {
		return fmt.Errorf("unexpected catalog listing: status %d, %d workouts, error %q",
			status, len(b.Recommendations), b.Error)
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, nil)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err := TestAPI(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing api", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful", slog.Duration("duration", time.Since(start)))
}
