package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/myrjola/fitrec/internal/e2etest"
	"github.com/myrjola/fitrec/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "FITREC_ADDR":
		return "localhost:0", true
	case "FITREC_HISTORY_PATH":
		return filepath.Join("..", "..", "internal", "history", "testdata", "workouts.csv"), true
	case "FITREC_CATALOG_PATH":
		return filepath.Join("..", "..", "workouts.yaml"), true
	default:
		return "", false
	}
}

type workout struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
}

type recommendationResult struct {
	BMI             float64   `json:"bmi"`
	BMICategory     string    `json:"bmi_category"`
	AgeCategory     string    `json:"age_category"`
	DifficultyLevel string    `json:"difficulty_level"`
	Summary         string    `json:"summary"`
	Endurance       []workout `json:"endurance_workouts"`
	Strength        []workout `json:"strength_workouts"`
	DataDriven      bool      `json:"data_driven"`
	Success         *bool     `json:"success"`
	Error           string    `json:"error"`
}

type browseResult struct {
	Success         bool      `json:"success"`
	Recommendations []workout `json:"recommendations"`
	Error           string    `json:"error"`
}

func names(ws []workout) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return out
}

func startServer(t *testing.T) *e2etest.Client {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	return server.Client()
}

func Test_application_healthy(t *testing.T) {
	client := startServer(t)

	var got map[string]string
	status, err := client.GetJSON(t.Context(), "/api/healthy", &got)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if diff := cmp.Diff(map[string]string{"status": "ok"}, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func Test_application_recommendations(t *testing.T) {
	ctx := t.Context()
	client := startServer(t)

	t.Run("data driven", func(t *testing.T) {
		var got recommendationResult
		status, err := client.PostJSON(ctx, "/api/recommendations",
			map[string]any{"age": 30, "height": 170, "weight": 65}, &got)
		if err != nil {
			t.Fatalf("PostJSON: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", status, http.StatusOK, got.Error)
		}
		if got.BMICategory != "Normal" || got.AgeCategory != "Dewasa" || got.DifficultyLevel != "Medium to Hard" {
			t.Errorf("classification = %s/%s/%s, want Normal/Dewasa/Medium to Hard",
				got.BMICategory, got.AgeCategory, got.DifficultyLevel)
		}
		if !got.DataDriven {
			t.Error("data_driven = false, want true")
		}
		if diff := cmp.Diff([]string{"Jogging"}, names(got.Endurance)); diff != "" {
			t.Errorf("endurance mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Push-up", "Squat", "Plank"}, names(got.Strength)); diff != "" {
			t.Errorf("strength mismatch (-want +got):\n%s", diff)
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(got.Summary))
		if err != nil {
			t.Fatalf("parse summary: %v", err)
		}
		if n := doc.Find("p").Length(); n != 2 {
			t.Errorf("summary paragraphs = %d, want 2", n)
		}
		if first := doc.Find("strong").First().Text(); first != "Normal" {
			t.Errorf("first strong = %q, want %q", first, "Normal")
		}
	})

	t.Run("numeric strings", func(t *testing.T) {
		var got recommendationResult
		status, err := client.PostJSON(ctx, "/api/recommendations",
			map[string]any{"age": "50", "height": "170", "weight": "110"}, &got)
		if err != nil {
			t.Fatalf("PostJSON: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", status, http.StatusOK, got.Error)
		}
		if got.BMICategory != "Obesitas" || got.AgeCategory != "Tua" || got.DifficultyLevel != "Easy" {
			t.Errorf("classification = %s/%s/%s, want Obesitas/Tua/Easy",
				got.BMICategory, got.AgeCategory, got.DifficultyLevel)
		}
	})

	tests := []struct {
		name      string
		body      map[string]any
		wantError string
	}{
		{name: "empty body", body: map[string]any{}, wantError: "Missing required fields"},
		{name: "zero age", body: map[string]any{"age": 0, "height": 170, "weight": 65}, wantError: "Missing required fields"},
		{name: "missing weight", body: map[string]any{"age": 30, "height": 170}, wantError: "Missing required fields"},
		{name: "empty string", body: map[string]any{"age": "", "height": 170, "weight": 65}, wantError: "Missing required fields"},
		{name: "not a number", body: map[string]any{"age": "old", "height": 170, "weight": 65}, wantError: "Invalid request body"},
		{
			name:      "negative height",
			body:      map[string]any{"age": 30, "height": -170, "weight": 65},
			wantError: "age, height and weight must be positive numbers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got recommendationResult
			status, err := client.PostJSON(ctx, "/api/recommendations", tt.body, &got)
			if err != nil {
				t.Fatalf("PostJSON: %v", err)
			}
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
			}
			if got.Success == nil || *got.Success {
				t.Errorf("success = %v, want false", got.Success)
			}
			if got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
		})
	}
}

func Test_application_browse(t *testing.T) {
	ctx := t.Context()
	client := startServer(t)

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
		wantNames  []string
		wantError  string
	}{
		{
			name:       "endurance for beginners",
			path:       "/api/recommend",
			body:       map[string]any{"workoutType": "endurance", "difficultyLevel": "beginner"},
			wantStatus: http.StatusOK,
			wantNames:  []string{"Brisk Walking"},
		},
		{
			name:       "all types advanced",
			path:       "/api/recommend",
			body:       map[string]any{"workoutType": "semua", "difficultyLevel": "advanced"},
			wantStatus: http.StatusOK,
			wantNames:  []string{"Pull-ups", "Dips", "Burpees", "Tuck Jumps"},
		},
		{
			name:       "unknown level matches nothing",
			path:       "/api/recommend",
			body:       map[string]any{"workoutType": "strength", "difficultyLevel": "expert"},
			wantStatus: http.StatusOK,
			wantNames:  []string{},
		},
		{
			name:       "legacy path",
			path:       "/recommend",
			body:       map[string]any{"workoutType": "endurance", "difficultyLevel": "all"},
			wantStatus: http.StatusOK,
			wantNames:  []string{"Jogging", "Berenang", "Bersepeda", "Brisk Walking"},
		},
		{
			name:       "missing type",
			path:       "/api/recommend",
			body:       map[string]any{"difficultyLevel": "beginner"},
			wantStatus: http.StatusBadRequest,
			wantNames:  []string{},
			wantError:  "Workout type is required",
		},
		{
			name:       "unknown type",
			path:       "/api/recommend",
			body:       map[string]any{"workoutType": "yoga"},
			wantStatus: http.StatusBadRequest,
			wantNames:  []string{},
			wantError:  "Invalid workout type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got browseResult
			status, err := client.PostJSON(ctx, tt.path, tt.body, &got)
			if err != nil {
				t.Fatalf("PostJSON: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if got.Success != (tt.wantError == "") {
				t.Errorf("success = %t, want %t", got.Success, tt.wantError == "")
			}
			if got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
			if diff := cmp.Diff(tt.wantNames, names(got.Recommendations)); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
