package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/myrjola/fitrec/internal/testhelpers"
)

func Test_application_timeout(t *testing.T) {
	tests := []struct {
		name     string
		sleep    time.Duration
		timesOut bool
	}{
		{name: "completes within timeout", sleep: 500 * time.Millisecond, timesOut: false},
		{name: "times out", sleep: 3 * time.Second, timesOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				app := &application{ //nolint:exhaustruct // this is a test
					logger:         testhelpers.NewLogger(testhelpers.NewWriter(t)),
					requestTimeout: 2 * time.Second,
				}
				handler := app.timeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					select {
					case <-time.After(tt.sleep):
						app.healthy(w, r)
					case <-r.Context().Done():
					}
				}))

				rr := httptest.NewRecorder()
				handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/healthy", nil))

				if tt.timesOut {
					if rr.Code != http.StatusServiceUnavailable {
						t.Errorf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
					}
					if got := rr.Body.String(); got != timeoutBody {
						t.Errorf("body = %q, want %q", got, timeoutBody)
					}
					return
				}
				if rr.Code != http.StatusOK {
					t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
				}
			})
		})
	}
}

func Test_application_recoverPanic(t *testing.T) {
	var logs bytes.Buffer
	app := &application{ //nolint:exhaustruct // this is a test
		logger:         testhelpers.NewLogger(&logs),
		requestTimeout: time.Second,
	}
	handler := app.logAndTraceRequest(app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("catalog exploded")
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader("{}")))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	var got errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Success || got.Error == "" {
		t.Errorf("body = %+v, want an unsuccessful response with an error message", got)
	}

	for _, want := range []string{"panic: catalog exploded", "middleware_test.go", "status_code=500", "trace_id="} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs do not contain %q:\n%s", want, logs.String())
		}
	}
}

func Test_secureHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	secureHeaders(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, header := range []string{"Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options"} {
		if rr.Header().Get(header) == "" {
			t.Errorf("header %s not set", header)
		}
	}
}
