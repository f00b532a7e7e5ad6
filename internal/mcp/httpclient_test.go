package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths, query params and key.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("X-API-Key = %q, want k", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestActiveWorkoutNull verifies a null body decodes to no session.
func TestActiveWorkoutNull(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workout/active": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, nil)
		},
	})
	defer ts.Close()

	sess, err := NewHTTPClient(ts.URL, "k").ActiveWorkout(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("session = %+v, want nil", sess)
	}
}

// TestFoodForDate verifies the date query param and array parsing.
func TestFoodForDate(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/food": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("date"); got != "2026-05-12" {
				t.Errorf("date=%q, want 2026-05-12", got)
			}
			writeTestJSON(t, w, []models.FoodEntry{{ID: "a", Name: "Oats", Calories: 300}})
		},
		"/api/v1/food/totals": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.NutritionTotals{Date: r.URL.Query().Get("date"), Entries: 1, Calories: 300})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL+"/", "k")
	day := time.Date(2026, 5, 12, 20, 0, 0, 0, time.UTC)

	entries, err := client.GetFoodEntriesForDate(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "Oats" {
		t.Errorf("entries = %+v", entries)
	}

	totals, err := client.DailyTotals(context.Background(), day)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Date != "2026-05-12" || totals.Calories != 300 {
		t.Errorf("totals = %+v", totals)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses become errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/goals": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
		},
	})
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL, "k").GetGoals(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
