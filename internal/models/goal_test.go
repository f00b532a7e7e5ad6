package models

import (
	"testing"
	"time"
)

// TestGoalCovers verifies the window is inclusive on both calendar days.
func TestGoalCovers(t *testing.T) {
	g := Goal{
		StartDate: time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 31, 9, 0, 0, 0, time.UTC),
	}
	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 4, 30, 23, 59, 0, 0, time.UTC), false},
		{time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := g.Covers(tt.day); got != tt.want {
			t.Errorf("Covers(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

// TestGoalProgress verifies the ratio is clamped to [0, 1].
func TestGoalProgress(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{50, 200, 0.25},
		{300, 200, 1},
		{-5, 200, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		g := Goal{Current: tt.current, Target: tt.target}
		if got := g.Progress(); got != tt.want {
			t.Errorf("Progress(%v/%v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

// TestSameDay verifies comparison happens in the second argument's location.
func TestSameDay(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*3600)
	a := time.Date(2026, 5, 11, 23, 30, 0, 0, time.UTC) // 01:30 on the 12th in CEST
	if !SameDay(a, time.Date(2026, 5, 12, 12, 0, 0, 0, berlin)) {
		t.Error("expected same day in CEST")
	}
	if SameDay(a, time.Date(2026, 5, 12, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected different day in UTC")
	}
}
