package models

import "time"

type GoalType string

const (
	GoalFood    GoalType = "food"
	GoalWorkout GoalType = "workout"
	GoalWeight  GoalType = "weight"
)

type GoalFrequency string

const (
	FrequencyDaily   GoalFrequency = "daily"
	FrequencyWeekly  GoalFrequency = "weekly"
	FrequencyMonthly GoalFrequency = "monthly"
)

type GoalCategory string

const (
	CategoryMaintenance GoalCategory = "maintenance"
	CategoryImprovement GoalCategory = "improvement"
)

// Goal is a user-defined target tracked over a date range.
// At most one active goal of type weight exists at a time.
type Goal struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Type      GoalType      `json:"type"`
	Target    float64       `json:"target"`
	Current   float64       `json:"current"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Unit      string        `json:"unit"`
	Frequency GoalFrequency `json:"frequency"`
	Category  GoalCategory  `json:"category"`
	IsActive  bool          `json:"isActive"`
}

// Covers reports whether day falls within the goal's [StartDate, EndDate]
// window, compared by calendar day in day's location.
func (g *Goal) Covers(day time.Time) bool {
	d := StartOfDay(day)
	start := StartOfDay(g.StartDate.In(day.Location()))
	end := StartOfDay(g.EndDate.In(day.Location()))
	return !d.Before(start) && !d.After(end)
}

// Progress returns Current/Target clamped to [0, 1].
func (g *Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Current / g.Target
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// NutritionGoals holds the user's daily nutrition and weight targets.
type NutritionGoals struct {
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	TargetWeight *float64 `json:"targetWeight,omitempty"`
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
