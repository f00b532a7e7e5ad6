package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored documents.
type DataStats struct {
	Templates     int        `json:"templates"`
	Workouts      int        `json:"workouts"`
	TotalSets     int        `json:"total_sets"`
	FoodEntries   int        `json:"food_entries"`
	Goals         int        `json:"goals"`
	ActiveGoals   int        `json:"active_goals"`
	ActiveWorkout bool       `json:"active_workout"`
	EarliestData  *time.Time `json:"earliest_data"`
	LatestData    *time.Time `json:"latest_data"`
}

// GetDataStats reads every collection in one transaction and summarizes it.
func (r *Repository) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}
	err := r.Update(ctx, func(c Collections) error {
		templates, err := c.GetTemplates(ctx)
		if err != nil {
			return fmt.Errorf("counting templates: %w", err)
		}
		stats.Templates = len(templates)

		history, err := c.GetWorkoutHistory(ctx)
		if err != nil {
			return fmt.Errorf("counting workouts: %w", err)
		}
		stats.Workouts = len(history)
		for _, sess := range history {
			for _, ex := range sess.Exercises {
				stats.TotalSets += len(ex.Sets)
			}
			stats.observe(sess.StartTime)
		}

		entries, err := c.GetFoodHistory(ctx)
		if err != nil {
			return fmt.Errorf("counting food entries: %w", err)
		}
		stats.FoodEntries = len(entries)
		for _, e := range entries {
			stats.observe(e.Date)
		}

		goals, err := c.GetGoals(ctx)
		if err != nil {
			return fmt.Errorf("counting goals: %w", err)
		}
		stats.Goals = len(goals)
		for _, g := range goals {
			if g.IsActive {
				stats.ActiveGoals++
			}
		}

		active, err := c.GetActiveWorkout(ctx)
		if err != nil {
			return fmt.Errorf("reading active workout: %w", err)
		}
		stats.ActiveWorkout = active != nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *DataStats) observe(t time.Time) {
	if t.IsZero() {
		return
	}
	if s.EarliestData == nil || t.Before(*s.EarliestData) {
		s.EarliestData = &t
	}
	if s.LatestData == nil || t.After(*s.LatestData) {
		s.LatestData = &t
	}
}
