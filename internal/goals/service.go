// Package goals tracks user goals and derives their daily progress from the
// food log and workout history.
package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidGoal  = errors.New("invalid goal")
)

// Service manages goals stored in the userGoals document.
type Service struct {
	repo *storage.Repository
	log  *slog.Logger
	now  func() time.Time

	mu sync.Mutex
}

// NewService creates a goals service over repo.
func NewService(repo *storage.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

func validate(g *models.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	}
	switch g.Type {
	case models.GoalFood, models.GoalWorkout, models.GoalWeight:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidGoal, g.Type)
	}
	switch g.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidGoal, g.Frequency)
	}
	switch g.Category {
	case models.CategoryMaintenance, models.CategoryImprovement:
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidGoal, g.Category)
	}
	if g.EndDate.Before(g.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidGoal)
	}
	return nil
}

// SaveGoal inserts or replaces a goal by id. Activating a weight goal
// deactivates every other weight goal. A new goal starting today gets its
// current value computed once from today's history.
func (s *Service) SaveGoal(ctx context.Context, g models.Goal) (*models.Goal, error) {
	if err := validate(&g); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		goals, err := c.GetGoals(ctx)
		if err != nil {
			return err
		}

		idx := -1
		if g.ID != "" {
			for i := range goals {
				if goals[i].ID == g.ID {
					idx = i
					break
				}
			}
		} else {
			g.ID = uuid.NewString()
		}

		if idx < 0 && models.SameDay(g.StartDate, now) {
			current, ok, err := todayProgress(ctx, c, g.Type, now)
			if err != nil {
				return err
			}
			if ok {
				g.Current = current
			}
		}

		if g.Type == models.GoalWeight && g.IsActive {
			for i := range goals {
				if goals[i].Type == models.GoalWeight && goals[i].ID != g.ID {
					goals[i].IsActive = false
				}
			}
		}

		if idx >= 0 {
			goals[idx] = g
		} else {
			goals = append(goals, g)
		}
		return c.SaveGoals(ctx, goals)
	})
	if err != nil {
		return nil, fmt.Errorf("saving goal: %w", err)
	}
	return &g, nil
}

// DeleteGoal removes a goal by id.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Update(ctx, func(c storage.Collections) error {
		goals, err := c.GetGoals(ctx)
		if err != nil {
			return err
		}
		for i := range goals {
			if goals[i].ID == id {
				return c.SaveGoals(ctx, append(goals[:i], goals[i+1:]...))
			}
		}
		return ErrGoalNotFound
	})
}

// GetGoals returns every goal.
func (s *Service) GetGoals(ctx context.Context) ([]models.Goal, error) {
	goals, err := s.repo.GetGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	return goals, nil
}

// GetActiveGoals returns goals with IsActive set.
func (s *Service) GetActiveGoals(ctx context.Context) ([]models.Goal, error) {
	return s.filter(ctx, func(g *models.Goal) bool { return g.IsActive })
}

// GetDailyGoals returns active goals whose date window contains today.
func (s *Service) GetDailyGoals(ctx context.Context) ([]models.Goal, error) {
	today := s.now()
	return s.filter(ctx, func(g *models.Goal) bool { return g.IsActive && g.Covers(today) })
}

func (s *Service) filter(ctx context.Context, keep func(g *models.Goal) bool) ([]models.Goal, error) {
	goals, err := s.GetGoals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Goal, 0, len(goals))
	for i := range goals {
		if keep(&goals[i]) {
			out = append(out, goals[i])
		}
	}
	return out, nil
}

// UpdateGoalProgress overwrites a goal's current value.
func (s *Service) UpdateGoalProgress(ctx context.Context, id string, value float64) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Goal
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		goals, err := c.GetGoals(ctx)
		if err != nil {
			return err
		}
		for i := range goals {
			if goals[i].ID == id {
				goals[i].Current = value
				updated = goals[i]
				return c.SaveGoals(ctx, goals)
			}
		}
		return ErrGoalNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateTodayProgress recomputes current for every active food and workout
// goal from today's history. Weight goals are left as entered.
func (s *Service) UpdateTodayProgress(ctx context.Context) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var active []models.Goal
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		goals, err := c.GetGoals(ctx)
		if err != nil {
			return err
		}
		for i := range goals {
			if !goals[i].IsActive {
				continue
			}
			current, ok, err := todayProgress(ctx, c, goals[i].Type, now)
			if err != nil {
				return err
			}
			if ok {
				goals[i].Current = current
			}
			active = append(active, goals[i])
		}
		return c.SaveGoals(ctx, goals)
	})
	if err != nil {
		return nil, fmt.Errorf("refreshing goal progress: %w", err)
	}
	s.log.Info("goal progress refreshed", "active_goals", len(active))
	return active, nil
}

// todayProgress aggregates today's history for a goal type: calories eaten
// for food goals, completed sessions for workout goals. ok is false for
// types that are never derived.
func todayProgress(ctx context.Context, c storage.Collections, typ models.GoalType, now time.Time) (float64, bool, error) {
	switch typ {
	case models.GoalFood:
		entries, err := c.GetFoodHistory(ctx)
		if err != nil {
			return 0, false, err
		}
		var calories float64
		for _, e := range entries {
			if models.SameDay(e.Date, now) {
				calories += e.Calories
			}
		}
		return calories, true, nil
	case models.GoalWorkout:
		history, err := c.GetWorkoutHistory(ctx)
		if err != nil {
			return 0, false, err
		}
		var count float64
		for _, sess := range history {
			if sess.Status == models.StatusCompleted && models.SameDay(sess.StartTime, now) {
				count++
			}
		}
		return count, true, nil
	}
	return 0, false, nil
}

// GetNutritionGoals returns the daily nutrition targets.
func (s *Service) GetNutritionGoals(ctx context.Context) (models.NutritionGoals, error) {
	return s.repo.GetNutritionGoals(ctx)
}

// SaveNutritionGoals replaces the daily nutrition targets.
func (s *Service) SaveNutritionGoals(ctx context.Context, g models.NutritionGoals) error {
	if g.Calories < 0 || g.Protein < 0 || g.Carbs < 0 || g.Fat < 0 {
		return fmt.Errorf("%w: nutrition targets must not be negative", ErrInvalidGoal)
	}
	return s.repo.SaveNutritionGoals(ctx, g)
}
