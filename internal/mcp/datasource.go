package mcp

import (
	"context"
	"time"

	"github.com/meltforce/fittrack/internal/food"
	"github.com/meltforce/fittrack/internal/goals"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/workout"
)

// DataSource abstracts the data layer for MCP tools. Both Services (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ActiveWorkout(ctx context.Context) (*models.Session, error)
	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	History(ctx context.Context) ([]models.Session, error)
	GetFoodEntriesForDate(ctx context.Context, day time.Time) ([]models.FoodEntry, error)
	DailyTotals(ctx context.Context, day time.Time) (models.NutritionTotals, error)
	GetGoals(ctx context.Context) ([]models.Goal, error)
	GetDailyGoals(ctx context.Context) ([]models.Goal, error)
	GetNutritionGoals(ctx context.Context) (models.NutritionGoals, error)
}

// Services is the in-process DataSource backed by the domain services.
type Services struct {
	Workouts *workout.Service
	Food     *food.Service
	Goals    *goals.Service
}

// Compile-time check: Services satisfies DataSource.
var _ DataSource = Services{}

func (s Services) ActiveWorkout(ctx context.Context) (*models.Session, error) {
	return s.Workouts.ActiveWorkout(ctx)
}

func (s Services) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	return s.Workouts.ListTemplates(ctx)
}

func (s Services) History(ctx context.Context) ([]models.Session, error) {
	return s.Workouts.History(ctx)
}

func (s Services) GetFoodEntriesForDate(ctx context.Context, day time.Time) ([]models.FoodEntry, error) {
	return s.Food.GetFoodEntriesForDate(ctx, day)
}

func (s Services) DailyTotals(ctx context.Context, day time.Time) (models.NutritionTotals, error) {
	return s.Food.DailyTotals(ctx, day)
}

func (s Services) GetGoals(ctx context.Context) ([]models.Goal, error) {
	return s.Goals.GetGoals(ctx)
}

func (s Services) GetDailyGoals(ctx context.Context) ([]models.Goal, error) {
	return s.Goals.GetDailyGoals(ctx)
}

func (s Services) GetNutritionGoals(ctx context.Context) (models.NutritionGoals, error) {
	return s.Goals.GetNutritionGoals(ctx)
}
