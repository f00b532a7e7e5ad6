package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meltforce/fittrack/internal/models"
)

// Collections gives typed access to the logical collections through a Tx.
// Absent documents read as their zero value.
type Collections struct {
	tx Tx
}

// Repository is Collections over a Store, plus atomic multi-key updates.
type Repository struct {
	Collections
	store Store
}

// NewRepository wraps a Store with typed collection accessors.
func NewRepository(store Store) *Repository {
	return &Repository{Collections: Collections{tx: store}, store: store}
}

// Update runs fn with collections bound to a single transaction.
func (r *Repository) Update(ctx context.Context, fn func(c Collections) error) error {
	return r.store.Update(ctx, func(tx Tx) error {
		return fn(Collections{tx: tx})
	})
}

func getJSON[T any](ctx context.Context, tx Tx, key string) (T, error) {
	var v T
	data, err := tx.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, nil
}

func putJSON(ctx context.Context, tx Tx, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return tx.Put(ctx, key, data)
}

func (c Collections) GetTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	return getJSON[[]models.WorkoutTemplate](ctx, c.tx, KeyTemplates)
}

func (c Collections) SaveTemplates(ctx context.Context, templates []models.WorkoutTemplate) error {
	return putJSON(ctx, c.tx, KeyTemplates, templates)
}

// GetActiveWorkout returns the active session, or nil when the slot is empty.
func (c Collections) GetActiveWorkout(ctx context.Context) (*models.Session, error) {
	return getJSON[*models.Session](ctx, c.tx, KeyActiveWorkout)
}

func (c Collections) SaveActiveWorkout(ctx context.Context, s *models.Session) error {
	if s == nil {
		return c.ClearActiveWorkout(ctx)
	}
	return putJSON(ctx, c.tx, KeyActiveWorkout, s)
}

func (c Collections) ClearActiveWorkout(ctx context.Context) error {
	return c.tx.Delete(ctx, KeyActiveWorkout)
}

func (c Collections) GetWorkoutHistory(ctx context.Context) ([]models.Session, error) {
	return getJSON[[]models.Session](ctx, c.tx, KeyWorkoutHistory)
}

func (c Collections) SaveWorkoutHistory(ctx context.Context, history []models.Session) error {
	return putJSON(ctx, c.tx, KeyWorkoutHistory, history)
}

// GetAPIKey returns the stored image-recognition API key ("" when unset).
func (c Collections) GetAPIKey(ctx context.Context) (string, error) {
	return getJSON[string](ctx, c.tx, KeyAPIKey)
}

func (c Collections) SaveAPIKey(ctx context.Context, key string) error {
	return putJSON(ctx, c.tx, KeyAPIKey, key)
}

func (c Collections) GetFoodHistory(ctx context.Context) ([]models.FoodEntry, error) {
	return getJSON[[]models.FoodEntry](ctx, c.tx, KeyFoodHistory)
}

func (c Collections) SaveFoodHistory(ctx context.Context, entries []models.FoodEntry) error {
	return putJSON(ctx, c.tx, KeyFoodHistory, entries)
}

func (c Collections) GetGoals(ctx context.Context) ([]models.Goal, error) {
	return getJSON[[]models.Goal](ctx, c.tx, KeyGoals)
}

func (c Collections) SaveGoals(ctx context.Context, goals []models.Goal) error {
	return putJSON(ctx, c.tx, KeyGoals, goals)
}

func (c Collections) GetNutritionGoals(ctx context.Context) (models.NutritionGoals, error) {
	return getJSON[models.NutritionGoals](ctx, c.tx, KeyNutritionGoals)
}

func (c Collections) SaveNutritionGoals(ctx context.Context, g models.NutritionGoals) error {
	return putJSON(ctx, c.tx, KeyNutritionGoals, g)
}
