package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key holds no document.
var ErrNotFound = errors.New("document not found")

// Keys of the logical collections. Each holds one whole JSON document.
const (
	KeyTemplates      = "workoutTemplates"
	KeyActiveWorkout  = "activeWorkout"
	KeyWorkoutHistory = "completedWorkouts"
	KeyAPIKey         = "piclistApiKey"
	KeyFoodHistory    = "foodHistory"
	KeyGoals          = "userGoals"
	KeyNutritionGoals = "nutritionGoals"
)

// Tx reads and writes whole documents by key.
type Tx interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is a whole-document key-value store. Writes outside Update are
// last-write-wins; Update applies all of fn's writes or none of them.
type Store interface {
	Tx
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
