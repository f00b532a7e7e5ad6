package models

import "time"

// SessionStatus is the lifecycle state of a workout session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "inProgress"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

// PlannedSet is one set as written in a template.
type PlannedSet struct {
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	RestTime int     `json:"restTime"` // seconds
}

// TemplateExercise is an exercise and its planned sets within a template.
type TemplateExercise struct {
	ExerciseID string       `json:"exerciseId"`
	Name       string       `json:"name"`
	Sets       []PlannedSet `json:"sets"`
}

// WorkoutTemplate is a reusable, named plan used to start sessions.
type WorkoutTemplate struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Clone returns a deep copy of the template.
func (t WorkoutTemplate) Clone() WorkoutTemplate {
	out := t
	out.Exercises = make([]TemplateExercise, len(t.Exercises))
	for i, ex := range t.Exercises {
		out.Exercises[i] = ex
		out.Exercises[i].Sets = append([]PlannedSet(nil), ex.Sets...)
	}
	return out
}

// SessionSet is a planned set extended with what was actually performed.
// Completed and IsFailure are never both true.
type SessionSet struct {
	PlannedSet
	ActualWeight *float64 `json:"actualWeight,omitempty"`
	ActualReps   *int     `json:"actualReps,omitempty"`
	Completed    bool     `json:"completed"`
	IsFailure    bool     `json:"isFailure"`
}

// SessionExercise mirrors a template exercise inside a running session.
type SessionExercise struct {
	ExerciseID string       `json:"exerciseId"`
	Name       string       `json:"name"`
	Sets       []SessionSet `json:"sets"`
}

// Session is one performance of a workout derived from a template.
// EndTime is set iff Status is terminal.
type Session struct {
	ID            string            `json:"id"`
	TemplateID    string            `json:"templateId"`
	Template      WorkoutTemplate   `json:"template"`
	StartTime     time.Time         `json:"startTime"`
	EndTime       *time.Time        `json:"endTime,omitempty"`
	Status        SessionStatus     `json:"status"`
	Exercises     []SessionExercise `json:"exercises"`
	PausedAt      *time.Time        `json:"pausedAt,omitempty"`
	PausedSeconds float64           `json:"pausedSeconds"`
}

// IsTerminal reports whether the session has been finished or cancelled.
func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCancelled
}

// Elapsed returns the active workout time at now: wall-clock time since start
// minus time spent paused. Terminal sessions measure up to EndTime.
func (s *Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if s.PausedAt != nil && s.PausedAt.Before(end) {
		end = *s.PausedAt
	}
	d := end.Sub(s.StartTime) - time.Duration(s.PausedSeconds*float64(time.Second))
	if d < 0 {
		return 0
	}
	return d
}
