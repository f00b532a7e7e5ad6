// Package workout manages workout templates and the single in-progress
// session built from one.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

var (
	ErrNoActiveSession   = errors.New("no active workout")
	ErrSessionInProgress = errors.New("a workout is already in progress")
	ErrSetNotFound       = errors.New("set not found")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrSessionNotFound   = errors.New("workout not found")
	ErrInvalidTemplate   = errors.New("invalid template")
)

// Service owns the active-workout slot. Every mutation reads the slot, checks
// it and writes the next state inside one store transaction, so services that
// share a store cannot overwrite each other's session.
type Service struct {
	repo *storage.Repository
	log  *slog.Logger
	now  func() time.Time

	mu sync.Mutex
}

// NewService creates a workout service over repo.
func NewService(repo *storage.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// inProgress loads the active slot within c and returns it only when a
// session is running.
func inProgress(ctx context.Context, c storage.Collections) (*models.Session, error) {
	cur, err := c.GetActiveWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active workout: %w", err)
	}
	if cur == nil || cur.Status != models.StatusInProgress {
		return nil, nil
	}
	return cur, nil
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrSessionInProgress) ||
		errors.Is(err, ErrSetNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// ActiveWorkout returns the in-progress session, or nil.
func (s *Service) ActiveWorkout(ctx context.Context) (*models.Session, error) {
	sess, err := s.repo.GetActiveWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active workout: %w", err)
	}
	if sess == nil || sess.Status != models.StatusInProgress {
		return nil, nil
	}
	return sess, nil
}

// StartWorkout builds a new session from the template and stores it as the
// active workout. It refuses to replace a session that is still in progress.
func (s *Service) StartWorkout(ctx context.Context, templateID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	var sess *models.Session
	err = s.repo.Update(ctx, func(c storage.Collections) error {
		cur, err := inProgress(ctx, c)
		if err != nil {
			return err
		}
		if cur != nil {
			return ErrSessionInProgress
		}
		templates, err := c.GetTemplates(ctx)
		if err != nil {
			return fmt.Errorf("loading templates: %w", err)
		}
		tmpl, ok := templateByID(templates, templateID)
		if !ok {
			return ErrTemplateNotFound
		}
		sess = newSession(id.String(), tmpl, s.now())
		return c.SaveActiveWorkout(ctx, sess)
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		s.log.Error("persisting new workout", "template_id", templateID, "error", err)
		return nil, fmt.Errorf("starting workout: %w", err)
	}
	s.log.Info("workout started", "session_id", sess.ID, "template", sess.Template.Name)
	return sess, nil
}

func newSession(id string, tmpl models.WorkoutTemplate, now time.Time) *models.Session {
	sess := &models.Session{
		ID:         id,
		TemplateID: tmpl.ID,
		Template:   tmpl.Clone(),
		StartTime:  now,
		Status:     models.StatusInProgress,
		Exercises:  make([]models.SessionExercise, len(tmpl.Exercises)),
	}
	for i, ex := range tmpl.Exercises {
		sets := make([]models.SessionSet, len(ex.Sets))
		for j, planned := range ex.Sets {
			sets[j] = models.SessionSet{PlannedSet: planned}
		}
		sess.Exercises[i] = models.SessionExercise{
			ExerciseID: ex.ExerciseID,
			Name:       ex.Name,
			Sets:       sets,
		}
	}
	return sess
}

// mutate applies fn to the stored active session and writes the result back
// in the same transaction. On any error the stored state is unchanged.
func (s *Service) mutate(ctx context.Context, op string, fn func(sess *models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *models.Session
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		cur, err := inProgress(ctx, c)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrNoActiveSession
		}
		if err := fn(cur); err != nil {
			return err
		}
		next = cur
		return c.SaveActiveWorkout(ctx, next)
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		s.log.Error("persisting active workout", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return next, nil
}

func setAt(sess *models.Session, exIdx, setIdx int) (*models.SessionSet, error) {
	if exIdx < 0 || exIdx >= len(sess.Exercises) {
		return nil, fmt.Errorf("exercise %d: %w", exIdx, ErrSetNotFound)
	}
	sets := sess.Exercises[exIdx].Sets
	if setIdx < 0 || setIdx >= len(sets) {
		return nil, fmt.Errorf("exercise %d set %d: %w", exIdx, setIdx, ErrSetNotFound)
	}
	return &sets[setIdx], nil
}

// UpdateSetWeight records the weight actually lifted. No range checks.
func (s *Service) UpdateSetWeight(ctx context.Context, exIdx, setIdx int, weight float64) (*models.Session, error) {
	return s.mutate(ctx, "updating set weight", func(sess *models.Session) error {
		set, err := setAt(sess, exIdx, setIdx)
		if err != nil {
			return err
		}
		set.ActualWeight = &weight
		return nil
	})
}

// UpdateSetReps records the reps actually performed. No range checks.
func (s *Service) UpdateSetReps(ctx context.Context, exIdx, setIdx int, reps int) (*models.Session, error) {
	return s.mutate(ctx, "updating set reps", func(sess *models.Session) error {
		set, err := setAt(sess, exIdx, setIdx)
		if err != nil {
			return err
		}
		set.ActualReps = &reps
		return nil
	})
}

// UpdateSet records weight and reps in one write. A nil value leaves that
// field unchanged.
func (s *Service) UpdateSet(ctx context.Context, exIdx, setIdx int, weight *float64, reps *int) (*models.Session, error) {
	return s.mutate(ctx, "updating set", func(sess *models.Session) error {
		set, err := setAt(sess, exIdx, setIdx)
		if err != nil {
			return err
		}
		if weight != nil {
			w := *weight
			set.ActualWeight = &w
		}
		if reps != nil {
			r := *reps
			set.ActualReps = &r
		}
		return nil
	})
}

// CompleteSet toggles the completed flag. Either way the set stops being a
// failure: a completed set is not failed, and an un-completed set is blank.
func (s *Service) CompleteSet(ctx context.Context, exIdx, setIdx int) (*models.Session, error) {
	return s.mutate(ctx, "completing set", func(sess *models.Session) error {
		set, err := setAt(sess, exIdx, setIdx)
		if err != nil {
			return err
		}
		set.Completed = !set.Completed
		set.IsFailure = false
		return nil
	})
}

// MarkSetAsFailure toggles the failure flag. Marking a failure clears
// completed; clearing the failure does not bring completed back.
func (s *Service) MarkSetAsFailure(ctx context.Context, exIdx, setIdx int) (*models.Session, error) {
	return s.mutate(ctx, "marking set as failure", func(sess *models.Session) error {
		set, err := setAt(sess, exIdx, setIdx)
		if err != nil {
			return err
		}
		set.IsFailure = !set.IsFailure
		if set.IsFailure {
			set.Completed = false
		}
		return nil
	})
}

// AddSet appends a set cloned from the exercise's last planned set.
func (s *Service) AddSet(ctx context.Context, exIdx int) (*models.Session, error) {
	return s.mutate(ctx, "adding set", func(sess *models.Session) error {
		if exIdx < 0 || exIdx >= len(sess.Exercises) {
			return fmt.Errorf("exercise %d: %w", exIdx, ErrSetNotFound)
		}
		ex := &sess.Exercises[exIdx]
		var planned models.PlannedSet
		if n := len(ex.Sets); n > 0 {
			planned = ex.Sets[n-1].PlannedSet
		}
		ex.Sets = append(ex.Sets, models.SessionSet{PlannedSet: planned})
		return nil
	})
}

// DeleteSet removes a set. Callers are expected to have confirmed it.
func (s *Service) DeleteSet(ctx context.Context, exIdx, setIdx int) (*models.Session, error) {
	return s.mutate(ctx, "deleting set", func(sess *models.Session) error {
		if _, err := setAt(sess, exIdx, setIdx); err != nil {
			return err
		}
		ex := &sess.Exercises[exIdx]
		ex.Sets = append(ex.Sets[:setIdx], ex.Sets[setIdx+1:]...)
		return nil
	})
}

// PauseWorkout stops the elapsed-time clock. Pausing twice is a no-op.
func (s *Service) PauseWorkout(ctx context.Context) (*models.Session, error) {
	return s.mutate(ctx, "pausing workout", func(sess *models.Session) error {
		if sess.PausedAt == nil {
			now := s.now()
			sess.PausedAt = &now
		}
		return nil
	})
}

// ResumeWorkout restarts the clock, folding the pause into PausedSeconds.
func (s *Service) ResumeWorkout(ctx context.Context) (*models.Session, error) {
	return s.mutate(ctx, "resuming workout", func(sess *models.Session) error {
		foldPause(sess, s.now())
		return nil
	})
}

func foldPause(sess *models.Session, now time.Time) {
	if sess.PausedAt == nil {
		return
	}
	if d := now.Sub(*sess.PausedAt); d > 0 {
		sess.PausedSeconds += d.Seconds()
	}
	sess.PausedAt = nil
}

// terminate ends the active session with status. When record is set the
// session is appended to history in the same transaction that clears the slot.
func (s *Service) terminate(ctx context.Context, status models.SessionStatus, record bool) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		done *models.Session
		end  time.Time
	)
	err := s.repo.Update(ctx, func(c storage.Collections) error {
		cur, err := inProgress(ctx, c)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrNoActiveSession
		}

		end = s.now()
		if end.Before(cur.StartTime) {
			end = cur.StartTime
		}
		foldPause(cur, end)
		cur.EndTime = &end
		cur.Status = status
		done = cur

		if record {
			history, err := c.GetWorkoutHistory(ctx)
			if err != nil {
				return err
			}
			if err := c.SaveWorkoutHistory(ctx, append(history, *done)); err != nil {
				return err
			}
		}
		return c.ClearActiveWorkout(ctx)
	})
	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		s.log.Error("ending workout", "status", status, "error", err)
		return nil, fmt.Errorf("ending workout: %w", err)
	}

	s.log.Info("workout ended", "session_id", done.ID, "status", status,
		"elapsed", done.Elapsed(end).Round(time.Second).String())
	return done, nil
}

// FinishWorkout completes the active session and moves it into history.
func (s *Service) FinishWorkout(ctx context.Context) (*models.Session, error) {
	return s.terminate(ctx, models.StatusCompleted, true)
}

// CancelWorkout discards the active session without recording it.
func (s *Service) CancelWorkout(ctx context.Context) (*models.Session, error) {
	return s.terminate(ctx, models.StatusCancelled, false)
}

// History returns completed sessions, most recent first.
func (s *Service) History(ctx context.Context) ([]models.Session, error) {
	history, err := s.repo.GetWorkoutHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workout history: %w", err)
	}
	out := make([]models.Session, len(history))
	for i := range history {
		out[len(history)-1-i] = history[i]
	}
	return out, nil
}

// DeleteHistoryEntry removes a completed session from history.
func (s *Service) DeleteHistoryEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Update(ctx, func(c storage.Collections) error {
		history, err := c.GetWorkoutHistory(ctx)
		if err != nil {
			return err
		}
		for i := range history {
			if history[i].ID == id {
				return c.SaveWorkoutHistory(ctx, append(history[:i], history[i+1:]...))
			}
		}
		return ErrSessionNotFound
	})
}
