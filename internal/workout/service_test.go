package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
)

// flakyStore fails every write while failWrites is set.
type flakyStore struct {
	storage.Store
	failWrites bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.Put(ctx, key, value)
}

func (f *flakyStore) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.Store.Update(ctx, fn)
}

type fixture struct {
	svc   *Service
	repo  *storage.Repository
	store *flakyStore
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		store: &flakyStore{Store: db},
		clock: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
	}
	f.repo = storage.NewRepository(f.store)
	f.svc = NewService(f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) template(t *testing.T) *models.WorkoutTemplate {
	t.Helper()
	tmpl, err := f.svc.SaveTemplate(context.Background(), models.WorkoutTemplate{
		Name: "Push Day",
		Exercises: []models.TemplateExercise{
			{Name: "Bench Press", Sets: []models.PlannedSet{{Reps: 10, Weight: 20, RestTime: 90}, {Reps: 8, Weight: 40, RestTime: 90}}},
			{Name: "Overhead Press", Sets: []models.PlannedSet{{Reps: 8, Weight: 30, RestTime: 60}}},
			{Name: "Dips", Sets: []models.PlannedSet{{Reps: 12, RestTime: 60}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

func (f *fixture) start(t *testing.T) *models.Session {
	t.Helper()
	sess, err := f.svc.StartWorkout(context.Background(), f.template(t).ID)
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

// TestWorkoutScenario walks a session from template to history: start, log
// set 0 of exercise 0, finish.
func TestWorkoutScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.start(t)

	stored, err := f.repo.GetActiveWorkout(ctx)
	if err != nil || stored == nil {
		t.Fatalf("active slot = %v, %v", stored, err)
	}
	if stored.Status != models.StatusInProgress {
		t.Errorf("status = %q, want inProgress", stored.Status)
	}
	if len(stored.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(stored.Exercises))
	}
	for _, ex := range stored.Exercises {
		for _, set := range ex.Sets {
			if set.Completed || set.IsFailure || set.ActualReps != nil || set.ActualWeight != nil {
				t.Errorf("%s: set not blank: %+v", ex.Name, set)
			}
		}
	}

	if _, err := f.svc.UpdateSetReps(ctx, 0, 0, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.UpdateSetWeight(ctx, 0, 0, 40); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CompleteSet(ctx, 0, 0); err != nil {
		t.Fatal(err)
	}

	stored, err = f.repo.GetActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	set := stored.Exercises[0].Sets[0]
	if !set.Completed || set.ActualReps == nil || *set.ActualReps != 8 || set.ActualWeight == nil || *set.ActualWeight != 40 {
		t.Errorf("persisted set = %+v, want completed 8x40", set)
	}

	f.advance(45 * time.Minute)
	done, err := f.svc.FinishWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if done.EndTime == nil || done.EndTime.Before(done.StartTime) {
		t.Errorf("endTime = %v, startTime = %v", done.EndTime, done.StartTime)
	}

	active, err := f.repo.GetActiveWorkout(ctx)
	if err != nil || active != nil {
		t.Errorf("active slot after finish = %v, %v; want empty", active, err)
	}
	hist, err := f.svc.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].ID != sess.ID {
		t.Fatalf("history = %d entries, want the finished session once", len(hist))
	}

	// Terminal: nothing left to finish or mutate.
	if _, err := f.svc.FinishWorkout(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("second finish err = %v, want ErrNoActiveSession", err)
	}
	if _, err := f.svc.CompleteSet(ctx, 0, 0); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("mutate after finish err = %v, want ErrNoActiveSession", err)
	}
}

// TestCancelWorkout verifies cancel clears the slot without touching history.
func TestCancelWorkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	done, err := f.svc.CancelWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != models.StatusCancelled || done.EndTime == nil {
		t.Errorf("cancelled session = %+v", done)
	}
	active, _ := f.repo.GetActiveWorkout(ctx)
	if active != nil {
		t.Error("active slot not cleared")
	}
	hist, _ := f.repo.GetWorkoutHistory(ctx)
	if len(hist) != 0 {
		t.Errorf("history = %d entries, want 0", len(hist))
	}
}

// TestStartWhileInProgress verifies a running session is never silently replaced.
func TestStartWhileInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.start(t)

	if _, err := f.svc.StartWorkout(ctx, first.TemplateID); !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("err = %v, want ErrSessionInProgress", err)
	}
	active, err := f.svc.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != first.ID {
		t.Errorf("active = %s, want original %s", active.ID, first.ID)
	}
}

// TestServicesShareActiveSlot verifies two services over one store see each
// other's session, so neither can start over or end a session the other owns.
func TestServicesShareActiveSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tmpl := f.template(t)

	other := NewService(f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	other.now = f.svc.now
	if active, err := other.ActiveWorkout(ctx); err != nil || active != nil {
		t.Fatalf("other active = %v, %v; want none", active, err)
	}

	first, err := f.svc.StartWorkout(ctx, tmpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.StartWorkout(ctx, tmpl.ID); !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("other start err = %v, want ErrSessionInProgress", err)
	}
	stored, err := f.repo.GetActiveWorkout(ctx)
	if err != nil || stored == nil || stored.ID != first.ID {
		t.Fatalf("stored = %v, %v; want %s", stored, err, first.ID)
	}

	sess, err := other.CompleteSet(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != first.ID || !sess.Exercises[0].Sets[0].Completed {
		t.Errorf("other completed set on %s, want %s", sess.ID, first.ID)
	}
	active, err := f.svc.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !active.Exercises[0].Sets[0].Completed {
		t.Error("first service does not see the other's update")
	}

	if _, err := other.CancelWorkout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.FinishWorkout(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("finish after cancel err = %v, want ErrNoActiveSession", err)
	}
}

// TestStartUnknownTemplate verifies starting from a missing template fails cleanly.
func TestStartUnknownTemplate(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.StartWorkout(context.Background(), "missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}
}

// TestCompleteAndFailureExclusive verifies completed and isFailure are never
// both true after any toggle sequence.
func TestCompleteAndFailureExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	steps := []struct {
		name          string
		op            func() (*models.Session, error)
		wantCompleted bool
		wantFailure   bool
	}{
		{"complete", func() (*models.Session, error) { return f.svc.CompleteSet(ctx, 0, 0) }, true, false},
		{"fail clears completed", func() (*models.Session, error) { return f.svc.MarkSetAsFailure(ctx, 0, 0) }, false, true},
		{"complete clears failure", func() (*models.Session, error) { return f.svc.CompleteSet(ctx, 0, 0) }, true, false},
		{"uncomplete", func() (*models.Session, error) { return f.svc.CompleteSet(ctx, 0, 0) }, false, false},
		{"fail", func() (*models.Session, error) { return f.svc.MarkSetAsFailure(ctx, 0, 0) }, false, true},
		{"unfail does not restore completed", func() (*models.Session, error) { return f.svc.MarkSetAsFailure(ctx, 0, 0) }, false, false},
	}
	for _, st := range steps {
		sess, err := st.op()
		if err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		set := sess.Exercises[0].Sets[0]
		if set.Completed != st.wantCompleted || set.IsFailure != st.wantFailure {
			t.Errorf("%s: completed=%v isFailure=%v, want %v/%v",
				st.name, set.Completed, set.IsFailure, st.wantCompleted, st.wantFailure)
		}
		if set.Completed && set.IsFailure {
			t.Fatalf("%s: completed and isFailure both set", st.name)
		}
	}
}

// TestAddSetClonesLastPlanned verifies a new set copies the last set's plan
// and starts blank.
func TestAddSetClonesLastPlanned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	// Exercise 1 has a single planned set {8, 30}; mark it done first.
	if _, err := f.svc.UpdateSetReps(ctx, 1, 0, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CompleteSet(ctx, 1, 0); err != nil {
		t.Fatal(err)
	}
	sess, err := f.svc.AddSet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	sets := sess.Exercises[1].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	want := models.SessionSet{PlannedSet: models.PlannedSet{Reps: 8, Weight: 30, RestTime: 60}}
	if diff := cmp.Diff(want, sets[1]); diff != "" {
		t.Errorf("added set mismatch (-want +got):\n%s", diff)
	}
}

// TestDeleteSet verifies removal by index and out-of-range handling.
func TestDeleteSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	sess, err := f.svc.DeleteSet(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	sets := sess.Exercises[0].Sets
	if len(sets) != 1 || sets[0].Reps != 8 || sets[0].Weight != 40 {
		t.Errorf("remaining sets = %+v, want only the 8x40 set", sets)
	}

	if _, err := f.svc.DeleteSet(ctx, 0, 5); !errors.Is(err, ErrSetNotFound) {
		t.Errorf("err = %v, want ErrSetNotFound", err)
	}
	if _, err := f.svc.UpdateSetReps(ctx, 9, 0, 1); !errors.Is(err, ErrSetNotFound) {
		t.Errorf("err = %v, want ErrSetNotFound", err)
	}
}

// TestFailedPersistKeepsState verifies a write failure leaves the stored
// session untouched.
func TestFailedPersistKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	f.store.failWrites = true
	if _, err := f.svc.CompleteSet(ctx, 0, 0); !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want errDiskFull", err)
	}
	if _, err := f.svc.FinishWorkout(ctx); !errors.Is(err, errDiskFull) {
		t.Fatalf("finish err = %v, want errDiskFull", err)
	}

	active, err := f.svc.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.Status != models.StatusInProgress {
		t.Fatalf("active = %+v, want still in progress", active)
	}
	if active.Exercises[0].Sets[0].Completed {
		t.Error("set was completed despite failed write")
	}

	// Once storage recovers the same command succeeds.
	f.store.failWrites = false
	if _, err := f.svc.CompleteSet(ctx, 0, 0); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

// TestUpdateSetBothFields verifies weight and reps land together or not at all.
func TestUpdateSetBothFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)
	weight, reps := 42.5, 7

	f.store.failWrites = true
	if _, err := f.svc.UpdateSet(ctx, 0, 1, &weight, &reps); !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want errDiskFull", err)
	}
	f.store.failWrites = false
	active, err := f.svc.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if set := active.Exercises[0].Sets[1]; set.ActualWeight != nil || set.ActualReps != nil {
		t.Fatalf("set after failed write = %+v, want untouched", set)
	}

	sess, err := f.svc.UpdateSet(ctx, 0, 1, &weight, &reps)
	if err != nil {
		t.Fatal(err)
	}
	set := sess.Exercises[0].Sets[1]
	if set.ActualWeight == nil || *set.ActualWeight != 42.5 || set.ActualReps == nil || *set.ActualReps != 7 {
		t.Errorf("set = %+v, want weight 42.5 reps 7", set)
	}

	sess, err = f.svc.UpdateSet(ctx, 0, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if set := sess.Exercises[0].Sets[1]; set.ActualWeight == nil || set.ActualReps == nil {
		t.Errorf("nil values cleared fields: %+v", set)
	}
}

// TestPauseResumeElapsed verifies elapsed time excludes paused periods.
func TestPauseResumeElapsed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.start(t)

	f.advance(10 * time.Minute)
	if _, err := f.svc.PauseWorkout(ctx); err != nil {
		t.Fatal(err)
	}
	f.advance(5 * time.Minute)
	sess, err := f.svc.ResumeWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.advance(20 * time.Minute)

	if got := sess.Elapsed(f.clock); got != 30*time.Minute {
		t.Errorf("elapsed = %v, want 30m", got)
	}

	done, err := f.svc.FinishWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := done.Elapsed(f.clock.Add(time.Hour)); got != 30*time.Minute {
		t.Errorf("finished elapsed = %v, want 30m", got)
	}
}

// TestServiceReloadsActiveWorkout verifies a new service picks up the session
// left in the store, as after an app restart.
func TestServiceReloadsActiveWorkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.start(t)

	fresh := NewService(f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	active, err := fresh.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.ID != sess.ID {
		t.Fatalf("reloaded active = %+v, want %s", active, sess.ID)
	}
}

// TestDeleteHistoryEntry verifies a finished session can be removed from history.
func TestDeleteHistoryEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.start(t)
	if _, err := f.svc.FinishWorkout(ctx); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.DeleteHistoryEntry(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if err := f.svc.DeleteHistoryEntry(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	hist, _ := f.svc.History(ctx)
	if len(hist) != 0 {
		t.Errorf("history = %d entries, want 0", len(hist))
	}
}
