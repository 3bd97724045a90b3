package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/workout"
)

func newTestSource(t *testing.T) (*LocalSource, *workout.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cat := catalog.New()
	store := workout.NewStore(cat, nil, log)
	return NewLocalSource(cat, store), store
}

// TestLocalSourceListExercises verifies the local source exposes the full catalog.
func TestLocalSourceListExercises(t *testing.T) {
	src, _ := newTestSource(t)

	exercises, err := src.ListExercises(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 6 {
		t.Fatalf("got %d exercises, want 6", len(exercises))
	}
}

// TestLocalSourceActiveWorkout verifies nil is returned when no session is
// in progress and the session once one is started.
func TestLocalSourceActiveWorkout(t *testing.T) {
	src, store := newTestSource(t)
	ctx := context.Background()

	session, err := src.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}

	if _, err := store.StartSession([]string{"deadlift"}); err != nil {
		t.Fatal(err)
	}
	session, err = src.ActiveWorkout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if session == nil {
		t.Fatal("expected active session")
	}
	if len(session.Exercises) != 1 || session.Exercises[0].ExerciseID != "deadlift" {
		t.Errorf("exercises = %+v, want single deadlift record", session.Exercises)
	}
}

// TestLocalSourceHistory verifies derived history reflects saved sessions
// and that unknown exercise IDs are rejected.
func TestLocalSourceHistory(t *testing.T) {
	src, store := newTestSource(t)
	ctx := context.Background()

	points, err := src.GetExerciseHistory(ctx, "bench-press")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 0 {
		t.Fatalf("fresh store: got %d points, want 0", len(points))
	}

	if _, err := store.StartSession([]string{"bench-press"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddSet("bench-press", 185, 10, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSession(ctx); err != nil {
		t.Fatal(err)
	}

	points, err = src.GetExerciseHistory(ctx, "bench-press")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].MaxWeight != 185 || points[0].TotalVolume != 1850 {
		t.Errorf("point = %+v, want maxWeight 185 totalVolume 1850", points[0])
	}

	if _, err := src.GetExerciseHistory(ctx, "nope"); !errors.Is(err, workout.ErrNotFound) {
		t.Errorf("unknown exercise error = %v, want ErrNotFound", err)
	}
}

// TestLocalSourceStats verifies aggregate stats over saved sessions.
func TestLocalSourceStats(t *testing.T) {
	src, store := newTestSource(t)
	ctx := context.Background()

	if _, err := store.StartSession([]string{"squats"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddSet("squats", 205, 5, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddSet("squats", 215, 3, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSession(ctx); err != nil {
		t.Fatal(err)
	}

	stats, err := src.GetExerciseStats(ctx, "squats")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", stats.Sessions)
	}
	if stats.Sets != 2 {
		t.Errorf("sets = %d, want 2", stats.Sets)
	}
	if stats.BestSetWeight != 215 {
		t.Errorf("bestSetWeight = %f, want 215", stats.BestSetWeight)
	}
}
