package mcp

import (
	"context"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/models"
	"github.com/openlift/liftlog/internal/workout"
)

// DataSource abstracts the data layer for MCP tools. Both LocalSource
// (in-process store) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	ListExercises(ctx context.Context) ([]models.ExerciseDefinition, error)
	GetExerciseHistory(ctx context.Context, exerciseID string) ([]models.HistoryPoint, error)
	GetExerciseStats(ctx context.Context, exerciseID string) (*workout.ExerciseStats, error)
	ListWorkouts(ctx context.Context) ([]models.WorkoutSession, error)
	// ActiveWorkout returns nil when no session is in progress.
	ActiveWorkout(ctx context.Context) (*models.WorkoutSession, error)
}

// LocalSource serves MCP tools straight from the in-process catalog and
// store.
type LocalSource struct {
	catalog  *catalog.Catalog
	store    *workout.Store
	analyzer *workout.Analyzer
}

var _ DataSource = (*LocalSource)(nil)

func NewLocalSource(cat *catalog.Catalog, store *workout.Store) *LocalSource {
	return &LocalSource{
		catalog:  cat,
		store:    store,
		analyzer: workout.NewAnalyzer(store),
	}
}

func (l *LocalSource) ListExercises(context.Context) ([]models.ExerciseDefinition, error) {
	return l.catalog.List(), nil
}

func (l *LocalSource) GetExerciseHistory(_ context.Context, exerciseID string) ([]models.HistoryPoint, error) {
	if _, ok := l.catalog.Lookup(exerciseID); !ok {
		return nil, workout.ErrNotFound
	}
	return l.store.GetExerciseHistory(exerciseID), nil
}

func (l *LocalSource) GetExerciseStats(_ context.Context, exerciseID string) (*workout.ExerciseStats, error) {
	if _, ok := l.catalog.Lookup(exerciseID); !ok {
		return nil, workout.ErrNotFound
	}
	stats := l.analyzer.ExerciseStats(exerciseID)
	return &stats, nil
}

func (l *LocalSource) ListWorkouts(context.Context) ([]models.WorkoutSession, error) {
	return l.store.History(), nil
}

func (l *LocalSource) ActiveWorkout(context.Context) (*models.WorkoutSession, error) {
	session, ok := l.store.ActiveSession()
	if !ok {
		return nil, nil
	}
	return &session, nil
}
