package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/models"
	"github.com/openlift/liftlog/internal/storage"
)

// Store is the single owner of session state: at most one active session
// and the append-only list of completed sessions. All mutation and
// derivation passes through it.
//
// One mutex guards the active slot and the history together, so SaveSession
// is atomic with respect to readers: no reader ever sees a session both
// saved and still active.
type Store struct {
	catalog *catalog.Catalog
	repo    storage.Repository // optional write-through; nil keeps history in memory only
	log     *slog.Logger

	mu      sync.Mutex
	active  *models.WorkoutSession
	history []models.WorkoutSession
}

// NewStore creates a store backed by the given catalog. repo may be nil.
func NewStore(cat *catalog.Catalog, repo storage.Repository, log *slog.Logger) *Store {
	return &Store{
		catalog: cat,
		repo:    repo,
		log:     log,
	}
}

// LoadHistory replaces the in-memory history with the sessions held by the
// repository, in save order. Call once at startup, before serving requests.
func (s *Store) LoadHistory(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("loading session history: %w", err)
	}

	s.mu.Lock()
	s.history = sessions
	s.mu.Unlock()

	s.log.Info("session history loaded", "sessions", len(sessions))
	return nil
}

// StartSession creates the active session dated now, with one empty record
// per exercise ID in selection order. It refuses to replace an in-progress
// session; save or discard it first.
func (s *Store) StartSession(exerciseIDs []string) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return models.WorkoutSession{}, ErrSessionActive
	}

	records := make([]models.ExerciseRecord, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		def, ok := s.catalog.Lookup(id)
		if !ok {
			return models.WorkoutSession{}, fmt.Errorf("starting session with exercise %q: %w", id, ErrNotFound)
		}
		records = append(records, models.ExerciseRecord{
			ExerciseID: def.ID,
			Name:       def.Name,
			Sets:       []models.SetEntry{},
		})
	}

	s.active = &models.WorkoutSession{
		ID:        uuid.New(),
		Date:      time.Now(),
		Exercises: records,
	}
	s.log.Info("session started", "id", s.active.ID, "exercises", len(records))
	return cloneSession(*s.active), nil
}

// SetSessionDate sets the active session's logical date, which the user may
// edit independently of when the session was created.
func (s *Store) SetSessionDate(date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoActiveSession
	}
	s.active.Date = date
	return nil
}

// AddSet appends a set to the named exercise's record in the active
// session. A zero date defaults to now.
func (s *Store) AddSet(exerciseID string, weight float64, reps int, date time.Time) (models.SetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.SetEntry{}, ErrNoActiveSession
	}
	rec := s.findRecord(exerciseID)
	if rec == nil {
		return models.SetEntry{}, fmt.Errorf("adding set for %q: %w", exerciseID, ErrNotFound)
	}

	if date.IsZero() {
		date = time.Now()
	}
	entry := models.SetEntry{
		ID:     uuid.New(),
		Weight: weight,
		Reps:   reps,
		Date:   date,
	}
	rec.Sets = append(rec.Sets, entry)
	return entry, nil
}

// UpdateSet edits an existing set in place. Nil weight or reps leaves that
// field unchanged. Existing sets are untouched on failure.
func (s *Store) UpdateSet(exerciseID string, setIndex int, weight *float64, reps *int) (models.SetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.SetEntry{}, ErrNoActiveSession
	}
	rec := s.findRecord(exerciseID)
	if rec == nil {
		return models.SetEntry{}, fmt.Errorf("updating set for %q: %w", exerciseID, ErrNotFound)
	}
	if setIndex < 0 || setIndex >= len(rec.Sets) {
		return models.SetEntry{}, fmt.Errorf("updating set %d of %q (have %d): %w",
			setIndex, exerciseID, len(rec.Sets), ErrSetIndexOutOfRange)
	}

	set := &rec.Sets[setIndex]
	if weight != nil {
		set.Weight = *weight
	}
	if reps != nil {
		set.Reps = *reps
	}
	return *set, nil
}

// SaveSession moves the active session to the end of the completed history
// and clears the active slot. With a repository configured, the session is
// persisted first; on failure the session stays active so nothing is lost.
func (s *Store) SaveSession(ctx context.Context) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.WorkoutSession{}, ErrNoActiveSession
	}

	session := *s.active
	if s.repo != nil {
		if err := s.repo.InsertSession(ctx, session); err != nil {
			return models.WorkoutSession{}, fmt.Errorf("persisting session: %w", err)
		}
	}

	s.history = append(s.history, session)
	s.active = nil
	s.log.Info("session saved", "id", session.ID, "date", session.Date, "exercises", len(session.Exercises))
	return cloneSession(session), nil
}

// DiscardSession clears the active session without recording it.
// Irreversible; a no-op when no session is active.
func (s *Store) DiscardSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return
	}
	s.log.Info("session discarded", "id", s.active.ID)
	s.active = nil
}

// GetExerciseHistory derives one progress point per completed session that
// contains the exercise, sorted ascending by session date (ties keep save
// order). The active session is never included. Pure read, recomputed per
// call.
func (s *Store) GetExerciseHistory(exerciseID string) []models.HistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	var points []models.HistoryPoint
	for _, session := range s.history {
		for _, rec := range session.Exercises {
			if rec.ExerciseID != exerciseID {
				continue
			}
			points = append(points, models.HistoryPoint{
				Date:        session.Date,
				MaxWeight:   rec.MaxWeight(),
				TotalVolume: rec.TotalVolume(),
			})
			break
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// ActiveSession returns a snapshot of the in-progress session, if any.
func (s *Store) ActiveSession() (models.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.WorkoutSession{}, false
	}
	return cloneSession(*s.active), true
}

// History returns a snapshot of the completed sessions in save order.
func (s *Store) History() []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WorkoutSession, len(s.history))
	for i, session := range s.history {
		out[i] = cloneSession(session)
	}
	return out
}

// findRecord returns a pointer into the active session's records. Caller
// holds s.mu.
func (s *Store) findRecord(exerciseID string) *models.ExerciseRecord {
	for i := range s.active.Exercises {
		if s.active.Exercises[i].ExerciseID == exerciseID {
			return &s.active.Exercises[i]
		}
	}
	return nil
}

func cloneSession(session models.WorkoutSession) models.WorkoutSession {
	out := session
	out.Exercises = make([]models.ExerciseRecord, len(session.Exercises))
	for i, rec := range session.Exercises {
		out.Exercises[i] = rec
		out.Exercises[i].Sets = make([]models.SetEntry, len(rec.Sets))
		copy(out.Exercises[i].Sets, rec.Sets)
	}
	return out
}
