package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/openlift/liftlog/internal/models"
)

// SQLiteRepository stores sessions in a local SQLite file. Dates go in as
// RFC 3339 text so they survive the round trip without driver-specific
// timestamp handling.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// OpenSQLite opens (or creates) the session database at the given path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging session db: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) InsertSession(ctx context.Context, session models.WorkoutSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM workout_sessions`,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("allocating session position: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workout_sessions (id, date, position) VALUES (?, ?, ?)`,
		session.ID.String(), session.Date.Format(time.RFC3339Nano), position)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for recPos, rec := range session.Exercises {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exercise_records (session_id, position, exercise_id, name)
			 VALUES (?, ?, ?, ?)`,
			session.ID.String(), recPos, rec.ExerciseID, rec.Name)
		if err != nil {
			return fmt.Errorf("inserting record %q: %w", rec.ExerciseID, err)
		}

		for setPos, set := range rec.Sets {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO set_entries (id, session_id, record_position, position, weight, reps, date)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				set.ID.String(), session.ID.String(), recPos, setPos,
				set.Weight, set.Reps, set.Date.Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("inserting set %d of %q: %w", setPos, rec.ExerciseID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date FROM workout_sessions ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			idStr   string
			dateStr string
		)
		if err := rows.Scan(&idStr, &dateStr); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing session id %q: %w", idStr, err)
		}
		date, err := time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing session date %q: %w", dateStr, err)
		}
		index[id] = len(sessions)
		sessions = append(sessions, models.WorkoutSession{ID: id, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, sessions, index); err != nil {
		return nil, err
	}
	if err := r.loadSets(ctx, sessions, index); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SQLiteRepository) loadRecords(ctx context.Context, sessions []models.WorkoutSession, index map[uuid.UUID]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, exercise_id, name
		 FROM exercise_records ORDER BY session_id, position ASC`)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionIDStr, exerciseID, name string
		if err := rows.Scan(&sessionIDStr, &exerciseID, &name); err != nil {
			return fmt.Errorf("scanning record: %w", err)
		}
		sessionID, err := uuid.Parse(sessionIDStr)
		if err != nil {
			return fmt.Errorf("parsing record session id %q: %w", sessionIDStr, err)
		}
		i, ok := index[sessionID]
		if !ok {
			continue
		}
		sessions[i].Exercises = append(sessions[i].Exercises, models.ExerciseRecord{
			ExerciseID: exerciseID,
			Name:       name,
			Sets:       []models.SetEntry{},
		})
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSets(ctx context.Context, sessions []models.WorkoutSession, index map[uuid.UUID]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, record_position, weight, reps, date
		 FROM set_entries ORDER BY session_id, record_position, position ASC`)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idStr, sessionIDStr, dateStr string
			recPos, reps                 int
			weight                       float64
		)
		if err := rows.Scan(&idStr, &sessionIDStr, &recPos, &weight, &reps, &dateStr); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		sessionID, err := uuid.Parse(sessionIDStr)
		if err != nil {
			return fmt.Errorf("parsing set session id %q: %w", sessionIDStr, err)
		}
		i, ok := index[sessionID]
		if !ok {
			continue
		}
		if recPos < 0 || recPos >= len(sessions[i].Exercises) {
			return fmt.Errorf("set %s references record %d of session %s, which has %d records",
				idStr, recPos, sessionIDStr, len(sessions[i].Exercises))
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("parsing set id %q: %w", idStr, err)
		}
		date, err := time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			return fmt.Errorf("parsing set date %q: %w", dateStr, err)
		}
		rec := &sessions[i].Exercises[recPos]
		rec.Sets = append(rec.Sets, models.SetEntry{ID: id, Weight: weight, Reps: reps, Date: date})
	}
	return rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
