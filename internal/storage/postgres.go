package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlift/liftlog/internal/models"
)

// PostgresRepository stores sessions in PostgreSQL via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) InsertSession(ctx context.Context, session models.WorkoutSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var position int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM workout_sessions`,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("allocating session position: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, date, position) VALUES ($1, $2, $3)`,
		session.ID.String(), session.Date, position)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for recPos, rec := range session.Exercises {
		_, err = tx.Exec(ctx,
			`INSERT INTO exercise_records (session_id, position, exercise_id, name)
			 VALUES ($1, $2, $3, $4)`,
			session.ID.String(), recPos, rec.ExerciseID, rec.Name)
		if err != nil {
			return fmt.Errorf("inserting record %q: %w", rec.ExerciseID, err)
		}

		for setPos, set := range rec.Sets {
			_, err = tx.Exec(ctx,
				`INSERT INTO set_entries (id, session_id, record_position, position, weight, reps, date)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				set.ID.String(), session.ID.String(), recPos, setPos,
				set.Weight, set.Reps, set.Date)
			if err != nil {
				return fmt.Errorf("inserting set %d of %q: %w", setPos, rec.ExerciseID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date FROM workout_sessions ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s models.WorkoutSession
		var idStr string
		if err := rows.Scan(&idStr, &s.Date); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing session id %q: %w", idStr, err)
		}
		s.ID = id
		index[id] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recRows, err := r.pool.Query(ctx,
		`SELECT session_id, exercise_id, name
		 FROM exercise_records ORDER BY session_id, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var sessionIDStr, exerciseID, name string
		if err := recRows.Scan(&sessionIDStr, &exerciseID, &name); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		sessionID, err := uuid.Parse(sessionIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing record session id %q: %w", sessionIDStr, err)
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Exercises = append(sessions[i].Exercises, models.ExerciseRecord{
				ExerciseID: exerciseID,
				Name:       name,
				Sets:       []models.SetEntry{},
			})
		}
	}
	if err := recRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := r.pool.Query(ctx,
		`SELECT id, session_id, record_position, weight, reps, date
		 FROM set_entries ORDER BY session_id, record_position, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.SetEntry
		var idStr, sessionIDStr string
		var recPos int
		if err := setRows.Scan(&idStr, &sessionIDStr, &recPos, &set.Weight, &set.Reps, &set.Date); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sessionID, err := uuid.Parse(sessionIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing set session id %q: %w", sessionIDStr, err)
		}
		i, ok := index[sessionID]
		if !ok {
			continue
		}
		if recPos < 0 || recPos >= len(sessions[i].Exercises) {
			return nil, fmt.Errorf("set %s references record %d of session %s, which has %d records",
				idStr, recPos, sessionIDStr, len(sessions[i].Exercises))
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing set id %q: %w", idStr, err)
		}
		set.ID = id
		rec := &sessions[i].Exercises[recPos]
		rec.Sets = append(rec.Sets, set)
	}
	return sessions, setRows.Err()
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
