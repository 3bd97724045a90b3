package workout

import "errors"

// Mutation errors. Reads never fail; a record with no sets simply derives a
// zero point.
var (
	// ErrNotFound means the exercise ID is absent from the catalog or from
	// the active session's records.
	ErrNotFound = errors.New("exercise not found")

	// ErrSetIndexOutOfRange means the set index does not exist for the
	// named exercise record.
	ErrSetIndexOutOfRange = errors.New("set index out of range")

	// ErrNoActiveSession means a session mutation was attempted while no
	// session is active.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSessionActive means StartSession was called while a session is
	// already in progress. The caller must save or discard it first;
	// session data is never silently dropped.
	ErrSessionActive = errors.New("a session is already active")
)
