package workout

import (
	"testing"
	"time"
)

// TestExerciseStats verifies totals across multiple saved sessions and
// that the best set carries its session's date.
func TestExerciseStats(t *testing.T) {
	s := newTestStore(t)

	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mustStart(t, s, "bench-press", "squats")
	mustAddSet(t, s, "bench-press", 185, 10)
	mustAddSet(t, s, "bench-press", 195, 8)
	mustAddSet(t, s, "squats", 205, 5)
	if err := s.SetSessionDate(d1); err != nil {
		t.Fatal(err)
	}
	mustSave(t, s)

	d2 := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	mustStart(t, s, "bench-press")
	mustAddSet(t, s, "bench-press", 200, 5)
	if err := s.SetSessionDate(d2); err != nil {
		t.Fatal(err)
	}
	mustSave(t, s)

	stats := NewAnalyzer(s).ExerciseStats("bench-press")

	if stats.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", stats.Sessions)
	}
	if stats.Sets != 3 {
		t.Errorf("sets = %d, want 3", stats.Sets)
	}
	if stats.TotalReps != 10+8+5 {
		t.Errorf("totalReps = %d, want 23", stats.TotalReps)
	}
	wantVolume := float64(185*10 + 195*8 + 200*5)
	if stats.TotalVolume != wantVolume {
		t.Errorf("totalVolume = %v, want %v", stats.TotalVolume, wantVolume)
	}
	if stats.BestSetWeight != 200 {
		t.Errorf("bestSetWeight = %v, want 200", stats.BestSetWeight)
	}
	if !stats.BestSetDate.Equal(d2) {
		t.Errorf("bestSetDate = %v, want %v", stats.BestSetDate, d2)
	}
}

// TestExerciseStatsEmpty verifies zero-valued stats for an exercise with no
// saved history.
func TestExerciseStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	stats := NewAnalyzer(s).ExerciseStats("deadlift")
	if stats.Sessions != 0 || stats.Sets != 0 || stats.TotalVolume != 0 {
		t.Errorf("stats = %+v, want zero values", stats)
	}
	if stats.ExerciseID != "deadlift" {
		t.Errorf("exerciseId = %q, want %q", stats.ExerciseID, "deadlift")
	}
}
