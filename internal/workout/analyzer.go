package workout

import (
	"time"

	"github.com/openlift/liftlog/internal/models"
)

// historySource provides the completed sessions the analyzer reads.
type historySource interface {
	History() []models.WorkoutSession
}

// ExerciseStats are aggregate totals for one exercise across all saved
// sessions.
type ExerciseStats struct {
	ExerciseID    string    `json:"exerciseId"`
	Sessions      int       `json:"sessions"`
	Sets          int       `json:"sets"`
	TotalReps     int       `json:"totalReps"`
	TotalVolume   float64   `json:"totalVolume"`
	BestSetWeight float64   `json:"bestSetWeight"`
	BestSetDate   time.Time `json:"bestSetDate"`
}

// Analyzer computes aggregate statistics over the saved session history.
type Analyzer struct {
	src historySource
}

func NewAnalyzer(src historySource) *Analyzer {
	return &Analyzer{src: src}
}

// ExerciseStats scans every saved session for the exercise and totals its
// sets. An exercise with no saved history yields zero-valued stats.
func (a *Analyzer) ExerciseStats(exerciseID string) ExerciseStats {
	stats := ExerciseStats{ExerciseID: exerciseID}

	for _, session := range a.src.History() {
		for _, rec := range session.Exercises {
			if rec.ExerciseID != exerciseID {
				continue
			}
			stats.Sessions++
			stats.Sets += len(rec.Sets)
			for _, set := range rec.Sets {
				stats.TotalReps += set.Reps
				stats.TotalVolume += set.Weight * float64(set.Reps)
				if set.Weight > stats.BestSetWeight {
					stats.BestSetWeight = set.Weight
					stats.BestSetDate = session.Date
				}
			}
			break
		}
	}
	return stats
}
