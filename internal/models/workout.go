package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseDefinition is one entry in the fixed exercise catalog. IconRef is
// an opaque presentation hint passed through to clients untouched.
type ExerciseDefinition struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconRef string `json:"iconRef"`
}

// SetEntry is a single logged set: the load lifted and the reps performed.
type SetEntry struct {
	ID     uuid.UUID `json:"id"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Date   time.Time `json:"date"`
}

// ExerciseRecord groups one exercise's sets within a single session.
// ExerciseID is the only join key; Name is a display cache copied from the
// catalog when the record is created.
type ExerciseRecord struct {
	ExerciseID string     `json:"exerciseId"`
	Name       string     `json:"name"`
	Sets       []SetEntry `json:"sets"`
}

// MaxWeight returns the heaviest set weight in the record, 0 when empty.
func (r ExerciseRecord) MaxWeight() float64 {
	var max float64
	for _, set := range r.Sets {
		if set.Weight > max {
			max = set.Weight
		}
	}
	return max
}

// TotalVolume returns the sum of weight x reps over the record's sets.
func (r ExerciseRecord) TotalVolume() float64 {
	var volume float64
	for _, set := range r.Sets {
		volume += set.Weight * float64(set.Reps)
	}
	return volume
}

// WorkoutSession is one workout occurrence: a dated, ordered list of
// exercise records, one per selected exercise.
type WorkoutSession struct {
	ID        uuid.UUID        `json:"id"`
	Date      time.Time        `json:"date"`
	Exercises []ExerciseRecord `json:"exercises"`
}

// HistoryPoint is one derived progress point for an exercise: the max set
// weight and total volume it reached in a single session.
type HistoryPoint struct {
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
}
