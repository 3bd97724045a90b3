package catalog

import (
	"math/rand"
	"time"

	"github.com/openlift/liftlog/internal/models"
)

const (
	seedPoints      = 10
	seedSpacingDays = 3
)

// preloaded is the fixed universe of selectable exercises. IDs are stable
// slugs so that persisted sessions resolve across restarts.
var preloaded = []struct {
	id         string
	name       string
	iconRef    string
	baseWeight float64
}{
	{"deadlift", "Deadlift", "figure.strengthtraining.traditional", 225},
	{"bench-press", "Bench Press", "figure.strengthtraining.functional", 185},
	{"dumbbell-curls", "Dumbbell Curls", "figure.arms.open", 35},
	{"squats", "Squats", "figure.mixed.cardio", 205},
	{"leg-press", "Leg Press", "figure.strengthtraining.functional", 300},
	{"shoulder-press", "Shoulder Press", "figure.boxing", 115},
}

// Catalog is the read-only list of exercise definitions, each with a
// synthetic seed history generated once at construction. Seed history gives
// progress charts content before any real session exists; it is never mixed
// with derived history from saved sessions.
type Catalog struct {
	defs  []models.ExerciseDefinition
	seeds map[string][]models.HistoryPoint
}

// New builds the catalog with seed histories anchored at the current time.
func New() *Catalog {
	return build(time.Now(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

func build(now time.Time, r *rand.Rand) *Catalog {
	c := &Catalog{
		defs:  make([]models.ExerciseDefinition, 0, len(preloaded)),
		seeds: make(map[string][]models.HistoryPoint, len(preloaded)),
	}
	for _, p := range preloaded {
		c.defs = append(c.defs, models.ExerciseDefinition{
			ID:      p.id,
			Name:    p.name,
			IconRef: p.iconRef,
		})
		c.seeds[p.id] = seedHistory(now, r, p.baseWeight)
	}
	return c
}

// seedHistory generates points spaced seedSpacingDays apart going backward
// from now, oldest first. Weight varies within +/-5 of the base; volume is
// the weight times a 12-15 rep equivalent.
func seedHistory(now time.Time, r *rand.Rand, baseWeight float64) []models.HistoryPoint {
	points := make([]models.HistoryPoint, seedPoints)
	for i := 0; i < seedPoints; i++ {
		weight := baseWeight + (r.Float64()*10 - 5)
		points[seedPoints-1-i] = models.HistoryPoint{
			Date:        now.AddDate(0, 0, -i*seedSpacingDays),
			MaxWeight:   weight,
			TotalVolume: weight * (12 + r.Float64()*3),
		}
	}
	return points
}

// List returns the exercise definitions in a stable order.
func (c *Catalog) List() []models.ExerciseDefinition {
	out := make([]models.ExerciseDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup resolves an exercise ID to its definition.
func (c *Catalog) Lookup(id string) (models.ExerciseDefinition, bool) {
	for _, def := range c.defs {
		if def.ID == id {
			return def, true
		}
	}
	return models.ExerciseDefinition{}, false
}

// SeedHistory returns the synthetic history for an exercise, oldest first.
// Nil for unknown IDs.
func (c *Catalog) SeedHistory(id string) []models.HistoryPoint {
	seed, ok := c.seeds[id]
	if !ok {
		return nil
	}
	out := make([]models.HistoryPoint, len(seed))
	copy(out, seed)
	return out
}
