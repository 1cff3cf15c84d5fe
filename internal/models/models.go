package models

import "time"

// Exercise is one catalog entry: a named movement within a workout group.
// Sets are a derived count (NumSets) — there is exactly one row per
// (group, name) pair, never one row per set.
type Exercise struct {
	ID        string    `json:"id"`
	Group     string    `json:"group"`
	Name      string    `json:"name"`
	NumReps   int       `json:"numReps"`
	NumSets   int       `json:"numSets"`
	Weight    int       `json:"weight"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
	// TimeElapsed carries the per-exercise seconds field from the routine
	// document. It is informational only; session timing lives in the
	// workout package.
	TimeElapsed int `json:"timeElapsed"`
}

// Set-count and weight invariants for catalog adjustments.
const (
	MinSets    = 1
	MaxSets    = 4
	WeightStep = 5
)

// WorkoutHistory is one completed session. Immutable after creation except
// for deletion. Group may carry a composite label such as "Falcon + Cardio".
type WorkoutHistory struct {
	ID             string    `json:"id"`
	Group          string    `json:"group"`
	Date           time.Time `json:"date"`
	TimeElapsed    int       `json:"timeElapsed"`
	CaloriesBurned *float64  `json:"caloriesBurned,omitempty"`
}
