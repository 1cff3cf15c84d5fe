package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// stretchGroup is the canonical casing of the warm-up group. The session
// flow looks it up by exact name, so any casing in a document is folded to
// this on ingest.
const stretchGroup = "stretch"

// RoutineExercise is one exercise definition in a routine document.
// Dates are ISO-8601 strings in the document and parsed strictly — one bad
// entry rejects the whole document (no partial bootstrap).
type RoutineExercise struct {
	ID          string `json:"id"`
	Group       string `json:"group"`
	Name        string `json:"name"`
	NumReps     int    `json:"numReps"`
	NumSets     int    `json:"numSets"`
	Weight      int    `json:"weight"`
	Completed   bool   `json:"completed"`
	Date        string `json:"date"`
	TimeElapsed int    `json:"timeElapsed"`
}

// RoutineDocument maps workout-group name to its ordered exercise list.
type RoutineDocument map[string][]RoutineExercise

// ParseRoutineDocument decodes and validates a routine document. It returns
// the fully materialized exercises or an error describing the first invalid
// entry; it never returns a partial result.
func ParseRoutineDocument(data []byte) ([]Exercise, error) {
	var doc RoutineDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding routine document: %w", err)
	}

	// Deterministic order: by group, then document order within a group.
	groups := make([]string, 0, len(doc))
	for g := range doc {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var exercises []Exercise
	for _, g := range groups {
		for i, def := range doc[g] {
			ex, err := def.toExercise()
			if err != nil {
				return nil, fmt.Errorf("group %q entry %d: %w", g, i, err)
			}
			exercises = append(exercises, ex)
		}
	}
	return exercises, nil
}

func (r RoutineExercise) toExercise() (Exercise, error) {
	if r.ID == "" {
		return Exercise{}, fmt.Errorf("missing id")
	}
	if r.Name == "" {
		return Exercise{}, fmt.Errorf("missing name (id %s)", r.ID)
	}
	if r.Group == "" {
		return Exercise{}, fmt.Errorf("missing group (id %s)", r.ID)
	}
	if r.NumSets < MinSets || r.NumSets > MaxSets {
		return Exercise{}, fmt.Errorf("numSets %d out of range [%d,%d] (id %s)", r.NumSets, MinSets, MaxSets, r.ID)
	}
	if r.NumReps < 0 || r.Weight < 0 {
		return Exercise{}, fmt.Errorf("negative reps or weight (id %s)", r.ID)
	}

	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return Exercise{}, fmt.Errorf("parsing date %q: %w", r.Date, err)
	}

	group := r.Group
	if strings.EqualFold(group, stretchGroup) {
		group = stretchGroup
	}

	return Exercise{
		ID:          r.ID,
		Group:       group,
		Name:        r.Name,
		NumReps:     r.NumReps,
		NumSets:     r.NumSets,
		Weight:      r.Weight,
		Completed:   r.Completed,
		Date:        date,
		TimeElapsed: r.TimeElapsed,
	}, nil
}
