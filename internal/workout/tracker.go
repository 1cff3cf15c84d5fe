package workout

import "github.com/claude/gymflow/internal/models"

// SetKey identifies one toggleable set within the active phase.
type SetKey struct {
	Exercise string
	Set      int
}

// SetTracker holds per-exercise, per-set completion state for the active
// phase. It is session-local: cleared on every phase exit and never written
// back to the catalog.
type SetTracker struct {
	done map[SetKey]struct{}
}

// NewSetTracker returns an empty tracker.
func NewSetTracker() *SetTracker {
	return &SetTracker{done: make(map[SetKey]struct{})}
}

// Toggle flips the completion state of one set and reports the new state.
func (t *SetTracker) Toggle(exercise string, set int) bool {
	key := SetKey{Exercise: exercise, Set: set}
	if _, ok := t.done[key]; ok {
		delete(t.done, key)
		return false
	}
	t.done[key] = struct{}{}
	return true
}

// IsComplete reports whether one set has been toggled complete.
func (t *SetTracker) IsComplete(exercise string, set int) bool {
	_, ok := t.done[SetKey{Exercise: exercise, Set: set}]
	return ok
}

// CompletedCount returns the number of sets currently marked complete.
func (t *SetTracker) CompletedCount() int {
	return len(t.done)
}

// DropSetsAtOrAbove removes completed keys for an exercise whose set index
// is no longer valid after its set count shrank to newCount. Keys below the
// new count are untouched. Prevents phantom completions from counting toward
// a now-smaller requirement.
func (t *SetTracker) DropSetsAtOrAbove(exercise string, newCount int) {
	for key := range t.done {
		if key.Exercise == exercise && key.Set >= newCount {
			delete(t.done, key)
		}
	}
}

// Reset clears all completion state. Called on every phase exit.
func (t *SetTracker) Reset() {
	clear(t.done)
}

// TotalRequiredSets sums NumSets over the distinct exercise names in a phase's
// exercise list.
func TotalRequiredSets(exercises []models.Exercise) int {
	seen := make(map[string]bool, len(exercises))
	total := 0
	for _, ex := range exercises {
		if seen[ex.Name] {
			continue
		}
		seen[ex.Name] = true
		total += ex.NumSets
	}
	return total
}

// PhaseComplete reports whether every required set is toggled complete. An
// empty exercise list is never complete — a zero-exercise phase must not
// auto-advance.
func (t *SetTracker) PhaseComplete(exercises []models.Exercise) bool {
	required := TotalRequiredSets(exercises)
	return required > 0 && t.CompletedCount() == required
}
