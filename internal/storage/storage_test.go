package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/gymflow/internal/models"
)

// newTestDB opens a migrated SQLite database in a temp dir.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := RunMigrations(path, "../../migrations"); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	db, err := New(context.Background(), path)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testExercise(id, group, name string, sets, weight int) models.Exercise {
	return models.Exercise{
		ID:      id,
		Group:   group,
		Name:    name,
		NumReps: 10,
		NumSets: sets,
		Weight:  weight,
		Date:    time.Date(2025, 2, 1, 22, 31, 0, 0, time.UTC),
	}
}

// TestInsertExerciseIdempotent verifies re-inserting the same ID is a no-op,
// not an error — bootstrap relies on this.
func TestInsertExerciseIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	inserted, err := db.InsertExercise(ctx, testExercise("f1", "Falcon", "BB Squat", 4, 135))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Error("first insert should report inserted")
	}

	inserted, err = db.InsertExercise(ctx, testExercise("f1", "Falcon", "BB Squat", 4, 135))
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Error("duplicate insert should report not inserted")
	}

	n, err := db.CountExercises(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

// TestExercisesInGroup verifies group filtering is exact and results sort by name.
func TestExercisesInGroup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, ex := range []models.Exercise{
		testExercise("f2", "Falcon", "Incline DB Press", 3, 50),
		testExercise("f1", "Falcon", "BB Squat", 4, 135),
		testExercise("s1", "stretch", "Hamstring Stretch", 2, 0),
	} {
		if _, err := db.InsertExercise(ctx, ex); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	falcon, err := db.ExercisesInGroup(ctx, "Falcon")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(falcon) != 2 {
		t.Fatalf("falcon count = %d, want 2", len(falcon))
	}
	if falcon[0].Name != "BB Squat" || falcon[1].Name != "Incline DB Press" {
		t.Errorf("order = %q, %q; want name-sorted", falcon[0].Name, falcon[1].Name)
	}

	// Case-sensitive partition key: "falcon" is not "Falcon".
	lower, err := db.ExercisesInGroup(ctx, "falcon")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(lower) != 0 {
		t.Errorf("lowercase group matched %d rows, want 0", len(lower))
	}

	groups, err := db.AllGroups(ctx)
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("groups = %v, want 2 entries", groups)
	}
}

// TestAdjustWeightClamp verifies weight moves in steps and never goes
// negative — an adjustment below zero is a no-op at the boundary.
func TestAdjustWeightClamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.InsertExercise(ctx, testExercise("f1", "Falcon", "BB Squat", 4, 5)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	w, err := db.AdjustWeight(ctx, "Falcon", "BB Squat", models.WeightStep)
	if err != nil {
		t.Fatalf("adjust up: %v", err)
	}
	if w != 10 {
		t.Errorf("weight = %d, want 10", w)
	}

	for range 3 {
		w, err = db.AdjustWeight(ctx, "Falcon", "BB Squat", -models.WeightStep)
		if err != nil {
			t.Fatalf("adjust down: %v", err)
		}
	}
	if w != 0 {
		t.Errorf("weight = %d, want clamped at 0", w)
	}
}

// TestAdjustWeightStepInvariant verifies deltas off the step grid are
// rejected and leave the stored weight untouched; step multiples in either
// direction stay valid.
func TestAdjustWeightStepInvariant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.InsertExercise(ctx, testExercise("f1", "Falcon", "BB Squat", 4, 100)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := db.AdjustWeight(ctx, "Falcon", "BB Squat", 3); !errors.Is(err, ErrInvalidDelta) {
		t.Fatalf("delta 3 err = %v, want ErrInvalidDelta", err)
	}
	if _, err := db.AdjustWeight(ctx, "Falcon", "BB Squat", -7); !errors.Is(err, ErrInvalidDelta) {
		t.Fatalf("delta -7 err = %v, want ErrInvalidDelta", err)
	}

	exs, err := db.ExercisesInGroup(ctx, "Falcon")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(exs) != 1 || exs[0].Weight != 100 {
		t.Errorf("weight after rejected deltas = %+v, want 100", exs)
	}

	w, err := db.AdjustWeight(ctx, "Falcon", "BB Squat", -2*models.WeightStep)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if w != 90 {
		t.Errorf("weight = %d, want 90", w)
	}
}

// TestAdjustSetCountClamp verifies set counts stay within [1,4].
func TestAdjustSetCountClamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.InsertExercise(ctx, testExercise("f1", "Falcon", "BB Squat", 4, 135)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sets, err := db.AdjustSetCount(ctx, "Falcon", "BB Squat", 1)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if sets != 4 {
		t.Errorf("sets = %d, want no-op at cap 4", sets)
	}

	for range 5 {
		sets, err = db.AdjustSetCount(ctx, "Falcon", "BB Squat", -1)
		if err != nil {
			t.Fatalf("adjust: %v", err)
		}
	}
	if sets != 1 {
		t.Errorf("sets = %d, want clamped at 1", sets)
	}
}

// TestReplaceCatalog verifies the wipe-and-reload path replaces everything,
// including user-adjusted rows.
func TestReplaceCatalog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.InsertExercise(ctx, testExercise("old", "Falcon", "BB Squat", 4, 135)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.AdjustWeight(ctx, "Falcon", "BB Squat", models.WeightStep); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	err := db.ReplaceCatalog(ctx, []models.Exercise{
		testExercise("new1", "Falcon", "BB Squat", 4, 135),
		testExercise("new2", "Falcon", "Barbell Curl", 3, 45),
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	falcon, err := db.ExercisesInGroup(ctx, "Falcon")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(falcon) != 2 {
		t.Fatalf("count = %d, want 2", len(falcon))
	}
	// The customized weight is gone — replace is total, not a merge.
	for _, ex := range falcon {
		if ex.Name == "BB Squat" && ex.Weight != 135 {
			t.Errorf("weight = %d, want reset to 135", ex.Weight)
		}
	}
}

// TestHistoryLifecycle verifies insert, date-descending order, group filter,
// and delete-by-id.
func TestHistoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	calories := 120.0
	records := []models.WorkoutHistory{
		{ID: "h1", Group: "Falcon", Date: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), TimeElapsed: 900, CaloriesBurned: &calories},
		{ID: "h2", Group: "Trident", Date: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), TimeElapsed: 1100},
		{ID: "h3", Group: "Falcon + Cardio", Date: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), TimeElapsed: 1500},
	}
	for _, rec := range records {
		if err := db.InsertHistory(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := db.QueryHistory(ctx, "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("count = %d, want 3", len(all))
	}
	if all[0].ID != "h3" || all[2].ID != "h1" {
		t.Errorf("order = %s..%s, want newest first", all[0].ID, all[2].ID)
	}
	if all[2].CaloriesBurned == nil || *all[2].CaloriesBurned != 120.0 {
		t.Errorf("calories = %v, want 120.0", all[2].CaloriesBurned)
	}
	if all[0].CaloriesBurned != nil {
		t.Errorf("calories = %v, want nil for h3", all[0].CaloriesBurned)
	}

	falcon, err := db.QueryHistory(ctx, "Falcon")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(falcon) != 1 || falcon[0].ID != "h1" {
		t.Errorf("falcon filter = %+v, want just h1", falcon)
	}

	deleted, err := db.DeleteHistory(ctx, "h2")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("delete should report a removed record")
	}
	deleted, err = db.DeleteHistory(ctx, "h2")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("second delete should be a no-op")
	}

	// Last workout for Falcon includes the composite-label record.
	last, err := db.LastWorkoutDate(ctx, "Falcon")
	if err != nil {
		t.Fatalf("last workout: %v", err)
	}
	if last.Day() != 3 {
		t.Errorf("last workout day = %d, want 3 (the cardio composite)", last.Day())
	}

	last, err = db.LastWorkoutDate(ctx, "Challenger")
	if err != nil {
		t.Fatalf("last workout: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("last workout = %v, want zero time for no history", last)
	}
}

// TestSettingsRoundTrip verifies the last-completed-group preference
// survives upserts and reads back.
func TestSettingsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	got, err := db.LastCompletedGroup(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Errorf("unset value = %q, want empty", got)
	}

	if err := db.SetLastCompletedGroup(ctx, "Falcon"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetLastCompletedGroup(ctx, "Trident"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err = db.LastCompletedGroup(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Trident" {
		t.Errorf("value = %q, want Trident", got)
	}
}
