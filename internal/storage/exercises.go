package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/gymflow/internal/models"
)

// ErrInvalidDelta rejects weight adjustments that would break the step
// invariant: every stored weight stays a multiple of models.WeightStep away
// from its seeded value.
var ErrInvalidDelta = errors.New("weight delta must be a multiple of the adjustment step")

// InsertExercise inserts a catalog row. Returns true if inserted, false if
// an exercise with the same ID already exists.
func (db *DB) InsertExercise(ctx context.Context, ex models.Exercise) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO exercises (id, grp, name, num_reps, num_sets, weight, completed, date, time_elapsed_sec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		ex.ID, ex.Group, ex.Name, ex.NumReps, ex.NumSets, ex.Weight, ex.Completed, ex.Date, ex.TimeElapsed)
	if err != nil {
		return false, fmt.Errorf("inserting exercise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExercisesInGroup retrieves all exercises for a workout group, sorted by
// name. Group matching is exact (case-sensitive), matching the catalog's
// partition key semantics.
func (db *DB) ExercisesInGroup(ctx context.Context, group string) ([]models.Exercise, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, grp, name, num_reps, num_sets, weight, completed, date, time_elapsed_sec
		 FROM exercises
		 WHERE grp = ?
		 ORDER BY name ASC`,
		group)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	return scanExerciseRows(rows)
}

// AllGroups returns the distinct workout group names in the catalog.
func (db *DB) AllGroups(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT grp FROM exercises ORDER BY grp ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CountExercises returns the total number of catalog rows.
func (db *DB) CountExercises(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// HasExercise reports whether an exercise with the given group and name exists.
func (db *DB) HasExercise(ctx context.Context, group, name string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercises WHERE grp = ? AND name = ?`,
		group, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking exercise: %w", err)
	}
	return n > 0, nil
}

// AdjustWeight changes an exercise's weight by delta. Deltas that are not a
// multiple of the adjustment step are rejected with ErrInvalidDelta. The
// result is clamped at zero: an adjustment that would go negative is a
// no-op. Returns the resulting weight.
func (db *DB) AdjustWeight(ctx context.Context, group, name string, delta int) (int, error) {
	if delta%models.WeightStep != 0 {
		return 0, fmt.Errorf("%w: got %d, step is %d", ErrInvalidDelta, delta, models.WeightStep)
	}

	ex, err := db.getExercise(ctx, group, name)
	if err != nil {
		return 0, err
	}

	weight := ex.Weight + delta
	if weight < 0 {
		return ex.Weight, nil
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE exercises SET weight = ? WHERE grp = ? AND name = ?`,
		weight, group, name)
	if err != nil {
		return 0, fmt.Errorf("updating weight: %w", err)
	}
	return weight, nil
}

// AdjustSetCount changes an exercise's set count by delta, clamped to
// [MinSets, MaxSets]. An out-of-range adjustment is a no-op. Returns the
// resulting set count.
func (db *DB) AdjustSetCount(ctx context.Context, group, name string, delta int) (int, error) {
	ex, err := db.getExercise(ctx, group, name)
	if err != nil {
		return 0, err
	}

	sets := ex.NumSets + delta
	if sets < models.MinSets || sets > models.MaxSets {
		return ex.NumSets, nil
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE exercises SET num_sets = ? WHERE grp = ? AND name = ?`,
		sets, group, name)
	if err != nil {
		return 0, fmt.Errorf("updating set count: %w", err)
	}
	return sets, nil
}

// ReplaceCatalog atomically wipes the catalog and inserts the given
// exercises. This is the blunt "version migration" path: user-made weight
// and set customizations on existing rows are discarded.
func (db *DB) ReplaceCatalog(ctx context.Context, exercises []models.Exercise) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}
	for _, ex := range exercises {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exercises (id, grp, name, num_reps, num_sets, weight, completed, date, time_elapsed_sec)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ex.ID, ex.Group, ex.Name, ex.NumReps, ex.NumSets, ex.Weight, ex.Completed, ex.Date, ex.TimeElapsed)
		if err != nil {
			return fmt.Errorf("inserting exercise %s: %w", ex.ID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) getExercise(ctx context.Context, group, name string) (models.Exercise, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, grp, name, num_reps, num_sets, weight, completed, date, time_elapsed_sec
		 FROM exercises
		 WHERE grp = ? AND name = ?`,
		group, name)

	var ex models.Exercise
	err := row.Scan(&ex.ID, &ex.Group, &ex.Name, &ex.NumReps, &ex.NumSets,
		&ex.Weight, &ex.Completed, &ex.Date, &ex.TimeElapsed)
	if err == sql.ErrNoRows {
		return ex, fmt.Errorf("exercise %q in group %q not found", name, group)
	}
	if err != nil {
		return ex, fmt.Errorf("querying exercise: %w", err)
	}
	return ex, nil
}

func scanExerciseRows(rows *sql.Rows) ([]models.Exercise, error) {
	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.Group, &ex.Name, &ex.NumReps, &ex.NumSets,
			&ex.Weight, &ex.Completed, &ex.Date, &ex.TimeElapsed); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}
