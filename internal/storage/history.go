package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/gymflow/internal/models"
)

// InsertHistory appends a completed-workout record.
func (db *DB) InsertHistory(ctx context.Context, rec models.WorkoutHistory) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO workout_history (id, grp, date, time_elapsed_sec, calories_burned)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Group, rec.Date, rec.TimeElapsed, rec.CaloriesBurned)
	if err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}
	return nil
}

// QueryHistory retrieves workout history sorted by date descending
// (newest first). An empty group filter returns all records.
func (db *DB) QueryHistory(ctx context.Context, group string) ([]models.WorkoutHistory, error) {
	query := `SELECT id, grp, date, time_elapsed_sec, calories_burned
	          FROM workout_history`
	args := []any{}
	if group != "" {
		query += ` WHERE grp = ?`
		args = append(args, group)
	}
	query += ` ORDER BY date DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutHistory
	for rows.Next() {
		var rec models.WorkoutHistory
		if err := rows.Scan(&rec.ID, &rec.Group, &rec.Date, &rec.TimeElapsed, &rec.CaloriesBurned); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// DeleteHistory removes a record by ID. Returns true if a record was deleted.
func (db *DB) DeleteHistory(ctx context.Context, id string) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM workout_history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LastWorkoutDate returns the most recent completion date for a group. A
// composite "<group> + Cardio" record counts toward its base group's prefix
// match. Returns zero time when the group has no history.
func (db *DB) LastWorkoutDate(ctx context.Context, group string) (time.Time, error) {
	var date time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT date FROM workout_history
		 WHERE grp = ? OR grp = ?
		 ORDER BY date DESC LIMIT 1`,
		group, group+" + Cardio").Scan(&date)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying last workout: %w", err)
	}
	return date, nil
}
