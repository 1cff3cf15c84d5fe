package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Settings key for the most recently completed workout group. Read at
// startup for catalog display, written at each successful session finalize.
const lastCompletedGroupKey = "last_completed_group"

// GetSetting returns the value for a settings key, or "" when unset.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting writes a settings key, replacing any existing value.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// LastCompletedGroup returns the last workout group successfully finalized,
// or "" when no session has completed yet.
func (db *DB) LastCompletedGroup(ctx context.Context) (string, error) {
	return db.GetSetting(ctx, lastCompletedGroupKey)
}

// SetLastCompletedGroup records the target group of a finalized session.
func (db *DB) SetLastCompletedGroup(ctx context.Context, group string) error {
	return db.SetSetting(ctx, lastCompletedGroupKey, group)
}
