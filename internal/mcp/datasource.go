package mcp

import (
	"context"
	"time"

	"github.com/claude/gymflow/internal/models"
	"github.com/claude/gymflow/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	AllGroups(ctx context.Context) ([]string, error)
	ExercisesInGroup(ctx context.Context, group string) ([]models.Exercise, error)
	QueryHistory(ctx context.Context, group string) ([]models.WorkoutHistory, error)
	LastWorkoutDate(ctx context.Context, group string) (time.Time, error)
	LastCompletedGroup(ctx context.Context) (string, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
