// Package importer bootstraps the exercise catalog from a routine document.
//
// The first run loads the document wholesale; later runs are no-ops unless a
// reconciliation check finds known exercises missing (schema drift from an
// app update), in which case the entire catalog is wiped and reloaded. That
// reload deliberately discards user-made weight and set customizations —
// a blunt total-replace migration policy, not a merge.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymflow/internal/models"
	"github.com/claude/gymflow/internal/storage"
)

// sentinels are exercises recent routine versions are known to contain.
// Any of them missing from a populated catalog means the stored routine
// predates the current document.
var sentinels = []struct {
	Group string
	Name  string
}{
	{"Falcon", "Barbell Curl"},
	{"Deep Horizon", "Decline Sit Up"},
	{"Trident", "BB Upright Row"},
}

// Stats reports what a bootstrap run did.
type Stats struct {
	Loaded   int
	Skipped  int
	Reloaded bool
}

// Importer loads routine documents into the catalog store.
type Importer struct {
	db  *storage.DB
	log *slog.Logger
}

// New creates a new Importer.
func New(db *storage.DB, log *slog.Logger) *Importer {
	return &Importer{db: db, log: log}
}

// Bootstrap ensures the catalog is populated from the routine document at
// the given path. A malformed document aborts the whole run — the catalog
// is left as it was, never partially loaded.
func (imp *Importer) Bootstrap(ctx context.Context, routinePath string) (*Stats, error) {
	stats := &Stats{}

	count, err := imp.db.CountExercises(ctx)
	if err != nil {
		return stats, fmt.Errorf("checking catalog: %w", err)
	}

	if count == 0 {
		exercises, err := imp.parseDocument(routinePath)
		if err != nil {
			return stats, err
		}
		for _, ex := range exercises {
			inserted, err := imp.db.InsertExercise(ctx, ex)
			if err != nil {
				return stats, fmt.Errorf("inserting %s: %w", ex.ID, err)
			}
			if inserted {
				stats.Loaded++
			} else {
				stats.Skipped++
			}
		}
		imp.log.Info("catalog bootstrapped", "exercises", stats.Loaded)
		return stats, nil
	}

	imp.log.Info("catalog already loaded", "exercises", count)

	stale, err := imp.needsReload(ctx)
	if err != nil {
		return stats, err
	}
	if !stale {
		return stats, nil
	}

	// Total replace: user weight/set customizations are lost here.
	exercises, err := imp.parseDocument(routinePath)
	if err != nil {
		return stats, err
	}
	if err := imp.db.ReplaceCatalog(ctx, exercises); err != nil {
		return stats, fmt.Errorf("reloading catalog: %w", err)
	}
	stats.Loaded = len(exercises)
	stats.Reloaded = true
	imp.log.Info("catalog reloaded from routine document", "exercises", stats.Loaded)
	return stats, nil
}

func (imp *Importer) parseDocument(path string) ([]models.Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading routine document: %w", err)
	}
	exercises, err := models.ParseRoutineDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing routine document: %w", err)
	}
	return exercises, nil
}

// needsReload reports whether any sentinel exercise is missing.
func (imp *Importer) needsReload(ctx context.Context) (bool, error) {
	for _, s := range sentinels {
		present, err := imp.db.HasExercise(ctx, s.Group, s.Name)
		if err != nil {
			return false, fmt.Errorf("checking for %s/%s: %w", s.Group, s.Name, err)
		}
		if !present {
			imp.log.Info("routine update detected", "group", s.Group, "missing", s.Name)
			return true, nil
		}
	}
	return false, nil
}
