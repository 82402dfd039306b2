package migration

import (
	"context"
	"fmt"

	"fscompare/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// step is one idempotent schema change.
type step struct {
	name string
	sql  string
}

var steps = []step{
	{
		name: "create comparisons table",
		sql: `
		CREATE TABLE IF NOT EXISTS comparisons (
			id UUID PRIMARY KEY,
			dataset TEXT NOT NULL,
			classifier TEXT NOT NULL,
			num_folds INTEGER NOT NULL CHECK (num_folds >= 2),
			num_repeats INTEGER NOT NULL CHECK (num_repeats >= 1),
			loss_name TEXT NOT NULL,
			seed BIGINT NOT NULL,
			protocol_hash TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
	},
	{
		name: "create comparison_rows table",
		sql: `
		CREATE TABLE IF NOT EXISTS comparison_rows (
			comparison_id UUID NOT NULL REFERENCES comparisons(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			feature_count INTEGER NOT NULL,
			losses DOUBLE PRECISION[] NOT NULL,
			mean DOUBLE PRECISION NOT NULL,
			std_dev DOUBLE PRECISION NOT NULL,
			median DOUBLE PRECISION NOT NULL,
			min_loss DOUBLE PRECISION NOT NULL,
			max_loss DOUBLE PRECISION NOT NULL,
			ci95 DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (comparison_id, position)
		)`,
	},
	{
		name: "create indexes",
		sql: `
		CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_comparisons_dataset ON comparisons(dataset);
		CREATE INDEX IF NOT EXISTS idx_comparisons_protocol_hash ON comparisons(protocol_hash)`,
	},
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Steps lists the migration step names in execution order.
func (r *MigrationRunner) Steps() []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`

// Run executes all steps in one transaction and records the version in
// schema_migrations. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin migration", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createVersionTable); err != nil {
		return errors.DatabaseError("failed to create schema_migrations", err)
	}
	for _, s := range steps {
		if _, err := tx.ExecContext(ctx, s.sql); err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to %s", s.name), err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, r.version); err != nil {
		return errors.DatabaseError("failed to record migration", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit migration", err)
	}
	return nil
}

// AppliedVersions lists recorded versions, oldest first. It fails if
// migrations never ran.
func (r *MigrationRunner) AppliedVersions(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY applied_at`); err != nil {
		return nil, errors.DatabaseError("failed to read schema_migrations", err)
	}
	return versions, nil
}
