package migration

import (
	"context"

	"qbench/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
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

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSweepsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create sweeps table")
	}
	if err := r.createRunRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create run_records table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createSweepsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sweeps (
			id TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createRunRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS run_records (
			id TEXT PRIMARY KEY,
			sweep_id TEXT NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
			position INT NOT NULL,
			benchmark TEXT NOT NULL,
			family TEXT NOT NULL,
			qubits INT NOT NULL,
			noise_prob DOUBLE PRECISION NOT NULL,
			fingerprint TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			features JSONB NOT NULL DEFAULT '{}'::jsonb,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			duration_ns BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_run_records_sweep ON run_records(sweep_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_run_records_family ON run_records(family, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sweeps_created ON sweeps(created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
