package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"qbench/domain/core"
	"qbench/domain/features"
	"qbench/domain/run"
	"qbench/ports"

	"github.com/jmoiron/sqlx"
)

// ResultRepositoryImpl implements ports.ResultRepository for PostgreSQL
type ResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &ResultRepositoryImpl{db: db}
}

// SaveSweep persists the sweep header and its records in one transaction.
// Record positions preserve the sweep's input ordering.
func (r *ResultRepositoryImpl) SaveSweep(ctx context.Context, sweep *run.Sweep) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweeps (id, fingerprint, created_at)
		VALUES ($1, $2, $3)
	`, sweep.ID, sweep.Fingerprint, sweep.CreatedAt)
	if err != nil {
		return err
	}

	for i, rec := range sweep.Records {
		featJSON, err := json.Marshal(rec.Features)
		if err != nil {
			return fmt.Errorf("marshal features for run %s: %w", rec.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_records (id, sweep_id, position, benchmark, family, qubits,
				noise_prob, fingerprint, score, features, status, error, duration_ns, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, rec.ID, sweep.ID, i, rec.Benchmark, rec.Family, rec.Qubits,
			rec.NoiseProb, rec.Fingerprint, rec.Score, featJSON, rec.Status,
			rec.Error, rec.Duration, rec.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSweep retrieves a sweep with its records in original run order
func (r *ResultRepositoryImpl) GetSweep(ctx context.Context, id core.SweepID) (*run.Sweep, error) {
	var sweep run.Sweep
	err := r.db.GetContext(ctx, &sweep, `
		SELECT id, fingerprint, created_at
		FROM sweeps
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrSweepNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sweep_id, benchmark, family, qubits, noise_prob, fingerprint,
			score, features, status, error, duration_ns, created_at
		FROM run_records
		WHERE sweep_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		sweep.Records = append(sweep.Records, *rec)
	}
	return &sweep, rows.Err()
}

// ListSweeps returns sweep headers (no records), newest first
func (r *ResultRepositoryImpl) ListSweeps(ctx context.Context, limit, offset int) ([]run.Sweep, error) {
	if limit <= 0 {
		limit = 50
	}
	var sweeps []run.Sweep
	err := r.db.SelectContext(ctx, &sweeps, `
		SELECT id, fingerprint, created_at
		FROM sweeps
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return sweeps, err
}

// GetRecord retrieves a single run record by ID
func (r *ResultRepositoryImpl) GetRecord(ctx context.Context, id core.RunID) (*run.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sweep_id, benchmark, family, qubits, noise_prob, fingerprint,
			score, features, status, error, duration_ns, created_at
		FROM run_records
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
	}
	return scanRecord(rows)
}

// ListRecordsByFamily returns records for one benchmark family, newest first
func (r *ResultRepositoryImpl) ListRecordsByFamily(ctx context.Context, family core.BenchmarkKey, limit, offset int) ([]run.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sweep_id, benchmark, family, qubits, noise_prob, fingerprint,
			score, features, status, error, duration_ns, created_at
		FROM run_records
		WHERE family = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, family, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []run.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*run.Record, error) {
	var rec run.Record
	var featJSON []byte
	err := rows.Scan(
		&rec.ID,
		&rec.SweepID,
		&rec.Benchmark,
		&rec.Family,
		&rec.Qubits,
		&rec.NoiseProb,
		&rec.Fingerprint,
		&rec.Score,
		&featJSON,
		&rec.Status,
		&rec.Error,
		&rec.Duration,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(featJSON) > 0 {
		rec.Features = make(features.Vector)
		if err := json.Unmarshal(featJSON, &rec.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features for run %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
