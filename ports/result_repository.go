package ports

import (
	"context"

	"qbench/domain/core"
	"qbench/domain/run"
)

// ResultRepository defines the interface for sweep result storage
type ResultRepository interface {
	// SaveSweep persists the sweep header and every record in one transaction.
	SaveSweep(ctx context.Context, sweep *run.Sweep) error
	// GetSweep loads a sweep with its records; core.ErrSweepNotFound when
	// absent.
	GetSweep(ctx context.Context, id core.SweepID) (*run.Sweep, error)
	// ListSweeps returns sweep headers (no records) newest first.
	ListSweeps(ctx context.Context, limit, offset int) ([]run.Sweep, error)
	// GetRecord loads one run record; core.ErrResultNotFound when absent.
	GetRecord(ctx context.Context, id core.RunID) (*run.Record, error)
	// ListRecordsByFamily returns all records for one benchmark family across
	// sweeps, newest first.
	ListRecordsByFamily(ctx context.Context, family core.BenchmarkKey, limit, offset int) ([]run.Record, error)
}
