package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qbench/domain/bench"
	"qbench/domain/core"
	"qbench/domain/features"
	"qbench/domain/noise"
	"qbench/domain/run"
	"qbench/internal"
	"qbench/ports"

	"golang.org/x/sync/errgroup"
)

// SweepService executes benchmark batches: every (benchmark, noise setting)
// pair is simulated twice (ideal and noisy), scored and feature-extracted.
type SweepService struct {
	simulator  ports.Simulator
	logger     *internal.Logger
	workers    int
	runTimeout time.Duration
}

// SweepRequest defines the inputs for a benchmark sweep. The cross product of
// Benchmarks and NoiseProbs becomes the run list, in declaration order.
type SweepRequest struct {
	Benchmarks []bench.Spec
	// NoiseProbs are uniform depolarizing strengths (two-qubit probability;
	// one-qubit is a tenth of it). Zero means a noiseless run.
	NoiseProbs []float64
	// SweepID is optional and generated when empty.
	SweepID core.SweepID
}

// NewSweepService creates a sweep service
func NewSweepService(simulator ports.Simulator, logger *internal.Logger, workers int, runTimeout time.Duration) (*SweepService, error) {
	if simulator == nil {
		return nil, core.NewParameterError("simulator", "nil simulator")
	}
	if workers < 1 {
		return nil, core.NewParameterError("workers", "must be at least 1")
	}
	if runTimeout <= 0 {
		return nil, core.NewParameterError("run_timeout", "must be positive")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SweepService{
		simulator:  simulator,
		logger:     logger.WithPrefix("sweep"),
		workers:    workers,
		runTimeout: runTimeout,
	}, nil
}

// preparedRun pairs a constructed benchmark with one noise setting.
type preparedRun struct {
	benchmark bench.Benchmark
	qubits    int
	prob      float64
	model     noise.Model
}

// Run executes the sweep. Invalid benchmark parameters or noise probabilities
// fail the whole request up front; simulation and scoring failures are
// isolated per record. Records come back in input order.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*run.Sweep, error) {
	if len(req.Benchmarks) == 0 {
		return nil, core.NewParameterError("benchmarks", "empty benchmark list")
	}
	if len(req.NoiseProbs) == 0 {
		return nil, core.NewParameterError("noise_probs", "empty noise setting list")
	}

	prepared, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = core.SweepID(core.NewID())
	}

	s.logger.Info("sweep %s: %d benchmarks x %d noise settings, %d workers",
		sweepID, len(req.Benchmarks), len(req.NoiseProbs), s.workers)

	records := make([]run.Record, len(prepared))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range prepared {
		i := i
		g.Go(func() error {
			records[i] = s.executeRun(gctx, sweepID, prepared[i])
			// A failed run keeps its slot; only parent cancellation stops
			// the remaining runs.
			if records[i].Failed() && errors.Is(gctx.Err(), context.Canceled) {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sweep := &run.Sweep{
		ID:          sweepID,
		Fingerprint: sweepFingerprint(prepared),
		CreatedAt:   time.Now().UTC(),
		Records:     records,
	}
	s.logger.Info("sweep %s done: %d runs, %d failed", sweepID, len(records), sweep.FailureCount())
	return sweep, nil
}

// prepare constructs every benchmark and noise model up front so that caller
// errors surface before any simulation starts.
func (s *SweepService) prepare(req SweepRequest) ([]preparedRun, error) {
	benchmarks := make([]bench.Benchmark, len(req.Benchmarks))
	for i, spec := range req.Benchmarks {
		b, err := bench.New(spec)
		if err != nil {
			return nil, fmt.Errorf("benchmark %d (%s): %w", i, spec.Family, err)
		}
		if n := b.Circuit().NumQubits; n > s.simulator.MaxQubits() {
			return nil, core.NewResourceExceededError(n, s.simulator.MaxQubits())
		}
		benchmarks[i] = b
	}

	models := make([]noise.Model, len(req.NoiseProbs))
	for i, p := range req.NoiseProbs {
		if p == 0 {
			continue
		}
		m, err := noise.NewUniformDepolarizing(p)
		if err != nil {
			return nil, err
		}
		models[i] = m
	}

	prepared := make([]preparedRun, 0, len(benchmarks)*len(models))
	for _, b := range benchmarks {
		for i, p := range req.NoiseProbs {
			prepared = append(prepared, preparedRun{
				benchmark: b,
				qubits:    b.Circuit().NumQubits,
				prob:      p,
				model:     models[i],
			})
		}
	}
	return prepared, nil
}

// executeRun simulates, scores and feature-extracts one run. Errors end up in
// the record, never returned.
func (s *SweepService) executeRun(ctx context.Context, sweepID core.SweepID, pr preparedRun) run.Record {
	started := time.Now()
	rec := run.Record{
		ID:          core.RunID(core.NewID()),
		SweepID:     sweepID,
		Benchmark:   pr.benchmark.Name(),
		Family:      pr.benchmark.Family(),
		Qubits:      pr.qubits,
		NoiseProb:   pr.prob,
		Fingerprint: pr.benchmark.Circuit().Fingerprint(),
		Status:      run.StatusCompleted,
		CreatedAt:   started.UTC(),
	}

	score, feats, err := s.runOnce(ctx, pr)
	rec.Duration = time.Since(started)
	if err != nil {
		rec.Status = run.StatusFailed
		rec.Error = err.Error()
		s.logger.Warn("run %s (%s, p=%v) failed: %v", rec.ID, rec.Benchmark, pr.prob, err)
		return rec
	}
	rec.Score = score
	rec.Features = feats
	s.logger.Debug("run %s (%s, p=%v) score=%.6f in %s", rec.ID, rec.Benchmark, pr.prob, score, rec.Duration)
	return rec
}

func (s *SweepService) runOnce(ctx context.Context, pr preparedRun) (float64, features.Vector, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	c := pr.benchmark.Circuit()
	ideal, err := s.simulator.Run(runCtx, c, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("ideal simulation: %w", err)
	}
	noisy := ideal
	if pr.model != nil {
		noisy, err = s.simulator.Run(runCtx, c, pr.model)
		if err != nil {
			return 0, nil, fmt.Errorf("noisy simulation: %w", err)
		}
	}

	score, err := pr.benchmark.Score(noisy, ideal)
	if err != nil {
		return 0, nil, fmt.Errorf("scoring: %w", err)
	}
	return score, features.Extract(c), nil
}

// sweepFingerprint identifies a sweep's full input set independently of run
// declaration order.
func sweepFingerprint(prepared []preparedRun) core.SweepFingerprint {
	keys := make([]string, len(prepared))
	for i, pr := range prepared {
		keys[i] = fmt.Sprintf("%s|p=%v", pr.benchmark.Circuit().Fingerprint(), pr.prob)
	}
	return core.ComputeSweepFingerprint(keys, nil)
}
