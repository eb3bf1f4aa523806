// Package run holds the execution records a sweep produces: one Record per
// (benchmark, noise setting) pair, grouped under a Sweep.
package run

import (
	"time"

	"qbench/domain/core"
	"qbench/domain/features"
)

// Status of a single run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is the outcome of executing one benchmark instance under one noise
// setting. Failed runs keep their slot: Status is StatusFailed, Error carries
// the message, and Score/Features are zero-valued.
type Record struct {
	ID          core.RunID              `json:"id" db:"id"`
	SweepID     core.SweepID            `json:"sweep_id" db:"sweep_id"`
	Benchmark   string                  `json:"benchmark" db:"benchmark"`
	Family      core.BenchmarkKey       `json:"family" db:"family"`
	Qubits      int                     `json:"qubits" db:"qubits"`
	NoiseProb   float64                 `json:"noise_prob" db:"noise_prob"`
	Fingerprint core.CircuitFingerprint `json:"fingerprint" db:"fingerprint"`
	Score       float64                 `json:"score" db:"score"`
	Features    features.Vector         `json:"features" db:"-"`
	Status      Status                  `json:"status" db:"status"`
	Error       string                  `json:"error,omitempty" db:"error"`
	Duration    time.Duration           `json:"duration_ns" db:"duration_ns"`
	CreatedAt   time.Time               `json:"created_at" db:"created_at"`
}

// Failed reports whether the run did not produce a score.
func (r Record) Failed() bool { return r.Status == StatusFailed }

// Sweep groups the records of one batch execution.
type Sweep struct {
	ID          core.SweepID          `json:"id" db:"id"`
	Fingerprint core.SweepFingerprint `json:"fingerprint" db:"fingerprint"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
	Records     []Record              `json:"records" db:"-"`
}

// Completed returns the subset of records with a usable score, preserving
// order.
func (s Sweep) Completed() []Record {
	out := make([]Record, 0, len(s.Records))
	for _, r := range s.Records {
		if !r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// FailureCount counts failed records.
func (s Sweep) FailureCount() int {
	n := 0
	for _, r := range s.Records {
		if r.Failed() {
			n++
		}
	}
	return n
}
