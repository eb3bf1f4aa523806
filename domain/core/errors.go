package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Caller-input errors: surfaced immediately, never retried.
	ErrInvalidParameter      = errors.New("invalid benchmark parameter")
	ErrInvalidNoiseParameter = errors.New("invalid noise parameter")

	// Run-scoped simulation errors.
	ErrUnsupportedGate    = errors.New("unsupported gate")
	ErrResourceExceeded   = errors.New("qubit count exceeds simulator ceiling")
	ErrSimulationDiverged = errors.New("simulation diverged")
	ErrTimeout            = errors.New("simulation timed out")

	// Scoring consistency errors.
	ErrDomainMismatch   = errors.New("distribution domain mismatch")
	ErrInvalidReference = errors.New("invalid reference distribution")

	// Lookup errors.
	ErrNotFound         = errors.New("resource not found")
	ErrUnknownBenchmark = fmt.Errorf("%w: benchmark family", ErrNotFound)
	ErrResultNotFound   = fmt.Errorf("%w: result", ErrNotFound)
	ErrSweepNotFound    = fmt.Errorf("%w: sweep", ErrNotFound)
)

// Error constructors with context
func NewParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameter, field, reason)
}

func NewNoiseParameterError(kind string, p float64) error {
	return fmt.Errorf("%w: %s probability %v outside [0,1]", ErrInvalidNoiseParameter, kind, p)
}

func NewUnsupportedGateError(gate string, opIndex int) error {
	return fmt.Errorf("%w: %q at operation %d", ErrUnsupportedGate, gate, opIndex)
}

func NewResourceExceededError(requested, ceiling int) error {
	return fmt.Errorf("%w: %d qubits requested, ceiling is %d", ErrResourceExceeded, requested, ceiling)
}

func NewDivergenceError(totalMass float64) error {
	return fmt.Errorf("%w: total probability mass %v after normalization", ErrSimulationDiverged, totalMass)
}

// Error checking helpers
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInvalidNoiseParameter)
}

func IsRunError(err error) bool {
	return errors.Is(err, ErrUnsupportedGate) ||
		errors.Is(err, ErrResourceExceeded) ||
		errors.Is(err, ErrSimulationDiverged) ||
		errors.Is(err, ErrTimeout)
}

func IsScoringError(err error) bool {
	return errors.Is(err, ErrDomainMismatch) ||
		errors.Is(err, ErrInvalidReference)
}
