package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// SweepID identifies one batch of benchmark runs.
	SweepID ID
	// RunID identifies a single (benchmark, noise setting) execution.
	RunID ID
	// BenchmarkKey names a benchmark family ("ghz", "qaoa-vanilla", ...).
	BenchmarkKey string
)

func (id SweepID) String() string    { return ID(id).String() }
func (id RunID) String() string      { return ID(id).String() }
func (k BenchmarkKey) String() string { return string(k) }

// ParseSweepID parses a string into SweepID
func ParseSweepID(s string) (SweepID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("sweep ID cannot be empty")
	}
	return SweepID(s), nil
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
