package ports

import (
	"context"

	"qbench/domain/circuit"
	"qbench/domain/dist"
	"qbench/domain/noise"
)

// Simulator executes a circuit and returns the exact output distribution over
// the circuit's declared measurement mapping. A nil model means a noiseless
// run.
type Simulator interface {
	Run(ctx context.Context, c *circuit.Circuit, model noise.Model) (dist.Distribution, error)
	// MaxQubits is the largest register the simulator accepts.
	MaxQubits() int
}
