package bench

import (
	"fmt"
	"strings"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/score"
)

// GHZ prepares the n-qubit GHZ state: a Hadamard followed by a CX chain.
// Performance is the Hellinger fidelity between the noisy output and the
// analytic ideal, which places probability 0.5 on each of the all-zero and
// all-one bitstrings.
type GHZ struct {
	n    int
	circ *circuit.Circuit
}

// NewGHZ builds the benchmark for n >= 2 qubits.
func NewGHZ(n int) (*GHZ, error) {
	if n < 2 {
		return nil, core.NewParameterError("qubits", "ghz needs at least 2 qubits")
	}
	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}
	if err := c.Append(circuit.H(0)); err != nil {
		return nil, err
	}
	for i := 0; i < n-1; i++ {
		if err := c.Append(circuit.CX(i, i+1)); err != nil {
			return nil, err
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}
	return &GHZ{n: n, circ: c}, nil
}

func (g *GHZ) Name() string              { return fmt.Sprintf("ghz-%d", g.n) }
func (g *GHZ) Family() core.BenchmarkKey { return FamilyGHZ }
func (g *GHZ) Circuit() *circuit.Circuit { return g.circ }

// Score compares against the analytic GHZ distribution; the simulated ideal
// argument is unused.
func (g *GHZ) Score(noisy, _ dist.Distribution) (float64, error) {
	ideal := dist.Distribution{
		strings.Repeat("0", g.n): 0.5,
		strings.Repeat("1", g.n): 0.5,
	}
	return score.Fidelity(noisy, ideal)
}
