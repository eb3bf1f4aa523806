package bench

import (
	"fmt"
	"math"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/score"
)

// MerminBell prepares a GHZ state and rotates into the measurement basis of
// the Mermin operator, testing a device's ability to exploit entanglement.
// Only the 3- and 4-qubit instances are defined; their gate sequences are
// fixed decompositions of the Mermin-operator measurement.
type MerminBell struct {
	n    int
	circ *circuit.Circuit
}

// NewMerminBell builds the benchmark for n in {3, 4}.
func NewMerminBell(n int) (*MerminBell, error) {
	if n != 3 && n != 4 {
		return nil, core.NewParameterError("qubits", "mermin-bell supports only 3 or 4 qubits")
	}
	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}

	var ops []circuit.Operation
	if n == 3 {
		ops = []circuit.Operation{
			circuit.RX(0, -math.Pi/2),
			circuit.CX(0, 1),
			circuit.CX(1, 2),
			circuit.H(1),
			circuit.H(2),
			circuit.CX(0, 2),
			circuit.CX(1, 2),
			circuit.CX(2, 0),
			circuit.CX(1, 0),
			circuit.S(2),
			circuit.S(0),
			circuit.H(2),
			circuit.CZ(0, 1),
			circuit.H(0),
			circuit.S(1),
			circuit.H(1),
		}
	} else {
		ops = []circuit.Operation{
			circuit.RX(0, -math.Pi/2),
			circuit.CX(0, 1),
			circuit.CX(1, 2),
			circuit.CX(2, 3),
			circuit.H(1),
			circuit.H(2),
			circuit.H(3),
			circuit.CX(0, 3),
			circuit.Swap(1, 2),
			circuit.CX(1, 3),
			circuit.CX(2, 3),
			circuit.CX(3, 0),
			circuit.CX(2, 0),
			circuit.CX(1, 0),
			circuit.S(3),
			circuit.H(3),
			circuit.S(0),
			circuit.CZ(0, 1),
			circuit.S(1),
			circuit.CZ(0, 2),
			circuit.CZ(1, 2),
			circuit.H(0),
			circuit.H(1),
			circuit.S(2),
			circuit.H(2),
		}
	}
	if err := c.Append(ops...); err != nil {
		return nil, err
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}
	return &MerminBell{n: n, circ: c}, nil
}

func (m *MerminBell) Name() string              { return fmt.Sprintf("mermin-bell-%d", m.n) }
func (m *MerminBell) Family() core.BenchmarkKey { return FamilyMerminBell }
func (m *MerminBell) Circuit() *circuit.Circuit { return m.circ }

// Score is the Hellinger fidelity against the simulated ideal distribution.
func (m *MerminBell) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.Fidelity(noisy, ideal)
}
