package bench

import (
	"fmt"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/score"
)

// The error-correction proxies interleave data qubits (even indices) with
// syndrome ancillas (odd indices): numData data qubits need 2*numData-1
// physical qubits. Each round resets the ancillas and extracts parity
// syndromes; all qubits are measured at the end. Scores are Hellinger
// fidelities against the simulated ideal distribution.

func validateCodeParams(numData, rounds int, state []int) error {
	if numData < 2 {
		return core.NewParameterError("data_qubits", "codes need at least 2 data qubits")
	}
	if rounds < 1 {
		return core.NewParameterError("rounds", "codes need at least 1 round")
	}
	if len(state) != numData {
		return core.NewParameterError("state",
			fmt.Sprintf("state length %d must match %d data qubits", len(state), numData))
	}
	for i, b := range state {
		if b != 0 && b != 1 {
			return core.NewParameterError("state", fmt.Sprintf("state[%d] must be 0 or 1", i))
		}
	}
	return nil
}

// BitCode measures stabilizers of the bit-flip repetition code: each round
// resets the ancillas and accumulates the parity of neighboring data qubits
// via CX gates.
type BitCode struct {
	numData int
	rounds  int
	circ    *circuit.Circuit
}

// NewBitCode builds the benchmark. state holds the initial computational
// state of each data qubit (0 or 1).
func NewBitCode(numData, rounds int, state []int) (*BitCode, error) {
	if err := validateCodeParams(numData, rounds, state); err != nil {
		return nil, err
	}
	n := 2*numData - 1
	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}

	for i, b := range state {
		if b == 1 {
			if err := c.Append(circuit.X(2 * i)); err != nil {
				return nil, err
			}
		}
	}
	for r := 0; r < rounds; r++ {
		for a := 1; a < n; a += 2 {
			if err := c.Append(circuit.Reset(a)); err != nil {
				return nil, err
			}
		}
		for a := 1; a < n; a += 2 {
			if err := c.Append(circuit.CX(a-1, a), circuit.CX(a+1, a)); err != nil {
				return nil, err
			}
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}
	return &BitCode{numData: numData, rounds: rounds, circ: c}, nil
}

func (b *BitCode) Name() string              { return fmt.Sprintf("bit-code-%d-r%d", b.numData, b.rounds) }
func (b *BitCode) Family() core.BenchmarkKey { return FamilyBitCode }
func (b *BitCode) Circuit() *circuit.Circuit { return b.circ }

func (b *BitCode) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.Fidelity(noisy, ideal)
}

// PhaseCode is the phase-flip analogue: data qubits are prepared in |+>/|->
// and each round extracts phase parities with Hadamard-conjugated CZ gates.
type PhaseCode struct {
	numData int
	rounds  int
	circ    *circuit.Circuit
}

// NewPhaseCode builds the benchmark. state selects |+> (0) or |-> (1) per
// data qubit.
func NewPhaseCode(numData, rounds int, state []int) (*PhaseCode, error) {
	if err := validateCodeParams(numData, rounds, state); err != nil {
		return nil, err
	}
	n := 2*numData - 1
	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}

	for i, b := range state {
		if b == 1 {
			if err := c.Append(circuit.X(2 * i)); err != nil {
				return nil, err
			}
		}
		if err := c.Append(circuit.H(2 * i)); err != nil {
			return nil, err
		}
	}
	for r := 0; r < rounds; r++ {
		for a := 1; a < n; a += 2 {
			if err := c.Append(circuit.Reset(a)); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.H(q)); err != nil {
				return nil, err
			}
		}
		for a := 1; a < n; a += 2 {
			if err := c.Append(circuit.CZ(a-1, a), circuit.CZ(a+1, a)); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.H(q)); err != nil {
				return nil, err
			}
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}
	return &PhaseCode{numData: numData, rounds: rounds, circ: c}, nil
}

func (p *PhaseCode) Name() string              { return fmt.Sprintf("phase-code-%d-r%d", p.numData, p.rounds) }
func (p *PhaseCode) Family() core.BenchmarkKey { return FamilyPhaseCode }
func (p *PhaseCode) Circuit() *circuit.Circuit { return p.circ }

func (p *PhaseCode) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.Fidelity(noisy, ideal)
}
