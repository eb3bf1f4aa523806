// Package noise models stochastic error channels applied around ideal
// operations. A Model is a pure function of the operation; channels expand to
// Kraus operator sets the simulator applies as rho -> sum_k K rho K^dagger.
package noise

import (
	"math"

	"qbench/domain/circuit"
	"qbench/domain/core"
)

// Kind names a channel family.
type Kind string

const (
	// Depolarizing replaces the qubit state with the maximally mixed state
	// with probability p.
	Depolarizing Kind = "depolarizing"
	// BitFlip applies X with probability p.
	BitFlip Kind = "bit_flip"
	// PhaseFlip applies Z with probability p.
	PhaseFlip Kind = "phase_flip"
	// AmplitudeDamping relaxes |1> toward |0> with probability p.
	AmplitudeDamping Kind = "amplitude_damping"
)

// Channel is one error channel: a kind, the qubits it acts on and a single
// probability parameter in [0,1]. Multi-qubit channels act independently on
// each listed qubit.
type Channel struct {
	Kind   Kind
	Qubits []int
	Prob   float64
}

// NewChannel validates the probability parameter at construction time.
func NewChannel(kind Kind, prob float64, qubits ...int) (Channel, error) {
	if prob < 0 || prob > 1 || math.IsNaN(prob) {
		return Channel{}, core.NewNoiseParameterError(string(kind), prob)
	}
	switch kind {
	case Depolarizing, BitFlip, PhaseFlip, AmplitudeDamping:
	default:
		return Channel{}, core.NewParameterError("noise kind", "unknown kind "+string(kind))
	}
	qs := make([]int, len(qubits))
	copy(qs, qubits)
	return Channel{Kind: kind, Qubits: qs, Prob: prob}, nil
}

// Mat2 is a 2x2 complex matrix, row major.
type Mat2 [2][2]complex128

// KrausOperators expands the channel into its single-qubit Kraus set. The
// simulator applies the set once per target qubit.
func (ch Channel) KrausOperators() []Mat2 {
	p := ch.Prob
	switch ch.Kind {
	case Depolarizing:
		// K0 = sqrt(1-3p/4) I, plus sqrt(p/4) {X, Y, Z}; maps rho to
		// (1-p) rho + p I/2.
		k0 := complex(math.Sqrt(1-3*p/4), 0)
		kp := complex(math.Sqrt(p/4), 0)
		return []Mat2{
			{{k0, 0}, {0, k0}},
			{{0, kp}, {kp, 0}},
			{{0, -1i * kp}, {1i * kp, 0}},
			{{kp, 0}, {0, -kp}},
		}
	case BitFlip:
		k0 := complex(math.Sqrt(1-p), 0)
		k1 := complex(math.Sqrt(p), 0)
		return []Mat2{
			{{k0, 0}, {0, k0}},
			{{0, k1}, {k1, 0}},
		}
	case PhaseFlip:
		k0 := complex(math.Sqrt(1-p), 0)
		k1 := complex(math.Sqrt(p), 0)
		return []Mat2{
			{{k0, 0}, {0, k0}},
			{{k1, 0}, {0, -k1}},
		}
	case AmplitudeDamping:
		g := complex(math.Sqrt(p), 0)
		keep := complex(math.Sqrt(1-p), 0)
		return []Mat2{
			{{1, 0}, {0, keep}},
			{{0, g}, {0, 0}},
		}
	}
	return nil
}

// ResetKraus is the Kraus set for re-initializing a qubit to |0>. It is not a
// Channel (no free parameter); the simulator uses it for reset operations.
func ResetKraus() []Mat2 {
	return []Mat2{
		{{1, 0}, {0, 0}}, // |0><0|
		{{0, 1}, {0, 0}}, // |0><1|
	}
}

// Model maps an ideal operation to the ordered channels applied after it.
// Implementations must be pure functions of the operation.
type Model interface {
	ChannelsFor(op circuit.Operation) []Channel
}
