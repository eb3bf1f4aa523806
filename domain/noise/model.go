package noise

import (
	"qbench/domain/circuit"
)

// DepolarizingModel attaches a depolarizing channel to every gate: TwoQubit
// probability per target of a two-qubit gate, OneQubit per target of a
// single-qubit gate. Reset operations are left noiseless.
type DepolarizingModel struct {
	OneQubit float64
	TwoQubit float64
}

// NewDepolarizingModel validates both probabilities up front.
func NewDepolarizingModel(oneQubit, twoQubit float64) (DepolarizingModel, error) {
	if _, err := NewChannel(Depolarizing, oneQubit); err != nil {
		return DepolarizingModel{}, err
	}
	if _, err := NewChannel(Depolarizing, twoQubit); err != nil {
		return DepolarizingModel{}, err
	}
	return DepolarizingModel{OneQubit: oneQubit, TwoQubit: twoQubit}, nil
}

// NewUniformDepolarizing is the common sweep configuration: probability p on
// two-qubit gates and p/10 on single-qubit gates.
func NewUniformDepolarizing(p float64) (DepolarizingModel, error) {
	return NewDepolarizingModel(p/10, p)
}

func (m DepolarizingModel) ChannelsFor(op circuit.Operation) []Channel {
	if op.Gate == circuit.GateReset {
		return nil
	}
	p := m.OneQubit
	if op.TwoQubit() {
		p = m.TwoQubit
	}
	if p == 0 {
		return nil
	}
	qs := make([]int, len(op.Qubits))
	copy(qs, op.Qubits)
	return []Channel{{Kind: Depolarizing, Qubits: qs, Prob: p}}
}

// ConstantModel applies a fixed channel kind with a fixed probability to the
// targets of every gate whose arity is enabled.
type ConstantModel struct {
	Kind      Kind
	Prob      float64
	OnOneQ    bool
	OnTwoQ    bool
}

// NewConstantModel validates the probability at construction.
func NewConstantModel(kind Kind, prob float64, onOneQubit, onTwoQubit bool) (ConstantModel, error) {
	if _, err := NewChannel(kind, prob); err != nil {
		return ConstantModel{}, err
	}
	return ConstantModel{Kind: kind, Prob: prob, OnOneQ: onOneQubit, OnTwoQ: onTwoQubit}, nil
}

func (m ConstantModel) ChannelsFor(op circuit.Operation) []Channel {
	if op.Gate == circuit.GateReset || m.Prob == 0 {
		return nil
	}
	if op.TwoQubit() && !m.OnTwoQ {
		return nil
	}
	if !op.TwoQubit() && !m.OnOneQ {
		return nil
	}
	qs := make([]int, len(op.Qubits))
	copy(qs, op.Qubits)
	return []Channel{{Kind: m.Kind, Qubits: qs, Prob: m.Prob}}
}

// composite concatenates the channel lists of several models, preserving
// model order and each model's internal channel order.
type composite []Model

func (c composite) ChannelsFor(op circuit.Operation) []Channel {
	var channels []Channel
	for _, m := range c {
		channels = append(channels, m.ChannelsFor(op)...)
	}
	return channels
}

// Compose sums noise models: the resulting model applies every component
// model's channels in declaration order.
func Compose(models ...Model) Model {
	flat := make(composite, 0, len(models))
	for _, m := range models {
		if m != nil {
			flat = append(flat, m)
		}
	}
	return flat
}
