package circuit

import (
	"strconv"
	"strings"

	"qbench/domain/core"
)

// Gate names a unitary (or reset) operation the circuit model understands.
type Gate string

const (
	GateH    Gate = "h"
	GateX    Gate = "x"
	GateY    Gate = "y"
	GateZ    Gate = "z"
	GateS    Gate = "s"
	GateSdg  Gate = "sdg"
	GateT    Gate = "t"
	GateTdg  Gate = "tdg"
	GateRX   Gate = "rx"
	GateRY   Gate = "ry"
	GateRZ   Gate = "rz"
	GateCX   Gate = "cx"
	GateCZ   Gate = "cz"
	GateSwap Gate = "swap"
	// GateReset re-initializes a qubit to |0>. Used by the error-correction
	// benchmarks between syndrome rounds.
	GateReset Gate = "reset"
)

// Arity returns the number of qubit operands the gate takes, or 0 for an
// unknown gate name.
func (g Gate) Arity() int {
	switch g {
	case GateH, GateX, GateY, GateZ, GateS, GateSdg, GateT, GateTdg,
		GateRX, GateRY, GateRZ, GateReset:
		return 1
	case GateCX, GateCZ, GateSwap:
		return 2
	}
	return 0
}

// Rotational reports whether the gate carries an angle parameter.
func (g Gate) Rotational() bool {
	return g == GateRX || g == GateRY || g == GateRZ
}

// Operation is one gate application. Angle is in radians and only meaningful
// for rotational gates; it is preserved bit-for-bit through the interchange
// format. For two-qubit gates Qubits[0] is the control (CX) or the first
// operand (CZ, SWAP).
type Operation struct {
	Gate   Gate
	Qubits []int
	Angle  float64
}

// TwoQubit reports whether the operation touches two qubits.
func (op Operation) TwoQubit() bool {
	return len(op.Qubits) == 2
}

// Measurement maps a qubit onto a classical register bit.
type Measurement struct {
	Qubit int
	Bit   int
}

// Circuit is an ordered gate program over a fixed qubit register plus the
// qubit-to-classical-bit measurement mapping. Circuits are built through New
// and the Append/Measure methods and must be treated as immutable once handed
// to a simulator or feature extractor.
//
// Basis convention: qubit 0 is the most significant bit of a
// computational-basis index, so |q0 q1 ... qn-1> reads left to right.
type Circuit struct {
	NumQubits    int
	Ops          []Operation
	Measurements []Measurement
}

// New creates an empty circuit over numQubits qubits.
func New(numQubits int) (*Circuit, error) {
	if numQubits < 1 {
		return nil, core.NewParameterError("num_qubits", "must be at least 1")
	}
	return &Circuit{NumQubits: numQubits}, nil
}

// Append validates the operation against the register and adds it.
func (c *Circuit) Append(ops ...Operation) error {
	for _, op := range ops {
		arity := op.Gate.Arity()
		if arity == 0 {
			return core.NewParameterError("gate", "unknown gate "+string(op.Gate))
		}
		if len(op.Qubits) != arity {
			return core.NewParameterError("qubits",
				"gate "+string(op.Gate)+" takes "+strconv.Itoa(arity)+" operands")
		}
		for _, q := range op.Qubits {
			if q < 0 || q >= c.NumQubits {
				return core.NewParameterError("qubit", "index "+strconv.Itoa(q)+" out of range")
			}
		}
		if arity == 2 && op.Qubits[0] == op.Qubits[1] {
			return core.NewParameterError("qubits", "two-qubit gate operands must differ")
		}
		c.Ops = append(c.Ops, op)
	}
	return nil
}

// Measure maps qubit onto classical bit. Every measured qubit maps to exactly
// one bit and bit indices are unique.
func (c *Circuit) Measure(qubit, bit int) error {
	if qubit < 0 || qubit >= c.NumQubits {
		return core.NewParameterError("measure", "qubit index "+strconv.Itoa(qubit)+" out of range")
	}
	if bit < 0 {
		return core.NewParameterError("measure", "classical bit index must be non-negative")
	}
	for _, m := range c.Measurements {
		if m.Qubit == qubit {
			return core.NewParameterError("measure", "qubit "+strconv.Itoa(qubit)+" already measured")
		}
		if m.Bit == bit {
			return core.NewParameterError("measure", "classical bit "+strconv.Itoa(bit)+" already assigned")
		}
	}
	c.Measurements = append(c.Measurements, Measurement{Qubit: qubit, Bit: bit})
	return nil
}

// MeasureAll maps qubit i onto classical bit i for every qubit.
func (c *Circuit) MeasureAll() error {
	for q := 0; q < c.NumQubits; q++ {
		if err := c.Measure(q, q); err != nil {
			return err
		}
	}
	return nil
}

// NumBits returns the classical register width implied by the measurement
// mapping (highest bit index + 1).
func (c *Circuit) NumBits() int {
	width := 0
	for _, m := range c.Measurements {
		if m.Bit+1 > width {
			width = m.Bit + 1
		}
	}
	return width
}

// Fingerprint hashes the exact circuit structure. Angles are encoded as raw
// IEEE-754 bits so circuits that differ by one ulp fingerprint differently.
func (c *Circuit) Fingerprint() core.CircuitFingerprint {
	var b strings.Builder
	b.WriteString("q")
	b.WriteString(strconv.Itoa(c.NumQubits))
	b.WriteString(";")
	for _, op := range c.Ops {
		b.WriteString(string(op.Gate))
		for _, q := range op.Qubits {
			b.WriteString(" ")
			b.WriteString(strconv.Itoa(q))
		}
		if op.Gate.Rotational() {
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(op.Angle, 'x', -1, 64))
		}
		b.WriteString(";")
	}
	for _, m := range c.Measurements {
		b.WriteString("m ")
		b.WriteString(strconv.Itoa(m.Qubit))
		b.WriteString(">")
		b.WriteString(strconv.Itoa(m.Bit))
		b.WriteString(";")
	}
	return core.NewCircuitFingerprint(b.String())
}

// Convenience constructors for the supported operations.

func H(q int) Operation    { return Operation{Gate: GateH, Qubits: []int{q}} }
func X(q int) Operation    { return Operation{Gate: GateX, Qubits: []int{q}} }
func Y(q int) Operation    { return Operation{Gate: GateY, Qubits: []int{q}} }
func Z(q int) Operation    { return Operation{Gate: GateZ, Qubits: []int{q}} }
func S(q int) Operation    { return Operation{Gate: GateS, Qubits: []int{q}} }
func Sdg(q int) Operation  { return Operation{Gate: GateSdg, Qubits: []int{q}} }
func T(q int) Operation    { return Operation{Gate: GateT, Qubits: []int{q}} }
func Tdg(q int) Operation  { return Operation{Gate: GateTdg, Qubits: []int{q}} }
func Reset(q int) Operation { return Operation{Gate: GateReset, Qubits: []int{q}} }

func RX(q int, theta float64) Operation {
	return Operation{Gate: GateRX, Qubits: []int{q}, Angle: theta}
}

func RY(q int, theta float64) Operation {
	return Operation{Gate: GateRY, Qubits: []int{q}, Angle: theta}
}

func RZ(q int, theta float64) Operation {
	return Operation{Gate: GateRZ, Qubits: []int{q}, Angle: theta}
}

func CX(control, target int) Operation {
	return Operation{Gate: GateCX, Qubits: []int{control, target}}
}

func CZ(a, b int) Operation {
	return Operation{Gate: GateCZ, Qubits: []int{a, b}}
}

func Swap(a, b int) Operation {
	return Operation{Gate: GateSwap, Qubits: []int{a, b}}
}
