// Package qasm reads and writes circuits in a QASM-2-style textual
// interchange format. The emitter produces a canonical form; parsing a
// canonical file and emitting it again reproduces the input byte for byte.
package qasm

import (
	"math"
	"strconv"
	"strings"

	"qbench/domain/circuit"
)

const header = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"

// Emit renders the circuit in canonical form. Rotation angles are written as
// multiples of pi when the multiple survives the float round trip exactly,
// and as raw radians otherwise, so the emitted text always parses back to
// bit-identical angles.
func Emit(c *circuit.Circuit) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("qreg q[")
	b.WriteString(strconv.Itoa(c.NumQubits))
	b.WriteString("];\n")
	if n := c.NumBits(); n > 0 {
		b.WriteString("creg c[")
		b.WriteString(strconv.Itoa(n))
		b.WriteString("];\n")
	}
	for _, op := range c.Ops {
		b.WriteString(string(op.Gate))
		if op.Gate.Rotational() {
			b.WriteString("(")
			b.WriteString(formatAngle(op.Angle))
			b.WriteString(")")
		}
		b.WriteString(" ")
		for i, q := range op.Qubits {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("q[")
			b.WriteString(strconv.Itoa(q))
			b.WriteString("]")
		}
		b.WriteString(";\n")
	}
	for _, m := range c.Measurements {
		b.WriteString("measure q[")
		b.WriteString(strconv.Itoa(m.Qubit))
		b.WriteString("] -> c[")
		b.WriteString(strconv.Itoa(m.Bit))
		b.WriteString("];\n")
	}
	return b.String()
}

func formatAngle(angle float64) string {
	m := angle / math.Pi
	if m*math.Pi == angle {
		return strconv.FormatFloat(m, 'g', -1, 64) + "*pi"
	}
	return strconv.FormatFloat(angle, 'g', -1, 64)
}
