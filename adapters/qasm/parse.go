package qasm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"qbench/domain/circuit"
)

// ErrParse is wrapped by every error Parse returns. The message carries the
// 1-based line number of the offending instruction.
var ErrParse = errors.New("interchange parse error")

func parseError(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrParse, line, fmt.Sprintf(format, args...))
}

// Parse reads the textual interchange form back into a circuit. Header and
// include lines are accepted and ignored; any other instruction outside the
// qreg/creg/gate/measure set fails with the line number.
func Parse(src string) (*circuit.Circuit, error) {
	var c *circuit.Circuit
	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			return nil, parseError(lineNo, "missing terminating semicolon")
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))

		switch {
		case strings.HasPrefix(line, "OPENQASM "), strings.HasPrefix(line, "include "):
			continue
		case strings.HasPrefix(line, "qreg "):
			if c != nil {
				return nil, parseError(lineNo, "duplicate qreg declaration")
			}
			n, err := parseRegister(line[len("qreg "):], "q")
			if err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
			c, err = circuit.New(n)
			if err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
		case strings.HasPrefix(line, "creg "):
			if c == nil {
				return nil, parseError(lineNo, "creg before qreg")
			}
			if _, err := parseRegister(line[len("creg "):], "c"); err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
		case strings.HasPrefix(line, "measure "):
			if c == nil {
				return nil, parseError(lineNo, "measure before qreg")
			}
			if err := parseMeasure(c, line[len("measure "):]); err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
		default:
			if c == nil {
				return nil, parseError(lineNo, "gate before qreg")
			}
			op, err := parseGate(line)
			if err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
			if err := c.Append(op); err != nil {
				return nil, parseError(lineNo, "%v", err)
			}
		}
	}
	if c == nil {
		return nil, fmt.Errorf("%w: no qreg declaration", ErrParse)
	}
	return c, nil
}

// parseRegister reads "q[n]" and returns n.
func parseRegister(s, name string) (int, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, name+"[") || !strings.HasSuffix(s, "]") {
		return 0, fmt.Errorf("malformed register %q", s)
	}
	n, err := strconv.Atoi(s[len(name)+1 : len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("malformed register size in %q", s)
	}
	return n, nil
}

// parseOperand reads "q[i]" and returns i.
func parseOperand(s, name string) (int, error) {
	return parseRegister(s, name)
}

func parseMeasure(c *circuit.Circuit, s string) error {
	parts := strings.Split(s, "->")
	if len(parts) != 2 {
		return fmt.Errorf("malformed measure %q", s)
	}
	qubit, err := parseOperand(parts[0], "q")
	if err != nil {
		return err
	}
	bit, err := parseOperand(parts[1], "c")
	if err != nil {
		return err
	}
	return c.Measure(qubit, bit)
}

func parseGate(s string) (circuit.Operation, error) {
	head, operands, ok := strings.Cut(s, " ")
	if !ok {
		return circuit.Operation{}, fmt.Errorf("malformed instruction %q", s)
	}

	name := head
	angleExpr := ""
	if open := strings.IndexByte(head, '('); open >= 0 {
		if !strings.HasSuffix(head, ")") {
			return circuit.Operation{}, fmt.Errorf("unbalanced parameter list in %q", head)
		}
		name = head[:open]
		angleExpr = head[open+1 : len(head)-1]
	}

	gate := circuit.Gate(name)
	arity := gate.Arity()
	if arity == 0 {
		return circuit.Operation{}, fmt.Errorf("unknown instruction %q", name)
	}
	if gate.Rotational() != (angleExpr != "") {
		return circuit.Operation{}, fmt.Errorf("gate %q parameter mismatch", name)
	}

	op := circuit.Operation{Gate: gate}
	for _, operand := range strings.Split(operands, ",") {
		q, err := parseOperand(strings.TrimSpace(operand), "q")
		if err != nil {
			return circuit.Operation{}, err
		}
		op.Qubits = append(op.Qubits, q)
	}
	if len(op.Qubits) != arity {
		return circuit.Operation{}, fmt.Errorf("gate %q takes %d operands, got %d", name, arity, len(op.Qubits))
	}

	if angleExpr != "" {
		angle, err := parseAngle(angleExpr)
		if err != nil {
			return circuit.Operation{}, err
		}
		op.Angle = angle
	}
	return op, nil
}

// parseAngle accepts the canonical "m*pi" form plus the raw-radian, bare
// "pi", "-pi" and "pi/d" spellings.
func parseAngle(expr string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	switch {
	case s == "pi":
		return math.Pi, nil
	case s == "-pi":
		return -math.Pi, nil
	case strings.HasSuffix(s, "*pi"):
		m, err := strconv.ParseFloat(strings.TrimSuffix(s, "*pi"), 64)
		if err != nil {
			return 0, fmt.Errorf("malformed angle %q", expr)
		}
		return m * math.Pi, nil
	case strings.HasPrefix(s, "pi/"):
		d, err := strconv.ParseFloat(strings.TrimPrefix(s, "pi/"), 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("malformed angle %q", expr)
		}
		return math.Pi / d, nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed angle %q", expr)
		}
		return v, nil
	}
}
