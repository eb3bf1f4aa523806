package qasm

import (
	"errors"
	"math"
	"strings"
	"testing"

	"qbench/domain/circuit"
)

func buildSample(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = c.Append(
		circuit.H(0),
		circuit.CX(0, 1),
		circuit.RZ(2, 0.5*math.Pi),
		circuit.RX(1, 2*math.Pi),
		circuit.RY(0, 0.3),
		circuit.Swap(1, 2),
		circuit.Reset(2),
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	return c
}

func TestEmit_Canonical(t *testing.T) {
	// Power-of-two pi multiples survive the emit round trip exactly, so the
	// canonical text is fully determined.
	c, err := circuit.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = c.Append(
		circuit.H(0),
		circuit.CX(0, 1),
		circuit.RZ(1, 0.5*math.Pi),
		circuit.RX(0, 2*math.Pi),
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}

	got := Emit(c)
	want := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
rz(0.5*pi) q[1];
rx(2*pi) q[0];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	if got != want {
		t.Errorf("emitted text mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	text := Emit(buildSample(t))
	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if again := Emit(parsed); again != text {
		t.Errorf("re-emission differs:\n--- first ---\n%s\n--- second ---\n%s", text, again)
	}
	if parsed.Fingerprint() != buildSample(t).Fingerprint() {
		t.Error("parsed circuit fingerprint differs from the original")
	}
}

func TestParse_AngleSpellings(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"pi", math.Pi},
		{"-pi", -math.Pi},
		{"pi/2", math.Pi / 2},
		{"0.25*pi", 0.25 * math.Pi},
		{"-0.5*pi", -0.5 * math.Pi},
		{"1.5707963267948966", 1.5707963267948966},
		{"0", 0},
	}
	for _, tt := range tests {
		c, err := Parse("qreg q[1];\nrz(" + tt.expr + ") q[0];\n")
		if err != nil {
			t.Errorf("Parse rz(%s): %v", tt.expr, err)
			continue
		}
		if got := c.Ops[0].Angle; got != tt.want {
			t.Errorf("rz(%s) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{name: "unknown instruction", src: "qreg q[2];\nu3(0.1) q[0];\n", line: "line 2"},
		{name: "gate before qreg", src: "h q[0];\n", line: "line 1"},
		{name: "missing semicolon", src: "qreg q[2];\nh q[0]\n", line: "line 2"},
		{name: "operand out of range", src: "qreg q[2];\ncx q[0],q[5];\n", line: "line 2"},
		{name: "bad angle", src: "qreg q[2];\nrz(half*pi) q[0];\n", line: "line 2"},
		{name: "angle on fixed gate", src: "qreg q[2];\nh(0.5*pi) q[0];\n", line: "line 2"},
		{name: "duplicate measure bit", src: "qreg q[2];\nmeasure q[0] -> c[0];\nmeasure q[1] -> c[0];\n", line: "line 3"},
		{name: "empty input", src: "", line: "qreg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("want ErrParse, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not mention %q", err, tt.line)
			}
		})
	}
}
