package circuit

import (
	"errors"
	"math"
	"testing"

	"qbench/domain/core"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		numQubits int
		wantErr   bool
	}{
		{name: "single qubit", numQubits: 1, wantErr: false},
		{name: "many qubits", numQubits: 8, wantErr: false},
		{name: "zero qubits", numQubits: 0, wantErr: true},
		{name: "negative", numQubits: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.numQubits)
			if tt.wantErr && !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAppend_Validation(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{name: "valid H", op: H(0), wantErr: false},
		{name: "valid CX", op: CX(0, 1), wantErr: false},
		{name: "valid rotation", op: RZ(1, 0.25*math.Pi), wantErr: false},
		{name: "qubit out of range", op: H(2), wantErr: true},
		{name: "negative qubit", op: X(-1), wantErr: true},
		{name: "identical operands", op: CX(1, 1), wantErr: true},
		{name: "unknown gate", op: Operation{Gate: "ccx", Qubits: []int{0, 1}}, wantErr: true},
		{name: "wrong arity", op: Operation{Gate: GateH, Qubits: []int{0, 1}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(2)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			err = c.Append(tt.op)
			if tt.wantErr && !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMeasure_Invariants(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Measure(0, 0); err != nil {
		t.Fatalf("first measurement: %v", err)
	}
	if err := c.Measure(0, 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("duplicate qubit should fail, got %v", err)
	}
	if err := c.Measure(1, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("duplicate classical bit should fail, got %v", err)
	}
	if err := c.Measure(3, 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("out-of-range qubit should fail, got %v", err)
	}
	if err := c.Measure(1, 2); err != nil {
		t.Errorf("valid measurement rejected: %v", err)
	}
	if got := c.NumBits(); got != 3 {
		t.Errorf("NumBits = %d, want 3", got)
	}
}

func TestFingerprint_AngleSensitivity(t *testing.T) {
	build := func(theta float64) *Circuit {
		c, _ := New(1)
		if err := c.Append(RZ(0, theta)); err != nil {
			t.Fatalf("Append: %v", err)
		}
		return c
	}

	a := build(0.5)
	b := build(0.5)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical circuits must share a fingerprint")
	}

	shifted := build(math.Nextafter(0.5, 1))
	if a.Fingerprint() == shifted.Fingerprint() {
		t.Error("one-ulp angle change must alter the fingerprint")
	}
}
