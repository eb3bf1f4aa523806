package sim

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/noise"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func bellCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.H(0), circuit.CX(0, 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	return c
}

func TestRun_BellState(t *testing.T) {
	e := newEngine(t)
	d, err := e.Run(context.Background(), bellCircuit(t), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if math.Abs(d["00"]-0.5) > 1e-9 || math.Abs(d["11"]-0.5) > 1e-9 {
		t.Errorf("bell distribution = %v, want 00 and 11 at 0.5", d)
	}
	if d["01"] != 0 || d["10"] != 0 {
		t.Errorf("bell distribution leaks onto 01/10: %v", d)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRun_NoiselessMassSumsToOne(t *testing.T) {
	c, err := circuit.New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ops := []circuit.Operation{
		circuit.H(0), circuit.T(1), circuit.RY(2, 1.234),
		circuit.CX(0, 1), circuit.CZ(1, 2), circuit.Swap(0, 2),
		circuit.RZ(0, -0.37), circuit.S(2), circuit.RX(1, 2.5),
	}
	if err := c.Append(ops...); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}

	d, err := newEngine(t).Run(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if total := d.TotalMass(); math.Abs(total-1) > 1e-9 {
		t.Errorf("total mass = %v, want 1 within 1e-9", total)
	}
}

func TestRun_FullDepolarizingOnTwoQubitGate(t *testing.T) {
	model, err := noise.NewDepolarizingModel(0, 1)
	if err != nil {
		t.Fatalf("NewDepolarizingModel: %v", err)
	}

	e := newEngine(t)
	noisy, err := e.Run(context.Background(), bellCircuit(t), model)
	if err != nil {
		t.Fatalf("Run noisy: %v", err)
	}

	// Full depolarizing on both CX targets leaves the maximally mixed state.
	for _, key := range []string{"00", "01", "10", "11"} {
		if math.Abs(noisy[key]-0.25) > 1e-9 {
			t.Errorf("noisy[%s] = %v, want 0.25", key, noisy[key])
		}
	}

	ideal, err := e.Run(context.Background(), bellCircuit(t), nil)
	if err != nil {
		t.Fatalf("Run ideal: %v", err)
	}
	f, err := dist.HellingerFidelity(noisy, ideal)
	if err != nil {
		t.Fatalf("fidelity: %v", err)
	}
	if f <= 0 || f >= 1 {
		t.Errorf("fidelity = %v, want strictly inside (0,1)", f)
	}
}

func TestRun_FidelityMonotoneInNoise(t *testing.T) {
	e := newEngine(t)
	ideal, err := e.Run(context.Background(), bellCircuit(t), nil)
	if err != nil {
		t.Fatalf("Run ideal: %v", err)
	}

	prev := math.Inf(1)
	for _, p := range []float64{0, 0.01, 0.05, 0.1} {
		model, err := noise.NewUniformDepolarizing(p)
		if err != nil {
			t.Fatalf("NewUniformDepolarizing(%v): %v", p, err)
		}
		noisy, err := e.Run(context.Background(), bellCircuit(t), model)
		if err != nil {
			t.Fatalf("Run(p=%v): %v", p, err)
		}
		f, err := dist.HellingerFidelity(noisy, ideal)
		if err != nil {
			t.Fatalf("fidelity(p=%v): %v", p, err)
		}
		if f > prev+1e-12 {
			t.Errorf("fidelity increased from %v to %v at p=%v", prev, f, p)
		}
		prev = f
	}
}

func TestRun_AmplitudeDampingRelaxesToGround(t *testing.T) {
	c, err := circuit.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.X(0)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.Measure(0, 0); err != nil {
		t.Fatalf("Measure: %v", err)
	}

	model, err := noise.NewConstantModel(noise.AmplitudeDamping, 1, true, true)
	if err != nil {
		t.Fatalf("NewConstantModel: %v", err)
	}
	d, err := newEngine(t).Run(context.Background(), c, model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(d["0"]-1) > 1e-9 {
		t.Errorf("distribution = %v, want all mass on 0", d)
	}
}

func TestRun_ResetReinitializes(t *testing.T) {
	c, err := circuit.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.H(0), circuit.Reset(0)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.Measure(0, 0); err != nil {
		t.Fatalf("Measure: %v", err)
	}

	d, err := newEngine(t).Run(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if math.Abs(d["0"]-1) > 1e-9 {
		t.Errorf("distribution after reset = %v, want all mass on 0", d)
	}
}

func TestRun_ResourceCeiling(t *testing.T) {
	e, err := NewEngine(4)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	c, err := circuit.New(5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}

	_, err = e.Run(context.Background(), c, nil)
	if !errors.Is(err, core.ErrResourceExceeded) {
		t.Errorf("want ErrResourceExceeded, got %v", err)
	}

	if _, err := NewEngine(HardCeiling + 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("ceiling above hard limit should fail, got %v", err)
	}
}

func TestRun_UnsupportedGate(t *testing.T) {
	// Bypass the builder to model a circuit the engine cannot execute.
	c := &circuit.Circuit{
		NumQubits: 1,
		Ops: []circuit.Operation{
			{Gate: circuit.GateH, Qubits: []int{0}},
			{Gate: circuit.Gate("u3"), Qubits: []int{0}},
		},
		Measurements: []circuit.Measurement{{Qubit: 0, Bit: 0}},
	}

	_, err := newEngine(t).Run(context.Background(), c, nil)
	if !errors.Is(err, core.ErrUnsupportedGate) {
		t.Fatalf("want ErrUnsupportedGate, got %v", err)
	}
	if want := "operation 1"; err != nil && !strings.Contains(err.Error(), want) {
		t.Errorf("error should identify the operation position, got %q", err.Error())
	}
}

func TestRun_DeadlineSurfacesAsTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := newEngine(t).Run(ctx, bellCircuit(t), nil)
	if !errors.Is(err, core.ErrTimeout) {
		t.Errorf("want ErrTimeout, got %v", err)
	}
}

func TestRun_RequiresMeasurements(t *testing.T) {
	c, err := circuit.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.H(0)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	_, err = newEngine(t).Run(context.Background(), c, nil)
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("want ErrInvalidParameter, got %v", err)
	}
}
