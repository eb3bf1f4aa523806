package features

import (
	"math"
	"reflect"
	"testing"

	"qbench/domain/circuit"
)

func buildGHZ3(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.H(0), circuit.CX(0, 1), circuit.CX(1, 2)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.MeasureAll(); err != nil {
		t.Fatalf("MeasureAll: %v", err)
	}
	return c
}

func TestExtract_GHZ3(t *testing.T) {
	v := Extract(buildGHZ3(t))

	want := map[string]float64{
		KeyTwoQubitCount:        2,
		KeyDepth:                3,
		KeyMeasurementCount:     3,
		KeyProgramCommunication: 4.0 / 6.0,
		KeyLiveness:             5.0 / 9.0,
		KeyParallelism:          0,
		KeyEntanglementRatio:    2.0 / 3.0,
		KeyCriticalDepth:        1,
		KeyMeasurementRatio:     0,
	}
	for key, expected := range want {
		if got, ok := v[key]; !ok || math.Abs(got-expected) > 1e-12 {
			t.Errorf("%s = %v, want %v", key, got, expected)
		}
	}
}

func TestExtract_FullyParallel(t *testing.T) {
	c, err := circuit.New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for q := 0; q < 4; q++ {
		if err := c.Append(circuit.H(q)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	v := Extract(c)
	if v[KeyDepth] != 1 {
		t.Errorf("depth = %v, want 1", v[KeyDepth])
	}
	if math.Abs(v[KeyParallelism]-0.75) > 1e-12 {
		t.Errorf("parallelism = %v, want 0.75", v[KeyParallelism])
	}
	if v[KeyLiveness] != 1 {
		t.Errorf("liveness = %v, want 1", v[KeyLiveness])
	}
	if v[KeyProgramCommunication] != 0 || v[KeyCriticalDepth] != 0 {
		t.Errorf("two-qubit metrics should be zero: %+v", v)
	}
}

func TestExtract_ResetLayers(t *testing.T) {
	c, err := circuit.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Append(circuit.H(0), circuit.Reset(1), circuit.CX(0, 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	v := Extract(c)
	if v[KeyDepth] != 2 {
		t.Errorf("depth = %v, want 2", v[KeyDepth])
	}
	if v[KeyMeasurementRatio] != 1 {
		t.Errorf("measurement_ratio = %v, want 1", v[KeyMeasurementRatio])
	}
}

func TestExtract_EmptyCircuit(t *testing.T) {
	c, err := circuit.New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := Extract(c)
	for _, key := range Keys() {
		if v[key] != 0 {
			t.Errorf("%s = %v, want 0 for empty circuit", key, v[key])
		}
		if v[key] < 0 {
			t.Errorf("%s negative", key)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	c := buildGHZ3(t)
	if !reflect.DeepEqual(Extract(c), Extract(c)) {
		t.Error("repeated extraction must yield identical vectors")
	}
}
