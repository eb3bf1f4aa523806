package bench

import (
	"context"
	"errors"
	"math"
	"testing"

	"qbench/adapters/sim"
	"qbench/domain/core"
)

func validSpecs() []Spec {
	return []Spec{
		{Family: FamilyGHZ, Qubits: 3},
		{Family: FamilyMerminBell, Qubits: 3},
		{Family: FamilyMerminBell, Qubits: 4},
		{Family: FamilyQAOAVanilla, Qubits: 3, Seed: 7},
		{Family: FamilyQAOAFermionicSwap, Qubits: 3, Seed: 7},
		{Family: FamilyVQEProxy, Qubits: 3, Layers: 1, Seed: 7},
		{Family: FamilyBitCode, Qubits: 2, Rounds: 1, State: []int{0, 1}},
		{Family: FamilyPhaseCode, Qubits: 2, Rounds: 2, State: []int{1, 0}},
	}
}

func TestNew_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{name: "unknown family", spec: Spec{Family: "teleportation"}, want: core.ErrUnknownBenchmark},
		{name: "ghz too small", spec: Spec{Family: FamilyGHZ, Qubits: 1}, want: core.ErrInvalidParameter},
		{name: "mermin unsupported size", spec: Spec{Family: FamilyMerminBell, Qubits: 5}, want: core.ErrInvalidParameter},
		{name: "qaoa too small", spec: Spec{Family: FamilyQAOAVanilla, Qubits: 1}, want: core.ErrInvalidParameter},
		{name: "qaoa too large", spec: Spec{Family: FamilyQAOAVanilla, Qubits: 17}, want: core.ErrInvalidParameter},
		{name: "vqe bad layers", spec: Spec{Family: FamilyVQEProxy, Qubits: 3, Layers: -1}, want: core.ErrInvalidParameter},
		{name: "code state length", spec: Spec{Family: FamilyBitCode, Qubits: 3, Rounds: 1, State: []int{0, 1}}, want: core.ErrInvalidParameter},
		{name: "code state values", spec: Spec{Family: FamilyPhaseCode, Qubits: 2, Rounds: 1, State: []int{0, 2}}, want: core.ErrInvalidParameter},
		{name: "code zero rounds", spec: Spec{Family: FamilyBitCode, Qubits: 2, Rounds: 0, State: []int{0, 0}}, want: core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNew_DeterministicGeneration(t *testing.T) {
	for _, spec := range validSpecs() {
		spec := spec
		t.Run(string(spec.Family), func(t *testing.T) {
			a, err := New(spec)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			b, err := New(spec)
			if err != nil {
				t.Fatalf("New again: %v", err)
			}
			if a.Circuit().Fingerprint() != b.Circuit().Fingerprint() {
				t.Error("identical parameters must generate structurally identical circuits")
			}
		})
	}
}

func TestNew_SeedChangesQAOAInstance(t *testing.T) {
	a, err := NewQAOAVanilla(5, 1, 0, 0)
	if err != nil {
		t.Fatalf("NewQAOAVanilla: %v", err)
	}
	b, err := NewQAOAVanilla(5, 2, 0, 0)
	if err != nil {
		t.Fatalf("NewQAOAVanilla: %v", err)
	}
	if a.Circuit().Fingerprint() == b.Circuit().Fingerprint() {
		t.Error("different seeds should generate different SK instances")
	}
}

func TestQAOAVanilla_OptimalCuts(t *testing.T) {
	q, err := NewQAOAVanilla(4, 11, 0, 0)
	if err != nil {
		t.Fatalf("NewQAOAVanilla: %v", err)
	}
	opts := q.OptimalCuts()
	if len(opts) == 0 {
		t.Fatal("optimal cut set must not be empty")
	}

	// Every optimal bitstring achieves the brute-force maximum.
	best := math.Inf(-1)
	for x := 0; x < 1<<4; x++ {
		bits := ""
		for p := 0; p < 4; p++ {
			bits += string(byte('0' + ((x >> (4 - 1 - p)) & 1)))
		}
		v, err := q.CutValue(bits)
		if err != nil {
			t.Fatalf("CutValue(%s): %v", bits, err)
		}
		if float64(v) > best {
			best = float64(v)
		}
	}
	for _, opt := range opts {
		v, err := q.CutValue(opt)
		if err != nil {
			t.Fatalf("CutValue(%s): %v", opt, err)
		}
		if float64(v) != best {
			t.Errorf("cut %s scores %d, brute-force best is %v", opt, v, best)
		}
	}

	// MaxCut is symmetric under global bit flip, so the complement of every
	// winner is a winner too.
	inSet := make(map[string]bool, len(opts))
	for _, opt := range opts {
		inSet[opt] = true
	}
	for _, opt := range opts {
		flipped := make([]byte, len(opt))
		for i := range flipped {
			flipped[i] = '0' + ('1' - opt[i])
		}
		if !inSet[string(flipped)] {
			t.Errorf("complement of optimal cut %s missing from the set", opt)
		}
	}
}

// Every family scores exactly 1 (within tolerance) on its own noiseless
// output.
func TestScore_NoiselessSelfScore(t *testing.T) {
	engine, err := sim.NewEngine(0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	for _, spec := range validSpecs() {
		spec := spec
		t.Run(string(spec.Family)+"/"+string(rune('0'+spec.Qubits)), func(t *testing.T) {
			b, err := New(spec)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			ideal, err := engine.Run(context.Background(), b.Circuit(), nil)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			s, err := b.Score(ideal, ideal)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if math.Abs(s-1) > 1e-9 {
				t.Errorf("%s self-score = %v, want 1", b.Name(), s)
			}
		})
	}
}

func TestCircuit_MeasurementCoverage(t *testing.T) {
	for _, spec := range validSpecs() {
		b, err := New(spec)
		if err != nil {
			t.Fatalf("New(%s): %v", spec.Family, err)
		}
		c := b.Circuit()
		if len(c.Measurements) != c.NumQubits {
			t.Errorf("%s: measured %d of %d qubits", b.Name(), len(c.Measurements), c.NumQubits)
		}
	}
}
