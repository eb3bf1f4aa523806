// Package bench defines the closed set of benchmark families. Each family
// deterministically generates its circuit from validated parameters and maps
// its simulated output distributions to a score in [0,1].
package bench

import (
	"fmt"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
)

// Benchmark is the capability pair every family implements: produce a
// circuit, score an execution. Score takes the noisy output distribution and
// the ideal (noiseless) distribution for the same circuit; families with an
// analytic or combinatorial reference may ignore the ideal argument.
type Benchmark interface {
	// Name labels this parameterized instance, e.g. "ghz-5".
	Name() string
	// Family returns the family key.
	Family() core.BenchmarkKey
	// Circuit returns the generated circuit. The same instance always
	// returns a structurally identical circuit (bit-identical angles).
	Circuit() *circuit.Circuit
	// Score maps distributions to [0,1]; 1 means ideal-matching behavior.
	Score(noisy, ideal dist.Distribution) (float64, error)
}

// Family keys for the closed variant set.
const (
	FamilyGHZ               core.BenchmarkKey = "ghz"
	FamilyMerminBell        core.BenchmarkKey = "mermin-bell"
	FamilyQAOAVanilla       core.BenchmarkKey = "qaoa-vanilla"
	FamilyQAOAFermionicSwap core.BenchmarkKey = "qaoa-fermionic-swap"
	FamilyVQEProxy          core.BenchmarkKey = "vqe-proxy"
	FamilyBitCode           core.BenchmarkKey = "bit-code"
	FamilyPhaseCode         core.BenchmarkKey = "phase-code"
)

// Families lists every supported family key in stable order.
func Families() []core.BenchmarkKey {
	return []core.BenchmarkKey{
		FamilyGHZ,
		FamilyMerminBell,
		FamilyQAOAVanilla,
		FamilyQAOAFermionicSwap,
		FamilyVQEProxy,
		FamilyBitCode,
		FamilyPhaseCode,
	}
}

// Spec carries the union of family parameters; each family validates the
// fields it uses and ignores the rest.
type Spec struct {
	Family core.BenchmarkKey
	// Qubits is the qubit count for ghz/mermin/qaoa/vqe, or the data-qubit
	// count for the error-correction codes.
	Qubits int
	// Rounds is the syndrome-round count for the codes.
	Rounds int
	// Layers is the ansatz depth for vqe-proxy (defaults to 1).
	Layers int
	// Seed drives the deterministic pseudo-random structure of qaoa/vqe.
	Seed int64
	// Gamma and Beta are the QAOA angles; zero values select the defaults.
	Gamma, Beta float64
	// State is the initial data-qubit state for the codes (one 0/1 per data
	// qubit).
	State []int
}

// New constructs the benchmark the spec names. Unknown families fail with
// ErrUnknownBenchmark; parameter violations with ErrInvalidParameter.
func New(spec Spec) (Benchmark, error) {
	switch spec.Family {
	case FamilyGHZ:
		return NewGHZ(spec.Qubits)
	case FamilyMerminBell:
		return NewMerminBell(spec.Qubits)
	case FamilyQAOAVanilla:
		return NewQAOAVanilla(spec.Qubits, spec.Seed, spec.Gamma, spec.Beta)
	case FamilyQAOAFermionicSwap:
		return NewQAOAFermionicSwap(spec.Qubits, spec.Seed, spec.Gamma, spec.Beta)
	case FamilyVQEProxy:
		layers := spec.Layers
		if layers == 0 {
			layers = 1
		}
		return NewVQEProxy(spec.Qubits, layers, spec.Seed)
	case FamilyBitCode:
		return NewBitCode(spec.Qubits, spec.Rounds, spec.State)
	case FamilyPhaseCode:
		return NewPhaseCode(spec.Qubits, spec.Rounds, spec.State)
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownBenchmark, spec.Family)
}
