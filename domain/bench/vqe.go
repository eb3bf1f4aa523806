package bench

import (
	"fmt"
	"math"
	"math/rand"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/score"
)

// VQEProxy targets one iteration of a variational eigensolver on a
// transverse-field Ising ansatz: per layer, Ry and Rz rotation blocks, a CX
// entangling chain, then further Ry and Rz blocks. The rotation angles stand
// in for near-converged variational parameters and are drawn from the seeded
// source so identical seeds rebuild identical circuits. The score is the
// Hellinger fidelity against the simulated ideal distribution.
type VQEProxy struct {
	n      int
	layers int
	seed   int64
	circ   *circuit.Circuit
}

// NewVQEProxy builds the benchmark for n >= 2 qubits and layers >= 1.
func NewVQEProxy(n, layers int, seed int64) (*VQEProxy, error) {
	if n < 2 {
		return nil, core.NewParameterError("qubits", "vqe-proxy needs at least 2 qubits")
	}
	if layers < 1 {
		return nil, core.NewParameterError("layers", "vqe-proxy needs at least 1 layer")
	}

	rng := rand.New(rand.NewSource(seed))
	nextAngle := func() float64 {
		// The original parameterization doubles each variational angle.
		return 2 * rng.Float64() * 2 * math.Pi
	}

	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}
	for layer := 0; layer < layers; layer++ {
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.RY(q, nextAngle())); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.RZ(q, nextAngle())); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n-1; q++ {
			if err := c.Append(circuit.CX(q, q+1)); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.RY(q, nextAngle())); err != nil {
				return nil, err
			}
		}
		for q := 0; q < n; q++ {
			if err := c.Append(circuit.RZ(q, nextAngle())); err != nil {
				return nil, err
			}
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}
	return &VQEProxy{n: n, layers: layers, seed: seed, circ: c}, nil
}

func (v *VQEProxy) Name() string {
	return fmt.Sprintf("vqe-proxy-%d-l%d-s%d", v.n, v.layers, v.seed)
}
func (v *VQEProxy) Family() core.BenchmarkKey { return FamilyVQEProxy }
func (v *VQEProxy) Circuit() *circuit.Circuit { return v.circ }

func (v *VQEProxy) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.Fidelity(noisy, ideal)
}
