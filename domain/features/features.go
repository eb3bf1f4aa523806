// Package features computes static structural metrics of a circuit, with no
// simulation involved. The metrics are deterministic functions of circuit
// structure and are later correlated against benchmark scores.
//
// Definitions (n = qubit count, depth = number of ASAP layers, an ASAP layer
// assignment places each operation in the earliest layer after the latest
// prior operation on any of its qubits):
//
//	two_qubit_count       raw count of two-qubit operations
//	depth                 number of layers
//	measurement_count     number of qubit-to-bit measurement mappings
//	program_communication degree sum of the qubit interaction graph / (n(n-1))
//	liveness              active (qubit, layer) cells / (n * depth)
//	parallelism           max(1 - depth/opCount, 0)
//	entanglement_ratio    two-qubit operations / total operations
//	critical_depth        two-qubit ops on a longest dependency chain /
//	                      total two-qubit ops (ties broken toward the chain
//	                      with more two-qubit ops)
//	measurement_ratio     layers containing a reset / (depth - 1)
package features

import (
	"qbench/domain/circuit"
)

// Canonical metric keys.
const (
	KeyTwoQubitCount        = "two_qubit_count"
	KeyDepth                = "depth"
	KeyMeasurementCount     = "measurement_count"
	KeyProgramCommunication = "program_communication"
	KeyLiveness             = "liveness"
	KeyParallelism          = "parallelism"
	KeyEntanglementRatio    = "entanglement_ratio"
	KeyCriticalDepth        = "critical_depth"
	KeyMeasurementRatio     = "measurement_ratio"
)

// Keys lists every metric in stable output order.
func Keys() []string {
	return []string{
		KeyTwoQubitCount,
		KeyDepth,
		KeyMeasurementCount,
		KeyProgramCommunication,
		KeyLiveness,
		KeyParallelism,
		KeyEntanglementRatio,
		KeyCriticalDepth,
		KeyMeasurementRatio,
	}
}

// Vector maps metric keys to non-negative values.
type Vector map[string]float64

// Extract computes every metric for the circuit. Circuits are immutable, so
// the result is cacheable by fingerprint.
func Extract(c *circuit.Circuit) Vector {
	opCount := len(c.Ops)

	layers := assignLayers(c)
	depth := 0
	for _, l := range layers {
		if l+1 > depth {
			depth = l + 1
		}
	}

	twoQubit := 0
	for _, op := range c.Ops {
		if op.TwoQubit() {
			twoQubit++
		}
	}

	v := Vector{
		KeyTwoQubitCount:    float64(twoQubit),
		KeyDepth:            float64(depth),
		KeyMeasurementCount: float64(len(c.Measurements)),
	}
	v[KeyProgramCommunication] = programCommunication(c)
	v[KeyLiveness] = liveness(c, layers, depth)
	v[KeyParallelism] = parallelism(depth, opCount)
	v[KeyEntanglementRatio] = ratio(twoQubit, opCount)
	v[KeyCriticalDepth] = criticalDepth(c, twoQubit)
	v[KeyMeasurementRatio] = measurementRatio(c, layers, depth)
	return v
}

// assignLayers returns the ASAP layer index of each operation.
func assignLayers(c *circuit.Circuit) []int {
	layers := make([]int, len(c.Ops))
	next := make([]int, c.NumQubits) // earliest free layer per qubit
	for i, op := range c.Ops {
		layer := 0
		for _, q := range op.Qubits {
			if next[q] > layer {
				layer = next[q]
			}
		}
		layers[i] = layer
		for _, q := range op.Qubits {
			next[q] = layer + 1
		}
	}
	return layers
}

func programCommunication(c *circuit.Circuit) float64 {
	n := c.NumQubits
	if n < 2 {
		return 0
	}
	neighbors := make(map[[2]int]struct{})
	for _, op := range c.Ops {
		if !op.TwoQubit() {
			continue
		}
		a, b := op.Qubits[0], op.Qubits[1]
		if a > b {
			a, b = b, a
		}
		neighbors[[2]int{a, b}] = struct{}{}
	}
	// Each undirected edge contributes 2 to the degree sum.
	degreeSum := 2 * len(neighbors)
	return float64(degreeSum) / float64(n*(n-1))
}

func liveness(c *circuit.Circuit, layers []int, depth int) float64 {
	if depth == 0 {
		return 0
	}
	active := make(map[int]map[int]struct{}, c.NumQubits)
	for i, op := range c.Ops {
		for _, q := range op.Qubits {
			if active[q] == nil {
				active[q] = make(map[int]struct{})
			}
			active[q][layers[i]] = struct{}{}
		}
	}
	cells := 0
	for _, layerSet := range active {
		cells += len(layerSet)
	}
	return float64(cells) / float64(c.NumQubits*depth)
}

func parallelism(depth, opCount int) float64 {
	if opCount == 0 {
		return 0
	}
	p := 1 - float64(depth)/float64(opCount)
	if p < 0 {
		return 0
	}
	return p
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// criticalDepth is the fraction of two-qubit operations that sit on a longest
// dependency chain. Dependencies follow per-qubit operation order.
func criticalDepth(c *circuit.Circuit, twoQubitTotal int) float64 {
	if twoQubitTotal == 0 {
		return 0
	}
	chainLen := make([]int, len(c.Ops))  // ops on the chain ending here
	chainTwo := make([]int, len(c.Ops))  // two-qubit ops on that chain
	last := make([]int, c.NumQubits)     // index of last op per qubit
	for q := range last {
		last[q] = -1
	}

	bestLen, bestTwo := 0, 0
	for i, op := range c.Ops {
		predLen, predTwo := 0, 0
		for _, q := range op.Qubits {
			if j := last[q]; j >= 0 {
				if chainLen[j] > predLen || (chainLen[j] == predLen && chainTwo[j] > predTwo) {
					predLen, predTwo = chainLen[j], chainTwo[j]
				}
			}
		}
		chainLen[i] = predLen + 1
		chainTwo[i] = predTwo
		if op.TwoQubit() {
			chainTwo[i]++
		}
		for _, q := range op.Qubits {
			last[q] = i
		}
		if chainLen[i] > bestLen || (chainLen[i] == bestLen && chainTwo[i] > bestTwo) {
			bestLen, bestTwo = chainLen[i], chainTwo[i]
		}
	}
	return float64(bestTwo) / float64(twoQubitTotal)
}

// measurementRatio measures mid-circuit reset pressure: the fraction of
// non-final layers that contain a reset.
func measurementRatio(c *circuit.Circuit, layers []int, depth int) float64 {
	if depth <= 1 {
		return 0
	}
	resetLayers := make(map[int]struct{})
	for i, op := range c.Ops {
		if op.Gate == circuit.GateReset {
			resetLayers[layers[i]] = struct{}{}
		}
	}
	return float64(len(resetLayers)) / float64(depth-1)
}
