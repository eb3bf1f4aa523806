// Package sim implements full density-matrix simulation of circuits, with
// optional noise models applied as Kraus channels. The output is the exact
// marginal probability distribution over the measured qubits — never a
// sampled outcome — because downstream scores are computed from whole
// distributions rather than shot counts.
//
// Memory is O(4^n): one complex128 buffer of 4^n entries per run, owned by
// that run alone. At the package hard ceiling of 14 qubits a buffer is
// 4 GiB; the default configured ceiling of 12 (256 MiB) is the practical
// envelope. Requests above the ceiling fail with ErrResourceExceeded before
// any state is allocated.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/noise"
)

const (
	// DefaultMaxQubits is the configured ceiling when none is given.
	DefaultMaxQubits = 12
	// HardCeiling is the absolute qubit limit regardless of configuration.
	HardCeiling = 14

	// zeroTolerance: diagonal entries below this are treated as exact zeros
	// when renormalizing.
	zeroTolerance = 1e-12
	// divergenceTolerance: total mass may drift this far from 1 before the
	// run is declared diverged.
	divergenceTolerance = 1e-6
)

// Engine executes circuits by dense density-matrix evolution.
type Engine struct {
	maxQubits int
}

// NewEngine creates an engine with the given qubit ceiling; zero or negative
// selects DefaultMaxQubits. Ceilings above HardCeiling are rejected.
func NewEngine(maxQubits int) (*Engine, error) {
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	if maxQubits > HardCeiling {
		return nil, core.NewParameterError("max_qubits",
			fmt.Sprintf("ceiling %d exceeds hard limit %d", maxQubits, HardCeiling))
	}
	return &Engine{maxQubits: maxQubits}, nil
}

// MaxQubits returns the configured ceiling.
func (e *Engine) MaxQubits() int {
	return e.maxQubits
}

// Run executes the circuit, applying the noise model's channels after each
// targeted operation when model is non-nil. Operations are applied strictly
// in declared order; cancellation is checked between operations, and a
// context deadline surfaces as ErrTimeout.
func (e *Engine) Run(ctx context.Context, c *circuit.Circuit, model noise.Model) (dist.Distribution, error) {
	if c == nil {
		return nil, core.NewParameterError("circuit", "nil circuit")
	}
	if c.NumQubits > e.maxQubits {
		return nil, core.NewResourceExceededError(c.NumQubits, e.maxQubits)
	}
	if len(c.Measurements) == 0 {
		return nil, core.NewParameterError("circuit", "no measurements declared")
	}

	n := c.NumQubits
	d := 1 << n
	rho := make([]complex128, d*d)
	rho[0] = 1 // |0...0><0...0|

	// Scratch buffers for Kraus application, shared across channels within
	// this run only.
	var scratch, accum []complex128

	for i, op := range c.Ops {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}
		if err := e.applyOperation(rho, n, i, op, &scratch, &accum); err != nil {
			return nil, err
		}
		if model == nil {
			continue
		}
		for _, ch := range model.ChannelsFor(op) {
			if err := e.applyChannel(rho, n, ch, &scratch, &accum); err != nil {
				return nil, err
			}
		}
	}

	return readout(rho, c)
}

func (e *Engine) applyOperation(rho []complex128, n, index int, op circuit.Operation, scratch, accum *[]complex128) error {
	switch len(op.Qubits) {
	case 1:
		if op.Gate == circuit.GateReset {
			ensureScratch(scratch, accum, len(rho))
			applyKraus(rho, *scratch, *accum, n, op.Qubits[0], noise.ResetKraus())
			return nil
		}
		u, ok := gateMatrix1(op)
		if !ok {
			return core.NewUnsupportedGateError(string(op.Gate), index)
		}
		conjugate1(rho, n, op.Qubits[0], u)
		return nil
	case 2:
		u, ok := gateMatrix2(op)
		if !ok {
			return core.NewUnsupportedGateError(string(op.Gate), index)
		}
		conjugate2(rho, n, op.Qubits[0], op.Qubits[1], u)
		return nil
	}
	return core.NewUnsupportedGateError(string(op.Gate), index)
}

func (e *Engine) applyChannel(rho []complex128, n int, ch noise.Channel, scratch, accum *[]complex128) error {
	if ch.Prob < 0 || ch.Prob > 1 || math.IsNaN(ch.Prob) {
		return core.NewNoiseParameterError(string(ch.Kind), ch.Prob)
	}
	ks := ch.KrausOperators()
	if ks == nil {
		return core.NewParameterError("noise kind", "unknown kind "+string(ch.Kind))
	}
	ensureScratch(scratch, accum, len(rho))
	for _, q := range ch.Qubits {
		if q < 0 || q >= n {
			return core.NewParameterError("noise target", fmt.Sprintf("qubit %d out of range", q))
		}
		applyKraus(rho, *scratch, *accum, n, q, ks)
	}
	return nil
}

func ensureScratch(scratch, accum *[]complex128, size int) {
	if len(*scratch) != size {
		*scratch = make([]complex128, size)
		*accum = make([]complex128, size)
	}
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", core.ErrTimeout, ctx.Err())
		}
		return ctx.Err()
	default:
		return nil
	}
}

// readout extracts the diagonal, corrects numerical drift and marginalizes
// onto the declared classical bits.
func readout(rho []complex128, c *circuit.Circuit) (dist.Distribution, error) {
	n := c.NumQubits
	d := 1 << n

	probs := make([]float64, d)
	total := 0.0
	for i := 0; i < d; i++ {
		p := real(rho[i*d+i])
		if p < 0 {
			if p < -divergenceTolerance {
				return nil, core.NewDivergenceError(p)
			}
			p = 0
		}
		probs[i] = p
		total += p
	}
	if math.Abs(total-1) > divergenceTolerance || total <= 0 {
		return nil, core.NewDivergenceError(total)
	}
	for i := range probs {
		probs[i] /= total
		if probs[i] < zeroTolerance {
			probs[i] = 0
		}
	}

	numBits := c.NumBits()
	out := make(dist.Distribution)
	key := make([]byte, numBits)
	for i := 0; i < d; i++ {
		if probs[i] == 0 {
			continue
		}
		for b := range key {
			key[b] = '0'
		}
		for _, m := range c.Measurements {
			bit := (i >> (n - 1 - m.Qubit)) & 1
			key[m.Bit] = byte('0' + bit)
		}
		out[string(key)] += probs[i]
	}
	return out, nil
}
