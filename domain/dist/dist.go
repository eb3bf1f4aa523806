// Package dist holds the classical probability distributions produced by
// density-matrix simulation: maps from measured bitstrings to exact
// probabilities, not sampled counts.
package dist

import (
	"fmt"
	"math"
	"sort"

	"qbench/domain/core"
)

// SumTolerance is how far a distribution's total mass may drift from 1 and
// still validate.
const SumTolerance = 1e-9

// Distribution maps classical bitstrings (fixed width per distribution) to
// probabilities.
type Distribution map[string]float64

// TotalMass returns the sum of all probabilities.
func (d Distribution) TotalMass() float64 {
	total := 0.0
	for _, p := range d {
		total += p
	}
	return total
}

// BitWidth returns the bitstring length of the distribution's domain, or -1
// when keys have inconsistent lengths, or 0 for an empty distribution.
func (d Distribution) BitWidth() int {
	width := 0
	first := true
	for key := range d {
		if first {
			width = len(key)
			first = false
			continue
		}
		if len(key) != width {
			return -1
		}
	}
	return width
}

// Validate checks the distribution invariants: consistent bitstring width,
// non-negative entries, total mass 1 within SumTolerance.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty distribution", core.ErrInvalidReference)
	}
	if d.BitWidth() < 0 {
		return fmt.Errorf("%w: inconsistent bitstring lengths", core.ErrDomainMismatch)
	}
	for key, p := range d {
		if p < 0 {
			return fmt.Errorf("%w: negative probability %v for %q", core.ErrSimulationDiverged, p, key)
		}
	}
	if total := d.TotalMass(); math.Abs(total-1) > SumTolerance {
		return core.NewDivergenceError(total)
	}
	return nil
}

// SameDomain verifies both distributions are over bitstrings of equal width.
func SameDomain(a, b Distribution) error {
	wa, wb := a.BitWidth(), b.BitWidth()
	if wa < 0 || wb < 0 {
		return fmt.Errorf("%w: inconsistent bitstring lengths", core.ErrDomainMismatch)
	}
	if wa != wb {
		return fmt.Errorf("%w: bit widths %d and %d", core.ErrDomainMismatch, wa, wb)
	}
	return nil
}

// Keys returns the bitstrings in lexicographic order, for deterministic
// iteration and output.
func (d Distribution) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HellingerFidelity computes the classical (Hellinger) fidelity between two
// distributions: (sum_x sqrt(p(x) q(x)))^2. It is 1 for identical
// distributions and decreases monotonically as they diverge.
func HellingerFidelity(p, q Distribution) (float64, error) {
	if err := SameDomain(p, q); err != nil {
		return 0, err
	}
	overlap := 0.0
	for key, pp := range p {
		if qq, ok := q[key]; ok && pp > 0 && qq > 0 {
			overlap += math.Sqrt(pp * qq)
		}
	}
	fidelity := overlap * overlap
	if fidelity > 1 {
		// Guard against rounding just above 1.
		fidelity = 1
	}
	return fidelity, nil
}

// Mass returns the total probability the distribution places on the given
// outcome set.
func (d Distribution) Mass(outcomes []string) float64 {
	total := 0.0
	for _, key := range outcomes {
		total += d[key]
	}
	return total
}
