// Package score maps simulated output distributions to scalar benchmark
// scores in [0,1], where 1 is ideal-matching behavior.
package score

import (
	"fmt"

	"qbench/domain/core"
	"qbench/domain/dist"
)

// Fidelity is the fidelity-style score: the Hellinger fidelity between the
// noisy output and the ideal reference. The reference must carry probability
// mass; both distributions must share a bitstring width.
func Fidelity(noisy, ideal dist.Distribution) (float64, error) {
	if ideal.TotalMass() <= 0 {
		return 0, fmt.Errorf("%w: reference carries no probability mass", core.ErrInvalidReference)
	}
	if err := dist.SameDomain(noisy, ideal); err != nil {
		return 0, err
	}
	return dist.HellingerFidelity(noisy, ideal)
}

// SuccessProbability is the success-probability-style score: total mass the
// noisy distribution places on the known-correct outcome set.
func SuccessProbability(noisy dist.Distribution, correct []string) (float64, error) {
	if len(correct) == 0 {
		return 0, fmt.Errorf("%w: empty correct-outcome set", core.ErrInvalidReference)
	}
	width := noisy.BitWidth()
	if width < 0 {
		return 0, fmt.Errorf("%w: inconsistent bitstring lengths", core.ErrDomainMismatch)
	}
	for _, key := range correct {
		if len(key) != width {
			return 0, fmt.Errorf("%w: outcome %q vs width %d", core.ErrDomainMismatch, key, width)
		}
	}
	return clamp(noisy.Mass(correct)), nil
}

// NormalizedSuccess scales the success probability by the ideal
// distribution's success probability, so a noiseless run scores exactly 1
// even when the ideal circuit does not concentrate all mass on the correct
// set. The ideal must place nonzero mass on the correct set.
func NormalizedSuccess(noisy, ideal dist.Distribution, correct []string) (float64, error) {
	if err := dist.SameDomain(noisy, ideal); err != nil {
		return 0, err
	}
	idealMass, err := SuccessProbability(ideal, correct)
	if err != nil {
		return 0, err
	}
	if idealMass <= 0 {
		return 0, fmt.Errorf("%w: ideal places no mass on the correct set", core.ErrInvalidReference)
	}
	noisyMass, err := SuccessProbability(noisy, correct)
	if err != nil {
		return 0, err
	}
	return clamp(noisyMass / idealMass), nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
