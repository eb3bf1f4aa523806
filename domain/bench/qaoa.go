package bench

import (
	"fmt"
	"math/rand"

	"qbench/domain/circuit"
	"qbench/domain/core"
	"qbench/domain/dist"
	"qbench/domain/score"
)

// Default QAOA angles used when the caller does not supply them. Fixed,
// documented values keep generation deterministic without embedding a
// classical optimizer; scores are normalized against the ideal run so the
// exact choice does not bias noiseless self-scores.
const (
	DefaultGamma = 0.5
	DefaultBeta  = 0.3
)

// maxCutQubits bounds the brute-force search for the optimal cut.
const maxCutQubits = 16

// skTerm is one Sherrington-Kirkpatrick coupling: qubits i < j with a +1/-1
// weight.
type skTerm struct {
	i, j   int
	weight int
}

// genSKTerms draws a +1/-1 weight for every qubit pair and shuffles the term
// order, all from the seeded source, so identical seeds rebuild identical
// Hamiltonians and gate orders.
func genSKTerms(n int, seed int64) []skTerm {
	rng := rand.New(rand.NewSource(seed))
	terms := make([]skTerm, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			terms = append(terms, skTerm{i: i, j: j, weight: 2*rng.Intn(2) - 1})
		}
	}
	rng.Shuffle(len(terms), func(a, b int) {
		terms[a], terms[b] = terms[b], terms[a]
	})
	return terms
}

// cutValue scores a candidate bitstring against the Hamiltonian: cut edges
// count toward the objective, uncut edges against it.
func cutValue(terms []skTerm, bits string) int {
	total := 0
	for _, t := range terms {
		if bits[t.i] == bits[t.j] {
			total -= t.weight
		} else {
			total += t.weight
		}
	}
	return total
}

// optimalCuts brute-forces the maximum-cut bitstrings in qubit order.
func optimalCuts(n int, terms []skTerm) []string {
	best := 0
	first := true
	var winners []string
	buf := make([]byte, n)
	for x := 0; x < 1<<n; x++ {
		for q := 0; q < n; q++ {
			buf[q] = byte('0' + ((x >> (n - 1 - q)) & 1))
		}
		v := cutValue(terms, string(buf))
		switch {
		case first || v > best:
			best = v
			first = false
			winners = winners[:0]
			winners = append(winners, string(buf))
		case v == best:
			winners = append(winners, string(buf))
		}
	}
	return winners
}

func validateQAOAParams(n int, gamma, beta float64) (float64, float64, error) {
	if n < 2 {
		return 0, 0, core.NewParameterError("qubits", "qaoa needs at least 2 qubits")
	}
	if n > maxCutQubits {
		return 0, 0, core.NewParameterError("qubits",
			fmt.Sprintf("qaoa supports at most %d qubits", maxCutQubits))
	}
	if gamma == 0 {
		gamma = DefaultGamma
	}
	if beta == 0 {
		beta = DefaultBeta
	}
	return gamma, beta, nil
}

// QAOAVanilla is a one-level QAOA MaxCut proxy on a Sherrington-Kirkpatrick
// instance: an H layer, a ZZ phase separator per coupling (CX·RZ·CX), and an
// RX mixing layer. The score is the success probability the noisy run places
// on the brute-forced optimal cut set, normalized by the ideal run's.
type QAOAVanilla struct {
	n           int
	seed        int64
	gamma, beta float64
	terms       []skTerm
	circ        *circuit.Circuit
	optimal     []string
}

// NewQAOAVanilla builds the benchmark; zero gamma/beta select the defaults.
func NewQAOAVanilla(n int, seed int64, gamma, beta float64) (*QAOAVanilla, error) {
	gamma, beta, err := validateQAOAParams(n, gamma, beta)
	if err != nil {
		return nil, err
	}
	terms := genSKTerms(n, seed)

	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}
	for q := 0; q < n; q++ {
		if err := c.Append(circuit.H(q)); err != nil {
			return nil, err
		}
	}
	for _, t := range terms {
		phi := gamma * float64(t.weight)
		if err := c.Append(
			circuit.CX(t.i, t.j),
			circuit.RZ(t.j, 2*phi),
			circuit.CX(t.i, t.j),
		); err != nil {
			return nil, err
		}
	}
	for q := 0; q < n; q++ {
		if err := c.Append(circuit.RX(q, 2*beta)); err != nil {
			return nil, err
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}

	return &QAOAVanilla{
		n: n, seed: seed, gamma: gamma, beta: beta,
		terms: terms, circ: c, optimal: optimalCuts(n, terms),
	}, nil
}

func (q *QAOAVanilla) Name() string              { return fmt.Sprintf("qaoa-vanilla-%d-s%d", q.n, q.seed) }
func (q *QAOAVanilla) Family() core.BenchmarkKey { return FamilyQAOAVanilla }
func (q *QAOAVanilla) Circuit() *circuit.Circuit { return q.circ }

// OptimalCuts exposes the brute-forced maximum-cut bitstrings.
func (q *QAOAVanilla) OptimalCuts() []string {
	out := make([]string, len(q.optimal))
	copy(out, q.optimal)
	return out
}

// CutValue evaluates the MaxCut objective for a bitstring in qubit order.
func (q *QAOAVanilla) CutValue(bits string) (int, error) {
	if len(bits) != q.n {
		return 0, fmt.Errorf("%w: bitstring %q vs %d qubits", core.ErrDomainMismatch, bits, q.n)
	}
	return cutValue(q.terms, bits), nil
}

// ExpectedCut is the expectation of the cut objective under a distribution.
func (q *QAOAVanilla) ExpectedCut(d dist.Distribution) (float64, error) {
	total := 0.0
	for bits, p := range d {
		v, err := q.CutValue(bits)
		if err != nil {
			return 0, err
		}
		total += p * float64(v)
	}
	return total, nil
}

func (q *QAOAVanilla) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.NormalizedSuccess(noisy, ideal, q.optimal)
}

// QAOAFermionicSwap is the swap-network formulation of the same MaxCut
// proxy: an odd-even transposition network realizes every ZZ interaction on
// neighboring qubits, reversing the virtual qubit order in the process. The
// optimal cut set is mapped through the final virtual layout before scoring.
type QAOAFermionicSwap struct {
	n           int
	seed        int64
	gamma, beta float64
	terms       []skTerm
	circ        *circuit.Circuit
	optimal     []string
}

// NewQAOAFermionicSwap builds the benchmark; zero gamma/beta select the
// defaults.
func NewQAOAFermionicSwap(n int, seed int64, gamma, beta float64) (*QAOAFermionicSwap, error) {
	gamma, beta, err := validateQAOAParams(n, gamma, beta)
	if err != nil {
		return nil, err
	}
	terms := genSKTerms(n, seed)

	weightOf := func(a, b int) int {
		if a > b {
			a, b = b, a
		}
		for _, t := range terms {
			if t.i == a && t.j == b {
				return t.weight
			}
		}
		return 0
	}

	c, err := circuit.New(n)
	if err != nil {
		return nil, err
	}
	for q := 0; q < n; q++ {
		if err := c.Append(circuit.H(q)); err != nil {
			return nil, err
		}
	}

	// Odd-even transposition network: virtual[p] is the virtual qubit
	// currently residing on physical qubit p.
	virtual := make([]int, n)
	for p := range virtual {
		virtual[p] = p
	}
	for layer := 0; layer < n; layer++ {
		start := 1
		if layer%2 == 1 {
			start = 2
		}
		for j := start; j < n; j += 2 {
			i := j - 1
			phi := gamma * float64(weightOf(virtual[i], virtual[j]))
			// ZZ interaction fused with the swap.
			if err := c.Append(
				circuit.CX(i, j),
				circuit.RZ(j, 2*phi),
				circuit.CX(j, i),
				circuit.CX(i, j),
			); err != nil {
				return nil, err
			}
			virtual[i], virtual[j] = virtual[j], virtual[i]
		}
	}
	for q := 0; q < n; q++ {
		if err := c.Append(circuit.RX(q, beta)); err != nil {
			return nil, err
		}
	}
	if err := c.MeasureAll(); err != nil {
		return nil, err
	}

	// Express the optimal cuts in physical bit order: physical bit p reads
	// virtual qubit virtual[p] after the network.
	opts := optimalCuts(n, terms)
	mapped := make([]string, len(opts))
	buf := make([]byte, n)
	for k, opt := range opts {
		for p := 0; p < n; p++ {
			buf[p] = opt[virtual[p]]
		}
		mapped[k] = string(buf)
	}

	return &QAOAFermionicSwap{
		n: n, seed: seed, gamma: gamma, beta: beta,
		terms: terms, circ: c, optimal: mapped,
	}, nil
}

func (q *QAOAFermionicSwap) Name() string {
	return fmt.Sprintf("qaoa-fermionic-swap-%d-s%d", q.n, q.seed)
}
func (q *QAOAFermionicSwap) Family() core.BenchmarkKey { return FamilyQAOAFermionicSwap }
func (q *QAOAFermionicSwap) Circuit() *circuit.Circuit { return q.circ }

func (q *QAOAFermionicSwap) Score(noisy, ideal dist.Distribution) (float64, error) {
	return score.NormalizedSuccess(noisy, ideal, q.optimal)
}
