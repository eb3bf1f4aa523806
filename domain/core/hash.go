package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Domain-specific hash types
type (
	// CircuitFingerprint identifies a circuit's exact structure (gate order,
	// operands and bit-exact angles included).
	CircuitFingerprint Hash
	// SweepFingerprint identifies the full input set of a sweep.
	SweepFingerprint Hash
)

func (h CircuitFingerprint) String() string { return Hash(h).String() }
func (h SweepFingerprint) String() string   { return Hash(h).String() }

// NewCircuitFingerprint hashes a canonical textual encoding of a circuit.
func NewCircuitFingerprint(encoded string) CircuitFingerprint {
	return CircuitFingerprint(NewHash([]byte(encoded)))
}

// ComputeSweepFingerprint hashes the set of run descriptors that make up a
// sweep, independent of their declaration order.
func ComputeSweepFingerprint(runKeys []string, params map[string]interface{}) SweepFingerprint {
	sorted := make([]string, len(runKeys))
	copy(sorted, runKeys)
	sort.Strings(sorted)

	var data strings.Builder
	for _, key := range sorted {
		data.WriteString(key)
		data.WriteString("\n")
	}

	paramKeys := make([]string, 0, len(params))
	for k := range params {
		paramKeys = append(paramKeys, k)
	}
	sort.Strings(paramKeys)
	for _, key := range paramKeys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("=%v\n", params[key]))
	}

	return SweepFingerprint(NewHash([]byte(data.String())))
}
