// Command features reads a circuit in the textual interchange format and
// prints its structural feature vector as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"qbench/adapters/qasm"
	"qbench/domain/features"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <circuit-file>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Reads a qasm-style circuit and prints its feature vector as JSON.")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read circuit file: %v", err)
	}

	circuit, err := qasm.Parse(string(src))
	if err != nil {
		log.Fatalf("Failed to parse circuit: %v", err)
	}

	vector := features.Extract(circuit)
	out := make(map[string]float64, len(vector))
	for _, key := range features.Keys() {
		out[key] = vector[key]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to encode feature vector: %v", err)
	}
}
