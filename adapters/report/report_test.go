package report

import (
	"strings"
	"testing"
	"time"

	"qbench/app"
	"qbench/domain/features"
	"qbench/domain/run"
)

func sampleSweep() *run.Sweep {
	return &run.Sweep{
		ID:          "sweep-1",
		Fingerprint: "abc123",
		CreatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Records: []run.Record{
			{
				ID: "run-1", Benchmark: "ghz-3", Family: "ghz", Qubits: 3,
				NoiseProb: 0.05, Score: 0.942, Status: run.StatusCompleted,
				Features: features.Vector{features.KeyDepth: 3, features.KeyEntanglementRatio: 2.0 / 3},
			},
			{
				ID: "run-2", Benchmark: "vqe-proxy-4", Family: "vqe-proxy", Qubits: 4,
				NoiseProb: 0.05, Status: run.StatusFailed, Error: "qubit count exceeds simulator ceiling",
			},
		},
	}
}

func sampleAnalysis() *app.Analysis {
	return &app.Analysis{
		Summary: app.ScoreSummary{Count: 4, Mean: 0.9, Median: 0.91, Min: 0.8, Max: 1},
		Correlations: []app.FeatureCorrelation{
			{Feature: features.KeyDepth, Pearson: -0.7, PearsonP: 0.03, Spearman: -0.8, SpearmanP: 0.02, N: 4},
		},
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleSweep(), sampleAnalysis())

	for _, want := range []string{
		"# Benchmark sweep sweep-1",
		"## Scores",
		"| ghz-3 | ghz | 3 | 0.05 | 0.942000 |",
		"## Circuit features",
		"## Feature / score correlation",
		"| depth | -0.7000 |",
		"## Failed runs",
		"vqe-proxy-4 (p=0.05): qubit count exceeds simulator ceiling",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Failed runs never appear in the score table.
	if strings.Contains(md, "| vqe-proxy-4 | vqe-proxy |") {
		t.Error("failed run leaked into the score table")
	}
}

func TestMarkdown_NilAnalysisOmitsCorrelation(t *testing.T) {
	md := Markdown(sampleSweep(), nil)
	if strings.Contains(md, "correlation") {
		t.Error("correlation section rendered without analysis")
	}
}

func TestHTML_RendersTables(t *testing.T) {
	page := string(HTML(sampleSweep(), sampleAnalysis()))
	for _, want := range []string{"<html", "<table>", "ghz-3", "</html>"} {
		if !strings.Contains(page, want) {
			t.Errorf("html missing %q", want)
		}
	}
}
