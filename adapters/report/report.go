// Package report renders a sweep into a human-readable summary: markdown for
// the repository, HTML for sharing.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qbench/app"
	"qbench/domain/features"
	"qbench/domain/run"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the sweep report. analysis may be nil when fewer runs than
// the correlation minimum succeeded.
func Markdown(sweep *run.Sweep, analysis *app.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Benchmark sweep %s\n\n", sweep.ID)
	fmt.Fprintf(&b, "- Executed: %s\n", sweep.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Input fingerprint: `%s`\n", sweep.Fingerprint)
	fmt.Fprintf(&b, "- Runs: %d (%d failed)\n\n", len(sweep.Records), sweep.FailureCount())

	writeScoreTable(&b, sweep)
	writeFeatureTable(&b, sweep)
	if analysis != nil {
		writeAnalysis(&b, analysis)
	}
	writeFailures(&b, sweep)

	return b.String()
}

// HTML renders the markdown report as a complete HTML page.
func HTML(sweep *run.Sweep, analysis *app.Analysis) []byte {
	md := []byte(Markdown(sweep, analysis))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: fmt.Sprintf("Benchmark sweep %s", sweep.ID),
	})
	return markdown.Render(doc, renderer)
}

// Write saves the report to path; a .html extension selects the HTML
// rendering, everything else gets markdown.
func Write(path string, sweep *run.Sweep, analysis *app.Analysis) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".html") {
		data = HTML(sweep, analysis)
	} else {
		data = []byte(Markdown(sweep, analysis))
	}
	return os.WriteFile(path, data, 0o644)
}

func writeScoreTable(b *strings.Builder, sweep *run.Sweep) {
	b.WriteString("## Scores\n\n")
	b.WriteString("| Benchmark | Family | Qubits | Noise p | Score | Duration |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, rec := range sweep.Records {
		if rec.Failed() {
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %d | %v | %.6f | %s |\n",
			rec.Benchmark, rec.Family, rec.Qubits, rec.NoiseProb, rec.Score, rec.Duration.Round(time.Millisecond))
	}
	b.WriteString("\n")
}

func writeFeatureTable(b *strings.Builder, sweep *run.Sweep) {
	keys := features.Keys()
	b.WriteString("## Circuit features\n\n")
	b.WriteString("| Benchmark |")
	for _, k := range keys {
		fmt.Fprintf(b, " %s |", k)
	}
	b.WriteString("\n|---|")
	for range keys {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	seen := make(map[string]bool)
	for _, rec := range sweep.Records {
		if rec.Failed() || seen[rec.Benchmark] {
			continue
		}
		seen[rec.Benchmark] = true
		fmt.Fprintf(b, "| %s |", rec.Benchmark)
		for _, k := range keys {
			fmt.Fprintf(b, " %.4f |", rec.Features[k])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeAnalysis(b *strings.Builder, analysis *app.Analysis) {
	b.WriteString("## Feature / score correlation\n\n")
	b.WriteString("| Feature | Pearson | p | Spearman | p | n |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, c := range analysis.Correlations {
		fmt.Fprintf(b, "| %s | %.4f | %.4g | %.4f | %.4g | %d |\n",
			c.Feature, c.Pearson, c.PearsonP, c.Spearman, c.SpearmanP, c.N)
	}

	sum := analysis.Summary
	b.WriteString("\n## Score summary\n\n")
	fmt.Fprintf(b, "- Count: %d\n", sum.Count)
	fmt.Fprintf(b, "- Mean: %.6f, median: %.6f, stddev: %.6f\n", sum.Mean, sum.Median, sum.StdDev)
	fmt.Fprintf(b, "- Range: [%.6f, %.6f], IQR: [%.6f, %.6f]\n\n", sum.Min, sum.Max, sum.Q1, sum.Q3)
}

func writeFailures(b *strings.Builder, sweep *run.Sweep) {
	if sweep.FailureCount() == 0 {
		return
	}
	b.WriteString("## Failed runs\n\n")
	for _, rec := range sweep.Records {
		if rec.Failed() {
			fmt.Fprintf(b, "- %s (p=%v): %s\n", rec.Benchmark, rec.NoiseProb, rec.Error)
		}
	}
	b.WriteString("\n")
}
