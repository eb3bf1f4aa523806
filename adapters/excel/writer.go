// Package excel exports sweep results as an xlsx workbook, the input surface
// for the external plotting tooling. One sheet holds scores, one the feature
// vectors, one the correlation analysis.
package excel

import (
	"qbench/app"
	"qbench/domain/features"
	"qbench/domain/run"

	"github.com/xuri/excelize/v2"
)

const (
	scoresSheet       = "Scores"
	featuresSheet     = "Features"
	correlationsSheet = "Correlations"
)

// WriteWorkbook renders the sweep (and optionally its correlation analysis,
// nil to omit) to path.
func WriteWorkbook(path string, sweep *run.Sweep, analysis *app.Analysis) error {
	f := excelize.NewFile()

	idx, err := f.NewSheet(scoresSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := writeScores(f, sweep); err != nil {
		return err
	}

	if _, err := f.NewSheet(featuresSheet); err != nil {
		return err
	}
	if err := writeFeatures(f, sweep); err != nil {
		return err
	}

	if analysis != nil {
		if _, err := f.NewSheet(correlationsSheet); err != nil {
			return err
		}
		if err := writeCorrelations(f, analysis); err != nil {
			return err
		}
	}

	// Drop the default sheet so the workbook opens on Scores.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeScores(f *excelize.File, sweep *run.Sweep) error {
	headers := []interface{}{"run_id", "benchmark", "family", "qubits", "noise_prob", "score", "status", "error", "duration_ms"}
	if err := setRow(f, scoresSheet, 1, headers); err != nil {
		return err
	}
	for i, rec := range sweep.Records {
		row := []interface{}{
			rec.ID.String(),
			rec.Benchmark,
			rec.Family.String(),
			rec.Qubits,
			rec.NoiseProb,
			rec.Score,
			string(rec.Status),
			rec.Error,
			rec.Duration.Milliseconds(),
		}
		if err := setRow(f, scoresSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeFeatures(f *excelize.File, sweep *run.Sweep) error {
	keys := features.Keys()
	headers := make([]interface{}, 0, len(keys)+2)
	headers = append(headers, "run_id", "benchmark")
	for _, k := range keys {
		headers = append(headers, k)
	}
	if err := setRow(f, featuresSheet, 1, headers); err != nil {
		return err
	}

	rowIdx := 2
	for _, rec := range sweep.Records {
		if rec.Failed() {
			continue
		}
		row := make([]interface{}, 0, len(keys)+2)
		row = append(row, rec.ID.String(), rec.Benchmark)
		for _, k := range keys {
			row = append(row, rec.Features[k])
		}
		if err := setRow(f, featuresSheet, rowIdx, row); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func writeCorrelations(f *excelize.File, analysis *app.Analysis) error {
	headers := []interface{}{"feature", "pearson", "pearson_p", "spearman", "spearman_p", "n"}
	if err := setRow(f, correlationsSheet, 1, headers); err != nil {
		return err
	}
	for i, c := range analysis.Correlations {
		row := []interface{}{c.Feature, c.Pearson, c.PearsonP, c.Spearman, c.SpearmanP, c.N}
		if err := setRow(f, correlationsSheet, i+2, row); err != nil {
			return err
		}
	}

	// Score summary block below the table.
	base := len(analysis.Correlations) + 3
	sum := analysis.Summary
	summary := [][]interface{}{
		{"score_count", sum.Count},
		{"score_mean", sum.Mean},
		{"score_median", sum.Median},
		{"score_stddev", sum.StdDev},
		{"score_min", sum.Min},
		{"score_max", sum.Max},
		{"score_q1", sum.Q1},
		{"score_q3", sum.Q3},
	}
	for i, row := range summary {
		if err := setRow(f, correlationsSheet, base+i, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
