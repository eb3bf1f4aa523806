package app

import (
	"testing"

	"qbench/domain/core"
	"qbench/domain/features"
	"qbench/domain/run"

	"github.com/stretchr/testify/require"
)

func syntheticRecords() []run.Record {
	// Score decays monotonically (but not linearly) with depth; entanglement
	// ratio is constant across the sample.
	depths := []float64{1, 2, 3, 4, 5, 6}
	records := make([]run.Record, 0, len(depths)+1)
	for _, d := range depths {
		records = append(records, run.Record{
			Score:  1 / d,
			Status: run.StatusCompleted,
			Features: features.Vector{
				features.KeyDepth:             d,
				features.KeyEntanglementRatio: 0.5,
			},
		})
	}
	// A failed record must not enter the sample.
	records = append(records, run.Record{
		Score:  42,
		Status: run.StatusFailed,
		Features: features.Vector{
			features.KeyDepth: 100,
		},
	})
	return records
}

func TestCorrelationService_MonotoneData(t *testing.T) {
	svc := NewCorrelationService(nil)
	analysis, err := svc.Correlate(syntheticRecords())
	require.NoError(t, err)

	var depth *FeatureCorrelation
	for i := range analysis.Correlations {
		if analysis.Correlations[i].Feature == features.KeyDepth {
			depth = &analysis.Correlations[i]
		}
		// Constant columns are skipped outright.
		require.NotEqual(t, features.KeyEntanglementRatio, analysis.Correlations[i].Feature)
	}
	require.NotNil(t, depth, "depth correlation missing")

	require.Equal(t, 6, depth.N)
	require.Less(t, depth.Pearson, 0.0)
	require.Greater(t, depth.PearsonP, 0.0)
	require.Less(t, depth.PearsonP, 1.0)

	// Perfectly monotone decreasing: Spearman is exactly -1, p collapses to 0.
	require.InDelta(t, -1.0, depth.Spearman, 1e-12)
	require.Equal(t, 0.0, depth.SpearmanP)
}

func TestCorrelationService_ScoreSummary(t *testing.T) {
	svc := NewCorrelationService(nil)
	analysis, err := svc.Correlate(syntheticRecords())
	require.NoError(t, err)

	sum := analysis.Summary
	require.Equal(t, 6, sum.Count)
	require.InDelta(t, 1.0, sum.Max, 1e-12)
	require.InDelta(t, 1.0/6.0, sum.Min, 1e-12)
	require.InDelta(t, (1+0.5+1.0/3+0.25+0.2+1.0/6)/6, sum.Mean, 1e-12)
	require.Greater(t, sum.StdDev, 0.0)
	require.LessOrEqual(t, sum.Q1, sum.Median)
	require.LessOrEqual(t, sum.Median, sum.Q3)
}

func TestCorrelationService_TooFewRuns(t *testing.T) {
	svc := NewCorrelationService(nil)
	records := syntheticRecords()[:2]
	_, err := svc.Correlate(records)
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}
