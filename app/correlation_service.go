package app

import (
	"math"
	"sort"

	"qbench/domain/core"
	"qbench/domain/features"
	"qbench/domain/run"
	"qbench/internal"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minCorrelationRuns is the smallest sample that still yields a Student's t
// p-value (n-2 degrees of freedom).
const minCorrelationRuns = 3

// FeatureCorrelation relates one structural feature to the score across the
// successful runs of a sweep.
type FeatureCorrelation struct {
	Feature   string  `json:"feature"`
	Pearson   float64 `json:"pearson"`
	PearsonP  float64 `json:"pearson_p"`
	Spearman  float64 `json:"spearman"`
	SpearmanP float64 `json:"spearman_p"`
	N         int     `json:"n"`
}

// ScoreSummary holds descriptive statistics of the scores.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Analysis is the correlation service output: score summary plus one entry
// per feature with non-zero variance, in stable feature order.
type Analysis struct {
	Summary      ScoreSummary         `json:"summary"`
	Correlations []FeatureCorrelation `json:"correlations"`
}

// CorrelationService relates circuit features to benchmark scores.
type CorrelationService struct {
	logger *internal.Logger
}

// NewCorrelationService creates a correlation service
func NewCorrelationService(logger *internal.Logger) *CorrelationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CorrelationService{logger: logger.WithPrefix("correlate")}
}

// Correlate computes Pearson and Spearman correlations of every feature
// against the score over the successful records, with two-sided Student's t
// p-values. Features that are constant across the sample are skipped since
// their correlation is undefined.
func (s *CorrelationService) Correlate(records []run.Record) (*Analysis, error) {
	completed := make([]run.Record, 0, len(records))
	for _, r := range records {
		if !r.Failed() {
			completed = append(completed, r)
		}
	}
	n := len(completed)
	if n < minCorrelationRuns {
		return nil, core.NewParameterError("records",
			"correlation needs at least 3 successful runs")
	}

	scores := make([]float64, n)
	for i, r := range completed {
		scores[i] = r.Score
	}

	summary, err := summarizeScores(scores)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Summary: summary}
	for _, key := range features.Keys() {
		xs := make([]float64, n)
		for i, r := range completed {
			xs[i] = r.Features[key]
		}
		if constant(xs) || constant(scores) {
			s.logger.Debug("skipping %s: zero variance", key)
			continue
		}

		pearson := stat.Correlation(xs, scores, nil)
		spearman := stat.Correlation(ranks(xs), ranks(scores), nil)
		analysis.Correlations = append(analysis.Correlations, FeatureCorrelation{
			Feature:   key,
			Pearson:   pearson,
			PearsonP:  twoSidedP(pearson, n),
			Spearman:  spearman,
			SpearmanP: twoSidedP(spearman, n),
			N:         n,
		})
	}

	s.logger.Info("correlated %d features over %d runs", len(analysis.Correlations), n)
	return analysis, nil
}

func summarizeScores(scores []float64) (ScoreSummary, error) {
	data := stats.Float64Data(scores)
	mean, err := data.Mean()
	if err != nil {
		return ScoreSummary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return ScoreSummary{}, err
	}
	sd, err := data.StandardDeviation()
	if err != nil {
		return ScoreSummary{}, err
	}
	min, err := data.Min()
	if err != nil {
		return ScoreSummary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return ScoreSummary{}, err
	}
	quartiles, err := stats.Quartile(data)
	if err != nil {
		return ScoreSummary{}, err
	}
	return ScoreSummary{
		Count:  len(scores),
		Mean:   mean,
		Median: median,
		StdDev: sd,
		Min:    min,
		Max:    max,
		Q1:     quartiles.Q1,
		Q3:     quartiles.Q3,
	}, nil
}

// twoSidedP is the two-sided p-value of a correlation coefficient under the
// null of no association, via the t transform with n-2 degrees of freedom.
func twoSidedP(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.CDF(-math.Abs(t))
}

// ranks returns average ranks (ties share their mean rank), the standard
// Spearman transform.
func ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	out := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
