package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
)

// computeDistribution derives median, sample stddev, skewness and excess
// kurtosis over closed-trade net PnL. Each moment has its own minimum sample
// size and degrades to nil below it.
func (e *Engine) computeDistribution(data *domain.AnalyticsData, acc *accumulator) {
	n := len(acc.closedPnls)
	if n == 0 {
		return
	}

	sorted := make([]decimal.Decimal, n)
	copy(sorted, acc.closedPnls)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	median := sorted[n/2]
	if n%2 == 0 {
		median = e.fin.Divide(sorted[n/2-1].Add(sorted[n/2]), decimal.NewFromInt(2))
	}
	data.MedianPnl = &median

	values := make([]float64, n)
	for i, v := range sorted {
		values[i] = e.fin.ToFloat(v)
	}
	mean := meanFloat(values)
	sd := sampleStddev(values, mean)
	if sd == 0 {
		return
	}
	data.PnlStddev = &sd

	if n >= 3 {
		sumCubes := 0.0
		for _, v := range values {
			z := (v - mean) / sd
			sumCubes += z * z * z
		}
		skew := sumCubes / float64(n)
		data.PnlSkewness = &skew
	}

	if n >= 4 {
		sumQuads := 0.0
		for _, v := range values {
			z := (v - mean) / sd
			sumQuads += math.Pow(z, 4)
		}
		kurt := sumQuads/float64(n) - 3
		data.PnlKurtosis = &kurt
	}
}
