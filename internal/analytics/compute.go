package analytics

import (
	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
)

// accumulator holds the running sums of the single accumulation pass.
type accumulator struct {
	fin *fin.Context

	closed []*tradeResult

	winPnls  []decimal.Decimal
	lossPnls []decimal.Decimal
	// closedPnls holds every closed trade's net PnL, break-evens included,
	// for the distribution statistics.
	closedPnls []decimal.Decimal

	sumWins   decimal.Decimal
	sumLosses decimal.Decimal // negative

	rSum   decimal.Decimal
	rCount int

	durSum, winDurSum, lossDurSum       float64
	durCount, winDurCount, lossDurCount int
}

func newAccumulator(finCtx *fin.Context) *accumulator {
	return &accumulator{
		fin:       finCtx,
		sumWins:   decimal.Zero,
		sumLosses: decimal.Zero,
		rSum:      decimal.Zero,
	}
}

// addTrade folds one per-trade result into the running totals.
func (a *accumulator) addTrade(tr *tradeResult, data *domain.AnalyticsData) {
	res := tr.result

	data.TotalRealizedGrossPnl = data.TotalRealizedGrossPnl.Add(res.RealizedGrossPnl)
	data.TotalRealizedNetPnl = data.TotalRealizedNetPnl.Add(res.RealizedNetPnl)
	data.TotalFees = data.TotalFees.Add(tr.trade.FeesTotal)
	if res.UnrealizedGrossPnl != nil {
		data.TotalUnrealizedPnl = data.TotalUnrealizedPnl.Add(*res.UnrealizedGrossPnl)
	}

	if !res.IsFullyClosed {
		data.OpenTrades++
		return
	}

	data.ClosedTrades++
	a.closed = append(a.closed, tr)
	a.closedPnls = append(a.closedPnls, res.RealizedNetPnl)

	switch res.Outcome {
	case domain.OutcomeWin:
		data.Wins++
		a.winPnls = append(a.winPnls, res.RealizedNetPnl)
		a.sumWins = a.sumWins.Add(res.RealizedNetPnl)
	case domain.OutcomeLoss:
		data.Losses++
		a.lossPnls = append(a.lossPnls, res.RealizedNetPnl)
		a.sumLosses = a.sumLosses.Add(res.RealizedNetPnl)
	case domain.OutcomeBreakEven:
		data.BreakEvens++
	}

	if res.RMultiple != nil {
		a.rSum = a.rSum.Add(*res.RMultiple)
		a.rCount++
	}

	if res.HoldDurationMs != nil {
		d := float64(*res.HoldDurationMs)
		a.durSum += d
		a.durCount++
		switch res.Outcome {
		case domain.OutcomeWin:
			a.winDurSum += d
			a.winDurCount++
		case domain.OutcomeLoss:
			a.lossDurSum += d
			a.lossDurCount++
		}
	}
}

// foldStreaks walks the closed trades in close-time order. A break-even
// resets both counters without counting toward either.
func (a *accumulator) foldStreaks(closed []*tradeResult, data *domain.AnalyticsData) {
	var winRun, lossRun int
	var winRuns, lossRuns []int

	endWinRun := func() {
		if winRun > 0 {
			winRuns = append(winRuns, winRun)
			winRun = 0
		}
	}
	endLossRun := func() {
		if lossRun > 0 {
			lossRuns = append(lossRuns, lossRun)
			lossRun = 0
		}
	}

	for _, tr := range closed {
		switch tr.result.Outcome {
		case domain.OutcomeWin:
			endLossRun()
			winRun++
			if winRun > data.LongestWinStreak {
				data.LongestWinStreak = winRun
			}
		case domain.OutcomeLoss:
			endWinRun()
			lossRun++
			if lossRun > data.LongestLossStreak {
				data.LongestLossStreak = lossRun
			}
		case domain.OutcomeBreakEven:
			endWinRun()
			endLossRun()
		}
	}

	switch {
	case winRun > 0:
		data.CurrentStreak = winRun
		data.CurrentStreakType = domain.StreakWin
	case lossRun > 0:
		data.CurrentStreak = lossRun
		data.CurrentStreakType = domain.StreakLoss
	}
	endWinRun()
	endLossRun()

	if avg := meanOfInts(winRuns); avg != nil {
		data.AvgWinStreak = avg
	}
	if avg := meanOfInts(lossRuns); avg != nil {
		data.AvgLossStreak = avg
	}
}

// finishScalars derives the averages and extremes from the accumulated sums.
func (a *accumulator) finishScalars(data *domain.AnalyticsData) {
	decided := data.Wins + data.Losses
	if decided > 0 {
		wr := float64(data.Wins) / float64(decided)
		data.WinRate = &wr
	}

	if len(a.winPnls) > 0 {
		avg := a.fin.Divide(a.sumWins, decimal.NewFromInt(int64(len(a.winPnls))))
		data.AverageWin = &avg
		largest, smallest := extremes(a.winPnls)
		data.LargestWin = &largest
		data.SmallestWin = &smallest
	}
	if len(a.lossPnls) > 0 {
		avg := a.fin.Divide(a.sumLosses, decimal.NewFromInt(int64(len(a.lossPnls))))
		data.AverageLoss = &avg
		// Losses are negative: the largest loss is the minimum, the smallest
		// the one closest to zero.
		smallest, largest := extremes(a.lossPnls)
		data.LargestLoss = &largest
		data.SmallestLoss = &smallest
	}

	if a.rCount > 0 {
		avg := a.fin.Divide(a.rSum, decimal.NewFromInt(int64(a.rCount)))
		data.AvgRMultiple = &avg
	}

	if a.durCount > 0 {
		v := a.durSum / float64(a.durCount)
		data.AvgHoldDurationMs = &v
	}
	if a.winDurCount > 0 {
		v := a.winDurSum / float64(a.winDurCount)
		data.AvgWinHoldDurationMs = &v
	}
	if a.lossDurCount > 0 {
		v := a.lossDurSum / float64(a.lossDurCount)
		data.AvgLossHoldDurationMs = &v
	}
}

// extremes returns the maximum and minimum of a non-empty slice.
func extremes(values []decimal.Decimal) (max, min decimal.Decimal) {
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(max) {
			max = v
		}
		if v.LessThan(min) {
			min = v
		}
	}
	return max, min
}

func meanOfInts(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return &mean
}
