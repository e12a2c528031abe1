package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
)

// buildDailyPnl groups closed-trade PnL by UTC calendar day and attaches a
// cumulative sum across sorted days. Day granularity keeps intraday
// multi-trade noise out of the annualized ratios.
func buildDailyPnl(finCtx *fin.Context, closed []*tradeResult) []domain.DailyPnlPoint {
	if len(closed) == 0 {
		return nil
	}

	byDay := make(map[string]decimal.Decimal)
	for _, tr := range closed {
		day := time.UnixMilli(tr.closedAt).UTC().Format("2006-01-02")
		byDay[day] = byDay[day].Add(tr.result.RealizedNetPnl)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]domain.DailyPnlPoint, 0, len(days))
	cumulative := decimal.Zero
	for _, day := range days {
		cumulative = cumulative.Add(byDay[day])
		series = append(series, domain.DailyPnlPoint{
			Date:          day,
			Pnl:           byDay[day],
			CumulativePnl: cumulative,
		})
	}
	return series
}

// computeRiskRatios derives Sharpe, Sortino, Calmar, recovery factor and
// return-on-max-drawdown from the daily series. Each ratio degrades to nil
// independently when its preconditions fail.
func (e *Engine) computeRiskRatios(data *domain.AnalyticsData) {
	if data.ClosedTrades < 1 || len(data.DailyPnl) < 2 {
		return
	}

	returns := make([]float64, len(data.DailyPnl))
	for i, p := range data.DailyPnl {
		returns[i] = e.fin.ToFloat(p.Pnl)
	}

	days := float64(e.opts.TradingDaysPerYear)
	dailyRF := e.opts.AnnualRiskFreeRate / days
	mean := meanFloat(returns)
	annualize := math.Sqrt(days)

	if sd := sampleStddev(returns, mean); sd > 0 {
		sharpe := (mean - dailyRF) / sd * annualize
		data.SharpeRatio = &sharpe
	}

	// Sortino divides by the deviation of only the sub-threshold returns.
	var downside []float64
	for _, r := range returns {
		if r < dailyRF {
			downside = append(downside, r)
		}
	}
	if len(downside) > 0 {
		if sd := sampleStddev(downside, meanFloat(downside)); sd > 0 {
			sortino := (mean - dailyRF) / sd * annualize
			data.SortinoRatio = &sortino
		}
	}

	totalPnl := e.fin.ToFloat(data.TotalRealizedNetPnl)

	// Calmar extrapolates total PnL linearly across a trading year from
	// however many daily points exist. Unstable for short histories, kept
	// as observed behavior.
	if data.MaxDrawdownPercentage != nil {
		maxDDPct := math.Abs(*data.MaxDrawdownPercentage) * 100
		if maxDDPct > 0 {
			annualized := totalPnl / float64(len(returns)) * days
			calmar := annualized / maxDDPct
			data.CalmarRatio = &calmar

			recovery := totalPnl / maxDDPct
			data.RecoveryFactor = &recovery
			romdd := totalPnl / maxDDPct
			data.ReturnOnMaxDrawdown = &romdd
		}
	}
}

// computeQualityRatios derives profit factor, payoff ratio, expectancy and
// the Kelly criterion from the win/loss sums.
func (e *Engine) computeQualityRatios(data *domain.AnalyticsData, acc *accumulator) {
	hasWins := len(acc.winPnls) > 0
	hasLosses := len(acc.lossPnls) > 0

	if hasWins && hasLosses {
		pf := e.fin.ToFloat(acc.sumWins) / math.Abs(e.fin.ToFloat(acc.sumLosses))
		data.ProfitFactor = &pf
	}

	var payoff *float64
	if data.AverageWin != nil && data.AverageLoss != nil && !data.AverageLoss.IsZero() {
		v := math.Abs(e.fin.ToFloat(*data.AverageWin) / e.fin.ToFloat(*data.AverageLoss))
		payoff = &v
		data.PayoffRatio = payoff
	}

	if data.WinRate != nil {
		wr := e.fin.ToDecimal(*data.WinRate)
		lr := e.fin.Subtract(decimal.New(1, 0), wr)

		avgWin := decimal.Zero
		if data.AverageWin != nil {
			avgWin = *data.AverageWin
		}
		avgLossAbs := decimal.Zero
		if data.AverageLoss != nil {
			avgLossAbs = data.AverageLoss.Abs()
		}
		expectancy := e.fin.Subtract(e.fin.Multiply(wr, avgWin), e.fin.Multiply(lr, avgLossAbs))
		data.Expectancy = &expectancy

		if payoff != nil && *payoff > 0 {
			kelly := *data.WinRate - (1-*data.WinRate)/(*payoff)
			data.KellyCriterion = &kelly
		}
	}
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev is the n-1 denominator form; zero for fewer than two samples.
func sampleStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
