package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
)

// buildEquityCurve turns the chronologically sorted closed results into a
// running cumulative sum of realized net PnL.
func buildEquityCurve(finCtx *fin.Context, closed []*tradeResult) []domain.EquityPoint {
	if len(closed) == 0 {
		return nil
	}

	curve := make([]domain.EquityPoint, 0, len(closed))
	equity := decimal.Zero
	for _, tr := range closed {
		equity = equity.Add(tr.result.RealizedNetPnl)
		curve = append(curve, domain.EquityPoint{
			Timestamp: tr.closedAt,
			TradeID:   tr.trade.TradeID,
			TradePnl:  tr.result.RealizedNetPnl,
			Equity:    equity,
		})
	}
	return curve
}

// analyzeDrawdowns walks the equity curve once as a two-state machine
// (at_peak / in_drawdown). The starting peak is flat zero equity, so a curve
// that opens with losses is immediately in drawdown dollar-wise even though
// its percentage depth is undefined until a positive peak exists.
func (e *Engine) analyzeDrawdowns(data *domain.AnalyticsData) {
	curve := data.EquityCurve
	if len(curve) == 0 {
		return
	}

	peak := decimal.Zero
	var open *domain.DrawdownPeriod

	var maxDDPct float64 // most negative
	maxDDAmount := decimal.Zero
	hasPct := false

	var sumSqPct, sumAbsPct float64
	// Points below a zero or negative peak have a dollar depth but no defined
	// percentage; only points that contributed to sumAbsPct count toward the
	// average.
	pctPoints := 0

	var periods []domain.DrawdownPeriod

	closeOpen := func(at int64) {
		if open == nil {
			return
		}
		end := at
		open.EndTimestamp = &end
		open.Recovered = true
		dur := end - open.StartTimestamp
		open.DurationMs = &dur
		periods = append(periods, *open)
		open = nil
	}

	for _, pt := range curve {
		if pt.Equity.GreaterThan(peak) {
			closeOpen(pt.Timestamp)
			peak = pt.Equity
			continue
		}

		ddAmount := peak.Sub(pt.Equity)
		var ddPct *float64
		if peak.IsPositive() {
			v := e.fin.ToFloat(e.fin.Divide(pt.Equity.Sub(peak), peak))
			ddPct = &v
		}

		if ddPct != nil {
			if !hasPct || *ddPct < maxDDPct {
				maxDDPct = *ddPct
				hasPct = true
			}
			sumSqPct += *ddPct * *ddPct
			sumAbsPct += math.Abs(*ddPct)
			pctPoints++
		}
		if ddAmount.GreaterThan(maxDDAmount) {
			maxDDAmount = ddAmount
		}

		if open == nil {
			// The entering point is recorded as the initial trough.
			open = &domain.DrawdownPeriod{
				StartTimestamp: pt.Timestamp,
				PeakEquity:     peak,
				TroughEquity:   pt.Equity,
				DepthAmount:    ddAmount,
			}
			if ddPct != nil {
				open.DepthPercentage = ddPct
			}
		} else if pt.Equity.LessThan(open.TroughEquity) {
			open.TroughEquity = pt.Equity
			open.DepthAmount = ddAmount
			if ddPct != nil {
				open.DepthPercentage = ddPct
			}
		}
	}

	// Unrecovered drawdown at the most recent data point stays open.
	if open != nil {
		periods = append(periods, *open)
	}

	data.DrawdownPeriods = periods

	if hasPct {
		pct := maxDDPct
		data.MaxDrawdownPercentage = &pct
	}
	if maxDDAmount.IsPositive() {
		amount := maxDDAmount
		data.MaxDrawdownAmount = &amount
	}

	// Ulcer Index is RMS of percentage drawdowns over all points; at-peak
	// points contribute zero.
	if len(curve) > 0 {
		ulcer := math.Sqrt(sumSqPct/float64(len(curve))) * 100
		data.UlcerIndex = &ulcer
	}
	if pctPoints > 0 {
		avg := sumAbsPct / float64(pctPoints) * 100
		data.AvgDrawdownPercentage = &avg
	}

	// Current drawdown: distance of the last point from the all-time peak.
	last := curve[len(curve)-1].Equity
	current := 0.0
	if last.LessThan(peak) && peak.IsPositive() {
		current = e.fin.ToFloat(e.fin.Divide(last.Sub(peak), peak))
	}
	data.CurrentDrawdown = &current

	var maxDur int64
	lastAt := curve[len(curve)-1].Timestamp
	for _, p := range periods {
		dur := lastAt - p.StartTimestamp
		if p.DurationMs != nil {
			dur = *p.DurationMs
		}
		if dur > maxDur {
			maxDur = dur
		}
	}
	if maxDur > 0 {
		data.MaxDrawdownDurationMs = &maxDur
	}
}
