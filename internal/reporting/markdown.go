package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	a := r.Analytics

	// Header
	sb.WriteString("# Trade Journal Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	writeFilter(&sb, r.Filter)

	// Overview
	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", a.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Closed Trades | %d |\n", a.ClosedTrades))
	sb.WriteString(fmt.Sprintf("| Open Trades | %d |\n", a.OpenTrades))
	sb.WriteString(fmt.Sprintf("| Realized Net PnL | %s |\n", fmtDec(a.TotalRealizedNetPnl)))
	sb.WriteString(fmt.Sprintf("| Realized Gross PnL | %s |\n", fmtDec(a.TotalRealizedGrossPnl)))
	sb.WriteString(fmt.Sprintf("| Unrealized PnL | %s |\n", fmtDec(a.TotalUnrealizedPnl)))
	sb.WriteString(fmt.Sprintf("| Total Fees | %s |\n", fmtDec(a.TotalFees)))
	sb.WriteString("\n")

	// Outcomes
	sb.WriteString("## Outcomes\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Wins / Losses / Break-even | %d / %d / %d |\n", a.Wins, a.Losses, a.BreakEvens))
	sb.WriteString(fmt.Sprintf("| Win Rate | %s |\n", fmtPct(a.WinRate)))
	sb.WriteString(fmt.Sprintf("| Average Win | %s |\n", fmtDecPtr(a.AverageWin)))
	sb.WriteString(fmt.Sprintf("| Average Loss | %s |\n", fmtDecPtr(a.AverageLoss)))
	sb.WriteString(fmt.Sprintf("| Largest Win | %s |\n", fmtDecPtr(a.LargestWin)))
	sb.WriteString(fmt.Sprintf("| Largest Loss | %s |\n", fmtDecPtr(a.LargestLoss)))
	sb.WriteString(fmt.Sprintf("| Median PnL | %s |\n", fmtDecPtr(a.MedianPnl)))
	sb.WriteString(fmt.Sprintf("| Expectancy | %s |\n", fmtDecPtr(a.Expectancy)))
	sb.WriteString(fmt.Sprintf("| Avg R-Multiple | %s |\n", fmtDecPtr(a.AvgRMultiple)))
	sb.WriteString(fmt.Sprintf("| Longest Win Streak | %d |\n", a.LongestWinStreak))
	sb.WriteString(fmt.Sprintf("| Longest Loss Streak | %d |\n", a.LongestLossStreak))
	sb.WriteString(fmt.Sprintf("| Current Streak | %d (%s) |\n", a.CurrentStreak, a.CurrentStreakType))
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %s |\n", fmtPct(a.MaxDrawdownPercentage)))
	sb.WriteString(fmt.Sprintf("| Max Drawdown Amount | %s |\n", fmtDecPtr(a.MaxDrawdownAmount)))
	sb.WriteString(fmt.Sprintf("| Avg Drawdown | %s |\n", fmtFloat(a.AvgDrawdownPercentage)))
	sb.WriteString(fmt.Sprintf("| Current Drawdown | %s |\n", fmtPct(a.CurrentDrawdown)))
	sb.WriteString(fmt.Sprintf("| Ulcer Index | %s |\n", fmtFloat(a.UlcerIndex)))
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %s |\n", fmtFloat(a.SharpeRatio)))
	sb.WriteString(fmt.Sprintf("| Sortino Ratio | %s |\n", fmtFloat(a.SortinoRatio)))
	sb.WriteString(fmt.Sprintf("| Calmar Ratio | %s |\n", fmtFloat(a.CalmarRatio)))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", fmtFloat(a.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Payoff Ratio | %s |\n", fmtFloat(a.PayoffRatio)))
	sb.WriteString(fmt.Sprintf("| Kelly Criterion | %s |\n", fmtFloat(a.KellyCriterion)))
	sb.WriteString("\n")

	// Drawdown periods
	sb.WriteString("## Drawdown Periods\n\n")
	if len(a.DrawdownPeriods) > 0 {
		sb.WriteString("| Start | End | Peak | Trough | Depth | Depth % | Recovered |\n")
		sb.WriteString("|-------|-----|------|--------|-------|---------|----------|\n")
		for _, p := range a.DrawdownPeriods {
			end := "open"
			if p.EndTimestamp != nil {
				end = fmtTimestamp(*p.EndTimestamp)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %t |\n",
				fmtTimestamp(p.StartTimestamp), end,
				fmtDec(p.PeakEquity), fmtDec(p.TroughEquity),
				fmtDec(p.DepthAmount), fmtPct(p.DepthPercentage), p.Recovered))
		}
	} else {
		sb.WriteString("No drawdown periods.\n")
	}
	sb.WriteString("\n")

	// Breakdowns
	writeGroupSection(&sb, "By Month", a.ByMonth)
	writeGroupSection(&sb, "By Day of Week", a.ByDayOfWeek)
	writeGroupSection(&sb, "By Hour of Day", a.ByHourOfDay)
	writeGroupSection(&sb, "By Asset Class", a.ByAssetClass)
	writeGroupSection(&sb, "By Exchange", a.ByExchange)
	writeGroupSection(&sb, "By Direction", a.ByDirection)

	// Extremes
	sb.WriteString("## Extremes\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Best Month | %s |\n", fmtGroup(a.BestMonth)))
	sb.WriteString(fmt.Sprintf("| Worst Month | %s |\n", fmtGroup(a.WorstMonth)))
	sb.WriteString(fmt.Sprintf("| Best Day | %s |\n", fmtGroup(a.BestDay)))
	sb.WriteString(fmt.Sprintf("| Worst Day | %s |\n", fmtGroup(a.WorstDay)))
	sb.WriteString("\n")

	return sb.String()
}

func writeFilter(sb *strings.Builder, f *domain.AnalyticsFilter) {
	if f == nil {
		sb.WriteString("Scope: full journal\n\n")
		return
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("from %s", fmtTimestamp(*f.DateFrom)))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("to %s", fmtTimestamp(*f.DateTo)))
	}
	if len(f.AssetClasses) > 0 {
		parts = append(parts, "asset classes: "+strings.Join(f.AssetClasses, ", "))
	}
	if len(f.Exchanges) > 0 {
		parts = append(parts, "exchanges: "+strings.Join(f.Exchanges, ", "))
	}
	if len(f.StrategyIDs) > 0 {
		parts = append(parts, "strategies: "+strings.Join(f.StrategyIDs, ", "))
	}
	if len(parts) == 0 {
		sb.WriteString("Scope: full journal\n\n")
		return
	}
	sb.WriteString("Scope: " + strings.Join(parts, "; ") + "\n\n")
}

func writeGroupSection(sb *strings.Builder, title string, groups []domain.GroupStats) {
	sb.WriteString("## " + title + "\n\n")
	if len(groups) == 0 {
		sb.WriteString("No data.\n\n")
		return
	}
	sb.WriteString("| Key | Net PnL | Trades | W | L | BE | Win Rate |\n")
	sb.WriteString("|-----|---------|--------|---|---|----|----------|\n")
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %s |\n",
			g.Key, fmtDec(g.NetPnl), g.Trades, g.Wins, g.Losses, g.BreakEvens, fmtPct(g.WinRate)))
	}
	sb.WriteString("\n")
}

func fmtDec(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func fmtDecPtr(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.StringFixed(2)
}

func fmtFloat(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *f)
}

func fmtPct(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *f*100)
}

func fmtGroup(g *domain.GroupStats) string {
	if g == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s (%s)", g.Key, fmtDec(g.NetPnl))
}

func fmtTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}
