package reporting

import (
	"fmt"
	"strings"

	"trade-journal-lab/internal/domain"
)

// RenderEquityCurveCSV renders the equity curve as a CSV string. Decimal
// columns come out as exact base-10 strings.
func RenderEquityCurveCSV(curve []domain.EquityPoint) string {
	var sb strings.Builder

	sb.WriteString("timestamp_ms,trade_id,trade_pnl,equity\n")
	for _, p := range curve {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s\n",
			p.Timestamp, p.TradeID, p.TradePnl.String(), p.Equity.String()))
	}

	return sb.String()
}

// RenderDailyPnlCSV renders the daily PnL series as a CSV string.
func RenderDailyPnlCSV(series []domain.DailyPnlPoint) string {
	var sb strings.Builder

	sb.WriteString("date,pnl,cumulative_pnl\n")
	for _, p := range series {
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n",
			p.Date, p.Pnl.String(), p.CumulativePnl.String()))
	}

	return sb.String()
}
