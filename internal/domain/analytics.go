package domain

import "github.com/shopspring/decimal"

// StreakType names the direction of the current run of closed trades.
type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// EquityPoint is one step of the cumulative realized P&L curve, keyed by the
// close time of the trade that produced it.
type EquityPoint struct {
	Timestamp int64           `json:"timestamp"`
	TradeID   string          `json:"trade_id"`
	TradePnl  decimal.Decimal `json:"trade_pnl"`
	Equity    decimal.Decimal `json:"equity"`
}

// DailyPnlPoint is one calendar day of realized P&L with its running total.
type DailyPnlPoint struct {
	Date          string          `json:"date"` // ISO date, e.g. 2025-03-14
	Pnl           decimal.Decimal `json:"pnl"`
	CumulativePnl decimal.Decimal `json:"cumulative_pnl"`
}

// DrawdownPeriod is one discrete decline from an equity peak. An unrecovered
// period at the end of the series has Recovered false and a nil EndTimestamp.
type DrawdownPeriod struct {
	StartTimestamp  int64           `json:"start_timestamp"`
	EndTimestamp    *int64          `json:"end_timestamp,omitempty"`
	PeakEquity      decimal.Decimal `json:"peak_equity"`
	TroughEquity    decimal.Decimal `json:"trough_equity"`
	DepthAmount     decimal.Decimal `json:"depth_amount"`
	DepthPercentage *float64        `json:"depth_percentage,omitempty"` // negative
	DurationMs      *int64          `json:"duration_ms,omitempty"`
	Recovered       bool            `json:"recovered"`
}

// GroupStats is one named aggregate bucket (a month, a weekday, an asset
// class, …) with its own win-rate.
type GroupStats struct {
	Key        string          `json:"key"`
	NetPnl     decimal.Decimal `json:"net_pnl"`
	Trades     int             `json:"trades"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	BreakEvens int             `json:"break_evens"`
	// WinRate is wins/(wins+losses); nil when the bucket has no decided trades.
	WinRate *float64 `json:"win_rate,omitempty"`
}

// AnalyticsData is the aggregation engine's full portfolio report. Currency
// amounts are decimals (exact strings at the boundary); dimensionless
// statistics follow floating-point convention and are nil when undefined.
type AnalyticsData struct {
	// Scalar totals.
	TotalRealizedNetPnl   decimal.Decimal `json:"total_realized_net_pnl"`
	TotalRealizedGrossPnl decimal.Decimal `json:"total_realized_gross_pnl"`
	TotalFees             decimal.Decimal `json:"total_fees"`
	TotalUnrealizedPnl    decimal.Decimal `json:"total_unrealized_pnl"`

	// Counts.
	TotalTrades  int `json:"total_trades"`
	ClosedTrades int `json:"closed_trades"`
	OpenTrades   int `json:"open_trades"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	BreakEvens   int `json:"break_evens"`

	// WinRate is wins/(wins+losses) over closed trades; nil if none decided.
	WinRate *float64 `json:"win_rate,omitempty"`

	// Per-trade-size statistics over closed-trade net P&L.
	AverageWin   *decimal.Decimal `json:"average_win,omitempty"`
	AverageLoss  *decimal.Decimal `json:"average_loss,omitempty"` // negative
	LargestWin   *decimal.Decimal `json:"largest_win,omitempty"`
	LargestLoss  *decimal.Decimal `json:"largest_loss,omitempty"` // most negative
	SmallestWin  *decimal.Decimal `json:"smallest_win,omitempty"`
	SmallestLoss *decimal.Decimal `json:"smallest_loss,omitempty"` // closest to zero
	MedianPnl    *decimal.Decimal `json:"median_pnl,omitempty"`
	PnlStddev    *float64         `json:"pnl_stddev,omitempty"`
	PnlSkewness  *float64         `json:"pnl_skewness,omitempty"`
	PnlKurtosis  *float64         `json:"pnl_kurtosis,omitempty"` // excess

	// Streaks over closed trades in close-time order. Break-evens reset both
	// counters without counting toward either.
	CurrentStreak     int        `json:"current_streak"`
	CurrentStreakType StreakType `json:"current_streak_type"`
	LongestWinStreak  int        `json:"longest_win_streak"`
	LongestLossStreak int        `json:"longest_loss_streak"`
	AvgWinStreak      *float64   `json:"avg_win_streak,omitempty"`
	AvgLossStreak     *float64   `json:"avg_loss_streak,omitempty"`

	// Durations in milliseconds, closed trades with both timestamps only.
	AvgHoldDurationMs     *float64 `json:"avg_hold_duration_ms,omitempty"`
	AvgWinHoldDurationMs  *float64 `json:"avg_win_hold_duration_ms,omitempty"`
	AvgLossHoldDurationMs *float64 `json:"avg_loss_hold_duration_ms,omitempty"`

	// R-multiple.
	AvgRMultiple *decimal.Decimal `json:"avg_r_multiple,omitempty"`

	// Risk-adjusted ratios over the daily-return series.
	SharpeRatio        *float64 `json:"sharpe_ratio,omitempty"`
	SortinoRatio       *float64 `json:"sortino_ratio,omitempty"`
	CalmarRatio        *float64 `json:"calmar_ratio,omitempty"`
	RecoveryFactor     *float64 `json:"recovery_factor,omitempty"`
	ReturnOnMaxDrawdown *float64 `json:"return_on_max_drawdown,omitempty"`

	// Trade-quality ratios.
	ProfitFactor *float64         `json:"profit_factor,omitempty"`
	PayoffRatio  *float64         `json:"payoff_ratio,omitempty"`
	Expectancy   *decimal.Decimal `json:"expectancy,omitempty"`
	KellyCriterion *float64       `json:"kelly_criterion,omitempty"`

	// Drawdown structure. Percentages are negative internally; renderers take
	// absolute values.
	MaxDrawdownPercentage *float64         `json:"max_drawdown_percentage,omitempty"`
	MaxDrawdownAmount     *decimal.Decimal `json:"max_drawdown_amount,omitempty"`
	AvgDrawdownPercentage *float64         `json:"avg_drawdown_percentage,omitempty"`
	CurrentDrawdown       *float64         `json:"current_drawdown,omitempty"`
	UlcerIndex            *float64         `json:"ulcer_index,omitempty"`
	MaxDrawdownDurationMs *int64           `json:"max_drawdown_duration_ms,omitempty"`
	DrawdownPeriods       []DrawdownPeriod `json:"drawdown_periods,omitempty"`

	// Series.
	EquityCurve []EquityPoint   `json:"equity_curve,omitempty"`
	DailyPnl    []DailyPnlPoint `json:"daily_pnl,omitempty"`

	// Grouped breakdowns. Time groupings keep chronological key order;
	// categorical groupings are sorted descending by net P&L.
	ByMonth      []GroupStats `json:"by_month,omitempty"`
	ByDayOfWeek  []GroupStats `json:"by_day_of_week,omitempty"`
	ByHourOfDay  []GroupStats `json:"by_hour_of_day,omitempty"`
	ByWeekOfYear []GroupStats `json:"by_week_of_year,omitempty"`
	ByAssetClass []GroupStats `json:"by_asset_class,omitempty"`
	ByExchange   []GroupStats `json:"by_exchange,omitempty"`
	ByDirection  []GroupStats `json:"by_direction,omitempty"`

	BestMonth  *GroupStats `json:"best_month,omitempty"`
	WorstMonth *GroupStats `json:"worst_month,omitempty"`
	BestDay    *GroupStats `json:"best_day,omitempty"`
	WorstDay   *GroupStats `json:"worst_day,omitempty"`
}
