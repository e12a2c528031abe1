package domain

import "github.com/shopspring/decimal"

// Outcome classifies a closed trade by net result.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeBreakEven Outcome = "break_even"
)

// PnlResult is the FIFO engine's output for one trade. Currency and quantity
// fields are decimals so they serialize as exact base-10 strings; nil pointer
// fields mean "not applicable", never zero.
type PnlResult struct {
	TradeID string `json:"trade_id"`

	RealizedGrossPnl decimal.Decimal `json:"realized_gross_pnl"`
	RealizedNetPnl   decimal.Decimal `json:"realized_net_pnl"`

	// ClosedFees is the portion of fees attributable to the closed quantity:
	// full exit fees plus entry fees prorated by matched share.
	ClosedFees decimal.Decimal `json:"closed_fees"`

	ClosedQuantity decimal.Decimal `json:"closed_quantity"`
	OpenQuantity   decimal.Decimal `json:"open_quantity"`

	// AvgOpenPrice is the value-weighted mean price of remaining entry
	// quantity. Nil when fully closed or no entries exist.
	AvgOpenPrice *decimal.Decimal `json:"avg_open_price,omitempty"`

	// UnrealizedGrossPnl requires both an open quantity and a market price.
	UnrealizedGrossPnl *decimal.Decimal `json:"unrealized_gross_pnl,omitempty"`

	// RMultiple requires a closed trade with nonzero initial risk.
	RMultiple *decimal.Decimal `json:"r_multiple,omitempty"`

	// HoldDurationMs requires a closed trade with both timestamps.
	HoldDurationMs *int64 `json:"hold_duration_ms,omitempty"`

	// Outcome is empty for open trades.
	Outcome Outcome `json:"outcome,omitempty"`

	IsFullyClosed bool `json:"is_fully_closed"`
}
