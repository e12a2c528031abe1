package domain

import "github.com/shopspring/decimal"

// Direction is fixed at trade creation and never recomputed.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Status is a caller-maintained cache of the closure predicate. The engines
// recompute truth from transactions; they trust this flag only for the
// IsFullyClosed field of a PnL result.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Trade is one instrument position. It owns its transactions by foreign
// reference only; the engines operate on an explicit transaction list passed
// alongside it.
type Trade struct {
	TradeID    string
	Symbol     string
	AssetClass string
	Exchange   string
	StrategyID string

	Direction Direction
	Status    Status

	// OpenedAt and ClosedAt are Unix milliseconds. ClosedAt is nil while open.
	OpenedAt int64
	ClosedAt *int64

	FeesTotal decimal.Decimal

	// CurrentMarketPrice is required only to compute unrealized P&L.
	CurrentMarketPrice *decimal.Decimal

	// InitialRisk is the planned risk amount, the R-multiple denominator.
	InitialRisk *decimal.Decimal
}

// TradeWithTransactions pairs a trade with its ordered (or unordered) fills.
type TradeWithTransactions struct {
	Trade        *Trade
	Transactions []*Transaction
}
