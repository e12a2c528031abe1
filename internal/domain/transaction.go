package domain

import "github.com/shopspring/decimal"

// Action is the side of a fill.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Transaction is an atomic fill belonging to a trade. Immutable once handed
// to the engines; engines never mutate input records, only derive results.
type Transaction struct {
	TransactionID string
	TradeID       string

	Action   Action
	Quantity decimal.Decimal // positive
	Price    decimal.Decimal // positive
	Fees     decimal.Decimal // non-negative

	// Datetime is the fill time in Unix milliseconds.
	Datetime int64

	Note string
}
