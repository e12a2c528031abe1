package pnl

import (
	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
)

// closureTolerance is tighter than the general 1e-6 zero tolerance: residual
// sub-satoshi quantities from repeated FIFO division must not read as an open
// position, while a genuinely open 1e-8 position still must.
var closureTolerance = decimal.New(1, -8)

// IsEffectivelyClosed reports whether the signed net open quantity of the
// transaction list is within tolerance of zero. Opening-direction fills count
// positive, closing-direction fills negative. The tolerance is inclusive.
func IsEffectivelyClosed(txs []*domain.Transaction, direction domain.Direction) bool {
	entryAction := domain.ActionBuy
	if direction == domain.DirectionShort {
		entryAction = domain.ActionSell
	}

	net := decimal.Zero
	for _, tx := range txs {
		if tx.Action == entryAction {
			net = net.Add(tx.Quantity)
		} else {
			net = net.Sub(tx.Quantity)
		}
	}

	return net.Abs().LessThanOrEqual(closureTolerance)
}
