// Package pnl implements the FIFO profit/loss engine: it matches exit
// transactions against entry transactions in time order and derives a
// per-trade result. The engine is pure; it never mutates its inputs and
// performs no I/O.
package pnl

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
	"trade-journal-lab/internal/observability"
)

// Engine computes per-trade PnL results.
type Engine struct {
	fin    *fin.Context
	logger *zap.Logger
}

// NewEngine creates a PnL engine bound to a decimal context.
func NewEngine(finCtx *fin.Context, logger *zap.Logger) *Engine {
	if finCtx == nil {
		finCtx = fin.NewContext(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{fin: finCtx, logger: logger}
}

// entryLot tracks how much of one entry fill is still unmatched.
type entryLot struct {
	tx        *domain.Transaction
	remaining decimal.Decimal
}

// ComputeTradePnl runs FIFO matching for one trade. The transaction list may
// arrive unordered; a stable sort by datetime keeps same-timestamp fills in
// original list order so matching is deterministic.
func (e *Engine) ComputeTradePnl(trade *domain.Trade, txs []*domain.Transaction) *domain.PnlResult {
	defer observability.RecordPnlComputed()

	result := &domain.PnlResult{
		TradeID:        trade.TradeID,
		ClosedQuantity: decimal.Zero,
		OpenQuantity:   decimal.Zero,
		IsFullyClosed:  trade.Status == domain.StatusClosed,
	}

	entries, exits := partition(trade.Direction, txs)

	gross := decimal.Zero
	closedFees := decimal.Zero
	closedQty := decimal.Zero
	sign := directionSign(trade.Direction)

	lots := make([]*entryLot, len(entries))
	for i, entry := range entries {
		lots[i] = &entryLot{tx: entry, remaining: entry.Quantity}
	}

	// Consume entry quantity oldest-first for each exit in time order.
	head := 0
	for _, exit := range exits {
		exitRemaining := exit.Quantity
		closedFees = closedFees.Add(exit.Fees)

		for head < len(lots) && exitRemaining.IsPositive() {
			lot := lots[head]
			if !lot.remaining.IsPositive() {
				head++
				continue
			}

			matched := decimal.Min(exitRemaining, lot.remaining)

			// (exit − entry) × q × sign; the single sign flip is what makes
			// short PnL symmetric with long PnL.
			move := e.fin.Subtract(exit.Price, lot.tx.Price)
			gross = gross.Add(e.fin.Multiply(move, matched, sign))

			// Entry fees are charged proportionally to the matched share.
			if !lot.tx.Fees.IsZero() {
				share := e.fin.Divide(matched, lot.tx.Quantity)
				closedFees = closedFees.Add(e.fin.Multiply(lot.tx.Fees, share))
			}

			closedQty = closedQty.Add(matched)
			exitRemaining = exitRemaining.Sub(matched)
			lot.remaining = lot.remaining.Sub(matched)

			if !lot.remaining.IsPositive() {
				head++
			}
		}
	}

	// Entries with remaining quantity form the open position.
	openQty := decimal.Zero
	openValue := decimal.Zero
	for _, lot := range lots {
		if lot.remaining.IsPositive() {
			openQty = openQty.Add(lot.remaining)
			openValue = openValue.Add(e.fin.Multiply(lot.remaining, lot.tx.Price))
		}
	}

	result.RealizedGrossPnl = gross
	result.ClosedFees = closedFees
	result.RealizedNetPnl = e.fin.Subtract(gross, closedFees)
	result.ClosedQuantity = closedQty
	result.OpenQuantity = openQty

	if openQty.IsPositive() {
		avg := e.fin.Divide(openValue, openQty)
		result.AvgOpenPrice = &avg

		if trade.CurrentMarketPrice != nil {
			move := e.fin.Subtract(*trade.CurrentMarketPrice, avg)
			unrealized := e.fin.Multiply(move, openQty, sign)
			result.UnrealizedGrossPnl = &unrealized
		}
	}

	if result.IsFullyClosed {
		netOfTotalFees := e.fin.Subtract(gross, trade.FeesTotal)

		if trade.InitialRisk != nil && !e.fin.IsZero(*trade.InitialRisk) {
			r := e.fin.Divide(netOfTotalFees, *trade.InitialRisk)
			result.RMultiple = &r
		}

		if trade.OpenedAt > 0 && trade.ClosedAt != nil {
			duration := *trade.ClosedAt - trade.OpenedAt
			result.HoldDurationMs = &duration
		}

		switch {
		case e.fin.IsPositive(netOfTotalFees):
			result.Outcome = domain.OutcomeWin
		case e.fin.IsNegative(netOfTotalFees):
			result.Outcome = domain.OutcomeLoss
		default:
			result.Outcome = domain.OutcomeBreakEven
		}
	}

	return result
}

// partition splits fills into entries and exits for the trade direction,
// each stably sorted ascending by datetime.
func partition(direction domain.Direction, txs []*domain.Transaction) (entries, exits []*domain.Transaction) {
	entryAction := domain.ActionBuy
	if direction == domain.DirectionShort {
		entryAction = domain.ActionSell
	}

	for _, tx := range txs {
		if tx.Action == entryAction {
			entries = append(entries, tx)
		} else {
			exits = append(exits, tx)
		}
	}

	sortByDatetime(entries)
	sortByDatetime(exits)
	return entries, exits
}

func sortByDatetime(txs []*domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Datetime < txs[j].Datetime
	})
}

func directionSign(d domain.Direction) decimal.Decimal {
	if d == domain.DirectionShort {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}
