package analytics

import (
	"context"
	"errors"
	"fmt"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// ErrNoTrades is returned when no trades are available for aggregation.
var ErrNoTrades = errors.New("no trades available for aggregation")

// Aggregator loads trades and their transactions from storage and feeds them
// through the analytics engine.
type Aggregator struct {
	tradeStore       storage.TradeStore
	transactionStore storage.TransactionStore
	engine           *Engine
}

// NewAggregator creates a new analytics aggregator.
func NewAggregator(tradeStore storage.TradeStore, transactionStore storage.TransactionStore, engine *Engine) *Aggregator {
	return &Aggregator{
		tradeStore:       tradeStore,
		transactionStore: transactionStore,
		engine:           engine,
	}
}

// ComputeAnalytics loads the full journal, applies the filter and computes a
// report. Returns ErrNoTrades if the journal holds no trades at all; a filter
// that matches nothing still produces an (empty) report.
func (a *Aggregator) ComputeAnalytics(ctx context.Context, filter *domain.AnalyticsFilter) (*domain.AnalyticsData, error) {
	input, err := a.LoadJournal(ctx)
	if err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, ErrNoTrades
	}

	return a.engine.Compute(ctx, input, filter)
}

// LoadJournal loads every trade with its transactions, ordered by open time.
func (a *Aggregator) LoadJournal(ctx context.Context) ([]domain.TradeWithTransactions, error) {
	trades, err := a.tradeStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}

	input := make([]domain.TradeWithTransactions, 0, len(trades))
	for _, t := range trades {
		txs, err := a.transactionStore.GetByTradeID(ctx, t.TradeID)
		if err != nil {
			return nil, fmt.Errorf("load transactions for trade %s: %w", t.TradeID, err)
		}
		input = append(input, domain.TradeWithTransactions{Trade: t, Transactions: txs})
	}

	return input, nil
}
