package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage/memory"
)

func TestAggregator_NoTrades(t *testing.T) {
	agg := NewAggregator(memory.NewTradeStore(), memory.NewTransactionStore(), NewEngine(nil, nil, DefaultOptions()))

	_, err := agg.ComputeAnalytics(context.Background(), nil)
	if !errors.Is(err, ErrNoTrades) {
		t.Fatalf("Expected ErrNoTrades, got %v", err)
	}
}

func TestAggregator_ComputeAnalytics(t *testing.T) {
	ctx := context.Background()
	tradeStore := memory.NewTradeStore()
	txStore := memory.NewTransactionStore()

	for _, twt := range threeTradeJournal() {
		if err := tradeStore.Insert(ctx, twt.Trade); err != nil {
			t.Fatalf("Insert trade failed: %v", err)
		}
		if err := txStore.InsertBulk(ctx, twt.Transactions); err != nil {
			t.Fatalf("InsertBulk transactions failed: %v", err)
		}
	}

	agg := NewAggregator(tradeStore, txStore, NewEngine(nil, nil, DefaultOptions()))

	data, err := agg.ComputeAnalytics(ctx, nil)
	if err != nil {
		t.Fatalf("ComputeAnalytics failed: %v", err)
	}

	if data.TotalTrades != 3 || data.ClosedTrades != 3 {
		t.Errorf("counts: total=%d closed=%d", data.TotalTrades, data.ClosedTrades)
	}
	if !data.TotalRealizedNetPnl.Equal(d("120")) {
		t.Errorf("TotalRealizedNetPnl = %s, want 120", data.TotalRealizedNetPnl)
	}
}

func TestAggregator_FilterMatchesNothing(t *testing.T) {
	ctx := context.Background()
	tradeStore := memory.NewTradeStore()
	txStore := memory.NewTransactionStore()

	twt := closedTrade("t1", "100", "200", ms(2025, time.January, 6, 10), ms(2025, time.January, 6, 15))
	if err := tradeStore.Insert(ctx, twt.Trade); err != nil {
		t.Fatalf("Insert trade failed: %v", err)
	}
	if err := txStore.InsertBulk(ctx, twt.Transactions); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	agg := NewAggregator(tradeStore, txStore, NewEngine(nil, nil, DefaultOptions()))

	// A journal with trades but a filter matching none still yields an
	// empty report rather than ErrNoTrades.
	filter := &domain.AnalyticsFilter{AssetClasses: []string{"bonds"}}
	data, err := agg.ComputeAnalytics(ctx, filter)
	if err != nil {
		t.Fatalf("ComputeAnalytics failed: %v", err)
	}
	if data.TotalTrades != 0 {
		t.Errorf("TotalTrades = %d, want 0", data.TotalTrades)
	}
}
