package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

func createTestTransaction(transactionID, tradeID string, action domain.Action, datetime int64) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: transactionID,
		TradeID:       tradeID,
		Action:        action,
		Quantity:      decimal.RequireFromString("10"),
		Price:         decimal.RequireFromString("100.50"),
		Fees:          decimal.RequireFromString("1.25"),
		Datetime:      datetime,
		Note:          "test fill",
	}
}

func TestTransactionStore_InsertAndGetByTradeID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tradeStore := NewTradeStore(pool)
	store := NewTransactionStore(pool)

	require.NoError(t, tradeStore.Insert(ctx, createTestTrade("t1", "AAPL", "breakout", 1000)))

	txs := []*domain.Transaction{
		createTestTransaction("x2", "t1", domain.ActionSell, 2000),
		createTestTransaction("x1", "t1", domain.ActionBuy, 1000),
	}
	require.NoError(t, store.InsertBulk(ctx, txs))

	retrieved, err := store.GetByTradeID(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	// Ordered by datetime ASC
	assert.Equal(t, "x1", retrieved[0].TransactionID)
	assert.Equal(t, "x2", retrieved[1].TransactionID)

	assert.Equal(t, domain.ActionBuy, retrieved[0].Action)
	assert.True(t, retrieved[0].Quantity.Equal(decimal.RequireFromString("10")))
	assert.True(t, retrieved[0].Price.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, retrieved[0].Fees.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, "test fill", retrieved[0].Note)
}

func TestTransactionStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tradeStore := NewTradeStore(pool)
	store := NewTransactionStore(pool)

	require.NoError(t, tradeStore.Insert(ctx, createTestTrade("t1", "AAPL", "breakout", 1000)))

	tx := createTestTransaction("x1", "t1", domain.ActionBuy, 1000)
	require.NoError(t, store.Insert(ctx, tx))

	err := store.Insert(ctx, tx)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTransactionStore_ForeignKeyEnforced(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	// Insert against a trade_id that does not exist.
	err := store.Insert(ctx, createTestTransaction("x1", "missing-trade", domain.ActionBuy, 1000))
	assert.Error(t, err)
}

func TestTransactionStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tradeStore := NewTradeStore(pool)
	store := NewTransactionStore(pool)

	require.NoError(t, tradeStore.Insert(ctx, createTestTrade("t1", "AAPL", "breakout", 1000)))

	txs := []*domain.Transaction{
		createTestTransaction("x1", "t1", domain.ActionBuy, 1000),
		createTestTransaction("x2", "t1", domain.ActionSell, 2000),
		createTestTransaction("x3", "t1", domain.ActionSell, 3000),
	}
	require.NoError(t, store.InsertBulk(ctx, txs))

	// Bounds are inclusive
	result, err := store.GetByTimeRange(ctx, 1000, 2000)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestTransactionStore_InsertBulkAtomicity(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tradeStore := NewTradeStore(pool)
	store := NewTransactionStore(pool)

	require.NoError(t, tradeStore.Insert(ctx, createTestTrade("t1", "AAPL", "breakout", 1000)))
	require.NoError(t, store.Insert(ctx, createTestTransaction("x1", "t1", domain.ActionBuy, 1000)))

	txs := []*domain.Transaction{
		createTestTransaction("x2", "t1", domain.ActionSell, 2000),
		createTestTransaction("x1", "t1", domain.ActionBuy, 1000), // duplicate
	}

	err := store.InsertBulk(ctx, txs)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	all, err := store.GetByTradeID(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
