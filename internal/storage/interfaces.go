package storage

import (
	"context"

	"trade-journal-lab/internal/domain"
)

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.Trade, error)

	// GetAll retrieves all trades ordered by opened_at ASC.
	GetAll(ctx context.Context) ([]*domain.Trade, error)

	// GetByStrategy retrieves all trades for a strategy ordered by opened_at ASC.
	GetByStrategy(ctx context.Context, strategyID string) ([]*domain.Trade, error)

	// GetByOpenedRange retrieves trades opened within [start, end] (inclusive),
	// ordered by opened_at ASC.
	GetByOpenedRange(ctx context.Context, start, end int64) ([]*domain.Trade, error)

	// UpdateStatus sets the status and close timestamp of an existing trade.
	// Returns ErrNotFound if the trade does not exist.
	UpdateStatus(ctx context.Context, tradeID string, status domain.Status, closedAt *int64) error
}

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// Insert adds a new transaction. Returns ErrDuplicateKey if transaction_id exists.
	Insert(ctx context.Context, tx *domain.Transaction) error

	// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// GetByTradeID retrieves all transactions for a trade, ordered by datetime ASC.
	GetByTradeID(ctx context.Context, tradeID string) ([]*domain.Transaction, error)

	// GetByTimeRange retrieves transactions executed within [start, end] (inclusive),
	// ordered by datetime ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Transaction, error)
}
