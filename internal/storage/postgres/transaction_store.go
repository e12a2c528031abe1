package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const transactionColumns = `
	transaction_id, trade_id, action,
	quantity::text, price::text, fees::text,
	datetime, note
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, trade_id, action,
		quantity, price, fees,
		datetime, note
	) VALUES (
		$1, $2, $3,
		$4, $5, $6,
		$7, $8
	)
`

// Insert adds a new transaction. Returns ErrDuplicateKey if transaction_id exists.
func (s *TransactionStore) Insert(ctx context.Context, tx *domain.Transaction) (err error) {
	defer observability.RecordDBQuery("transaction_insert", time.Now(), &err)

	if tx == nil || tx.TransactionID == "" || tx.TradeID == "" {
		return storage.ErrInvalidInput
	}

	_, err = s.pool.Exec(ctx, insertTransactionQuery, transactionArgs(tx)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) (err error) {
	defer observability.RecordDBQuery("transaction_insert_bulk", time.Now(), &err)

	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for _, tx := range txs {
		if tx == nil || tx.TransactionID == "" || tx.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, err = dbTx.Exec(ctx, insertTransactionQuery, transactionArgs(tx)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err = dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTradeID retrieves all transactions for a trade, ordered by datetime ASC.
func (s *TransactionStore) GetByTradeID(ctx context.Context, tradeID string) (txs []*domain.Transaction, err error) {
	defer observability.RecordDBQuery("transaction_get_by_trade", time.Now(), &err)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE trade_id = $1 ORDER BY datetime ASC, transaction_id ASC`

	rows, err := s.pool.Query(ctx, query, tradeID)
	if err != nil {
		return nil, fmt.Errorf("get transactions by trade id: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByTimeRange retrieves transactions executed within [start, end] (inclusive).
func (s *TransactionStore) GetByTimeRange(ctx context.Context, start, end int64) (txs []*domain.Transaction, err error) {
	defer observability.RecordDBQuery("transaction_get_by_time_range", time.Now(), &err)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE datetime >= $1 AND datetime <= $2 ORDER BY datetime ASC, transaction_id ASC`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transactions by time range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func transactionArgs(tx *domain.Transaction) []any {
	return []any{
		tx.TransactionID, tx.TradeID, string(tx.Action),
		tx.Quantity, tx.Price, tx.Fees,
		tx.Datetime, tx.Note,
	}
}

// scanTransaction scans a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx                    domain.Transaction
		action                string
		quantity, price, fees string
	)

	err := row.Scan(
		&tx.TransactionID, &tx.TradeID, &action,
		&quantity, &price, &fees,
		&tx.Datetime, &tx.Note,
	)
	if err != nil {
		return nil, err
	}

	tx.Action = domain.Action(action)

	if tx.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return nil, fmt.Errorf("parse quantity: %w", err)
	}
	if tx.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	if tx.Fees, err = decimal.NewFromString(fees); err != nil {
		return nil, fmt.Errorf("parse fees: %w", err)
	}

	return &tx, nil
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
