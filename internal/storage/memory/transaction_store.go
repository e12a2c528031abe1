package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// Insert adds a new transaction. Returns ErrDuplicateKey if transaction_id exists.
func (s *TransactionStore) Insert(_ context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.TransactionID == "" || tx.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tx.TransactionID]; exists {
		return storage.ErrDuplicateKey
	}

	c := *tx
	s.data[tx.TransactionID] = &c
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx == nil || tx.TransactionID == "" || tx.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[tx.TransactionID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[tx.TransactionID] = struct{}{}
	}

	for _, tx := range txs {
		c := *tx
		s.data[tx.TransactionID] = &c
	}

	return nil
}

// GetByTradeID retrieves all transactions for a trade, ordered by datetime ASC.
func (s *TransactionStore) GetByTradeID(_ context.Context, tradeID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.TradeID == tradeID {
			c := *tx
			result = append(result, &c)
		}
	}

	sortTransactionsByDatetime(result)
	return result, nil
}

// GetByTimeRange retrieves transactions executed within [start, end] (inclusive).
func (s *TransactionStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.Datetime >= start && tx.Datetime <= end {
			c := *tx
			result = append(result, &c)
		}
	}

	sortTransactionsByDatetime(result)
	return result, nil
}

func sortTransactionsByDatetime(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Datetime != txs[j].Datetime {
			return txs[i].Datetime < txs[j].Datetime
		}
		return txs[i].TransactionID < txs[j].TransactionID
	})
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
