package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade // keyed by trade_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.TradeID] = copyTrade(t)
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		s.data[t.TradeID] = copyTrade(t)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyTrade(t), nil
}

// GetAll retrieves all trades ordered by opened_at ASC.
func (s *TradeStore) GetAll(_ context.Context) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, copyTrade(t))
	}

	sortTradesByOpenedAt(result)
	return result, nil
}

// GetByStrategy retrieves all trades for a strategy ordered by opened_at ASC.
func (s *TradeStore) GetByStrategy(_ context.Context, strategyID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.StrategyID == strategyID {
			result = append(result, copyTrade(t))
		}
	}

	sortTradesByOpenedAt(result)
	return result, nil
}

// GetByOpenedRange retrieves trades opened within [start, end] (inclusive).
func (s *TradeStore) GetByOpenedRange(_ context.Context, start, end int64) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.OpenedAt >= start && t.OpenedAt <= end {
			result = append(result, copyTrade(t))
		}
	}

	sortTradesByOpenedAt(result)
	return result, nil
}

// UpdateStatus sets the status and close timestamp of an existing trade.
func (s *TradeStore) UpdateStatus(_ context.Context, tradeID string, status domain.Status, closedAt *int64) error {
	if tradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.data[tradeID]
	if !exists {
		return storage.ErrNotFound
	}

	t.Status = status
	if closedAt != nil {
		v := *closedAt
		t.ClosedAt = &v
	} else {
		t.ClosedAt = nil
	}
	return nil
}

// copyTrade deep-copies a trade so callers never share pointer fields with
// the store.
func copyTrade(t *domain.Trade) *domain.Trade {
	c := *t
	if t.ClosedAt != nil {
		v := *t.ClosedAt
		c.ClosedAt = &v
	}
	if t.CurrentMarketPrice != nil {
		v := *t.CurrentMarketPrice
		c.CurrentMarketPrice = &v
	}
	if t.InitialRisk != nil {
		v := *t.InitialRisk
		c.InitialRisk = &v
	}
	return &c
}

func sortTradesByOpenedAt(trades []*domain.Trade) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].OpenedAt != trades[j].OpenedAt {
			return trades[i].OpenedAt < trades[j].OpenedAt
		}
		return trades[i].TradeID < trades[j].TradeID
	})
}

var _ storage.TradeStore = (*TradeStore)(nil)
