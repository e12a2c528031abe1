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

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// tradeColumns lists the column set shared by every SELECT. NUMERIC columns
// are cast to text so they scan losslessly into decimal.Decimal.
const tradeColumns = `
	trade_id, symbol, asset_class, exchange, strategy_id,
	direction, status, opened_at, closed_at,
	fees_total::text, current_market_price::text, initial_risk::text
`

const insertTradeQuery = `
	INSERT INTO trades (
		trade_id, symbol, asset_class, exchange, strategy_id,
		direction, status, opened_at, closed_at,
		fees_total, current_market_price, initial_risk
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) (err error) {
	defer observability.RecordDBQuery("trade_insert", time.Now(), &err)

	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	_, err = s.pool.Exec(ctx, insertTradeQuery, tradeArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) (err error) {
	defer observability.RecordDBQuery("trade_insert_bulk", time.Now(), &err)

	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, err = tx.Exec(ctx, insertTradeQuery, tradeArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (t *domain.Trade, err error) {
	defer observability.RecordDBQuery("trade_get_by_id", time.Now(), &err)

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err = scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetAll retrieves all trades ordered by opened_at ASC.
func (s *TradeStore) GetAll(ctx context.Context) (trades []*domain.Trade, err error) {
	defer observability.RecordDBQuery("trade_get_all", time.Now(), &err)

	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY opened_at ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByStrategy retrieves all trades for a strategy ordered by opened_at ASC.
func (s *TradeStore) GetByStrategy(ctx context.Context, strategyID string) (trades []*domain.Trade, err error) {
	defer observability.RecordDBQuery("trade_get_by_strategy", time.Now(), &err)

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE strategy_id = $1 ORDER BY opened_at ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("get trades by strategy: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByOpenedRange retrieves trades opened within [start, end] (inclusive).
func (s *TradeStore) GetByOpenedRange(ctx context.Context, start, end int64) (trades []*domain.Trade, err error) {
	defer observability.RecordDBQuery("trade_get_by_opened_range", time.Now(), &err)

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE opened_at >= $1 AND opened_at <= $2 ORDER BY opened_at ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trades by opened range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// UpdateStatus sets the status and close timestamp of an existing trade.
func (s *TradeStore) UpdateStatus(ctx context.Context, tradeID string, status domain.Status, closedAt *int64) (err error) {
	defer observability.RecordDBQuery("trade_update_status", time.Now(), &err)

	if tradeID == "" {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE trades SET status = $2, closed_at = $3 WHERE trade_id = $1`,
		tradeID, string(status), closedAt,
	)
	if err != nil {
		return fmt.Errorf("update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func tradeArgs(t *domain.Trade) []any {
	return []any{
		t.TradeID, t.Symbol, t.AssetClass, t.Exchange, t.StrategyID,
		string(t.Direction), string(t.Status), t.OpenedAt, t.ClosedAt,
		t.FeesTotal, t.CurrentMarketPrice, t.InitialRisk,
	}
}

// scanTrade scans a single row into a Trade.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var (
		t                     domain.Trade
		direction, status     string
		feesTotal             string
		marketPrice, initRisk *string
	)

	err := row.Scan(
		&t.TradeID, &t.Symbol, &t.AssetClass, &t.Exchange, &t.StrategyID,
		&direction, &status, &t.OpenedAt, &t.ClosedAt,
		&feesTotal, &marketPrice, &initRisk,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = domain.Direction(direction)
	t.Status = domain.Status(status)

	if t.FeesTotal, err = decimal.NewFromString(feesTotal); err != nil {
		return nil, fmt.Errorf("parse fees_total: %w", err)
	}
	if t.CurrentMarketPrice, err = parseOptionalDecimal(marketPrice); err != nil {
		return nil, fmt.Errorf("parse current_market_price: %w", err)
	}
	if t.InitialRisk, err = parseOptionalDecimal(initRisk); err != nil {
		return nil, fmt.Errorf("parse initial_risk: %w", err)
	}

	return &t, nil
}

// scanTrades scans multiple rows into a slice of Trade.
func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
