// Package analytics folds per-trade FIFO PnL results into portfolio-wide
// statistics: counts, streaks, equity curve, drawdown periods, risk-adjusted
// ratios, distribution moments and grouped breakdowns. The engine is pure:
// every call takes a snapshot of trades and returns a fresh report. Numeric
// edge cases degrade to nil per metric; the computation never aborts on them.
package analytics

import (
	"context"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/pnl"
)

// Options configures the statistical conventions of the engine.
type Options struct {
	// AnnualRiskFreeRate is the assumed annual risk-free rate for Sharpe and
	// Sortino, divided across trading days.
	AnnualRiskFreeRate float64

	// TradingDaysPerYear is the annualization base.
	TradingDaysPerYear int

	// Workers bounds the per-trade PnL fan-out. Zero means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the conventional 5% / 252-day configuration.
func DefaultOptions() Options {
	return Options{
		AnnualRiskFreeRate: 0.05,
		TradingDaysPerYear: 252,
	}
}

// Engine computes portfolio analytics from trades and their transactions.
type Engine struct {
	fin    *fin.Context
	pnl    *pnl.Engine
	logger *zap.Logger
	opts   Options
}

// NewEngine creates an analytics engine bound to a decimal context.
func NewEngine(finCtx *fin.Context, logger *zap.Logger, opts Options) *Engine {
	if finCtx == nil {
		finCtx = fin.NewContext(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.AnnualRiskFreeRate == 0 {
		opts.AnnualRiskFreeRate = DefaultOptions().AnnualRiskFreeRate
	}
	if opts.TradingDaysPerYear == 0 {
		opts.TradingDaysPerYear = DefaultOptions().TradingDaysPerYear
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		fin:    finCtx,
		pnl:    pnl.NewEngine(finCtx, logger),
		logger: logger,
		opts:   opts,
	}
}

// tradeResult pairs a trade with its PnL result and resolved close time.
type tradeResult struct {
	trade  *domain.Trade
	txs    []*domain.Transaction
	result *domain.PnlResult

	// closedAt is the resolved close timestamp for fully closed trades:
	// the trade's close time, else the latest fill time, else the open time.
	closedAt int64
}

// Compute runs the full aggregation over the filtered trade set. The only
// error source is context cancellation during the fan-out; numeric edge
// cases never error.
func (e *Engine) Compute(ctx context.Context, input []domain.TradeWithTransactions, filter *domain.AnalyticsFilter) (*domain.AnalyticsData, error) {
	start := time.Now()

	filtered := make([]domain.TradeWithTransactions, 0, len(input))
	for _, twt := range input {
		if twt.Trade != nil && filter.Matches(twt.Trade) {
			filtered = append(filtered, twt)
		}
	}

	results, err := e.computeResults(ctx, filtered)
	if err != nil {
		observability.RecordAnalyticsRun("error", time.Since(start).Seconds(), 0)
		return nil, err
	}

	data := e.fold(results)

	observability.RecordAnalyticsRun("ok", time.Since(start).Seconds(), len(filtered))
	e.logger.Debug("analytics computed",
		zap.Int("trades", len(filtered)),
		zap.Int("closed", data.ClosedTrades),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

// computeResults fans the per-trade PnL computation out across a bounded
// worker pool. Results land at their input index, then the closed subset is
// re-sorted by close timestamp so the sequential passes see chronological
// order, not completion order.
func (e *Engine) computeResults(ctx context.Context, input []domain.TradeWithTransactions) ([]*tradeResult, error) {
	results := make([]*tradeResult, len(input))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, twt := range input {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trade := reconcileStatus(twt.Trade, twt.Transactions)
			results[i] = &tradeResult{
				trade:    trade,
				txs:      twt.Transactions,
				result:   e.pnl.ComputeTradePnl(trade, twt.Transactions),
				closedAt: resolveCloseTime(trade, twt.Transactions),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fold runs the single accumulation pass plus the sorted sequential passes.
func (e *Engine) fold(results []*tradeResult) *domain.AnalyticsData {
	data := &domain.AnalyticsData{
		TotalTrades:       len(results),
		CurrentStreakType: domain.StreakNone,
	}

	acc := newAccumulator(e.fin)
	groups := newGroupSet()

	for _, tr := range results {
		acc.addTrade(tr, data)
		groups.addTrade(e.fin, tr)
	}

	// Chronological order is load-bearing for everything below: streaks,
	// equity curve, drawdowns and ratios all assume close-time order.
	closed := acc.closedByCloseTime()

	acc.foldStreaks(closed, data)
	acc.finishScalars(data)

	data.EquityCurve = buildEquityCurve(e.fin, closed)
	e.analyzeDrawdowns(data)

	data.DailyPnl = buildDailyPnl(e.fin, closed)
	e.computeRiskRatios(data)
	e.computeQualityRatios(data, acc)
	e.computeDistribution(data, acc)

	groups.finish(data)
	return data
}

// closedByCloseTime returns the fully closed results sorted ascending by
// resolved close time, ties kept in input order.
func (a *accumulator) closedByCloseTime() []*tradeResult {
	closed := make([]*tradeResult, len(a.closed))
	copy(closed, a.closed)
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].closedAt < closed[j].closedAt
	})
	return closed
}

// reconcileStatus rederives the open/closed status from the transaction
// record. The stored status is a caller-maintained cache and can lag behind
// the fills; with at least one fill the net open quantity decides. A trade
// with no fills keeps its flag. Returns the input trade unchanged when the
// cache agrees, a copy with the corrected status when it does not.
func reconcileStatus(trade *domain.Trade, txs []*domain.Transaction) *domain.Trade {
	if len(txs) == 0 {
		return trade
	}
	status := domain.StatusOpen
	if pnl.IsEffectivelyClosed(txs, trade.Direction) {
		status = domain.StatusClosed
	}
	if status == trade.Status {
		return trade
	}
	corrected := *trade
	corrected.Status = status
	return &corrected
}

func resolveCloseTime(trade *domain.Trade, txs []*domain.Transaction) int64 {
	if trade.ClosedAt != nil {
		return *trade.ClosedAt
	}
	latest := trade.OpenedAt
	for _, tx := range txs {
		if tx.Datetime > latest {
			latest = tx.Datetime
		}
	}
	return latest
}
