// Package main provides the journal analytics server: it serves the
// aggregated analytics as JSON, a rendered Markdown report, Prometheus
// metrics and a health check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/config"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/reporting"
	"trade-journal-lab/internal/storage"
	"trade-journal-lab/internal/storage/memory"
	"trade-journal-lab/internal/storage/migrations"
	pgstore "trade-journal-lab/internal/storage/postgres"
)

// Server wires the aggregation pipeline behind HTTP handlers.
type Server struct {
	aggregator *analytics.Aggregator
	generator  *reporting.Generator
	logger     *zap.Logger
	started    time.Time
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to config file (optional)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of a database")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}

	logger := newLogger(cfg.DebugLogging)
	defer logger.Sync()

	if !*useFixtures && cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn (or postgres_dsn in config) is required when not using fixtures")
		fmt.Fprintln(os.Stderr, "Use --use-fixtures to run with demo data instead")
		os.Exit(1)
	}

	var (
		tradeStore storage.TradeStore
		txStore    storage.TransactionStore
	)

	if *useFixtures {
		tradeStore = memory.NewTradeStore()
		txStore = memory.NewTransactionStore()
		if err := reporting.LoadFixtures(ctx, tradeStore, txStore); err != nil {
			logger.Fatal("load fixtures", zap.Error(err))
		}
	} else {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("connect to postgres", zap.Error(err))
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
		tradeStore = pgstore.NewTradeStore(pool)
		txStore = pgstore.NewTransactionStore(pool)
	}

	finCtx := fin.NewContextWithPrecision(int32(cfg.DecimalPrecision), logger)
	engine := analytics.NewEngine(finCtx, logger, analytics.Options{
		AnnualRiskFreeRate: cfg.AnnualRiskFreeRate,
		TradingDaysPerYear: cfg.TradingDaysPerYear,
		Workers:            cfg.Workers,
	})
	aggregator := analytics.NewAggregator(tradeStore, txStore, engine)

	srv := &Server{
		aggregator: aggregator,
		generator:  reporting.NewGenerator(aggregator),
		logger:     logger,
		started:    time.Now(),
	}

	if err := srv.run(ctx, *addr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func (s *Server) run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/api/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/report", s.handleReport)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// StatusResponse describes the running server.
type StatusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Status: "running",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode status response", zap.Error(err))
	}
}

// handleAnalytics serves the full analytics result as JSON. Filter params:
// date_from, date_to (Unix ms, on open time), asset_class, exchange,
// strategy (each repeatable or comma-separated).
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.aggregator.ComputeAnalytics(r.Context(), filter)
	if err != nil {
		s.writeAggregationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode analytics response", zap.Error(err))
	}
}

// handleReport serves the rendered Markdown report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.generator.Generate(r.Context(), filter)
	if err != nil {
		s.writeAggregationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(reporting.RenderMarkdown(report)))
}

func (s *Server) writeAggregationError(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrNoTrades) {
		http.Error(w, "no trades in journal", http.StatusNotFound)
		return
	}
	s.logger.Error("aggregation failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseFilter(r *http.Request) (*domain.AnalyticsFilter, error) {
	q := r.URL.Query()
	filter := &domain.AnalyticsFilter{
		AssetClasses: splitParams(q["asset_class"]),
		Exchanges:    splitParams(q["exchange"]),
		StrategyIDs:  splitParams(q["strategy"]),
	}

	hasBounds := false
	if v := q.Get("date_from"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid date_from: %q", v)
		}
		filter.DateFrom = &ms
		hasBounds = true
	}
	if v := q.Get("date_to"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid date_to: %q", v)
		}
		filter.DateTo = &ms
		hasBounds = true
	}

	if !hasBounds && len(filter.AssetClasses) == 0 && len(filter.Exchanges) == 0 && len(filter.StrategyIDs) == 0 {
		return nil, nil
	}
	return filter, nil
}

// splitParams flattens repeated and comma-separated query values.
func splitParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
