package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/config"
	"trade-journal-lab/internal/fin"
	"trade-journal-lab/internal/reporting"
	"trade-journal-lab/internal/storage"
	"trade-journal-lab/internal/storage/memory"
	"trade-journal-lab/internal/storage/migrations"
	pgstore "trade-journal-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (overrides config)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of a database")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
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
		tradeStore, txStore = createMemoryStores(ctx)
	} else {
		var cleanup func()
		tradeStore, txStore, cleanup, err = createDatabaseStores(ctx, cfg.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
	}

	finCtx := fin.NewContextWithPrecision(int32(cfg.DecimalPrecision), logger)
	engine := analytics.NewEngine(finCtx, logger, analytics.Options{
		AnnualRiskFreeRate: cfg.AnnualRiskFreeRate,
		TradingDaysPerYear: cfg.TradingDaysPerYear,
		Workers:            cfg.Workers,
	})
	aggregator := analytics.NewAggregator(tradeStore, txStore, engine)
	generator := reporting.NewGenerator(aggregator)

	report, err := generator.Generate(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(cfg.OutputDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report files: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s/REPORT.md\n", cfg.OutputDir)
	fmt.Printf("  - %s/EQUITY_CURVE.csv\n", cfg.OutputDir)
	fmt.Printf("  - %s/DAILY_PNL.csv\n", cfg.OutputDir)
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

// createMemoryStores creates in-memory stores loaded with fixture data.
func createMemoryStores(ctx context.Context) (storage.TradeStore, storage.TransactionStore) {
	tradeStore := memory.NewTradeStore()
	txStore := memory.NewTransactionStore()

	if err := reporting.LoadFixtures(ctx, tradeStore, txStore); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	return tradeStore, txStore
}

// createDatabaseStores connects to PostgreSQL, applies migrations and
// creates stores.
func createDatabaseStores(ctx context.Context, dsn string) (storage.TradeStore, storage.TransactionStore, func(), error) {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return pgstore.NewTradeStore(pool), pgstore.NewTransactionStore(pool), pool.Close, nil
}

func writeOutputs(dir string, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]string{
		"REPORT.md":        reporting.RenderMarkdown(report),
		"EQUITY_CURVE.csv": reporting.RenderEquityCurveCSV(report.Analytics.EquityCurve),
		"DAILY_PNL.csv":    reporting.RenderDailyPnlCSV(report.Analytics.DailyPnl),
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
