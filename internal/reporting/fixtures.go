package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// LoadFixtures populates stores with a small demonstration journal: a mix of
// long and short trades across asset classes, including a scale-out, a losing
// streak and one open position.
func LoadFixtures(ctx context.Context, tradeStore storage.TradeStore, transactionStore storage.TransactionStore) error {
	if err := tradeStore.InsertBulk(ctx, fixtureTrades()); err != nil {
		return err
	}
	return transactionStore.InsertBulk(ctx, fixtureTransactions())
}

func fixtureTrades() []*domain.Trade {
	mkt := dec("64000")
	risk := dec("120")

	return []*domain.Trade{
		{
			TradeID: "trade_001", Symbol: "AAPL", AssetClass: "stocks", Exchange: "NASDAQ",
			StrategyID: "breakout", Direction: domain.DirectionLong, Status: domain.StatusClosed,
			OpenedAt: 1735776000000, ClosedAt: i64(1735862400000), // 2025-01-02 -> 2025-01-03
			FeesTotal: dec("2"), InitialRisk: &risk,
		},
		{
			TradeID: "trade_002", Symbol: "MSFT", AssetClass: "stocks", Exchange: "NASDAQ",
			StrategyID: "breakout", Direction: domain.DirectionLong, Status: domain.StatusClosed,
			OpenedAt: 1736121600000, ClosedAt: i64(1736208000000), // 2025-01-06 -> 2025-01-07
			FeesTotal: dec("2"),
		},
		{
			TradeID: "trade_003", Symbol: "EURUSD", AssetClass: "forex", Exchange: "",
			StrategyID: "meanrev", Direction: domain.DirectionShort, Status: domain.StatusClosed,
			OpenedAt: 1736294400000, ClosedAt: i64(1736337600000), // 2025-01-08
			FeesTotal: dec("1"),
		},
		{
			TradeID: "trade_004", Symbol: "TSLA", AssetClass: "stocks", Exchange: "NASDAQ",
			StrategyID: "breakout", Direction: domain.DirectionLong, Status: domain.StatusClosed,
			OpenedAt: 1736467200000, ClosedAt: i64(1736510400000), // 2025-01-10
			FeesTotal: dec("2"),
		},
		{
			TradeID: "trade_005", Symbol: "ETHUSD", AssetClass: "crypto", Exchange: "Binance",
			StrategyID: "meanrev", Direction: domain.DirectionShort, Status: domain.StatusClosed,
			OpenedAt: 1738406400000, ClosedAt: i64(1738492800000), // 2025-02-01 -> 2025-02-02
			FeesTotal: dec("3"),
		},
		{
			TradeID: "trade_006", Symbol: "BTCUSD", AssetClass: "crypto", Exchange: "Binance",
			StrategyID: "dca", Direction: domain.DirectionLong, Status: domain.StatusOpen,
			OpenedAt: 1738665600000, // 2025-02-04
			FeesTotal: dec("1.5"), CurrentMarketPrice: &mkt,
		},
	}
}

func fixtureTransactions() []*domain.Transaction {
	return []*domain.Transaction{
		// trade_001: clean winner, +125 gross before 2 in fees
		{TransactionID: "tx_001", TradeID: "trade_001", Action: domain.ActionBuy, Quantity: dec("50"), Price: dec("180"), Fees: dec("1"), Datetime: 1735776000000},
		{TransactionID: "tx_002", TradeID: "trade_001", Action: domain.ActionSell, Quantity: dec("50"), Price: dec("182.50"), Fees: dec("1"), Datetime: 1735862400000},

		// trade_002: scale-out in two exits
		{TransactionID: "tx_003", TradeID: "trade_002", Action: domain.ActionBuy, Quantity: dec("20"), Price: dec("400"), Fees: dec("1"), Datetime: 1736121600000},
		{TransactionID: "tx_004", TradeID: "trade_002", Action: domain.ActionSell, Quantity: dec("10"), Price: dec("410"), Fees: dec("0.5"), Datetime: 1736164800000},
		{TransactionID: "tx_005", TradeID: "trade_002", Action: domain.ActionSell, Quantity: dec("10"), Price: dec("395"), Fees: dec("0.5"), Datetime: 1736208000000},

		// trade_003: short loser
		{TransactionID: "tx_006", TradeID: "trade_003", Action: domain.ActionSell, Quantity: dec("10000"), Price: dec("1.0350"), Fees: dec("0.5"), Datetime: 1736294400000},
		{TransactionID: "tx_007", TradeID: "trade_003", Action: domain.ActionBuy, Quantity: dec("10000"), Price: dec("1.0390"), Fees: dec("0.5"), Datetime: 1736337600000},

		// trade_004: long loser
		{TransactionID: "tx_008", TradeID: "trade_004", Action: domain.ActionBuy, Quantity: dec("15"), Price: dec("240"), Fees: dec("1"), Datetime: 1736467200000},
		{TransactionID: "tx_009", TradeID: "trade_004", Action: domain.ActionSell, Quantity: dec("15"), Price: dec("236"), Fees: dec("1"), Datetime: 1736510400000},

		// trade_005: short winner
		{TransactionID: "tx_010", TradeID: "trade_005", Action: domain.ActionSell, Quantity: dec("2"), Price: dec("3300"), Fees: dec("1.5"), Datetime: 1738406400000},
		{TransactionID: "tx_011", TradeID: "trade_005", Action: domain.ActionBuy, Quantity: dec("2"), Price: dec("3200"), Fees: dec("1.5"), Datetime: 1738492800000},

		// trade_006: open long position
		{TransactionID: "tx_012", TradeID: "trade_006", Action: domain.ActionBuy, Quantity: dec("0.1"), Price: dec("62000"), Fees: dec("1.5"), Datetime: 1738665600000},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func i64(v int64) *int64 {
	return &v
}
