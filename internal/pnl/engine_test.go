package pnl

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/fin"
)

func newTestEngine() *Engine {
	return NewEngine(fin.NewContext(zap.NewNop()), zap.NewNop())
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func i64p(v int64) *int64 {
	return &v
}

// Helper to create a fill.
func makeTx(action domain.Action, qty, price string, datetime int64, fees string) *domain.Transaction {
	return &domain.Transaction{
		TradeID:  "t1",
		Action:   action,
		Quantity: d(qty),
		Price:    d(price),
		Datetime: datetime,
		Fees:     d(fees),
	}
}

// Helper to create a trade shell.
func makeTrade(direction domain.Direction, status domain.Status) *domain.Trade {
	return &domain.Trade{
		TradeID:   "t1",
		Direction: direction,
		Status:    status,
		OpenedAt:  1000,
		FeesTotal: decimal.Zero,
	}
}

func TestComputeTradePnl_FIFOOrderDeterminism(t *testing.T) {
	// E1(t=1, 10@100), E2(t=2, 10@110), X(t=3, 15@120):
	// gross = (120-100)*10 + (120-110)*5 = 250; open 5 @ 110.
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1, "0"),
		makeTx(domain.ActionBuy, "10", "110", 2, "0"),
		makeTx(domain.ActionSell, "15", "120", 3, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)

	if got := result.RealizedGrossPnl.String(); got != "250" {
		t.Errorf("RealizedGrossPnl = %s, want 250", got)
	}
	if got := result.OpenQuantity.String(); got != "5" {
		t.Errorf("OpenQuantity = %s, want 5", got)
	}
	if result.AvgOpenPrice == nil || result.AvgOpenPrice.String() != "110" {
		t.Errorf("AvgOpenPrice = %v, want 110", result.AvgOpenPrice)
	}
	if got := result.ClosedQuantity.String(); got != "15" {
		t.Errorf("ClosedQuantity = %s, want 15", got)
	}
}

func TestComputeTradePnl_ShortSymmetry(t *testing.T) {
	// Same numbers with direction=short and entry/exit roles swapped must
	// produce -250 for the same price move.
	e := newTestEngine()
	trade := makeTrade(domain.DirectionShort, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionSell, "10", "100", 1, "0"),
		makeTx(domain.ActionSell, "10", "110", 2, "0"),
		makeTx(domain.ActionBuy, "15", "120", 3, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)

	if got := result.RealizedGrossPnl.String(); got != "-250" {
		t.Errorf("RealizedGrossPnl = %s, want -250", got)
	}
	if got := result.OpenQuantity.String(); got != "5" {
		t.Errorf("OpenQuantity = %s, want 5", got)
	}
}

func TestComputeTradePnl_UnorderedInputIsSorted(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	// Same fills as the determinism test, shuffled.
	txs := []*domain.Transaction{
		makeTx(domain.ActionSell, "15", "120", 3, "0"),
		makeTx(domain.ActionBuy, "10", "110", 2, "0"),
		makeTx(domain.ActionBuy, "10", "100", 1, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)
	if got := result.RealizedGrossPnl.String(); got != "250" {
		t.Errorf("RealizedGrossPnl = %s, want 250", got)
	}
}

func TestComputeTradePnl_TieBreakKeepsListOrder(t *testing.T) {
	// Two entries at the identical timestamp: the stable sort keeps original
	// list order, so the 100-priced entry is consumed first.
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1, "0"),
		makeTx(domain.ActionBuy, "10", "110", 1, "0"),
		makeTx(domain.ActionSell, "10", "120", 2, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)
	if got := result.RealizedGrossPnl.String(); got != "200" {
		t.Errorf("RealizedGrossPnl = %s, want 200 (first-listed entry matched first)", got)
	}
	if result.AvgOpenPrice == nil || result.AvgOpenPrice.String() != "110" {
		t.Errorf("AvgOpenPrice = %v, want 110", result.AvgOpenPrice)
	}
}

func TestComputeTradePnl_QuantityConservation(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "3.7", "10", 1, "0"),
		makeTx(domain.ActionBuy, "6.3", "11", 2, "0"),
		makeTx(domain.ActionBuy, "2.5", "12", 3, "0"),
		makeTx(domain.ActionSell, "8.1", "13", 4, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)

	entryTotal := d("3.7").Add(d("6.3")).Add(d("2.5"))
	sum := result.ClosedQuantity.Add(result.OpenQuantity)
	if !sum.Sub(entryTotal).Abs().LessThanOrEqual(decimal.New(1, -8)) {
		t.Errorf("closed+open = %s, want %s", sum, entryTotal)
	}
}

func TestComputeTradePnl_NetEqualsGrossMinusFees(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1, "2"),
		makeTx(domain.ActionSell, "10", "105", 2, "3"),
	}

	result := e.ComputeTradePnl(trade, txs)

	want := result.RealizedGrossPnl.Sub(result.ClosedFees)
	if !result.RealizedNetPnl.Equal(want) {
		t.Errorf("RealizedNetPnl = %s, want gross-fees = %s", result.RealizedNetPnl, want)
	}
	// Fully matched entry: full 2 entry fee + full 3 exit fee.
	if got := result.ClosedFees.String(); got != "5" {
		t.Errorf("ClosedFees = %s, want 5", got)
	}
}

func TestComputeTradePnl_EntryFeeProration(t *testing.T) {
	// Only half the entry is matched, so only half its fee is attributable.
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1, "4"),
		makeTx(domain.ActionSell, "5", "110", 2, "1"),
	}

	result := e.ComputeTradePnl(trade, txs)

	if got := result.ClosedFees.String(); got != "3" {
		t.Errorf("ClosedFees = %s, want 3 (1 exit + 4*5/10 entry)", got)
	}
	if got := result.RealizedNetPnl.String(); got != "47" {
		t.Errorf("RealizedNetPnl = %s, want 47", got)
	}
}

func TestComputeTradePnl_UnrealizedRequiresMarketPrice(t *testing.T) {
	e := newTestEngine()

	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)
	if result.UnrealizedGrossPnl != nil {
		t.Errorf("UnrealizedGrossPnl = %v without a market price, want nil", result.UnrealizedGrossPnl)
	}

	trade.CurrentMarketPrice = dp("108")
	result = e.ComputeTradePnl(trade, txs)
	if result.UnrealizedGrossPnl == nil || result.UnrealizedGrossPnl.String() != "80" {
		t.Errorf("UnrealizedGrossPnl = %v, want 80", result.UnrealizedGrossPnl)
	}

	// Short direction flips the sign.
	short := makeTrade(domain.DirectionShort, domain.StatusOpen)
	short.CurrentMarketPrice = dp("108")
	shortTxs := []*domain.Transaction{
		makeTx(domain.ActionSell, "10", "100", 1, "0"),
	}
	result = e.ComputeTradePnl(short, shortTxs)
	if result.UnrealizedGrossPnl == nil || result.UnrealizedGrossPnl.String() != "-80" {
		t.Errorf("short UnrealizedGrossPnl = %v, want -80", result.UnrealizedGrossPnl)
	}
}

func TestComputeTradePnl_ClosedTradeFields(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusClosed)
	trade.OpenedAt = 1000
	trade.ClosedAt = i64p(61000)
	trade.FeesTotal = d("10")
	trade.InitialRisk = dp("50")
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "10", "100", 1000, "5"),
		makeTx(domain.ActionSell, "10", "110", 61000, "5"),
	}

	result := e.ComputeTradePnl(trade, txs)

	if !result.IsFullyClosed {
		t.Fatal("expected IsFullyClosed")
	}
	if result.Outcome != domain.OutcomeWin {
		t.Errorf("Outcome = %s, want win", result.Outcome)
	}
	// (100 gross - 10 fees_total) / 50 risk = 1.8
	if result.RMultiple == nil || result.RMultiple.String() != "1.8" {
		t.Errorf("RMultiple = %v, want 1.8", result.RMultiple)
	}
	if result.HoldDurationMs == nil || *result.HoldDurationMs != 60000 {
		t.Errorf("HoldDurationMs = %v, want 60000", result.HoldDurationMs)
	}
	if result.AvgOpenPrice != nil {
		t.Errorf("AvgOpenPrice = %v on a fully closed trade, want nil", result.AvgOpenPrice)
	}
}

func TestComputeTradePnl_OutcomeClassification(t *testing.T) {
	tests := []struct {
		name      string
		exitPrice string
		feesTotal string
		want      domain.Outcome
	}{
		{"win", "110", "0", domain.OutcomeWin},
		{"loss", "90", "0", domain.OutcomeLoss},
		{"break even exact", "100", "0", domain.OutcomeBreakEven},
		{"fees turn small win into loss", "100.0001", "10", domain.OutcomeLoss},
		{"sub-epsilon residual is break even", "100.00000001", "0", domain.OutcomeBreakEven},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := makeTrade(domain.DirectionLong, domain.StatusClosed)
			trade.ClosedAt = i64p(2000)
			trade.FeesTotal = d(tt.feesTotal)
			txs := []*domain.Transaction{
				makeTx(domain.ActionBuy, "1", "100", 1, "0"),
				makeTx(domain.ActionSell, "1", tt.exitPrice, 2, "0"),
			}

			result := e.ComputeTradePnl(trade, txs)
			if result.Outcome != tt.want {
				t.Errorf("Outcome = %s, want %s", result.Outcome, tt.want)
			}
		})
	}
}

func TestComputeTradePnl_ZeroTransactions(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusClosed)

	result := e.ComputeTradePnl(trade, nil)

	if !result.RealizedGrossPnl.IsZero() || !result.RealizedNetPnl.IsZero() {
		t.Errorf("expected zero PnL, got gross=%s net=%s", result.RealizedGrossPnl, result.RealizedNetPnl)
	}
	if !result.ClosedQuantity.IsZero() || !result.OpenQuantity.IsZero() {
		t.Errorf("expected zero quantities")
	}
	if result.AvgOpenPrice != nil || result.UnrealizedGrossPnl != nil || result.RMultiple != nil {
		t.Errorf("expected nil optional fields")
	}
	// The status flag is trusted for this one field only.
	if !result.IsFullyClosed {
		t.Errorf("IsFullyClosed should mirror the caller's status flag")
	}
}

func TestComputeTradePnl_RMultipleRequiresNonzeroRisk(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusClosed)
	trade.ClosedAt = i64p(2000)
	trade.InitialRisk = dp("0")
	txs := []*domain.Transaction{
		makeTx(domain.ActionBuy, "1", "100", 1, "0"),
		makeTx(domain.ActionSell, "1", "110", 2, "0"),
	}

	result := e.ComputeTradePnl(trade, txs)
	if result.RMultiple != nil {
		t.Errorf("RMultiple = %v with zero risk, want nil", result.RMultiple)
	}
}

func TestComputeTradePnl_InputNotMutated(t *testing.T) {
	e := newTestEngine()
	trade := makeTrade(domain.DirectionLong, domain.StatusOpen)
	txs := []*domain.Transaction{
		makeTx(domain.ActionSell, "5", "110", 3, "0"),
		makeTx(domain.ActionBuy, "10", "100", 1, "2"),
	}
	origQty := txs[1].Quantity.String()
	origFirst := txs[0]

	e.ComputeTradePnl(trade, txs)

	if txs[0] != origFirst {
		t.Error("input slice order was mutated")
	}
	if txs[1].Quantity.String() != origQty {
		t.Error("input quantity was mutated")
	}
}
