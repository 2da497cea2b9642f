package app

import (
	"context"
	"errors"
	"time"

	"portfoliotracker/internal/calculator"
	"portfoliotracker/internal/domain"
	"portfoliotracker/internal/ingest"
	"portfoliotracker/internal/ledger"
	"portfoliotracker/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultBaseCurrency = "CAD"

var ErrNoTransactions = errors.New("cannot reconstruct portfolio from an empty transaction set")

// SnapshotMode selects how the time series is assembled.
type SnapshotMode string

const (
	// SnapshotModeDaily emits one snapshot per calendar day across the
	// inclusive [first, last] transaction date range. Gap-free, so charts
	// need no interpolation. This is the primary mode.
	SnapshotModeDaily SnapshotMode = "daily"
	// SnapshotModeEvents emits exactly one snapshot per transaction, with
	// no synthetic calendar fill.
	SnapshotModeEvents SnapshotMode = "events"
)

type ReconstructionHandler struct {
	// Provider may be nil, which disables external price lookups and
	// leaves the resolver with transacted prices and average cost.
	Provider service.MarketDataProvider
	Logger   *zap.SugaredLogger
}

type ReconstructionInput struct {
	Transactions []domain.Transaction
	Mode         SnapshotMode // defaults to SnapshotModeDaily
	BaseCurrency string       // defaults to DefaultBaseCurrency
}

type ReconstructionResult struct {
	History []domain.Snapshot
	Stats   domain.SummaryStats
}

// Reconstruct folds the transaction set into a snapshot time series plus
// summary statistics. The fold is strictly sequential: cash and cost-basis
// mutations happen in transaction order, and pricing for a date only runs
// after every transaction on that date has been applied.
func (h ReconstructionHandler) Reconstruct(ctx context.Context, in ReconstructionInput) (*ReconstructionResult, error) {
	if len(in.Transactions) == 0 {
		return nil, ErrNoTransactions
	}

	mode := in.Mode
	if mode == "" {
		mode = SnapshotModeDaily
	}
	base := in.BaseCurrency
	if base == "" {
		base = DefaultBaseCurrency
	}

	// work on a sorted copy; the caller keeps its slice
	txns := make([]domain.Transaction, len(in.Transactions))
	copy(txns, in.Transactions)
	ingest.SortTransactions(txns)

	rates := ledger.NewRateTable(base)
	cashLedger := ledger.NewCashLedger(rates)
	costBasisLedger := ledger.CostBasisLedger{Rates: rates}
	resolver := service.NewPriceResolver(h.Provider, h.Logger)
	portfolio := domain.NewPortfolio()

	apply := func(txn domain.Transaction) {
		resolver.ObserveTrade(txn)
		cashLedger.Apply(portfolio, txn)
		costBasisLedger.Apply(portfolio, txn)
	}

	var history []domain.Snapshot

	switch mode {
	case SnapshotModeEvents:
		for _, txn := range txns {
			apply(txn)
			history = append(history, takeSnapshot(ctx, portfolio, resolver, txn.Date))
		}
	default:
		next := 0
		start := txns[0].Date
		end := txns[len(txns)-1].Date
		for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
			for next < len(txns) && txns[next].Date.Equal(date) {
				apply(txns[next])
				next++
			}
			history = append(history, takeSnapshot(ctx, portfolio, resolver, date))
		}
	}

	stats := calculator.BuildSummary(history, cashLedger.Stats)

	return &ReconstructionResult{
		History: history,
		Stats:   stats,
	}, nil
}

// takeSnapshot prices every open position as of date and captures an
// immutable snapshot. The maps are built fresh so later mutation of the
// portfolio cannot reach into an appended snapshot.
func takeSnapshot(ctx context.Context, p *domain.Portfolio, resolver *service.PriceResolver, date time.Time) domain.Snapshot {
	positions := map[string]decimal.Decimal{}
	positionValues := map[string]decimal.Decimal{}
	totalValue := p.Cash

	for _, symbol := range p.HeldSymbols() {
		position := p.Positions[symbol]
		positions[symbol] = position.Quantity
		if !position.Quantity.IsPositive() {
			continue
		}
		price := resolver.Resolve(ctx, symbol, date, position.AverageCost())
		value := position.Quantity.Mul(price)
		positionValues[symbol] = value
		totalValue = totalValue.Add(value)
	}

	return domain.Snapshot{
		Date:           date,
		Cash:           p.Cash,
		Positions:      positions,
		PositionValues: positionValues,
		TotalValue:     totalValue,
	}
}
