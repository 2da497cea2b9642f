package service

import (
	"context"
	"time"

	"portfoliotracker/internal/domain"
	"portfoliotracker/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

/**

behavior - when the reconstruction asks for a price, it should always get
one. resolution order:

  1. most recent transacted price carried on a buy/sell row on or before
     the as-of date
  2. external market data lookup (best effort, cached per symbol+date
     including known misses)
  3. the position's current average cost per share
  4. zero

the resolver never returns an error and never a negative price.

*/

type pricePoint struct {
	date  time.Time
	price decimal.Decimal
}

// PriceResolver is per-reconstruction state. A nil provider is valid and
// simply disables tier 2 (offline mode).
type PriceResolver struct {
	provider MarketDataProvider
	log      *zap.SugaredLogger

	transacted map[string][]pricePoint
	// symbol -> date -> price; nil entry means a known miss
	lookups map[string]map[string]*decimal.Decimal
}

func NewPriceResolver(provider MarketDataProvider, log *zap.SugaredLogger) *PriceResolver {
	if log == nil {
		log = logger.New()
	}
	return &PriceResolver{
		provider:   provider,
		log:        log,
		transacted: map[string][]pricePoint{},
		lookups:    map[string]map[string]*decimal.Decimal{},
	}
}

// ObserveTrade records the transacted price from a buy/sell row so later
// resolutions can use the "last known price" tier. Rows without a positive
// price are ignored.
func (r *PriceResolver) ObserveTrade(txn domain.Transaction) {
	if !txn.IsTrade() || txn.Symbol == "" || !txn.Price.IsPositive() {
		return
	}
	r.transacted[txn.Symbol] = append(r.transacted[txn.Symbol], pricePoint{
		date:  txn.Date,
		price: txn.Price,
	})
}

// Resolve returns a valuation price for symbol as of asOf. Total and
// deterministic: always a finite, non-negative number.
func (r *PriceResolver) Resolve(ctx context.Context, symbol string, asOf time.Time, fallbackAvgCost decimal.Decimal) decimal.Decimal {
	if price, ok := r.lastTransactedOnOrBefore(symbol, asOf); ok {
		return price
	}

	if r.provider != nil {
		if price, ok := r.externalLookup(ctx, symbol, asOf); ok {
			return price
		}
	}

	if fallbackAvgCost.IsPositive() {
		return fallbackAvgCost
	}

	return decimal.Zero
}

func (r *PriceResolver) lastTransactedOnOrBefore(symbol string, asOf time.Time) (decimal.Decimal, bool) {
	// points are appended in chronological order - the fold observes
	// trades after the stable date sort
	points := r.transacted[symbol]
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].date.After(asOf) {
			return points[i].price, true
		}
	}
	return decimal.Zero, false
}

func (r *PriceResolver) externalLookup(ctx context.Context, symbol string, asOf time.Time) (decimal.Decimal, bool) {
	day := asOf.Format(time.DateOnly)
	if cached, ok := r.lookups[symbol][day]; ok {
		if cached == nil {
			return decimal.Zero, false
		}
		return *cached, true
	}

	if _, ok := r.lookups[symbol]; !ok {
		r.lookups[symbol] = map[string]*decimal.Decimal{}
	}

	price, err := r.provider.HistoricalClose(ctx, symbol, asOf)
	if err != nil || !price.IsPositive() {
		if err != nil {
			r.log.Warnw("market data lookup failed", "symbol", symbol, "date", day, "error", err.Error())
		}
		r.lookups[symbol][day] = nil
		return decimal.Zero, false
	}

	r.lookups[symbol][day] = &price
	return price, true
}
