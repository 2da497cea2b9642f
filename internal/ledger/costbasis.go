package ledger

import (
	"portfoliotracker/internal/domain"
)

// CostBasisLedger maintains per-symbol quantity and adjusted cost base using
// weighted-average-cost accounting: all purchases pool into one average cost
// per share, and a partial sell removes a proportional share of basis.
//
// Quantities are clamped - selling more than held removes the whole position
// and never drives quantity or basis negative.
type CostBasisLedger struct {
	Rates *RateTable
}

func (l CostBasisLedger) Apply(p *domain.Portfolio, txn domain.Transaction) {
	if txn.Symbol == "" {
		return
	}
	switch txn.Action {
	case domain.ActionBuy:
		l.applyBuy(p, txn)
	case domain.ActionSell:
		l.applySell(p, txn)
	}
}

func (l CostBasisLedger) applyBuy(p *domain.Portfolio, txn domain.Transaction) {
	position, ok := p.Positions[txn.Symbol]
	if !ok {
		position = &domain.Position{Symbol: txn.Symbol}
		p.Positions[txn.Symbol] = position
	}

	// the net amount already folds in commission; fall back to quantity x
	// price for rows where the export left it blank
	cost := l.Rates.Convert(txn.NetAmount, txn.Currency).Abs()
	if cost.IsZero() {
		cost = l.Rates.Convert(txn.Quantity.Mul(txn.Price), txn.Currency)
	}

	position.Quantity = position.Quantity.Add(txn.Quantity)
	position.CostBasis = position.CostBasis.Add(cost)
}

func (l CostBasisLedger) applySell(p *domain.Portfolio, txn domain.Transaction) {
	position, ok := p.Positions[txn.Symbol]
	if !ok {
		return
	}
	held := position.Quantity
	if !held.IsPositive() {
		delete(p.Positions, txn.Symbol)
		return
	}

	sold := txn.Quantity
	if sold.GreaterThan(held) {
		sold = held
	}
	removedBasis := position.CostBasis.Mul(sold).Div(held)

	position.Quantity = held.Sub(sold)
	position.CostBasis = position.CostBasis.Sub(removedBasis)

	// a re-buy after a full exit starts a fresh lot
	if !position.Quantity.IsPositive() {
		delete(p.Positions, txn.Symbol)
	}
}
