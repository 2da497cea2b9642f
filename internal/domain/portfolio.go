package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Portfolio is the running reconstruction state: cash plus open positions,
// all in base currency. It is owned exclusively by one reconstruction and
// mutated in place as each transaction is applied.
type Portfolio struct {
	Cash      decimal.Decimal
	Positions map[string]*Position
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		Positions: map[string]*Position{},
	}
}

// HeldSymbols returns the symbols with a position entry, sorted so callers
// iterate deterministically.
func (p Portfolio) HeldSymbols() []string {
	symbols := make([]string, 0, len(p.Positions))
	for symbol := range p.Positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func (p Portfolio) DeepCopy() *Portfolio {
	newPortfolio := &Portfolio{
		Cash:      p.Cash,
		Positions: map[string]*Position{},
	}
	for symbol, position := range p.Positions {
		newPortfolio.Positions[symbol] = position.DeepCopy()
	}

	return newPortfolio
}

// Position tracks quantity and total adjusted cost for one symbol, using
// weighted-average-cost accounting.
type Position struct {
	Symbol    string
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal
}

// AverageCost is cost basis per share. Zero when nothing is held.
func (p Position) AverageCost() decimal.Decimal {
	if !p.Quantity.IsPositive() {
		return decimal.Zero
	}
	return p.CostBasis.Div(p.Quantity)
}

func (p Position) DeepCopy() *Position {
	copied := p
	return &copied
}
