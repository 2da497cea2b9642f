package ledger

import (
	"portfoliotracker/internal/domain"

	"github.com/shopspring/decimal"
)

// CashStats accumulates the contribution and dividend totals the summary
// calculator needs. Amounts are in base currency.
type CashStats struct {
	TotalContributions decimal.Decimal
	ContributionCount  int
	TotalDividends     decimal.Decimal
	DividendCount      int
}

// CashLedger applies the cash leg of every transaction to a portfolio.
//
// FX transfers are treated as cash-neutral internal transfers (the signed
// net amount is applied as-is) and, when the row's description carries an
// explicit "XXX/YYY rate" pair, the shared rate table is also updated. Both
// effects are intentional; neither happens implicitly for other actions.
type CashLedger struct {
	Rates *RateTable
	Stats CashStats
}

func NewCashLedger(rates *RateTable) *CashLedger {
	return &CashLedger{Rates: rates}
}

// Apply mutates the portfolio's cash for one transaction. Net amounts follow
// the broker sign convention: buys negative (outflow), sells and income
// positive (inflow). Unknown actions leave the ledger untouched.
func (l *CashLedger) Apply(p *domain.Portfolio, txn domain.Transaction) {
	switch txn.Action {
	case domain.ActionContribution, domain.ActionDeposit:
		amount := l.Rates.Convert(txn.NetAmount, txn.Currency).Abs()
		p.Cash = p.Cash.Add(amount)
		l.Stats.TotalContributions = l.Stats.TotalContributions.Add(amount)
		l.Stats.ContributionCount++
	case domain.ActionWithdrawal:
		p.Cash = p.Cash.Sub(l.Rates.Convert(txn.NetAmount, txn.Currency).Abs())
	case domain.ActionDividend:
		amount := l.Rates.Convert(txn.NetAmount, txn.Currency)
		p.Cash = p.Cash.Add(amount)
		l.Stats.TotalDividends = l.Stats.TotalDividends.Add(amount)
		l.Stats.DividendCount++
	case domain.ActionBuy, domain.ActionSell:
		p.Cash = p.Cash.Add(l.Rates.Convert(txn.NetAmount, txn.Currency))
	case domain.ActionFXTransfer:
		l.Rates.UpdateFromDescription(txn.Description)
		p.Cash = p.Cash.Add(l.Rates.Convert(txn.NetAmount, txn.Currency))
	}
}
