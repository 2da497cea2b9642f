package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Action is the broker activity code carried on a transaction row.
type Action string

const (
	ActionUnknown      Action = ""
	ActionContribution Action = "CON"
	ActionDeposit      Action = "DEP"
	ActionWithdrawal   Action = "WDR"
	ActionBuy          Action = "Buy"
	ActionSell         Action = "Sell"
	ActionDividend     Action = "DIV"
	ActionFXTransfer   Action = "FXT"
)

// ParseAction maps a raw action cell to a known Action. Unknown codes map to
// ActionUnknown, which the ledgers treat as a no-op rather than an error.
func ParseAction(s string) Action {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CON":
		return ActionContribution
	case "DEP":
		return ActionDeposit
	case "WDR":
		return ActionWithdrawal
	case "BUY":
		return ActionBuy
	case "SELL":
		return ActionSell
	case "DIV":
		return ActionDividend
	case "FXT":
		return ActionFXTransfer
	}
	return ActionUnknown
}

// Transaction is one normalized row from a brokerage export. Symbol is empty
// for cash-only actions. Quantity/Price/NetAmount default to zero when the
// export leaves them blank.
type Transaction struct {
	Date        time.Time
	Action      Action
	Symbol      string
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	NetAmount   decimal.Decimal
	Commission  decimal.Decimal
	Currency    string
}

func (t Transaction) IsTrade() bool {
	return t.Action == ActionBuy || t.Action == ActionSell
}
