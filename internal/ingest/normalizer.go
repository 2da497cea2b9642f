package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"portfoliotracker/internal/domain"
	"portfoliotracker/internal/util"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var ErrNoTransactions = errors.New("transaction file contains no rows")

// requiredColumns is the full header set the ingestion layer validates.
// The reconstruction core only reads a subset, but a file missing any of
// these is not a recognizable brokerage export and gets rejected up front.
var requiredColumns = []string{
	"Transaction Date",
	"Settlement Date",
	"Action",
	"Symbol",
	"Description",
	"Quantity",
	"Price",
	"Gross Amount",
	"Commission",
	"Net Amount",
	"Currency",
	"Activity Type",
}

type rawTransactionRow struct {
	TransactionDate string `csv:"Transaction Date"`
	SettlementDate  string `csv:"Settlement Date"`
	Action          string `csv:"Action"`
	Symbol          string `csv:"Symbol"`
	Description     string `csv:"Description"`
	Quantity        string `csv:"Quantity"`
	Price           string `csv:"Price"`
	GrossAmount     string `csv:"Gross Amount"`
	Commission      string `csv:"Commission"`
	NetAmount       string `csv:"Net Amount"`
	Currency        string `csv:"Currency"`
	ActivityType    string `csv:"Activity Type"`
}

// ParseCSV reads a brokerage transaction export and returns normalized
// transactions, stable-sorted by date (same-day rows keep their file order).
//
// Parsing is tolerant per field - blank or junk numeric cells become zero -
// but an unparseable transaction date fails the whole parse, since ordering
// depends on it.
func ParseCSV(r io.Reader) ([]domain.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction file: %w", err)
	}

	if err := validateColumns(data); err != nil {
		return nil, err
	}

	rows := []*rawTransactionRow{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse transaction csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for i, row := range rows {
		txn, err := normalizeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txns = append(txns, txn)
	}

	SortTransactions(txns)
	return txns, nil
}

// SortTransactions orders by date only, stably, so same-day rows preserve
// their origin order.
func SortTransactions(txns []domain.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

func validateColumns(data []byte) error {
	reader := csv.NewReader(bytes.NewReader(data))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header: %w", err)
	}

	present := map[string]bool{}
	for i, column := range header {
		if i == 0 {
			column = strings.TrimPrefix(column, "\uFEFF")
		}
		present[strings.TrimSpace(column)] = true
	}

	for _, column := range requiredColumns {
		if !present[column] {
			return fmt.Errorf("missing required column %q", column)
		}
	}
	return nil
}

func normalizeRow(row *rawTransactionRow) (domain.Transaction, error) {
	date, err := parseDate(row.TransactionDate)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		Date:        date,
		Action:      domain.ParseAction(row.Action),
		Symbol:      strings.TrimSpace(row.Symbol),
		Description: strings.TrimSpace(row.Description),
		Quantity:    parseAmount(row.Quantity),
		Price:       parseAmount(row.Price),
		NetAmount:   parseAmount(row.NetAmount),
		Commission:  parseAmount(row.Commission),
		Currency:    strings.ToUpper(strings.TrimSpace(row.Currency)),
	}, nil
}

var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("transaction date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return util.Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable transaction date %q", raw)
}

// parseAmount is tolerant: blank or malformed cells become zero. Handles
// currency symbols, thousands separators, and the (123.45) negative
// convention some exports use.
func parseAmount(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cleaned)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		amount = amount.Neg()
	}
	return amount
}
