package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashscore/internal/model"
)

const dateFormat = "2006-01-02"

// Column names of the standard ledger export.
const (
	colCustomerID  = "customer_id"
	colDate        = "transaction_date"
	colAmount      = "transaction_amount"
	colDirection   = "transaction_direction"
	colCategory    = "transaction_category"
	colChannel     = "transaction_channel"
	colDescription = "description"
)

// StandardParser reads the multi-customer ledger export with explicit
// CREDIT/DEBIT directions and non-negative amounts.
type StandardParser struct{}

// Format returns the parser name.
func (p *StandardParser) Format() string { return "standard" }

// Parse reads a standard ledger CSV.
func (p *StandardParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := indexHeader(records[0], colCustomerID, colDate, colAmount, colDirection, colDescription)
	if err != nil {
		return nil, fmt.Errorf("ledger header: %w", err)
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseStandardRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStandardRow(cols columns, rec []string) (model.Transaction, error) {
	date, err := time.Parse(dateFormat, cols.get(rec, colDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", cols.get(rec, colDate), err)
	}

	amount, err := decimal.NewFromString(cols.get(rec, colAmount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", cols.get(rec, colAmount), err)
	}
	if amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("negative amount %s", amount)
	}

	dir := model.Direction(strings.ToUpper(cols.get(rec, colDirection)))
	if !dir.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown direction %q", cols.get(rec, colDirection))
	}

	return model.Transaction{
		CustomerID:  cols.get(rec, colCustomerID),
		Date:        date,
		Amount:      amount,
		Direction:   dir,
		Category:    cols.get(rec, colCategory),
		Channel:     cols.get(rec, colChannel),
		Description: cols.get(rec, colDescription),
	}, nil
}
