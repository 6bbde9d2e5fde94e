package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashscore/internal/model"
)

// StatementParser parses single-account bank statement exports, where the
// amount is signed (negative = money out) and dates are DD/MM/YYYY.
// Transactions carry no customer ID; see AssignCustomer.
type StatementParser struct{}

const (
	statementDateFormat = "02/01/2006"
	stmtColDate         = "date"
	stmtColNarration    = "narration"
	stmtColAmount       = "amount"
	stmtColCategory     = "category"
	stmtColChannel      = "channel"
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads a statement CSV and returns Transactions.
func (p *StatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := indexHeader(records[0], stmtColDate, stmtColNarration, stmtColAmount)
	if err != nil {
		return nil, fmt.Errorf("statement header: %w", err)
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseStatementRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(cols columns, rec []string) (model.Transaction, error) {
	date, err := time.Parse(statementDateFormat, cols.get(rec, stmtColDate))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", cols.get(rec, stmtColDate), err)
	}

	signed, err := decimal.NewFromString(cols.get(rec, stmtColAmount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", cols.get(rec, stmtColAmount), err)
	}

	dir := model.DirectionCredit
	if signed.IsNegative() {
		dir = model.DirectionDebit
	}

	return model.Transaction{
		Date:        date,
		Amount:      signed.Abs(),
		Direction:   dir,
		Category:    cols.get(rec, stmtColCategory),
		Channel:     cols.get(rec, stmtColChannel),
		Description: cols.get(rec, stmtColNarration),
	}, nil
}
