package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of the account a transaction hits.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Transaction is one row of a customer's bank ledger.
type Transaction struct {
	CustomerID  string
	Date        time.Time
	Amount      decimal.Decimal // never negative; sign is carried by Direction
	Direction   Direction
	Category    string // source-provided, free text
	Channel     string
	Description string
}

// IsCredit reports whether the transaction is an inflow.
func (t Transaction) IsCredit() bool { return t.Direction == DirectionCredit }

// IsDebit reports whether the transaction is an outflow.
func (t Transaction) IsDebit() bool { return t.Direction == DirectionDebit }
