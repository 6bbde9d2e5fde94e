package model

import "github.com/shopspring/decimal"

// EmploymentType classifies how a customer earns income.
type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "Salaried"
	EmploymentSelfEmployed EmploymentType = "Self_Employed"
	EmploymentGig          EmploymentType = "Gig"
)

// Valid reports whether e is a known employment type.
func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentSalaried, EmploymentSelfEmployed, EmploymentGig:
		return true
	}
	return false
}

// CustomerProfile is the declared metadata that accompanies a ledger.
type CustomerProfile struct {
	CustomerID            string
	Name                  string // display only, may be empty
	EmploymentType        EmploymentType
	DeclaredMonthlyIncome decimal.Decimal
	CityTier              string
}
