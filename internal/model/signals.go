package model

// LifestyleScores are spend-mix ratios derived from categorized debits.
type LifestyleScores struct {
	EssentialRatio     float64 `json:"essential_ratio"`     // 0..1
	DiscretionaryRatio float64 `json:"discretionary_ratio"` // 0..1
	DigitalSavviness   float64 `json:"digital_savviness"`   // 0..100
}

// SignalVector is the fixed-shape summary of one customer's ledger.
type SignalVector struct {
	CustomerID string

	AvgMonthlyInflow      float64
	AvgMonthlyOutflow     float64
	IncomeVolatility      float64 // CV of monthly inflow; 1.0 when inflow is absent
	NetCashRetentionRatio float64 // can be negative
	CashSurplusStability  float64 // 0..1
	BillMissCount         int
	RiskySpendRatio       float64

	// SpendingBreakdown maps taxonomy category to total debit amount.
	SpendingBreakdown map[string]float64
	Lifestyle         LifestyleScores

	// Monthly sums over the contiguous month range of the ledger, zero-filled.
	InflowTrend  []float64
	OutflowTrend []float64
}

// DefaultSignals is the canonical vector for a ledger with no transactions.
func DefaultSignals(customerID string) SignalVector {
	return SignalVector{
		CustomerID:        customerID,
		IncomeVolatility:  1.0,
		SpendingBreakdown: map[string]float64{},
	}
}
