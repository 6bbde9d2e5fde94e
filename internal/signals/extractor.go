// Package signals reduces a customer's transaction ledger to a fixed-shape
// SignalVector of income stability, spending behavior and risk indicators.
package signals

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashscore/internal/model"
	"github.com/cleared-dev/cashscore/internal/period"
	"github.com/cleared-dev/cashscore/internal/taxonomy"
)

// DefaultObservationMonths is the ledger window the risky-spend ratio is
// normalized against.
const DefaultObservationMonths = 6

// Extractor computes SignalVectors. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	categorizer       *taxonomy.Categorizer
	observationMonths int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObservationMonths overrides the risky-spend normalization window.
// Values below 1 are ignored.
func WithObservationMonths(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.observationMonths = n
		}
	}
}

// NewExtractor creates an Extractor using categorizer for all keyword matching.
func NewExtractor(categorizer *taxonomy.Categorizer, opts ...Option) *Extractor {
	e := &Extractor{
		categorizer:       categorizer,
		observationMonths: DefaultObservationMonths,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// monthlyFlows holds per-month credit and debit totals.
type monthlyFlows struct {
	months  []period.Month // every month present in the ledger, ascending
	inflow  map[period.Month]decimal.Decimal
	outflow map[period.Month]decimal.Decimal
}

func groupByMonth(ledger []model.Transaction) monthlyFlows {
	f := monthlyFlows{
		inflow:  make(map[period.Month]decimal.Decimal),
		outflow: make(map[period.Month]decimal.Decimal),
	}
	seen := make(map[period.Month]bool)
	for _, txn := range ledger {
		m := period.Of(txn.Date)
		if !seen[m] {
			seen[m] = true
			f.months = append(f.months, m)
		}
		switch txn.Direction {
		case model.DirectionCredit:
			f.inflow[m] = f.inflow[m].Add(txn.Amount)
		case model.DirectionDebit:
			f.outflow[m] = f.outflow[m].Add(txn.Amount)
		}
	}
	sort.Slice(f.months, func(i, j int) bool { return f.months[i].Before(f.months[j]) })
	return f
}

// sums returns the monthly totals of one stream, in month order, for months
// where that stream has at least one transaction.
func (f monthlyFlows) sums(stream map[period.Month]decimal.Decimal) []float64 {
	var out []float64
	for _, m := range f.months {
		if v, ok := stream[m]; ok {
			out = append(out, v.InexactFloat64())
		}
	}
	return out
}

// Extract computes the signal vector for one customer. The ledger is never
// modified. An empty ledger yields model.DefaultSignals.
func (e *Extractor) Extract(ledger []model.Transaction, profile model.CustomerProfile) model.SignalVector {
	if len(ledger) == 0 {
		return model.DefaultSignals(profile.CustomerID)
	}

	flows := groupByMonth(ledger)
	sig := model.SignalVector{CustomerID: profile.CustomerID}

	// Income stability.
	inflows := flows.sums(flows.inflow)
	sig.AvgMonthlyInflow = mean(inflows)
	sig.IncomeVolatility = 1.0
	if sig.AvgMonthlyInflow > 0 {
		sig.IncomeVolatility = sampleStdDev(inflows) / sig.AvgMonthlyInflow
	}

	outflows := flows.sums(flows.outflow)
	sig.AvgMonthlyOutflow = mean(outflows)

	if sig.AvgMonthlyInflow > 0 {
		sig.NetCashRetentionRatio = (sig.AvgMonthlyInflow - sig.AvgMonthlyOutflow) / sig.AvgMonthlyInflow
	}

	sig.CashSurplusStability = surplusStability(flows)
	sig.BillMissCount = e.billMisses(ledger)
	sig.RiskySpendRatio = e.riskySpendRatio(ledger, sig.AvgMonthlyOutflow)
	sig.InflowTrend, sig.OutflowTrend = trends(flows)
	sig.SpendingBreakdown, sig.Lifestyle = e.spending(ledger)

	return sig
}

// surplusStability is 1 - CV of the monthly surplus over every month present,
// floored at 0. Fewer than two months or a non-positive mean surplus give 0;
// a constant surplus gives exactly 1.
func surplusStability(flows monthlyFlows) float64 {
	if len(flows.months) < 2 {
		return 0
	}
	surpluses := make([]float64, len(flows.months))
	for i, m := range flows.months {
		surpluses[i] = flows.inflow[m].Sub(flows.outflow[m]).InexactFloat64()
	}

	mu := mean(surpluses)
	if mu <= 0 {
		return 0
	}
	sigma := popStdDev(surpluses)
	if sigma == 0 {
		return 1.0
	}
	return max(0, 1-sigma/mu)
}

func (e *Extractor) billMisses(ledger []model.Transaction) int {
	var n int
	for _, txn := range ledger {
		if e.categorizer.IsMissedPayment(txn.Description, txn.Category) {
			n++
		}
	}
	return n
}

func (e *Extractor) riskySpendRatio(ledger []model.Transaction, avgOutflow float64) float64 {
	if avgOutflow <= 0 {
		return 0
	}
	risky := decimal.Zero
	for _, txn := range ledger {
		if txn.IsDebit() && e.categorizer.IsRisky(txn.Description) {
			risky = risky.Add(txn.Amount)
		}
	}
	return risky.InexactFloat64() / (avgOutflow * float64(e.observationMonths))
}

// trends returns zero-filled monthly inflow and outflow series covering the
// first through last month of the ledger.
func trends(flows monthlyFlows) (inflow, outflow []float64) {
	if len(flows.months) == 0 {
		return nil, nil
	}
	span := period.Range(flows.months[0], flows.months[len(flows.months)-1])
	inflow = make([]float64, len(span))
	outflow = make([]float64, len(span))
	for i, m := range span {
		inflow[i] = flows.inflow[m].InexactFloat64()
		outflow[i] = flows.outflow[m].InexactFloat64()
	}
	return inflow, outflow
}

func (e *Extractor) spending(ledger []model.Transaction) (map[string]float64, model.LifestyleScores) {
	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	essential := decimal.Zero
	discretionary := decimal.Zero
	var debits, digital int

	for _, txn := range ledger {
		if !txn.IsDebit() {
			continue
		}
		debits++
		cat := e.categorizer.Categorize(txn.Description)
		byCategory[cat] = byCategory[cat].Add(txn.Amount)
		total = total.Add(txn.Amount)

		switch {
		case e.categorizer.IsEssential(cat):
			essential = essential.Add(txn.Amount)
		case e.categorizer.IsDiscretionary(cat):
			discretionary = discretionary.Add(txn.Amount)
		}
		if e.categorizer.IsDigital(txn.Description) {
			digital++
		}
	}

	breakdown := make(map[string]float64, len(byCategory))
	for cat, amt := range byCategory {
		breakdown[cat] = amt.InexactFloat64()
	}

	var life model.LifestyleScores
	if debits > 0 && total.IsPositive() {
		life.EssentialRatio = round(essential.Div(total).InexactFloat64(), 2)
		life.DiscretionaryRatio = round(discretionary.Div(total).InexactFloat64(), 2)
		life.DigitalSavviness = round(float64(digital)/float64(debits)*100, 1)
	}
	return breakdown, life
}
