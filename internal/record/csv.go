// Package record reads and writes flat scored-record CSV files.
package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashscore/internal/model"
)

// Header is the CSV header for scored record files.
const Header = "customer_id,customer_name,employment_type,declared_monthly_income,city_tier," +
	"avg_monthly_inflow,avg_monthly_outflow,income_volatility,net_cash_retention_ratio," +
	"cash_surplus_stability,bill_miss_count,risky_spend_ratio," +
	"spending_breakdown,lifestyle_scores,inflow_trend,outflow_trend," +
	"stability_score,discipline_score,volatility_score,label_score," +
	"credit_score,risk_band,model_used,model_version"

// SignalsHeader is the CSV header for signal-only files.
const SignalsHeader = "customer_id," +
	"avg_monthly_inflow,avg_monthly_outflow,income_volatility,net_cash_retention_ratio," +
	"cash_surplus_stability,bill_miss_count,risky_spend_ratio," +
	"spending_breakdown,lifestyle_scores,inflow_trend,outflow_trend"

const (
	numFields       = 24
	numSignalFields = 11 // signal columns after customer_id
	colCustomerID   = 0
	colName         = 1
	colEmployment   = 2
	colIncome       = 3
	colCityTier     = 4
	colSignals      = 5 // first signal column
	colStability    = 16
	colDiscipline   = 17
	colVolatility   = 18
	colLabel        = 19
	colCreditScore  = 20
	colRiskBand     = 21
	colModelUsed    = 22
	colModelVersion = 23
	sigAvgInflow    = 0
	sigAvgOutflow   = 1
	sigVolatility   = 2
	sigRetention    = 3
	sigSurplus      = 4
	sigBillMisses   = 5
	sigRiskyRatio   = 6
	sigBreakdown    = 7
	sigLifestyle    = 8
	sigInflowTrend  = 9
	sigOutflowTrend = 10
)

// ReadRecords reads all scored records from a CSV reader.
func ReadRecords(r io.Reader) ([]model.ScoredRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var out []model.ScoredRecord
	for i, rec := range records[1:] {
		sr, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, sr)
	}
	return out, nil
}

// WriteRecords writes scored records (including header).
func WriteRecords(w io.Writer, recs []model.ScoredRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, sr := range recs {
		row, err := MarshalRecord(sr)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSignals writes signal vectors (including header).
func WriteSignals(w io.Writer, sigs []model.SignalVector) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SignalsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range sigs {
		fields, err := marshalSignals(s)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := cw.Write(append([]string{s.CustomerID}, fields...)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a ScoredRecord to a CSV row.
func MarshalRecord(sr model.ScoredRecord) ([]string, error) {
	row := make([]string, numFields)
	row[colCustomerID] = sr.Profile.CustomerID
	row[colName] = sr.Profile.Name
	row[colEmployment] = string(sr.Profile.EmploymentType)
	row[colIncome] = sr.Profile.DeclaredMonthlyIncome.String()
	row[colCityTier] = sr.Profile.CityTier

	sig, err := marshalSignals(sr.Signals)
	if err != nil {
		return nil, err
	}
	copy(row[colSignals:], sig)

	row[colStability] = strconv.Itoa(sr.SubScores.Stability)
	row[colDiscipline] = strconv.Itoa(sr.SubScores.Discipline)
	row[colVolatility] = strconv.Itoa(sr.SubScores.Volatility)
	row[colLabel] = strconv.Itoa(sr.LabelScore)
	row[colCreditScore] = strconv.Itoa(sr.Prediction.CreditScore)
	row[colRiskBand] = string(sr.Prediction.RiskBand)
	row[colModelUsed] = strconv.FormatBool(sr.Prediction.ModelUsed)
	row[colModelVersion] = sr.Prediction.ModelVersion
	return row, nil
}

// UnmarshalRecord converts a CSV row to a ScoredRecord.
func UnmarshalRecord(rec []string) (model.ScoredRecord, error) {
	if len(rec) != numFields {
		return model.ScoredRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	var income decimal.Decimal
	if rec[colIncome] != "" {
		var err error
		income, err = decimal.NewFromString(rec[colIncome])
		if err != nil {
			return model.ScoredRecord{}, fmt.Errorf("parsing declared_monthly_income %q: %w", rec[colIncome], err)
		}
	}

	sig, err := unmarshalSignals(rec[colSignals : colSignals+numSignalFields])
	if err != nil {
		return model.ScoredRecord{}, err
	}
	sig.CustomerID = rec[colCustomerID]

	ints := make(map[int]int, 6)
	for _, col := range []int{colStability, colDiscipline, colVolatility, colLabel, colCreditScore} {
		n, err := strconv.Atoi(rec[col])
		if err != nil {
			return model.ScoredRecord{}, fmt.Errorf("parsing column %d %q: %w", col+1, rec[col], err)
		}
		ints[col] = n
	}

	modelUsed, err := strconv.ParseBool(rec[colModelUsed])
	if err != nil {
		return model.ScoredRecord{}, fmt.Errorf("parsing model_used %q: %w", rec[colModelUsed], err)
	}

	return model.ScoredRecord{
		Profile: model.CustomerProfile{
			CustomerID:            rec[colCustomerID],
			Name:                  rec[colName],
			EmploymentType:        model.EmploymentType(rec[colEmployment]),
			DeclaredMonthlyIncome: income,
			CityTier:              rec[colCityTier],
		},
		Signals: sig,
		SubScores: model.SubScores{
			Stability:  ints[colStability],
			Discipline: ints[colDiscipline],
			Volatility: ints[colVolatility],
		},
		LabelScore: ints[colLabel],
		Prediction: model.Prediction{
			CreditScore:  ints[colCreditScore],
			RiskBand:     model.RiskBand(rec[colRiskBand]),
			ModelUsed:    modelUsed,
			ModelVersion: rec[colModelVersion],
		},
	}, nil
}

func marshalSignals(s model.SignalVector) ([]string, error) {
	f := make([]string, numSignalFields)
	f[sigAvgInflow] = formatFloat(s.AvgMonthlyInflow)
	f[sigAvgOutflow] = formatFloat(s.AvgMonthlyOutflow)
	f[sigVolatility] = formatFloat(s.IncomeVolatility)
	f[sigRetention] = formatFloat(s.NetCashRetentionRatio)
	f[sigSurplus] = formatFloat(s.CashSurplusStability)
	f[sigBillMisses] = strconv.Itoa(s.BillMissCount)
	f[sigRiskyRatio] = formatFloat(s.RiskySpendRatio)

	blobs := []struct {
		col int
		v   any
	}{
		{sigBreakdown, s.SpendingBreakdown},
		{sigLifestyle, s.Lifestyle},
		{sigInflowTrend, s.InflowTrend},
		{sigOutflowTrend, s.OutflowTrend},
	}
	for _, b := range blobs {
		data, err := json.Marshal(b.v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", signalColumn(b.col), err)
		}
		f[b.col] = string(data)
	}
	return f, nil
}

func unmarshalSignals(f []string) (model.SignalVector, error) {
	var s model.SignalVector

	floats := []struct {
		col int
		dst *float64
	}{
		{sigAvgInflow, &s.AvgMonthlyInflow},
		{sigAvgOutflow, &s.AvgMonthlyOutflow},
		{sigVolatility, &s.IncomeVolatility},
		{sigRetention, &s.NetCashRetentionRatio},
		{sigSurplus, &s.CashSurplusStability},
		{sigRiskyRatio, &s.RiskySpendRatio},
	}
	for _, fl := range floats {
		v, err := strconv.ParseFloat(f[fl.col], 64)
		if err != nil {
			return s, fmt.Errorf("parsing %s %q: %w", signalColumn(fl.col), f[fl.col], err)
		}
		*fl.dst = v
	}

	misses, err := strconv.Atoi(f[sigBillMisses])
	if err != nil {
		return s, fmt.Errorf("parsing bill_miss_count %q: %w", f[sigBillMisses], err)
	}
	s.BillMissCount = misses

	blobs := []struct {
		col int
		dst any
	}{
		{sigBreakdown, &s.SpendingBreakdown},
		{sigLifestyle, &s.Lifestyle},
		{sigInflowTrend, &s.InflowTrend},
		{sigOutflowTrend, &s.OutflowTrend},
	}
	for _, b := range blobs {
		if err := json.Unmarshal([]byte(f[b.col]), b.dst); err != nil {
			return s, fmt.Errorf("decoding %s: %w", signalColumn(b.col), err)
		}
	}
	return s, nil
}

func signalColumn(col int) string {
	return strings.Split(SignalsHeader, ",")[col+1]
}

// formatFloat uses the shortest representation that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
