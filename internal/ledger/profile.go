package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashscore/internal/model"
)

const (
	colEmployment = "employment_type"
	colIncome     = "declared_monthly_income"
	colCityTier   = "city_tier"
	colName       = "customer_name" // optional
)

// ReadProfiles reads a customer profile CSV. Rows keep file order.
func ReadProfiles(r io.Reader) ([]model.CustomerProfile, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading profiles CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := indexHeader(records[0], colCustomerID, colEmployment, colIncome, colCityTier)
	if err != nil {
		return nil, fmt.Errorf("profiles header: %w", err)
	}

	seen := make(map[string]bool)
	var profiles []model.CustomerProfile
	for i, rec := range records[1:] {
		p, err := parseProfileRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if seen[p.CustomerID] {
			return nil, fmt.Errorf("row %d: duplicate customer_id %q", i+2, p.CustomerID)
		}
		seen[p.CustomerID] = true
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func parseProfileRow(cols columns, rec []string) (model.CustomerProfile, error) {
	id := cols.get(rec, colCustomerID)
	if id == "" {
		return model.CustomerProfile{}, errors.New("empty customer_id")
	}

	emp := model.EmploymentType(cols.get(rec, colEmployment))
	if !emp.Valid() {
		return model.CustomerProfile{}, fmt.Errorf("unknown employment_type %q", emp)
	}

	income, err := decimal.NewFromString(cols.get(rec, colIncome))
	if err != nil {
		return model.CustomerProfile{}, fmt.Errorf("parsing declared_monthly_income %q: %w", cols.get(rec, colIncome), err)
	}
	if !income.IsPositive() {
		return model.CustomerProfile{}, fmt.Errorf("declared_monthly_income must be positive, got %s", income)
	}

	return model.CustomerProfile{
		CustomerID:            id,
		Name:                  cols.get(rec, colName),
		EmploymentType:        emp,
		DeclaredMonthlyIncome: income,
		CityTier:              cols.get(rec, colCityTier),
	}, nil
}
