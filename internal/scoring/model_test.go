package scoring

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/cashscore/internal/model"
)

func TestFeatures_Order(t *testing.T) {
	sig := model.SignalVector{
		AvgMonthlyInflow:      1,
		IncomeVolatility:      2,
		AvgMonthlyOutflow:     3,
		NetCashRetentionRatio: 4,
		CashSurplusStability:  5,
		BillMissCount:         6,
		RiskySpendRatio:       7,
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, Features(sig))
	assert.Len(t, FeatureNames, 7)
}

func TestLinearModel_Predict(t *testing.T) {
	m := &LinearModel{
		Intercept:    500,
		Coefficients: []float64{0.001, -100, 0, 100, 50, -10, -200},
	}
	got, err := m.Predict([]float64{50000, 0.1, 20000, 0.6, 0.8, 1, 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 500+50-10+60+40-10-10, got, 1e-9)
}

func TestLinearModel_PredictWrongLength(t *testing.T) {
	m := &LinearModel{Coefficients: make([]float64, 7)}
	_, err := m.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestLoadModel_Testdata(t *testing.T) {
	m, err := LoadModel("../../testdata/model.yaml")
	require.NoError(t, err)
	assert.Equal(t, "linreg-v1", m.Version())
	assert.Len(t, m.Coefficients, len(FeatureNames))
}

func TestLoadModel_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	doc := `{"version": "json-1", "intercept": 420.5, "coefficients": [0, 0, 0, 0, 0, 0, 0]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "json-1", m.Version())
	assert.InDelta(t, 420.5, m.Intercept, 1e-9)
}

func TestLoadModel_NotFound(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"too few coefficients", "version: x\ncoefficients: [1, 2]\n", ErrFeatureCount},
		{"wrong feature order", "version: x\nfeatures: [income_volatility, avg_monthly_inflow, avg_monthly_outflow, net_cash_retention_ratio, cash_surplus_stability, bill_miss_count, risky_spend_ratio]\ncoefficients: [1, 2, 3, 4, 5, 6, 7]\n", ErrFeatureOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			_, err := LoadModel(path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadModel_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("coefficients: {not: a list}\n"), 0o644))
	_, err := LoadModel(path)
	assert.Error(t, err)
}

func TestSaveModelRoundTrip(t *testing.T) {
	m := &LinearModel{
		ArtifactVersion: "rt-1",
		FeatureOrder:    FeatureNames,
		Intercept:       612.25,
		Coefficients:    []float64{0.0005, -120, -0.0002, 90, 40, -25, -300},
	}
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, SaveModel(path, m))

	got, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}
