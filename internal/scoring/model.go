package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/cashscore/internal/model"
)

// FeatureNames is the fixed feature order shared by training and inference.
var FeatureNames = []string{
	"avg_monthly_inflow",
	"income_volatility",
	"avg_monthly_outflow",
	"net_cash_retention_ratio",
	"cash_surplus_stability",
	"bill_miss_count",
	"risky_spend_ratio",
}

var (
	// ErrFeatureCount is returned when a feature vector or artifact does not
	// match FeatureNames.
	ErrFeatureCount = errors.New("feature count mismatch")
	// ErrFeatureOrder is returned when an artifact names its features in a
	// different order than FeatureNames.
	ErrFeatureOrder = errors.New("feature order mismatch")
	// ErrNonFinite is returned when a model produces NaN or Inf.
	ErrNonFinite = errors.New("model produced a non-finite score")
)

// Features returns the model input vector for s, in FeatureNames order.
func Features(s model.SignalVector) []float64 {
	return []float64{
		s.AvgMonthlyInflow,
		s.IncomeVolatility,
		s.AvgMonthlyOutflow,
		s.NetCashRetentionRatio,
		s.CashSurplusStability,
		float64(s.BillMissCount),
		s.RiskySpendRatio,
	}
}

// Model is a trained scoring artifact. Implementations must be safe for
// concurrent use and must not modify the feature slice.
type Model interface {
	Predict(features []float64) (float64, error)
	Version() string
}

// LinearModel is a linear-regression artifact: intercept + coefficients · x.
type LinearModel struct {
	ArtifactVersion string    `yaml:"version"`
	FeatureOrder    []string  `yaml:"features,omitempty"`
	Intercept       float64   `yaml:"intercept"`
	Coefficients    []float64 `yaml:"coefficients"`
}

// Version returns the artifact version string.
func (m *LinearModel) Version() string { return m.ArtifactVersion }

// Validate checks the artifact against FeatureNames.
func (m *LinearModel) Validate() error {
	if len(m.Coefficients) != len(FeatureNames) {
		return fmt.Errorf("%w: artifact has %d coefficients, want %d", ErrFeatureCount, len(m.Coefficients), len(FeatureNames))
	}
	if len(m.FeatureOrder) > 0 && !slices.Equal(m.FeatureOrder, FeatureNames) {
		return fmt.Errorf("%w: artifact features %v", ErrFeatureOrder, m.FeatureOrder)
	}
	return nil
}

// Predict returns the raw (unclamped) score for a feature vector.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureCount, len(features), len(m.Coefficients))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, ErrNonFinite
	}
	return y, nil
}

// LoadModel reads a linear model artifact (YAML or JSON). A missing file
// returns an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var m LinearModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating model artifact %s: %w", path, err)
	}
	return &m, nil
}

// SaveModel writes a linear model artifact as YAML.
func SaveModel(path string, m *LinearModel) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling model artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model artifact: %w", err)
	}
	return nil
}
