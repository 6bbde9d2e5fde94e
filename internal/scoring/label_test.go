package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/cashscore/internal/model"
)

// stableSaver mirrors six months of constant salary with no spending.
var stableSaver = model.SignalVector{
	AvgMonthlyInflow:      50000,
	IncomeVolatility:      0,
	NetCashRetentionRatio: 1.0,
	CashSurplusStability:  1.0,
}

func TestLabel_StableSaver(t *testing.T) {
	score, sub := Label(stableSaver)

	assert.Equal(t, model.SubScores{Stability: 100, Discipline: 80, Volatility: 50}, sub)
	assert.Equal(t, 774, score)
	assert.Equal(t, model.RiskLow, ClassifyRisk(score))
}

func TestLabel_Overspender(t *testing.T) {
	sig := model.SignalVector{
		AvgMonthlyInflow:      50000,
		AvgMonthlyOutflow:     60000,
		IncomeVolatility:      0,
		NetCashRetentionRatio: -0.2,
		CashSurplusStability:  0,
	}
	score, sub := Label(sig)

	assert.Equal(t, 20, sub.Discipline, "overspending penalty")
	assert.Equal(t, 630, score)

	saverScore, _ := Label(stableSaver)
	assert.Greater(t, saverScore-score, 100)
}

func TestLabel_RiskySpendOverrides(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0.0, 774},
		{0.1, 774},
		{0.2, 674},
		{0.3, 674},
		{0.5, 474},
	}
	for _, tt := range tests {
		sig := stableSaver
		sig.RiskySpendRatio = tt.ratio
		score, _ := Label(sig)
		assert.Equal(t, tt.want, score, "risky ratio %.2f", tt.ratio)
	}
}

func TestLabel_NotClamped(t *testing.T) {
	sig := model.SignalVector{
		IncomeVolatility:      1.0,
		NetCashRetentionRatio: -1,
		BillMissCount:         3,
		RiskySpendRatio:       0.9,
	}
	score, sub := Label(sig)

	assert.Equal(t, model.SubScores{Stability: 20, Discipline: 0, Volatility: 30}, sub)
	assert.Less(t, score, model.MinScore)
}

func TestStabilityScore(t *testing.T) {
	tests := []struct {
		vol  float64
		want int
	}{
		{0, 100},
		{0.099, 100},
		{0.1, 80},
		{0.29, 80},
		{0.3, 50},
		{0.59, 50},
		{0.6, 20},
		{1.0, 20},
		{7.5, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stabilityScore(tt.vol), "volatility %.3f", tt.vol)
	}
}

func TestDisciplineScore(t *testing.T) {
	tests := []struct {
		retention float64
		misses    int
		want      int
	}{
		{1.0, 0, 80},
		{0.25, 0, 80},
		{0.2, 0, 60},
		{0.15, 0, 60},
		{0.1, 0, 50},
		{0, 0, 50},
		{-0.1, 0, 20},
		{0.25, 1, 60},
		{0.25, 5, 0},
		{-0.5, 3, 0},
		{1.0, math.MaxInt, 0},
		{1.0, math.MaxInt/20 + 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, disciplineScore(tt.retention, tt.misses), "retention %.2f misses %d", tt.retention, tt.misses)
	}
}

func TestVolatilityScore(t *testing.T) {
	tests := []struct {
		stability float64
		want      int
	}{
		{0, 30},
		{0.5, 30},
		{0.51, 50},
		{1.0, 50},
		{1.5, 70},
		{2.0, 70},
		{2.5, 90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, volatilityScore(tt.stability), "stability %.2f", tt.stability)
	}
}
