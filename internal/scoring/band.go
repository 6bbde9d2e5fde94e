package scoring

import "github.com/cleared-dev/cashscore/internal/model"

// Lower bounds (inclusive) of the risk bands.
const (
	LowRiskFloor    = 750
	MediumRiskFloor = 650
)

// ClassifyRisk maps a score to its risk band.
func ClassifyRisk(score int) model.RiskBand {
	switch {
	case score >= LowRiskFloor:
		return model.RiskLow
	case score >= MediumRiskFloor:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score int) int {
	return min(model.MaxScore, max(model.MinScore, score))
}
