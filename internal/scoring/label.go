package scoring

import "github.com/cleared-dev/cashscore/internal/model"

// Pillar weights of the rule-based composite.
const (
	stabilityWeight  = 0.4
	disciplineWeight = 0.3
	volatilityWeight = 0.3
)

// Risky-spend overrides, applied after the linear map.
const (
	riskySpendThreshold       = 0.1
	riskySpendPenalty         = 100
	severeRiskySpendThreshold = 0.3
	severeRiskySpendPenalty   = 200
)

// Label computes the deterministic rule-based score and its sub-scores.
// The score is not clamped; it can fall below MinScore when risky-spend
// penalties apply.
func Label(s model.SignalVector) (int, model.SubScores) {
	sub := model.SubScores{
		Stability:  stabilityScore(s.IncomeVolatility),
		Discipline: disciplineScore(s.NetCashRetentionRatio, s.BillMissCount),
		Volatility: volatilityScore(s.CashSurplusStability),
	}

	weighted := stabilityWeight*float64(sub.Stability) +
		disciplineWeight*float64(sub.Discipline) +
		volatilityWeight*float64(sub.Volatility)
	score := model.MinScore + weighted/100*(model.MaxScore-model.MinScore)

	if s.RiskySpendRatio > riskySpendThreshold {
		score -= riskySpendPenalty
	}
	if s.RiskySpendRatio > severeRiskySpendThreshold {
		score -= severeRiskySpendPenalty
	}

	return int(score), sub
}

func stabilityScore(incomeVolatility float64) int {
	switch {
	case incomeVolatility < 0.1:
		return 100
	case incomeVolatility < 0.3:
		return 80
	case incomeVolatility < 0.6:
		return 50
	default:
		return 20
	}
}

func disciplineScore(retention float64, billMisses int) int {
	d := 50
	switch {
	case retention > 0.2:
		d += 30
	case retention > 0.1:
		d += 10
	case retention < 0:
		d -= 30
	}
	if billMisses > 0 {
		// Five misses already zero the score; saturate before multiplying.
		d -= 20 * min(billMisses, 5)
	}
	return min(100, max(0, d))
}

// volatilityScore steps on cash surplus stability. The extractor bounds that
// signal to [0,1], so the two upper bands only fire for unbounded inputs.
func volatilityScore(surplusStability float64) int {
	switch {
	case surplusStability > 2.0:
		return 90
	case surplusStability > 1.0:
		return 70
	case surplusStability > 0.5:
		return 50
	default:
		return 30
	}
}
