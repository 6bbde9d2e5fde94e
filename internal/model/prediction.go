package model

// RiskBand is the decisioning bucket for a credit score.
type RiskBand string

const (
	RiskLow    RiskBand = "Low Risk"
	RiskMedium RiskBand = "Medium Risk"
	RiskHigh   RiskBand = "High Risk"
)

// Score bounds shared by every scoring path.
const (
	MinScore = 300
	MaxScore = 900
)

// SubScores are the interpretable pillars behind a rule-based score, each 0..100.
type SubScores struct {
	Stability  int
	Discipline int
	Volatility int
}

// Prediction is the scorer's output for one signal vector.
type Prediction struct {
	CreditScore  int
	RiskBand     RiskBand
	ModelUsed    bool   // false when the rule-based fallback produced the score
	ModelVersion string // empty when ModelUsed is false
}
