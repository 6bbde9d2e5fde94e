package model

// ScoredRecord is one row of the scored population: who the customer is,
// what their ledger says, and what the scorer concluded.
type ScoredRecord struct {
	Profile   CustomerProfile
	Signals   SignalVector
	SubScores SubScores

	// LabelScore is the unclamped rule-based label, kept next to the
	// prediction so model drift against the rules stays visible.
	LabelScore int
	Prediction Prediction
}
