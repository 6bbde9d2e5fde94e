// Package scoring turns signal vectors into credit scores: a rule-based
// label generator, an optional trained model, and risk-band classification.
package scoring

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/cashscore/internal/model"
)

// Scorer predicts credit scores. It is built once with an optional model and
// shared read-only across goroutines.
type Scorer struct {
	model Model
	log   zerolog.Logger
}

// NewScorer creates a Scorer. A nil model means every prediction uses the
// rule-based fallback.
func NewScorer(m Model, logger zerolog.Logger) *Scorer {
	return &Scorer{model: m, log: logger}
}

// HasModel reports whether a trained model is attached.
func (s *Scorer) HasModel() bool { return s.model != nil }

// Predict scores a signal vector. Model failures fall back to Label and are
// reported only through Prediction.ModelUsed.
func (s *Scorer) Predict(sig model.SignalVector) model.Prediction {
	if s.model != nil {
		raw, err := s.predictModel(sig)
		if err == nil {
			score := clampFloat(raw)
			return model.Prediction{
				CreditScore:  score,
				RiskBand:     ClassifyRisk(score),
				ModelUsed:    true,
				ModelVersion: s.model.Version(),
			}
		}
		s.log.Warn().Err(err).
			Str("customer_id", sig.CustomerID).
			Str("model_version", s.model.Version()).
			Msg("model prediction failed, using rule-based score")
	}

	raw, _ := Label(sig)
	score := Clamp(raw)
	return model.Prediction{
		CreditScore: score,
		RiskBand:    ClassifyRisk(score),
	}
}

// predictModel runs the attached model, turning panics and non-finite output
// into errors so they take the fallback path.
func (s *Scorer) predictModel(sig model.SignalVector) (raw float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()

	raw, err = s.model.Predict(Features(sig))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, ErrNonFinite
	}
	return raw, nil
}

func clampFloat(score float64) int {
	return int(math.Max(model.MinScore, math.Min(model.MaxScore, score)))
}
