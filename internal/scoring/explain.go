package scoring

import (
	"math"
	"sort"

	"github.com/cleared-dev/cashscore/internal/model"
)

// Contribution is one feature's additive share of a linear prediction.
type Contribution struct {
	Feature string
	Value   float64
	Impact  float64 // coefficient * value, in score points
}

// Explanation decomposes a raw model score into base + contributions.
type Explanation struct {
	ModelVersion  string
	Base          float64
	Contributions []Contribution // largest |Impact| first
}

// Raw is the unclamped score the explanation adds up to.
func (e Explanation) Raw() float64 {
	total := e.Base
	for _, c := range e.Contributions {
		total += c.Impact
	}
	return total
}

// Explain returns the exact per-feature decomposition of Predict for s.
func (m *LinearModel) Explain(s model.SignalVector) (Explanation, error) {
	if err := m.Validate(); err != nil {
		return Explanation{}, err
	}

	x := Features(s)
	contribs := make([]Contribution, len(x))
	for i, v := range x {
		contribs[i] = Contribution{
			Feature: FeatureNames[i],
			Value:   v,
			Impact:  m.Coefficients[i] * v,
		}
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return math.Abs(contribs[i].Impact) > math.Abs(contribs[j].Impact)
	})

	return Explanation{
		ModelVersion:  m.ArtifactVersion,
		Base:          m.Intercept,
		Contributions: contribs,
	}, nil
}
