package taxonomy

import "strings"

// Categorizer is a compiled, read-only view of a Taxonomy. Safe for
// concurrent use.
type Categorizer struct {
	version  string
	fallback string
	rules    []Rule // keywords lower-cased

	essential     map[string]bool
	discretionary map[string]bool

	missed  []string
	penalty string
	risky   []string
	digital []string
}

// NewCategorizer compiles t. The taxonomy is copied; later edits to t have
// no effect.
func NewCategorizer(t *Taxonomy) *Categorizer {
	rules := make([]Rule, len(t.Rules))
	for i, r := range t.Rules {
		rules[i] = Rule{Category: r.Category, Keywords: lowerAll(r.Keywords)}
	}
	return &Categorizer{
		version:       t.Version,
		fallback:      t.Fallback,
		rules:         rules,
		essential:     toSet(t.Essential),
		discretionary: toSet(t.Discretionary),
		missed:        lowerAll(t.MissedPayment),
		penalty:       strings.ToLower(t.PenaltyMarker),
		risky:         lowerAll(t.RiskyMerchants),
		digital:       lowerAll(t.DigitalMarkers),
	}
}

// Version returns the taxonomy version the categorizer was built from.
func (c *Categorizer) Version() string { return c.version }

// Categorize returns the first category whose keywords occur in description,
// or the fallback category.
func (c *Categorizer) Categorize(description string) string {
	desc := strings.ToLower(description)
	for _, r := range c.rules {
		if containsAny(desc, r.Keywords) {
			return r.Category
		}
	}
	return c.fallback
}

// IsMissedPayment reports whether a transaction looks like a bounced,
// returned, late or penalized payment.
func (c *Categorizer) IsMissedPayment(description, sourceCategory string) bool {
	if containsAny(strings.ToLower(description), c.missed) {
		return true
	}
	return c.penalty != "" && strings.Contains(strings.ToLower(sourceCategory), c.penalty)
}

// IsRisky reports whether description names a gambling, crypto or BNPL merchant.
func (c *Categorizer) IsRisky(description string) bool {
	return containsAny(strings.ToLower(description), c.risky)
}

// IsDigital reports whether description carries a digital-transfer marker.
func (c *Categorizer) IsDigital(description string) bool {
	return containsAny(strings.ToLower(description), c.digital)
}

// IsEssential reports whether category counts as essential spend.
func (c *Categorizer) IsEssential(category string) bool { return c.essential[category] }

// IsDiscretionary reports whether category counts as discretionary spend.
func (c *Categorizer) IsDiscretionary(category string) bool { return c.discretionary[category] }

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
