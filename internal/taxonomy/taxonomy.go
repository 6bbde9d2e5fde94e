package taxonomy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a category to the description keywords that select it.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the versioned keyword configuration behind categorization
// and the keyword-driven risk signals.
type Taxonomy struct {
	Version  string `yaml:"version"`
	Fallback string `yaml:"fallback"`
	Rules    []Rule `yaml:"rules"`

	Essential     []string `yaml:"essential"`
	Discretionary []string `yaml:"discretionary"`

	MissedPayment  []string `yaml:"missed_payment"`
	PenaltyMarker  string   `yaml:"penalty_marker"` // matched against the source category
	RiskyMerchants []string `yaml:"risky_merchants"`
	DigitalMarkers []string `yaml:"digital_markers"`
}

// Validate checks that the taxonomy is usable for categorization.
func (t *Taxonomy) Validate() error {
	if t.Fallback == "" {
		return errors.New("taxonomy: fallback category is required")
	}
	if len(t.Rules) == 0 {
		return errors.New("taxonomy: at least one rule is required")
	}
	seen := make(map[string]bool, len(t.Rules))
	for i, r := range t.Rules {
		if r.Category == "" {
			return fmt.Errorf("taxonomy: rule %d has no category", i)
		}
		if seen[r.Category] {
			return fmt.Errorf("taxonomy: duplicate category %q", r.Category)
		}
		seen[r.Category] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("taxonomy: category %q has no keywords", r.Category)
		}
	}
	return nil
}

// Load reads a taxonomy YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save writes a taxonomy to a YAML file.
func Save(path string, t *Taxonomy) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling taxonomy: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing taxonomy: %w", err)
	}
	return nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
