// Package ledger parses transaction ledgers and customer profiles from CSV.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/cashscore/internal/model"
)

// ErrUnknownFormat is returned by Registry.Lookup for unregistered formats.
var ErrUnknownFormat = errors.New("unknown ledger format")

// Parser converts a ledger file into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Lookup is Get with an error for unknown formats.
func (r *Registry) Lookup(format string) (Parser, error) {
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return p, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StandardParser{})
	r.Register(&StatementParser{})
	return r
}

// ByCustomer splits a multi-customer ledger, preserving row order within
// each customer.
func ByCustomer(txns []model.Transaction) map[string][]model.Transaction {
	out := make(map[string][]model.Transaction)
	for _, t := range txns {
		out[t.CustomerID] = append(out[t.CustomerID], t)
	}
	return out
}

// AssignCustomer returns a copy of txns with CustomerID set to id.
func AssignCustomer(txns []model.Transaction, id string) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		t.CustomerID = id
		out[i] = t
	}
	return out
}

// columns maps lower-cased header names to their index.
type columns map[string]int

func indexHeader(header []string, required ...string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// get returns the trimmed field for name, or "" if the column is absent.
func (c columns) get(rec []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
