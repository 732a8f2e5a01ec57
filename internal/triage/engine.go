package triage

import (
	"fmt"

	"github.com/linnemanlabs/casetriage/internal/rules"
)

// Engine holds the loaded rule tables and exposes the pure decision
// functions. Every method is a finite, synchronous, CPU-bound computation
// with no side effects, so the engine is safe for unlimited concurrent use.
type Engine struct {
	tables *rules.Tables
}

// NewEngine validates the tables and returns an engine over them. A
// validation failure is a configuration error and must abort startup.
func NewEngine(tables *rules.Tables) (*Engine, error) {
	if tables == nil {
		return nil, fmt.Errorf("rule tables are required")
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: tables}, nil
}

// Tables exposes the loaded rule tables read-only (for the config endpoints).
func (e *Engine) Tables() *rules.Tables {
	return e.tables
}

// EvidenceChecklist returns the base evidence items plus the category's
// specific ones.
func (e *Engine) EvidenceChecklist(categoryID string) []string {
	tax := &e.tables.Taxonomy
	out := append([]string(nil), tax.BaseEvidence...)
	if c, ok := tax.Lookup(categoryID); ok {
		out = append(out, c.Evidence...)
	}
	return out
}
