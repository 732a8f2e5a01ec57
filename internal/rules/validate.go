package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ConfigurationError reports a rule table that failed an internal consistency
// check. It is fatal at startup; the engine must not serve traffic with a
// broken table.
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule table %q invalid: %s", e.Table, e.Reason)
}

func tableErr(table, format string, args ...any) error {
	return &ConfigurationError{Table: table, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every table for internal consistency. All findings are
// joined so operators can fix a broken config file in one pass.
func (t *Tables) Validate() error {
	var errs []error
	errs = append(errs, t.validateTaxonomy()...)
	errs = append(errs, t.validateSeverity()...)
	errs = append(errs, t.validateRouting()...)
	errs = append(errs, t.validatePolicies()...)
	return errors.Join(errs...)
}

func (t *Tables) validateTaxonomy() []error {
	var errs []error
	tax := &t.Taxonomy

	if len(tax.Categories) == 0 {
		return []error{tableErr("taxonomy", "no categories defined")}
	}
	seen := make(map[string]bool, len(tax.Categories))
	for i, c := range tax.Categories {
		if c.ID == "" {
			errs = append(errs, tableErr("taxonomy", "category %d has empty id", i))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, tableErr("taxonomy", "duplicate category id %q", c.ID))
		}
		seen[c.ID] = true
		if c.RiskScore < 0 || c.RiskScore > 100 {
			errs = append(errs, tableErr("taxonomy", "category %q risk score %d outside [0,100]", c.ID, c.RiskScore))
		}
		for _, kw := range c.Keywords {
			if kw != strings.ToLower(kw) {
				errs = append(errs, tableErr("taxonomy", "category %q keyword %q is not lower-case", c.ID, kw))
			}
		}
	}
	fb, ok := tax.Lookup(tax.FallbackID)
	switch {
	case tax.FallbackID == "":
		errs = append(errs, tableErr("taxonomy", "fallback_id is empty"))
	case !ok:
		errs = append(errs, tableErr("taxonomy", "fallback category %q not defined", tax.FallbackID))
	case len(fb.Keywords) > 0:
		errs = append(errs, tableErr("taxonomy", "fallback category %q must not define keywords", tax.FallbackID))
	}
	return errs
}

func (t *Tables) validateSeverity() []error {
	var errs []error
	sev := &t.Severity

	sum := sev.Weights.Amount + sev.Weights.Time + sev.Weights.TypeRisk + sev.Weights.Victim
	if math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, tableErr("severity", "weights sum to %v, want 1.0", sum))
	}
	for name, w := range map[string]float64{
		"amount":    sev.Weights.Amount,
		"time":      sev.Weights.Time,
		"type_risk": sev.Weights.TypeRisk,
		"victim":    sev.Weights.Victim,
	} {
		if w < 0 {
			errs = append(errs, tableErr("severity", "weight %s is negative", name))
		}
	}
	if sev.AmountSaturation <= 0 {
		errs = append(errs, tableErr("severity", "amount_saturation must be > 0, got %v", sev.AmountSaturation))
	}
	if sev.GoldenHourHours <= 0 {
		errs = append(errs, tableErr("severity", "golden_hour_hours must be > 0, got %v", sev.GoldenHourHours))
	}
	if sev.GoldenDecay < 0 || sev.GoldenDecay > 100 {
		errs = append(errs, tableErr("severity", "golden_decay %v outside [0,100]", sev.GoldenDecay))
	}
	if sev.TailFactor <= 0 || sev.TailFactor >= 1 {
		errs = append(errs, tableErr("severity", "tail_factor %v outside (0,1)", sev.TailFactor))
	}
	if sev.TailPeriodHours <= 0 {
		errs = append(errs, tableErr("severity", "tail_period_hours must be > 0, got %v", sev.TailPeriodHours))
	}
	if sev.TimeFloor <= 0 {
		errs = append(errs, tableErr("severity", "time_floor must be > 0 so old cases keep some urgency, got %v", sev.TimeFloor))
	}
	if sev.TailStart < sev.TimeFloor {
		errs = append(errs, tableErr("severity", "tail_start %v below time_floor %v", sev.TailStart, sev.TimeFloor))
	}

	if len(sev.Bands) == 0 {
		errs = append(errs, tableErr("severity", "no bands defined"))
		return errs
	}
	for i, b := range sev.Bands {
		if b.Name == "" {
			errs = append(errs, tableErr("severity", "band %d has empty name", i))
		}
		if b.SLAHours <= 0 {
			errs = append(errs, tableErr("severity", "band %q sla_hours must be > 0", b.Name))
		}
		if i > 0 && b.MinScore >= sev.Bands[i-1].MinScore {
			errs = append(errs, tableErr("severity", "bands not strictly descending at %q", b.Name))
		}
	}
	if last := sev.Bands[len(sev.Bands)-1]; last.MinScore != 0 {
		errs = append(errs, tableErr("severity", "lowest band %q must have min_score 0 so every score maps to a band", last.Name))
	}
	return errs
}

func (t *Tables) validateRouting() []error {
	var errs []error
	m := &t.Routing

	for _, r := range m.Rules {
		if _, ok := t.Taxonomy.Lookup(r.CategoryID); !ok {
			errs = append(errs, tableErr("routing", "rule for unknown category %q", r.CategoryID))
		}
		if r.PrimaryAssignee == "" {
			errs = append(errs, tableErr("routing", "category %q has no primary assignee", r.CategoryID))
		}
		if r.Jurisdiction == "" {
			errs = append(errs, tableErr("routing", "category %q has no jurisdiction", r.CategoryID))
		}
	}
	if _, ok := m.RuleFor(t.Taxonomy.FallbackID); !ok && t.Taxonomy.FallbackID != "" {
		errs = append(errs, tableErr("routing", "no rule for fallback category %q", t.Taxonomy.FallbackID))
	}
	for i, th := range m.Thresholds {
		if th.Amount <= 0 {
			errs = append(errs, tableErr("routing", "threshold %d amount must be > 0", i))
		}
		if th.Effect == "" {
			errs = append(errs, tableErr("routing", "threshold %d has empty effect", i))
		}
		if i > 0 && th.Amount <= m.Thresholds[i-1].Amount {
			errs = append(errs, tableErr("routing", "thresholds not ascending at index %d", i))
		}
	}
	return errs
}

func (t *Tables) validatePolicies() []error {
	var errs []error
	seen := make(map[string]bool, len(t.Policies.Policies))
	for i, p := range t.Policies.Policies {
		if p.ID == "" {
			errs = append(errs, tableErr("policies", "policy %d has empty id", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, tableErr("policies", "duplicate policy id %q", p.ID))
		}
		seen[p.ID] = true
		if p.Action == "" {
			errs = append(errs, tableErr("policies", "policy %q has empty action", p.ID))
		}
		if p.Condition.CategoryID != "" {
			if _, ok := t.Taxonomy.Lookup(p.Condition.CategoryID); !ok {
				errs = append(errs, tableErr("policies", "policy %q references unknown category %q", p.ID, p.Condition.CategoryID))
			}
		}
	}
	return errs
}
