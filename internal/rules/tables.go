// Package rules holds the loaded-once decision tables that drive the triage
// engine: fraud category taxonomy, severity scoring configuration, routing
// matrix, and policy set. Tables are plain data, validated at load time and
// immutable afterwards; the engine never branches on hardcoded categories.
package rules

// Category is one entry in the fraud taxonomy. Keywords are lower-case
// phrases matched as substrings against complaint text; declaration order
// breaks classification ties.
type Category struct {
	ID        string   `koanf:"id" json:"id"`
	Name      string   `koanf:"name" json:"name"`
	Keywords  []string `koanf:"keywords" json:"keywords"`
	RiskScore int      `koanf:"risk_score" json:"risk_score"`
	// Evidence lists category-specific items appended to the base
	// evidence checklist at intake.
	Evidence []string `koanf:"evidence" json:"evidence,omitempty"`
}

// Taxonomy is the ordered category list plus the reserved fallback.
type Taxonomy struct {
	Categories []Category `koanf:"categories" json:"categories"`
	// FallbackID names the category returned when nothing matches.
	FallbackID string `koanf:"fallback_id" json:"fallback_id"`
	// BaseEvidence is requested for every complaint regardless of category.
	BaseEvidence []string `koanf:"base_evidence" json:"base_evidence"`
}

// Lookup returns the category with the given id.
func (t *Taxonomy) Lookup(id string) (*Category, bool) {
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i], true
		}
	}
	return nil, false
}

// Fallback returns the reserved fallback category.
func (t *Taxonomy) Fallback() *Category {
	c, _ := t.Lookup(t.FallbackID)
	return c
}

// Weights are the per-factor urgency weights. They must sum to 1.
type Weights struct {
	Amount   float64 `koanf:"amount" json:"amount"`
	Time     float64 `koanf:"time" json:"time"`
	TypeRisk float64 `koanf:"type_risk" json:"type_risk"`
	Victim   float64 `koanf:"victim" json:"victim"`
}

// Band maps a score range to a named severity tier with a fixed SLA.
// Bands are sorted descending by MinScore; the first band whose MinScore is
// at or below the urgency score wins.
type Band struct {
	Name        string `koanf:"name" json:"name"`
	MinScore    int    `koanf:"min_score" json:"min_score"`
	SLAHours    int    `koanf:"sla_hours" json:"sla_hours"`
	Description string `koanf:"description" json:"description"`
}

// SeverityConfig drives the urgency score calculation and band selection.
type SeverityConfig struct {
	Weights Weights `koanf:"weights" json:"weights"`

	// AmountSaturation is the loss amount at which the amount sub-score
	// reaches 100.
	AmountSaturation float64 `koanf:"amount_saturation" json:"amount_saturation"`

	// GoldenHourHours is the window after the incident during which fund
	// recovery is still plausible.
	GoldenHourHours float64 `koanf:"golden_hour_hours" json:"golden_hour_hours"`

	// GoldenDecay controls how much the time sub-score drops across the
	// golden-hour window (100 at zero hours, 100-GoldenDecay at the edge).
	GoldenDecay float64 `koanf:"golden_decay" json:"golden_decay"`

	// TailStart, TailFactor and TailPeriodHours shape the exponential decay
	// past the golden hour: TailStart * TailFactor^(hoursOver/TailPeriodHours).
	TailStart       float64 `koanf:"tail_start" json:"tail_start"`
	TailFactor      float64 `koanf:"tail_factor" json:"tail_factor"`
	TailPeriodHours float64 `koanf:"tail_period_hours" json:"tail_period_hours"`

	// TimeFloor is the minimum time sub-score. Old cases keep at least this
	// much urgency instead of decaying to zero.
	TimeFloor float64 `koanf:"time_floor" json:"time_floor"`

	// VictimBaseline is the victim sub-score when no vulnerability flag
	// phrase matches the victim context.
	VictimBaseline float64 `koanf:"victim_baseline" json:"victim_baseline"`

	// VictimFlags are lower-case phrases that mark a vulnerable victim.
	VictimFlags []string `koanf:"victim_flags" json:"victim_flags"`

	Bands []Band `koanf:"bands" json:"bands"`

	// GoldenHourActions are operator recommendations attached to triage
	// results inside the golden hour.
	GoldenHourActions []string `koanf:"golden_hour_actions" json:"golden_hour_actions"`
}

// RoutingRule assigns a category to handling authorities.
type RoutingRule struct {
	CategoryID        string   `koanf:"category_id" json:"category_id"`
	PrimaryAssignee   string   `koanf:"primary_assignee" json:"primary_assignee"`
	SecondaryAssignee string   `koanf:"secondary_assignee" json:"secondary_assignee,omitempty"`
	Jurisdiction      string   `koanf:"jurisdiction" json:"jurisdiction"`
	EscalationPath    []string `koanf:"escalation_path" json:"escalation_path"`
	Note              string   `koanf:"note" json:"note,omitempty"`
}

// AmountThreshold annotates routing when the loss amount reaches Amount.
// Thresholds are additive: every threshold at or below the amount fires.
type AmountThreshold struct {
	Amount float64 `koanf:"amount" json:"amount"`
	Effect string  `koanf:"effect" json:"effect"`
}

// RoutingMatrix holds per-category rules and the amount thresholds.
type RoutingMatrix struct {
	Rules      []RoutingRule     `koanf:"rules" json:"rules"`
	Thresholds []AmountThreshold `koanf:"thresholds" json:"thresholds"`
}

// RuleFor returns the routing rule for a category id.
func (m *RoutingMatrix) RuleFor(categoryID string) (*RoutingRule, bool) {
	for i := range m.Rules {
		if m.Rules[i].CategoryID == categoryID {
			return &m.Rules[i], true
		}
	}
	return nil, false
}

// PolicyCondition is a data-driven predicate over a triaged case. Zero-value
// fields are don't-cares; pointer fields distinguish "unset" from "false"/"0".
type PolicyCondition struct {
	SeverityBand string   `koanf:"severity_band" json:"severity_band,omitempty"`
	CategoryID   string   `koanf:"category_id" json:"category_id,omitempty"`
	AmountGTE    *float64 `koanf:"amount_gte" json:"amount_gte,omitempty"`
	VictimFlag   *bool    `koanf:"victim_flag" json:"victim_flag,omitempty"`
	GoldenHour   *bool    `koanf:"golden_hour" json:"golden_hour,omitempty"`
}

// Policy is a stateless condition-action rule. Lower priority is reported
// first; declaration order breaks priority ties.
type Policy struct {
	ID        string          `koanf:"id" json:"id"`
	Name      string          `koanf:"name" json:"name"`
	Condition PolicyCondition `koanf:"condition" json:"condition"`
	Action    string          `koanf:"action" json:"action"`
	Priority  int             `koanf:"priority" json:"priority"`
}

// PolicySet is the ordered policy list. All policies are evaluated
// independently; any number may fire for one case.
type PolicySet struct {
	Policies []Policy `koanf:"policies" json:"policies"`
}

// Tables bundles every decision table the engine needs.
type Tables struct {
	Taxonomy Taxonomy       `koanf:"taxonomy" json:"taxonomy"`
	Severity SeverityConfig `koanf:"severity" json:"severity"`
	Routing  RoutingMatrix  `koanf:"routing" json:"routing"`
	Policies PolicySet      `koanf:"policies" json:"policies"`
}
