package triage

import (
	"sort"

	"github.com/linnemanlabs/casetriage/internal/rules"
)

// EvaluatePolicies runs every policy predicate independently against the
// case snapshot and returns the triggered actions sorted by ascending
// priority, ties broken by declaration order. Policies never mutate the case;
// a predicate that needs triage data on an untriaged case simply does not
// match. Running it twice on an unchanged case yields the same list.
func (e *Engine) EvaluatePolicies(c *Case) []PolicyAction {
	var triggered []PolicyAction
	for _, p := range e.tables.Policies.Policies {
		if policyMatches(&p.Condition, c) {
			triggered = append(triggered, PolicyAction{
				PolicyID: p.ID,
				Name:     p.Name,
				Action:   p.Action,
				Priority: p.Priority,
			})
		}
	}
	sort.SliceStable(triggered, func(i, j int) bool {
		return triggered[i].Priority < triggered[j].Priority
	})
	return triggered
}

func policyMatches(cond *rules.PolicyCondition, c *Case) bool {
	if cond.SeverityBand != "" {
		if c.Triage == nil || c.Triage.SeverityBand != cond.SeverityBand {
			return false
		}
	}
	if cond.CategoryID != "" {
		if c.Triage == nil || c.Triage.CategoryID != cond.CategoryID {
			return false
		}
	}
	if cond.AmountGTE != nil && c.Intake.Amount < *cond.AmountGTE {
		return false
	}
	if cond.VictimFlag != nil {
		if c.Triage == nil || c.Triage.VictimFlagPresent != *cond.VictimFlag {
			return false
		}
	}
	if cond.GoldenHour != nil {
		if c.Triage == nil || c.Triage.GoldenHour != *cond.GoldenHour {
			return false
		}
	}
	return true
}
