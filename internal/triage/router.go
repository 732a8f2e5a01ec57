package triage

// Routing is the outcome of the stateless routing lookup.
type Routing struct {
	CategoryID        string   `json:"category_id"`
	PrimaryAssignee   string   `json:"primary_assignee"`
	SecondaryAssignee string   `json:"secondary_assignee,omitempty"`
	Jurisdiction      string   `json:"jurisdiction"`
	EscalationPath    []string `json:"escalation_path,omitempty"`
	Note              string   `json:"note,omitempty"`
	AmountNotes       []string `json:"amount_notes,omitempty"`
}

// Route looks up the routing rule for a category (falling back to the
// reserved category's rule for unknown ids) and evaluates every amount
// threshold independently, in declared order. Thresholds are additive: each
// one the amount reaches contributes its effect to AmountNotes. Thresholds
// only annotate; assignment always comes from the category rule.
func (e *Engine) Route(categoryID, severityBand string, amount float64) Routing {
	_ = severityBand // reserved: severity does not influence assignment in this matrix

	m := &e.tables.Routing
	rule, ok := m.RuleFor(categoryID)
	if !ok {
		rule, _ = m.RuleFor(e.tables.Taxonomy.FallbackID)
		categoryID = e.tables.Taxonomy.FallbackID
	}

	var notes []string
	for _, th := range m.Thresholds {
		if amount >= th.Amount {
			notes = append(notes, th.Effect)
		}
	}

	return Routing{
		CategoryID:        categoryID,
		PrimaryAssignee:   rule.PrimaryAssignee,
		SecondaryAssignee: rule.SecondaryAssignee,
		Jurisdiction:      rule.Jurisdiction,
		EscalationPath:    append([]string(nil), rule.EscalationPath...),
		Note:              rule.Note,
		AmountNotes:       notes,
	}
}
