package triage

import "fmt"

// Confidence deductions. Each weak signal subtracts a fixed amount from a
// starting confidence of 100; deductions only accumulate, so adding a weak
// signal can never raise confidence.
const (
	penaltyFallbackCategory = 40
	penaltyLowUrgency       = 15
	penaltyNoAmount         = 25
	penaltyNoVictimContext  = 10

	lowUrgencyThreshold = 30
	reviewThreshold     = 60
)

// Recommendation actions.
const (
	ActionTriage      = "triage_case"
	ActionRoute       = "route_case"
	ActionHumanReview = "request_human_review"
	ActionAutomated   = "proceed_automated"
)

// Recommendation is the confidence estimate for a case and the suggested
// next step.
type Recommendation struct {
	Confidence        int      `json:"confidence"`
	NeedsHumanReview  bool     `json:"needs_human_review"`
	SuggestedQueue    string   `json:"suggested_queue"`
	RecommendedAction string   `json:"recommended_action"`
	Reasons           []string `json:"reasons"`
}

// ProposeNextAction estimates how safe it is to let the automated pipeline's
// decision stand. It is a pure function of the case snapshot: confidence
// starts at 100 and accumulates fixed deductions for each weak signal, with
// reasons listed in evaluation order. Review is recommended below the fixed
// threshold.
func (e *Engine) ProposeNextAction(c *Case) Recommendation {
	confidence := 100
	var reasons []string

	categoryID := c.Intake.CategoryID
	if c.Triage != nil {
		categoryID = c.Triage.CategoryID
	}

	if categoryID == e.tables.Taxonomy.FallbackID {
		confidence -= penaltyFallbackCategory
		reasons = append(reasons, "category is the fallback - unclear fraud type")
	}
	if c.Triage != nil && c.Triage.UrgencyScore < lowUrgencyThreshold {
		confidence -= penaltyLowUrgency
		reasons = append(reasons, fmt.Sprintf("urgency score %d below threshold %d", c.Triage.UrgencyScore, lowUrgencyThreshold))
	}
	if c.Intake.Amount <= 0 {
		confidence -= penaltyNoAmount
		reasons = append(reasons, "no loss amount specified - financial impact unclear")
	}
	if c.Intake.VictimContext == "" {
		confidence -= penaltyNoVictimContext
		reasons = append(reasons, "no victim context provided")
	}
	if confidence < 0 {
		confidence = 0
	}

	needsReview := confidence < reviewThreshold

	queue := "automated"
	if needsReview {
		queue = "manual_review"
	}

	var action string
	switch {
	case c.Triage == nil:
		action = ActionTriage
	case c.Routing == nil:
		action = ActionRoute
	case needsReview:
		action = ActionHumanReview
	default:
		action = ActionAutomated
	}

	return Recommendation{
		Confidence:        confidence,
		NeedsHumanReview:  needsReview,
		SuggestedQueue:    queue,
		RecommendedAction: action,
		Reasons:           reasons,
	}
}
