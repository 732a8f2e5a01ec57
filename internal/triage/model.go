package triage

import "time"

// Status tracks where a case is in the intake -> triage -> route pipeline.
type Status string

const (
	// StatusIntakeComplete means the complaint is registered and classified.
	StatusIntakeComplete Status = "INTAKE_COMPLETE"

	// StatusTriageComplete means urgency, severity and SLA are assigned.
	StatusTriageComplete Status = "TRIAGE_COMPLETE"

	// StatusRouted means assignment, jurisdiction and policy actions are set.
	StatusRouted Status = "ROUTED"
)

// ValidStatus reports whether s is a known case status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusIntakeComplete, StatusTriageComplete, StatusRouted:
		return true
	}
	return false
}

// TransitionSource distinguishes pipeline-driven status changes from
// administrative overrides in the audit trail.
type TransitionSource string

const (
	SourcePipeline TransitionSource = "pipeline"
	SourceOverride TransitionSource = "override"
)

// Transition is one entry in a case's status audit trail.
type Transition struct {
	From   Status           `json:"from"`
	To     Status           `json:"to"`
	Source TransitionSource `json:"source"`
	At     time.Time        `json:"at"`
}

// Intake is the complaint payload captured when a case is created.
type Intake struct {
	ComplaintText string  `json:"complaint_text"`
	Amount        float64 `json:"amount"`
	HoursSince    float64 `json:"hours_since"`
	VictimContext string  `json:"victim_context,omitempty"`
	Channel       string  `json:"channel,omitempty"`

	// Preliminary classification recorded at intake time.
	CategoryID      string   `json:"category_id"`
	CategoryName    string   `json:"category_name"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`

	ReceivedAt time.Time `json:"received_at"`
}

// ScoreTrace records the sub-scores behind an urgency score for audit.
type ScoreTrace struct {
	AmountScore float64 `json:"amount_score"`
	TimeScore   float64 `json:"time_score"`
	TypeScore   float64 `json:"type_score"`
	VictimScore float64 `json:"victim_score"`
	Raw         float64 `json:"raw"`
}

// TriageResult is the outcome of scoring a case.
type TriageResult struct {
	CategoryID      string   `json:"category_id"`
	CategoryName    string   `json:"category_name"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`

	UrgencyScore        int    `json:"urgency_score"`
	SeverityBand        string `json:"severity_band"`
	SeverityDescription string `json:"severity_description,omitempty"`
	SLAHours            int    `json:"sla_hours"`

	GoldenHour        bool     `json:"golden_hour"`
	GoldenHourActions []string `json:"golden_hour_actions,omitempty"`

	VictimFlagPresent bool     `json:"victim_flag_present"`
	VictimFlags       []string `json:"victim_flags,omitempty"`

	Trace     ScoreTrace `json:"trace"`
	TriagedAt time.Time  `json:"triaged_at"`
}

// PolicyAction is one triggered policy, reported in priority order.
type PolicyAction struct {
	PolicyID string `json:"policy_id"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Priority int    `json:"priority"`
}

// RoutingResult is the outcome of routing a triaged case.
type RoutingResult struct {
	PrimaryAssignee   string   `json:"primary_assignee"`
	SecondaryAssignee string   `json:"secondary_assignee,omitempty"`
	Jurisdiction      string   `json:"jurisdiction"`
	EscalationPath    []string `json:"escalation_path,omitempty"`
	AmountNotes       []string `json:"amount_notes,omitempty"`

	PolicyActions []PolicyAction `json:"policy_actions,omitempty"`

	RoutedAt time.Time `json:"routed_at"`
}

// Note is a free-form annotation appended to a case.
type Note struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ReviewRequest is a ticket asking a human to review a case.
type ReviewRequest struct {
	ID             string    `json:"id"`
	Reason         string    `json:"reason"`
	Priority       string    `json:"priority"`
	Queue          string    `json:"queue"`
	EstimatedHours int       `json:"estimated_hours"`
	RequestedAt    time.Time `json:"requested_at"`
}

// Case is the full record owned by the Store. Components outside the store
// only ever see copies.
type Case struct {
	ID     string `json:"id"`
	Status Status `json:"status"`

	Intake  Intake         `json:"intake"`
	Triage  *TriageResult  `json:"triage,omitempty"`
	Routing *RoutingResult `json:"routing,omitempty"`

	Notes          []Note          `json:"notes,omitempty"`
	Transitions    []Transition    `json:"transitions,omitempty"`
	ReviewRequests []ReviewRequest `json:"review_requests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate a stored record in place.
func (c *Case) Clone() *Case {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Intake.MatchedKeywords = cloneStrings(c.Intake.MatchedKeywords)
	if c.Triage != nil {
		tr := *c.Triage
		tr.MatchedKeywords = cloneStrings(c.Triage.MatchedKeywords)
		tr.GoldenHourActions = cloneStrings(c.Triage.GoldenHourActions)
		tr.VictimFlags = cloneStrings(c.Triage.VictimFlags)
		cp.Triage = &tr
	}
	if c.Routing != nil {
		rt := *c.Routing
		rt.EscalationPath = cloneStrings(c.Routing.EscalationPath)
		rt.AmountNotes = cloneStrings(c.Routing.AmountNotes)
		rt.PolicyActions = append([]PolicyAction(nil), c.Routing.PolicyActions...)
		cp.Routing = &rt
	}
	cp.Notes = append([]Note(nil), c.Notes...)
	cp.Transitions = append([]Transition(nil), c.Transitions...)
	cp.ReviewRequests = append([]ReviewRequest(nil), c.ReviewRequests...)
	return &cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// AppendNote adds a timestamped note.
func (c *Case) AppendNote(text string, at time.Time) {
	c.Notes = append(c.Notes, Note{Text: text, At: at})
}

// SetStatus records a status change with its source in the audit trail.
// Earlier-stage payloads are never cleared, so a backward override keeps the
// stored triage/routing results for audit.
func (c *Case) SetStatus(to Status, source TransitionSource, at time.Time) {
	if c.Status == to {
		return
	}
	c.Transitions = append(c.Transitions, Transition{
		From:   c.Status,
		To:     to,
		Source: source,
		At:     at,
	})
	c.Status = to
}
