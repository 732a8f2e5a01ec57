package triage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linnemanlabs/casetriage/internal/rules"
)

const minComplaintLen = 10

// Notifier receives case events worth pushing to operators. Implementations
// must be safe for concurrent use.
type Notifier interface {
	CaseRouted(ctx context.Context, c *Case) error
	ReviewRequested(ctx context.Context, c *Case, req *ReviewRequest) error
}

// Service is the business boundary for case operations: it owns the case
// lifecycle and orchestrates the pure engine against the store. Every
// mutation is all-or-nothing - an operation that fails leaves the stored
// case exactly as it found it.
type Service struct {
	store    Store
	engine   *Engine
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
}

// NewService creates a new case service. logger may be nil (Nop), metrics
// may be nil (unregistered throwaway registry), notifier may be nil
// (notifications disabled).
func NewService(store Store, engine *Engine, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if store == nil {
		panic(xerrors.New("case store is required"))
	}
	if engine == nil {
		panic(xerrors.New("triage engine is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
	}
}

// IntakeRequest is the payload for registering a new complaint.
type IntakeRequest struct {
	ComplaintText string  `json:"complaint_text"`
	Amount        float64 `json:"amount"`
	HoursSince    float64 `json:"hours_since"`
	VictimContext string  `json:"victim_context"`
	Channel       string  `json:"channel"`
}

// IntakeResult is returned when a complaint is registered.
type IntakeResult struct {
	CaseID            string         `json:"case_id"`
	Status            Status         `json:"status"`
	Category          Classification `json:"preliminary_category"`
	EvidenceChecklist []string       `json:"evidence_checklist"`
	ReceivedAt        time.Time      `json:"received_at"`
}

// Intake registers a new complaint: validates the payload, runs the
// preliminary classification, allocates a case id and persists the case in
// INTAKE_COMPLETE.
func (s *Service) Intake(ctx context.Context, req *IntakeRequest) (*IntakeResult, error) {
	if len(strings.TrimSpace(req.ComplaintText)) < minComplaintLen {
		return nil, &ValidationError{Field: "complaint_text", Reason: "required, minimum 10 characters"}
	}
	amount := req.Amount
	if amount < 0 {
		amount = 0
	}
	hours := req.HoursSince
	if hours < 0 {
		hours = 0
	}

	cl := s.engine.Classify(req.ComplaintText)
	now := time.Now().UTC()

	c := &Case{
		ID: ulid.Make().String(),
		Intake: Intake{
			ComplaintText:   req.ComplaintText,
			Amount:          amount,
			HoursSince:      hours,
			VictimContext:   req.VictimContext,
			Channel:         req.Channel,
			CategoryID:      cl.CategoryID,
			CategoryName:    cl.CategoryName,
			MatchedKeywords: cl.MatchedKeywords,
			ReceivedAt:      now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.SetStatus(StatusIntakeComplete, SourcePipeline, now)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.IntakesTotal.WithLabelValues(channelLabel(req.Channel), cl.CategoryID).Inc()
	s.logger.Info(ctx, "case intake complete",
		"case_id", c.ID,
		"category", cl.CategoryID,
		"amount", amount,
		"channel", req.Channel,
	)

	return &IntakeResult{
		CaseID:            c.ID,
		Status:            c.Status,
		Category:          cl,
		EvidenceChecklist: s.engine.EvidenceChecklist(cl.CategoryID),
		ReceivedAt:        now,
	}, nil
}

// Triage scores the stored case and advances it to TRIAGE_COMPLETE. The case
// must be in INTAKE_COMPLETE.
func (s *Service) Triage(ctx context.Context, caseID string) (*TriageResult, error) {
	updated, ok, err := s.store.Update(ctx, caseID, func(c *Case) error {
		if c.Status != StatusIntakeComplete {
			return &StateError{CaseID: caseID, Status: c.Status, Op: "triage"}
		}

		cl := s.engine.Classify(c.Intake.ComplaintText)
		sev := s.engine.ScoreSeverity(c.Intake.Amount, c.Intake.HoursSince, cl.RiskScore, c.Intake.VictimContext)

		now := time.Now().UTC()
		tr := &TriageResult{
			CategoryID:          cl.CategoryID,
			CategoryName:        cl.CategoryName,
			MatchedKeywords:     cl.MatchedKeywords,
			UrgencyScore:        sev.UrgencyScore,
			SeverityBand:        sev.SeverityBand,
			SeverityDescription: sev.SeverityDescription,
			SLAHours:            sev.SLAHours,
			GoldenHour:          sev.GoldenHour,
			VictimFlagPresent:   sev.VictimFlagPresent,
			VictimFlags:         sev.VictimFlags,
			Trace:               sev.Trace,
			TriagedAt:           now,
		}
		if sev.GoldenHour {
			tr.GoldenHourActions = append([]string(nil), s.engine.Tables().Severity.GoldenHourActions...)
		}

		c.Triage = tr
		c.SetStatus(StatusTriageComplete, SourcePipeline, now)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}

	tr := updated.Triage
	s.metrics.TriagesTotal.WithLabelValues(tr.SeverityBand).Inc()
	s.metrics.UrgencyScore.Observe(float64(tr.UrgencyScore))
	if tr.GoldenHour {
		s.metrics.GoldenHourTotal.Inc()
	}
	s.logger.Info(ctx, "case triaged",
		"case_id", caseID,
		"category", tr.CategoryID,
		"urgency", tr.UrgencyScore,
		"band", tr.SeverityBand,
		"golden_hour", tr.GoldenHour,
	)
	return tr, nil
}

// RouteCase routes a triaged case, evaluates the policy set as the last step
// and advances the case to ROUTED. The case must be in TRIAGE_COMPLETE.
func (s *Service) RouteCase(ctx context.Context, caseID string) (*RoutingResult, error) {
	updated, ok, err := s.store.Update(ctx, caseID, func(c *Case) error {
		if c.Status != StatusTriageComplete {
			return &StateError{CaseID: caseID, Status: c.Status, Op: "route"}
		}

		rt := s.engine.Route(c.Triage.CategoryID, c.Triage.SeverityBand, c.Intake.Amount)
		actions := s.engine.EvaluatePolicies(c)

		now := time.Now().UTC()
		rr := &RoutingResult{
			PrimaryAssignee:   rt.PrimaryAssignee,
			SecondaryAssignee: rt.SecondaryAssignee,
			Jurisdiction:      rt.Jurisdiction,
			EscalationPath:    rt.EscalationPath,
			AmountNotes:       rt.AmountNotes,
			PolicyActions:     actions,
			RoutedAt:          now,
		}
		c.Routing = rr

		if rt.Note != "" {
			c.AppendNote(rt.Note, now)
		}
		for _, note := range rt.AmountNotes {
			c.AppendNote(note, now)
		}
		for _, a := range actions {
			c.AppendNote(a.Name+": "+a.Action, now)
		}

		c.SetStatus(StatusRouted, SourcePipeline, now)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}

	rr := updated.Routing
	s.metrics.RoutesTotal.WithLabelValues(rr.PrimaryAssignee).Inc()
	for _, a := range rr.PolicyActions {
		s.metrics.PolicyTriggersTotal.WithLabelValues(a.PolicyID).Inc()
	}
	s.logger.Info(ctx, "case routed",
		"case_id", caseID,
		"assignee", rr.PrimaryAssignee,
		"jurisdiction", rr.Jurisdiction,
		"policies", len(rr.PolicyActions),
	)

	if s.notifier != nil && updated.Triage.SeverityBand == "CRITICAL" {
		go s.notifyRouted(context.WithoutCancel(ctx), updated)
	}
	return rr, nil
}

// ProposeNextAction estimates the confidence that the automated decision can
// stand and recommends the next step.
func (s *Service) ProposeNextAction(ctx context.Context, caseID string) (*Recommendation, error) {
	c, ok, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}

	rec := s.engine.ProposeNextAction(c)
	s.metrics.ConfidenceScore.Observe(float64(rec.Confidence))
	return &rec, nil
}

// Review priorities accepted by RequestHumanReview.
var reviewPriorities = map[string]bool{
	"low": true, "normal": true, "high": true, "urgent": true,
}

// RequestHumanReview opens a review ticket for a case and records it on the
// record. Priority defaults to "normal".
func (s *Service) RequestHumanReview(ctx context.Context, caseID, reason, priority string) (*ReviewRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "required"}
	}
	if priority == "" {
		priority = "normal"
	}
	if !reviewPriorities[priority] {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of low, normal, high, urgent"}
	}

	var req ReviewRequest
	updated, ok, err := s.store.Update(ctx, caseID, func(c *Case) error {
		now := time.Now().UTC()

		band := ""
		if c.Triage != nil {
			band = c.Triage.SeverityBand
		}
		queue, estHours := reviewQueue(priority, band)

		req = ReviewRequest{
			ID:             uuid.NewString(),
			Reason:         reason,
			Priority:       priority,
			Queue:          queue,
			EstimatedHours: estHours,
			RequestedAt:    now,
		}
		c.ReviewRequests = append(c.ReviewRequests, req)
		c.AppendNote("manual review requested: "+reason, now)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}

	s.metrics.ReviewRequestsTotal.WithLabelValues(req.Queue).Inc()
	s.logger.Info(ctx, "human review requested",
		"case_id", caseID,
		"ticket_id", req.ID,
		"queue", req.Queue,
		"priority", priority,
	)

	if s.notifier != nil {
		go s.notifyReview(context.WithoutCancel(ctx), updated, &req)
	}
	return &req, nil
}

// reviewQueue maps ticket priority and case severity to a review queue and
// an estimated turnaround.
func reviewQueue(priority, severityBand string) (string, int) {
	switch {
	case priority == "urgent" || severityBand == "CRITICAL":
		return "urgent_review_queue", 2
	case priority == "high" || severityBand == "HIGH":
		return "high_priority_review_queue", 8
	default:
		return "standard_review_queue", 24
	}
}

// Get returns a copy of the case.
func (s *Service) Get(ctx context.Context, caseID string) (*Case, error) {
	c, ok, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}
	return c, nil
}

// UpdateCase applies an administrative update: an optional note and an
// optional status override. Overrides are recorded in the audit trail as
// such and never erase stored triage or routing payloads.
func (s *Service) UpdateCase(ctx context.Context, caseID string, status Status, note string) (*Case, error) {
	if status != "" && !ValidStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}

	overridden := false
	updated, ok, err := s.store.Update(ctx, caseID, func(c *Case) error {
		now := time.Now().UTC()
		if note != "" {
			c.AppendNote(note, now)
		}
		if status != "" && status != c.Status {
			c.SetStatus(status, SourceOverride, now)
			overridden = true
		}
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{CaseID: caseID}
	}

	if overridden {
		s.metrics.OverridesTotal.Inc()
		s.logger.Warn(ctx, "case status overridden", "case_id", caseID, "status", updated.Status)
	}
	return updated, nil
}

// CaseSummary is the listing view of a case.
type CaseSummary struct {
	CaseID       string    `json:"case_id"`
	Status       Status    `json:"status"`
	Category     string    `json:"category"`
	Amount       float64   `json:"amount"`
	SeverityBand string    `json:"severity_band,omitempty"`
	UrgencyScore int       `json:"urgency_score,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// List returns case summaries, newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status, limit int) ([]CaseSummary, error) {
	if status != "" && !ValidStatus(status) {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}

	cases, err := s.store.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}

	out := make([]CaseSummary, 0, len(cases))
	for _, c := range cases {
		sum := CaseSummary{
			CaseID:    c.ID,
			Status:    c.Status,
			Category:  c.Intake.CategoryName,
			Amount:    c.Intake.Amount,
			CreatedAt: c.CreatedAt,
		}
		if c.Triage != nil {
			sum.SeverityBand = c.Triage.SeverityBand
			sum.UrgencyScore = c.Triage.UrgencyScore
		}
		out = append(out, sum)
	}
	return out, nil
}

// Statistics aggregates the case population.
type Statistics struct {
	TotalCases      int            `json:"total_cases"`
	ByStatus        map[string]int `json:"status_distribution"`
	BySeverity      map[string]int `json:"severity_distribution"`
	ByCategory      map[string]int `json:"category_distribution"`
	TotalAmount     float64        `json:"total_amount_reported"`
	GoldenHourCases int            `json:"golden_hour_cases"`
}

// GetStatistics computes distribution counts over all stored cases.
func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	cases, err := s.store.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalCases: len(cases),
		ByStatus:   make(map[string]int),
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, c := range cases {
		stats.ByStatus[string(c.Status)]++
		stats.ByCategory[c.Intake.CategoryID]++
		stats.TotalAmount += c.Intake.Amount
		if c.Triage != nil {
			stats.BySeverity[c.Triage.SeverityBand]++
			if c.Triage.GoldenHour {
				stats.GoldenHourCases++
			}
		}
	}
	return stats, nil
}

// Classify runs the stateless classifier.
func (s *Service) Classify(text string) Classification {
	return s.engine.Classify(text)
}

// ScoreSeverity runs the stateless severity scorer.
func (s *Service) ScoreSeverity(amount, hoursSince float64, typeRisk int, victimContext string) Severity {
	return s.engine.ScoreSeverity(amount, hoursSince, typeRisk, victimContext)
}

// Route runs the stateless routing lookup.
func (s *Service) Route(categoryID, severityBand string, amount float64) Routing {
	return s.engine.Route(categoryID, severityBand, amount)
}

// RoutingRules is the raw routing configuration view.
type RoutingRules struct {
	Rules      []rules.RoutingRule     `json:"rules"`
	Thresholds []rules.AmountThreshold `json:"amount_thresholds"`
}

// GetRoutingRules returns the raw routing configuration, optionally narrowed
// to one category.
func (s *Service) GetRoutingRules(categoryID string) (*RoutingRules, error) {
	m := &s.engine.Tables().Routing
	if categoryID == "" {
		return &RoutingRules{
			Rules:      append([]rules.RoutingRule(nil), m.Rules...),
			Thresholds: append([]rules.AmountThreshold(nil), m.Thresholds...),
		}, nil
	}
	rule, ok := m.RuleFor(categoryID)
	if !ok {
		return nil, &ValidationError{Field: "category_id", Reason: "unknown category " + categoryID}
	}
	return &RoutingRules{
		Rules:      []rules.RoutingRule{*rule},
		Thresholds: append([]rules.AmountThreshold(nil), m.Thresholds...),
	}, nil
}

// CategorySummary is the taxonomy listing view.
type CategorySummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RiskScore    int    `json:"risk_score"`
	KeywordCount int    `json:"keyword_count"`
}

// ListCategories returns a summary of every configured category.
func (s *Service) ListCategories() []CategorySummary {
	cats := s.engine.Tables().Taxonomy.Categories
	out := make([]CategorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategorySummary{
			ID:           c.ID,
			Name:         c.Name,
			RiskScore:    c.RiskScore,
			KeywordCount: len(c.Keywords),
		})
	}
	return out
}

func (s *Service) notifyRouted(ctx context.Context, c *Case) {
	if err := s.notifier.CaseRouted(ctx, c); err != nil {
		s.logger.Error(ctx, err, "case-routed notification failed", "case_id", c.ID)
	}
}

func (s *Service) notifyReview(ctx context.Context, c *Case, req *ReviewRequest) {
	if err := s.notifier.ReviewRequested(ctx, c, req); err != nil {
		s.logger.Error(ctx, err, "review-requested notification failed", "case_id", c.ID)
	}
}

func channelLabel(channel string) string {
	if channel == "" {
		return "unknown"
	}
	return channel
}
