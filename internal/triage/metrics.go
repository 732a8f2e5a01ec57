package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage pipeline.
type Metrics struct {
	IntakesTotal        *prometheus.CounterVec
	TriagesTotal        *prometheus.CounterVec
	RoutesTotal         *prometheus.CounterVec
	PolicyTriggersTotal *prometheus.CounterVec
	ReviewRequestsTotal *prometheus.CounterVec
	OverridesTotal      prometheus.Counter
	GoldenHourTotal     prometheus.Counter
	UrgencyScore        prometheus.Histogram
	ConfidenceScore     prometheus.Histogram
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IntakesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casetriage_intakes_total",
			Help: "Total complaint intakes by channel and preliminary category.",
		}, []string{"channel", "category"}),
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casetriage_triages_total",
			Help: "Total triage runs by severity band.",
		}, []string{"band"}),
		RoutesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casetriage_routes_total",
			Help: "Total routing decisions by primary assignee.",
		}, []string{"assignee"}),
		PolicyTriggersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casetriage_policy_triggers_total",
			Help: "Total policy actions triggered, by policy id.",
		}, []string{"policy"}),
		ReviewRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casetriage_review_requests_total",
			Help: "Total human review requests by queue.",
		}, []string{"queue"}),
		OverridesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casetriage_status_overrides_total",
			Help: "Total administrative status overrides.",
		}),
		GoldenHourTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casetriage_golden_hour_cases_total",
			Help: "Total triaged cases inside the golden-hour window.",
		}),
		UrgencyScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "casetriage_urgency_score",
			Help:    "Urgency scores assigned at triage.",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 .. 100
		}),
		ConfidenceScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "casetriage_confidence_score",
			Help:    "Confidence scores from next-action proposals.",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 .. 100
		}),
	}

	reg.MustRegister(
		m.IntakesTotal,
		m.TriagesTotal,
		m.RoutesTotal,
		m.PolicyTriggersTotal,
		m.ReviewRequestsTotal,
		m.OverridesTotal,
		m.GoldenHourTotal,
		m.UrgencyScore,
		m.ConfidenceScore,
	)

	return m
}
