// Package caseapi exposes the case triage service over HTTP.
package caseapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/casetriage/internal/triage"
)

// CaseService defines the business operations caseapi needs.
type CaseService interface {
	Intake(ctx context.Context, req *triage.IntakeRequest) (*triage.IntakeResult, error)
	Triage(ctx context.Context, caseID string) (*triage.TriageResult, error)
	RouteCase(ctx context.Context, caseID string) (*triage.RoutingResult, error)
	ProposeNextAction(ctx context.Context, caseID string) (*triage.Recommendation, error)
	RequestHumanReview(ctx context.Context, caseID, reason, priority string) (*triage.ReviewRequest, error)
	Get(ctx context.Context, caseID string) (*triage.Case, error)
	UpdateCase(ctx context.Context, caseID string, status triage.Status, note string) (*triage.Case, error)
	List(ctx context.Context, status triage.Status, limit int) ([]triage.CaseSummary, error)
	GetStatistics(ctx context.Context) (*triage.Statistics, error)

	Classify(text string) triage.Classification
	ScoreSeverity(amount, hoursSince float64, typeRisk int, victimContext string) triage.Severity
	Route(categoryID, severityBand string, amount float64) triage.Routing
	GetRoutingRules(categoryID string) (*triage.RoutingRules, error)
	ListCategories() []triage.CategorySummary
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    CaseService
}

// New creates a new API handler.
func New(logger log.Logger, svc CaseService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("case service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		// case lifecycle
		r.Post("/cases", a.handleIntake)
		r.Get("/cases", a.handleListCases)
		r.Get("/cases/{id}", a.handleGetCase)
		r.Patch("/cases/{id}", a.handleUpdateCase)
		r.Post("/cases/{id}/triage", a.handleTriageCase)
		r.Post("/cases/{id}/route", a.handleRouteCase)
		r.Post("/cases/{id}/review", a.handleRequestReview)
		r.Get("/cases/{id}/next-action", a.handleNextAction)
		r.Get("/stats", a.handleStatistics)

		// stateless decision endpoints
		r.Post("/classify", a.handleClassify)
		r.Post("/severity", a.handleSeverity)
		r.Post("/route", a.handleRoute)
		r.Get("/rules/routing", a.handleRoutingRules)
		r.Get("/rules/categories", a.handleCategories)
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service's typed errors onto HTTP statuses.
// Anything unexpected is logged and hidden behind a 500.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var (
		notFound   *triage.NotFoundError
		validation *triage.ValidationError
		state      *triage.StateError
	)
	switch {
	case errors.As(err, &notFound):
		a.writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		a.writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &state):
		a.writeError(w, http.StatusConflict, state.Error())
	default:
		a.logger.Error(r.Context(), err, msg)
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
