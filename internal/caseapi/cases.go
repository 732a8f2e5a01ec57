package caseapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/casetriage/internal/triage"
)

func (a *API) handleIntake(w http.ResponseWriter, r *http.Request) {
	var req triage.IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := a.svc.Intake(r.Context(), &req)
	if err != nil {
		a.writeServiceError(w, r, err, "case intake failed")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("casetriage.case.id", result.CaseID),
		attribute.String("casetriage.case.category", result.Category.CategoryID),
	)

	a.writeJSON(w, http.StatusCreated, result)
}

func (a *API) handleGetCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	c, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "failed to get case")
		return
	}

	span.SetAttributes(attribute.String("casetriage.case.status", string(c.Status)))
	a.writeJSON(w, http.StatusOK, c)
}

func (a *API) handleTriageCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	result, err := a.svc.Triage(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "case triage failed")
		return
	}

	span.SetAttributes(
		attribute.String("casetriage.case.band", result.SeverityBand),
		attribute.Int("casetriage.case.urgency", result.UrgencyScore),
	)
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) handleRouteCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	result, err := a.svc.RouteCase(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "case routing failed")
		return
	}

	span.SetAttributes(attribute.String("casetriage.case.assignee", result.PrimaryAssignee))
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) handleNextAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	rec, err := a.svc.ProposeNextAction(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "next-action recommendation failed")
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

type reviewRequestPayload struct {
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

func (a *API) handleRequestReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reviewRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	ticket, err := a.svc.RequestHumanReview(r.Context(), id, req.Reason, req.Priority)
	if err != nil {
		a.writeServiceError(w, r, err, "review request failed")
		return
	}
	a.writeJSON(w, http.StatusCreated, ticket)
}

type updateCasePayload struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (a *API) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCasePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Status == "" && req.Note == "" {
		a.writeError(w, http.StatusBadRequest, "nothing to update: provide status and/or note")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("casetriage.case.id", id))

	c, err := a.svc.UpdateCase(r.Context(), id, triage.Status(req.Status), req.Note)
	if err != nil {
		a.writeServiceError(w, r, err, "case update failed")
		return
	}
	a.writeJSON(w, http.StatusOK, c)
}

func (a *API) handleListCases(w http.ResponseWriter, r *http.Request) {
	status := triage.Status(r.URL.Query().Get("status"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	cases, err := a.svc.List(r.Context(), status, limit)
	if err != nil {
		a.writeServiceError(w, r, err, "case listing failed")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{
		"cases": cases,
		"count": len(cases),
	})
}

func (a *API) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.GetStatistics(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err, "statistics failed")
		return
	}
	a.writeJSON(w, http.StatusOK, stats)
}
