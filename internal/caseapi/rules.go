package caseapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// The stateless endpoints run the decision components directly, without
// touching the case store. They serve dry-runs and rule inspection.

type classifyPayload struct {
	ComplaintText string `json:"complaint_text"`
}

func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.ComplaintText) == "" {
		a.writeError(w, http.StatusBadRequest, "complaint_text is required")
		return
	}
	a.writeJSON(w, http.StatusOK, a.svc.Classify(req.ComplaintText))
}

type severityPayload struct {
	Amount        float64 `json:"amount"`
	HoursSince    float64 `json:"hours_since"`
	TypeRisk      int     `json:"type_risk"`
	VictimContext string  `json:"victim_context"`
}

func (a *API) handleSeverity(w http.ResponseWriter, r *http.Request) {
	var req severityPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	a.writeJSON(w, http.StatusOK, a.svc.ScoreSeverity(req.Amount, req.HoursSince, req.TypeRisk, req.VictimContext))
}

type routePayload struct {
	CategoryID   string  `json:"category_id"`
	SeverityBand string  `json:"severity_band"`
	Amount       float64 `json:"amount"`
}

func (a *API) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CategoryID == "" {
		a.writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}
	a.writeJSON(w, http.StatusOK, a.svc.Route(req.CategoryID, req.SeverityBand, req.Amount))
}

func (a *API) handleRoutingRules(w http.ResponseWriter, r *http.Request) {
	rules, err := a.svc.GetRoutingRules(r.URL.Query().Get("category_id"))
	if err != nil {
		a.writeServiceError(w, r, err, "routing rules lookup failed")
		return
	}
	a.writeJSON(w, http.StatusOK, rules)
}

func (a *API) handleCategories(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"categories": a.svc.ListCategories(),
	})
}
