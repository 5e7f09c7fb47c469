// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gighive/gighive/internal/domain/model"
)

// MatchingHandler handles eligibility queries.
type MatchingHandler struct {
	deps MatchingDependencies
}

// NewMatchingHandler creates a new matching handler.
func NewMatchingHandler(deps MatchingDependencies) *MatchingHandler {
	return &MatchingHandler{deps: deps}
}

type eligibleRequest struct {
	UserID       string   `json:"userId"`
	Categories   []string `json:"categories"`
	SelectedTags []string `json:"selectedTags"`
	HomeLat      *float64 `json:"homeLat,omitempty"`
	HomeLon      *float64 `json:"homeLon,omitempty"`
	RadiusKm     float64  `json:"radiusKm"`
}

func (e eligibleRequest) validate() error {
	switch {
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing userId")
	case len(e.Categories) == 0:
		return errors.New("missing categories")
	case e.RadiusKm < 0:
		return errors.New("radiusKm must not be negative")
	}
	return nil
}

// HandleEligibleJobs handles POST /matching/eligible requests. The body
// is the worker profile to match against all open jobs.
func (h *MatchingHandler) HandleEligibleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eligibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	jobs, err := h.deps.EligibleJobs(r.Context(), model.WorkerProfile{
		UserID:       req.UserID,
		Categories:   req.Categories,
		SelectedTags: req.SelectedTags,
		HomeLat:      req.HomeLat,
		HomeLon:      req.HomeLon,
		RadiusKm:     req.RadiusKm,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}
