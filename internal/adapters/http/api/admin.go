// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// AdminHandler handles maintenance requests.
type AdminHandler struct {
	deps AdminDependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type repairRequest struct {
	EmployerID string `json:"employerId"`
}

type repairResponse struct {
	Repaired int `json:"repaired"`
}

// HandleRepairOrphans handles POST /admin/repair-orphans requests. The
// caller names the employer adopting the ownerless jobs.
func (h *AdminHandler) HandleRepairOrphans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req repairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.EmployerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing employerId"))
		return
	}
	repaired, err := h.deps.RepairOrphans(r.Context(), req.EmployerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairResponse{Repaired: repaired})
}

type migrateResponse struct {
	JobsRewritten    int  `json:"jobsRewritten"`
	ProfileRewritten bool `json:"profileRewritten"`
}

// HandleMigrateIdentities handles POST /admin/migrate-identities
// requests. The migration is idempotent, so retrying is safe.
func (h *AdminHandler) HandleMigrateIdentities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.MigrateIdentities(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, migrateResponse{
		JobsRewritten:    summary.JobsRewritten,
		ProfileRewritten: summary.ProfileRewritten,
	})
}
