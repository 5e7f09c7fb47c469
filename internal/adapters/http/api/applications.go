// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gighive/gighive/internal/domain/model"
)

// ApplicationsHandler handles application queries and state changes.
type ApplicationsHandler struct {
	deps ApplicationDependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps ApplicationDependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

// HandleApplications handles GET /applications?worker=<id> and
// GET /applications?employer=<id>.
func (h *ApplicationsHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query()
	var (
		apps []model.JobApplication
		err  error
	)
	switch {
	case query.Get("worker") != "":
		apps, err = h.deps.ApplicationsForWorker(r.Context(), query.Get("worker"))
	case query.Get("employer") != "":
		apps, err = h.deps.ApplicationsForEmployer(r.Context(), query.Get("employer"))
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("either worker or employer query parameter is required"))
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type statusRequest struct {
	Status string `json:"status"`
}

type legalRequest struct {
	Party     string `json:"party"`
	Confirmed bool   `json:"confirmed"`
}

func (l legalRequest) validate() error {
	if l.Party != "employer" && l.Party != "worker" {
		return errors.New("party must be employer or worker")
	}
	return nil
}

// HandleApplication handles requests under /applications/{id}:
//
//	POST /applications/{id}/status
//	POST /applications/{id}/legal
//	POST /applications/{id}/payment
func (h *ApplicationsHandler) HandleApplication(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/applications/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch parts[1] {
	case "status":
		h.handleStatus(w, r, id)
	case "legal":
		h.handleLegal(w, r, id)
	case "payment":
		h.handlePayment(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *ApplicationsHandler) handleStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	status := model.ApplicationStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("unknown application status"))
		return
	}
	if err := h.deps.SetApplicationStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}

func (h *ApplicationsHandler) handleLegal(w http.ResponseWriter, r *http.Request, id string) {
	var req legalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.ConfirmLegal(r.Context(), id, req.Party, req.Confirmed); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}

func (h *ApplicationsHandler) handlePayment(w http.ResponseWriter, r *http.Request, id string) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	status := model.PaymentStatus(req.Status)
	if status != model.PaymentStatusUnpaid && status != model.PaymentStatusPaid {
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("unknown payment status"))
		return
	}
	if err := h.deps.SetPaymentStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}
