// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gighive/gighive/internal/domain/model"
)

// JobsHandler handles job collection and item requests.
type JobsHandler struct {
	jobs JobDependencies
	apps ApplicationDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps Dependencies) *JobsHandler {
	return &JobsHandler{jobs: deps, apps: deps}
}

// HandleJobs handles GET /jobs and POST /jobs.
//
// GET supports ?status=open and ?employer=<id> filters; without a
// filter every job is returned.
func (h *JobsHandler) HandleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *JobsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		jobs []model.Job
		err  error
	)
	query := r.URL.Query()
	switch {
	case query.Get("employer") != "":
		jobs, err = h.jobs.JobsForEmployer(r.Context(), query.Get("employer"))
	case query.Get("status") == string(model.JobStatusOpen):
		jobs, err = h.jobs.OpenJobs(r.Context())
	case query.Get("status") != "":
		writeError(w, http.StatusBadRequest, "bad_request",
			errors.New("only status=open is supported"))
		return
	default:
		jobs, err = h.jobs.ListJobs(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var job model.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	created, err := h.jobs.CreateJob(r.Context(), job)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleJob handles requests under /jobs/{id}:
//
//	GET    /jobs/{id}
//	PATCH  /jobs/{id}
//	DELETE /jobs/{id}
//	GET    /jobs/{id}/applications
//	POST   /jobs/{id}/applications
//	POST   /jobs/{id}/applications/{application_id}/accept
func (h *JobsHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		h.handleItem(w, r, id)
	case len(parts) == 2 && parts[1] == "applications":
		h.handleApplications(w, r, id)
	case len(parts) == 4 && parts[1] == "applications" && parts[3] == "accept":
		h.handleAccept(w, r, id, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *JobsHandler) handleItem(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		job, err := h.jobs.GetJob(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	case http.MethodPatch:
		var patch model.JobPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.jobs.UpdateJob(r.Context(), id, patch); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	case http.MethodDelete:
		if err := h.jobs.DeleteJob(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}

type applyRequest struct {
	WorkerID string `json:"workerId"`
}

func (a applyRequest) validate() error {
	if strings.TrimSpace(a.WorkerID) == "" {
		return errors.New("missing workerId")
	}
	return nil
}

func (h *JobsHandler) handleApplications(w http.ResponseWriter, r *http.Request, jobID string) {
	switch r.Method {
	case http.MethodGet:
		apps, err := h.apps.ApplicationsForJob(r.Context(), jobID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, apps)
	case http.MethodPost:
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		application, err := h.apps.Apply(r.Context(), jobID, req.WorkerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, application)
	default:
		http.NotFound(w, r)
	}
}

func (h *JobsHandler) handleAccept(w http.ResponseWriter, r *http.Request, jobID, applicationID string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.apps.AcceptApplication(r.Context(), jobID, applicationID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

type ackResponse struct {
	Status string `json:"status"`
}
