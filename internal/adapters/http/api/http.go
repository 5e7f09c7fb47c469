// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gighive/gighive/internal/adapters/records"
	"github.com/gighive/gighive/internal/adapters/repository"
	"github.com/gighive/gighive/internal/app"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/domain/taxonomy"
	"github.com/gighive/gighive/internal/migrate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	JobDependencies
	ApplicationDependencies
	MatchingDependencies
	CategoryDependencies
	AdminDependencies
}

// JobDependencies covers the job CRUD surface.
type JobDependencies interface {
	CreateJob(ctx context.Context, job model.Job) (model.Job, error)
	GetJob(ctx context.Context, id string) (model.Job, error)
	ListJobs(ctx context.Context) ([]model.Job, error)
	OpenJobs(ctx context.Context) ([]model.Job, error)
	JobsForEmployer(ctx context.Context, employerID string) ([]model.Job, error)
	UpdateJob(ctx context.Context, id string, patch model.JobPatch) error
	DeleteJob(ctx context.Context, id string) error
}

// ApplicationDependencies covers the application lifecycle surface.
type ApplicationDependencies interface {
	Apply(ctx context.Context, jobID, workerID string) (model.JobApplication, error)
	ApplicationsForJob(ctx context.Context, jobID string) ([]model.JobApplication, error)
	ApplicationsForWorker(ctx context.Context, workerID string) ([]model.JobApplication, error)
	ApplicationsForEmployer(ctx context.Context, employerID string) ([]model.JobApplication, error)
	AcceptApplication(ctx context.Context, jobID, applicationID string) error
	SetApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	ConfirmLegal(ctx context.Context, id, party string, confirmed bool) error
	SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error
}

// MatchingDependencies exposes eligibility queries.
type MatchingDependencies interface {
	EligibleJobs(ctx context.Context, worker model.WorkerProfile) ([]model.Job, error)
}

// CategoryDependencies exposes the taxonomy catalog.
type CategoryDependencies interface {
	ListCategories(ctx context.Context) []taxonomy.CategoryInfo
	TagsForCategory(ctx context.Context, key string) []string
}

// AdminDependencies covers maintenance operations.
type AdminDependencies interface {
	RepairOrphans(ctx context.Context, employerID string) (int, error)
	MigrateIdentities(ctx context.Context) (migrate.Summary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	jobsHandler         *JobsHandler
	applicationsHandler *ApplicationsHandler
	matchingHandler     *MatchingHandler
	categoriesHandler   *CategoriesHandler
	adminHandler        *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		jobsHandler:         NewJobsHandler(deps),
		applicationsHandler: NewApplicationsHandler(deps),
		matchingHandler:     NewMatchingHandler(deps),
		categoriesHandler:   NewCategoriesHandler(deps),
		adminHandler:        NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/categories", MetricsMiddleware(s.categoriesHandler.HandleListCategories, "categories"))
	mux.HandleFunc("/categories/", MetricsMiddleware(s.categoriesHandler.HandleCategoryTags, "category_tags"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandleJobs, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.jobsHandler.HandleJob, "job"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.applicationsHandler.HandleApplications, "applications"))
	mux.HandleFunc("/applications/", MetricsMiddleware(s.applicationsHandler.HandleApplication, "application"))
	mux.HandleFunc("/matching/eligible", MetricsMiddleware(s.matchingHandler.HandleEligibleJobs, "matching_eligible"))
	mux.HandleFunc("/admin/repair-orphans", MetricsMiddleware(s.adminHandler.HandleRepairOrphans, "admin_repair_orphans"))
	mux.HandleFunc("/admin/migrate-identities", MetricsMiddleware(s.adminHandler.HandleMigrateIdentities, "admin_migrate_identities"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates repository and validation errors to the
// matching HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "validation_failed",
			Message: "job validation failed",
			Details: verr.Errors,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, records.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
