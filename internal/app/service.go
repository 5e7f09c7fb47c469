// Package app provides the core business service that implements the
// dependencies required by the HTTP API and the admin CLI.
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gighive/gighive/internal/adapters/geocode"
	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/adapters/repository"
	"github.com/gighive/gighive/internal/domain/matching"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/domain/taxonomy"
	"github.com/gighive/gighive/internal/domain/validation"
	"github.com/gighive/gighive/internal/migrate"
	"github.com/gighive/gighive/pkg/logger"
)

// ValidationError carries the violations found by job validation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "job validation failed: " + strings.Join(e.Errors, "; ")
}

// Service wires the repositories, catalog, matching engine, geocoder,
// and migrator behind one coherent API.
type Service struct {
	store        kv.Store
	catalog      *taxonomy.Catalog
	engine       *matching.Engine
	jobs         *repository.JobRepository
	applications *repository.ApplicationRepository
	migrator     *migrate.IdentityMigrator
	geocoder     geocode.Adapter

	coordPolicy matching.MissingCoordinatesPolicy
	saveRetries int
	log         logger.Logger
}

// New creates a fully wired Service.
func New(opts ...Option) *Service {
	s := &Service{
		coordPolicy: matching.MatchAnywhere,
		saveRetries: 3,
		log:         logger.Named("service"),
		geocoder:    geocode.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = kv.NewMemoryStore()
	}
	if s.catalog == nil {
		s.catalog = taxonomy.Default()
	}
	s.engine = matching.NewEngine(s.catalog,
		matching.WithMissingCoordinatesPolicy(s.coordPolicy))

	repoOpts := []repository.Option{repository.WithSaveRetries(s.saveRetries)}
	s.jobs = repository.NewJobRepository(s.store, repoOpts...)
	s.applications = repository.NewApplicationRepository(s.store, repoOpts...)
	s.migrator = migrate.NewIdentityMigrator(s.store, s.jobs)
	return s
}

// Jobs exposes the job repository for maintenance tooling.
func (s *Service) Jobs() *repository.JobRepository { return s.jobs }

// Catalog exposes the taxonomy catalog.
func (s *Service) Catalog() *taxonomy.Catalog { return s.catalog }

// CreateJob validates and persists a new job posting. When the address
// lacks coordinates they are filled best-effort through the geocoder.
func (s *Service) CreateJob(ctx context.Context, job model.Job) (model.Job, error) {
	if res := validation.ValidateJob(job, s.catalog); !res.Valid {
		return model.Job{}, &ValidationError{Errors: res.Errors}
	}
	if !job.Address.HasCoordinates() && job.Address.Street != "" {
		s.fillCoordinates(ctx, &job)
	}
	return s.jobs.Add(ctx, job)
}

// fillCoordinates resolves the job address through the geocoder. A
// failed lookup leaves the address untouched.
func (s *Service) fillCoordinates(ctx context.Context, job *model.Job) {
	places := s.geocoder.Forward(ctx, job.Address.Street, job.Address.PostalCode, job.Address.City)
	if len(places) == 0 {
		s.log.Debug(ctx, "geocode yielded no places",
			logger.String("city", job.Address.City))
		return
	}
	job.Address.Lat = &places[0].Lat
	job.Address.Lon = &places[0].Lon
}

// GetJob returns one job by id.
func (s *Service) GetJob(ctx context.Context, id string) (model.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListJobs returns every job.
func (s *Service) ListJobs(ctx context.Context) ([]model.Job, error) {
	return s.jobs.GetAll(ctx)
}

// OpenJobs returns jobs with status open.
func (s *Service) OpenJobs(ctx context.Context) ([]model.Job, error) {
	return s.jobs.GetOpen(ctx)
}

// JobsForEmployer returns the jobs owned by employerID.
func (s *Service) JobsForEmployer(ctx context.Context, employerID string) ([]model.Job, error) {
	return s.jobs.GetForEmployer(ctx, employerID)
}

// UpdateJob merges patch into a stored job.
func (s *Service) UpdateJob(ctx context.Context, id string, patch model.JobPatch) error {
	return s.jobs.Update(ctx, id, patch)
}

// DeleteJob removes a job.
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	return s.jobs.Delete(ctx, id)
}

// ValidateJob runs job validation without persisting anything.
func (s *Service) ValidateJob(job model.Job) validation.Result {
	return validation.ValidateJob(job, s.catalog)
}

// Apply records a worker's application. The owning employer is read
// from the job so the denormalized copy cannot drift.
func (s *Service) Apply(ctx context.Context, jobID, workerID string) (model.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return model.JobApplication{}, err
	}
	return s.applications.Apply(ctx, jobID, workerID, job.EmployerID)
}

// ApplicationsForJob returns a job's applications.
func (s *Service) ApplicationsForJob(ctx context.Context, jobID string) ([]model.JobApplication, error) {
	return s.applications.GetForJob(ctx, jobID)
}

// ApplicationsForWorker returns a worker's applications.
func (s *Service) ApplicationsForWorker(ctx context.Context, workerID string) ([]model.JobApplication, error) {
	return s.applications.GetForWorker(ctx, workerID)
}

// ApplicationsForEmployer returns the applications addressed to an employer.
func (s *Service) ApplicationsForEmployer(ctx context.Context, employerID string) ([]model.JobApplication, error) {
	return s.applications.GetForEmployer(ctx, employerID)
}

// AcceptApplication accepts one application, rejects its pending
// siblings, and moves the job to matched with the chosen worker.
func (s *Service) AcceptApplication(ctx context.Context, jobID, applicationID string) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.JobID != jobID {
		return fmt.Errorf("application %s does not belong to job %s: %w", applicationID, jobID, repository.ErrInvalidInput)
	}
	if err := s.applications.Accept(ctx, jobID, applicationID); err != nil {
		return err
	}

	matched := model.JobStatusMatched
	if err := s.jobs.Update(ctx, jobID, model.JobPatch{
		Status:          &matched,
		MatchedWorkerID: &app.WorkerID,
	}); err != nil {
		s.log.Error(ctx, "application accepted but job not moved to matched",
			logger.String("job_id", jobID),
			logger.String("application_id", applicationID),
			logger.Error(err))
		return err
	}
	return nil
}

// SetApplicationStatus overwrites an application's status. Used by
// cancellation paths.
func (s *Service) SetApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	return s.applications.SetStatus(ctx, id, status)
}

// ConfirmLegal toggles a party's legal confirmation flag. party is
// "employer" or "worker".
func (s *Service) ConfirmLegal(ctx context.Context, id, party string, confirmed bool) error {
	switch party {
	case "employer":
		return s.applications.SetEmployerLegalConfirmation(ctx, id, confirmed)
	case "worker":
		return s.applications.SetWorkerLegalConfirmation(ctx, id, confirmed)
	default:
		return fmt.Errorf("unknown party %q: %w", party, repository.ErrInvalidInput)
	}
}

// SetPaymentStatus updates an application's payment flag.
func (s *Service) SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	return s.applications.SetPaymentStatus(ctx, id, status)
}

// IsEligible evaluates one worker/job pairing.
func (s *Service) IsEligible(worker model.WorkerProfile, job model.Job) bool {
	return s.engine.IsEligible(worker, job)
}

// EligibleJobs returns the open jobs the worker is eligible for.
func (s *Service) EligibleJobs(ctx context.Context, worker model.WorkerProfile) ([]model.Job, error) {
	open, err := s.jobs.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Job, 0, len(open))
	for _, job := range open {
		if s.engine.IsEligible(worker, job) {
			out = append(out, job)
		}
	}
	return out, nil
}

// ListCategories returns the catalog's categories in stable order.
func (s *Service) ListCategories(_ context.Context) []taxonomy.CategoryInfo {
	return s.catalog.ListCategories()
}

// TagsForCategory returns the sorted tag keys of one category.
func (s *Service) TagsForCategory(_ context.Context, key string) []string {
	set := s.catalog.TagsForCategory(key)
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// RepairOrphans reassigns ownerless jobs on behalf of employerID.
func (s *Service) RepairOrphans(ctx context.Context, employerID string) (int, error) {
	return s.jobs.RepairOrphans(ctx, employerID)
}

// MigrateIdentities runs the one-shot identity migration.
func (s *Service) MigrateIdentities(ctx context.Context) (migrate.Summary, error) {
	return s.migrator.Run(ctx)
}

// Geocode resolves an address best-effort.
func (s *Service) Geocode(ctx context.Context, street, postalCode, city string) []geocode.Place {
	return s.geocoder.Forward(ctx, street, postalCode, city)
}
