package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/adapters/records"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/pkg/logger"
	"github.com/gighive/gighive/pkg/metrics"
)

// ApplicationsCollectionKey is the collection key owned by the
// application repository.
const ApplicationsCollectionKey = "applications"

// ApplicationRepository owns the "applications" collection and
// enforces the at-most-one-accepted-per-job invariant.
type ApplicationRepository struct {
	coll *records.Collection[model.JobApplication]
	opts options
}

// NewApplicationRepository creates an application repository on store.
func NewApplicationRepository(store kv.Store, opts ...Option) *ApplicationRepository {
	o := options{
		log:         logger.Named("applications"),
		now:         time.Now,
		newID:       uuid.NewString,
		saveRetries: defaultSaveRetries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &ApplicationRepository{
		coll: records.NewCollection[model.JobApplication](store, ApplicationsCollectionKey),
		opts: o,
	}
}

// Apply records a worker's application to a job. Creation is
// idempotent per (jobId, workerId): an existing application is
// returned unchanged regardless of its status.
func (r *ApplicationRepository) Apply(ctx context.Context, jobID, workerID, employerID string) (model.JobApplication, error) {
	if employerID == "" {
		return model.JobApplication{}, fmt.Errorf("apply: employerId is required: %w", ErrInvalidInput)
	}
	if jobID == "" || workerID == "" {
		return model.JobApplication{}, fmt.Errorf("apply: jobId and workerId are required: %w", ErrInvalidInput)
	}

	var result model.JobApplication
	var created bool
	err := r.mutate(ctx, func(apps []model.JobApplication) ([]model.JobApplication, error) {
		for _, app := range apps {
			if app.JobID == jobID && app.WorkerID == workerID {
				result = app
				created = false
				return nil, errNothingToSave
			}
		}
		result = model.JobApplication{
			ID:            r.opts.newID(),
			JobID:         jobID,
			WorkerID:      workerID,
			EmployerID:    employerID,
			Status:        model.ApplicationStatusPending,
			PaymentStatus: model.PaymentStatusUnpaid,
			CreatedAt:     r.opts.now(),
		}
		created = true
		return append(apps, result), nil
	})
	if err != nil {
		return model.JobApplication{}, err
	}
	if created {
		metrics.RecordApplicationCreated()
	}
	return result, nil
}

// GetForJob returns all applications for a job.
func (r *ApplicationRepository) GetForJob(ctx context.Context, jobID string) ([]model.JobApplication, error) {
	return r.filter(ctx, func(app model.JobApplication) bool { return app.JobID == jobID })
}

// GetForWorker returns all applications submitted by a worker.
func (r *ApplicationRepository) GetForWorker(ctx context.Context, workerID string) ([]model.JobApplication, error) {
	return r.filter(ctx, func(app model.JobApplication) bool { return app.WorkerID == workerID })
}

// GetForEmployer returns all applications addressed to an employer.
func (r *ApplicationRepository) GetForEmployer(ctx context.Context, employerID string) ([]model.JobApplication, error) {
	return r.filter(ctx, func(app model.JobApplication) bool { return app.EmployerID == employerID })
}

// GetByID returns the application with the given id or ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (model.JobApplication, error) {
	apps, _, err := r.coll.Load(ctx)
	if err != nil {
		return model.JobApplication{}, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return model.JobApplication{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
}

// Accept marks the named application accepted and rejects every other
// pending application for the same job in the same collection rewrite,
// which is what keeps the single-winner invariant atomic under the
// store's overwrite contract. An applicationID that does not belong to
// jobID matches nothing and the call is a no-op.
func (r *ApplicationRepository) Accept(ctx context.Context, jobID, applicationID string) error {
	var accepted, rejected int
	err := r.mutate(ctx, func(apps []model.JobApplication) ([]model.JobApplication, error) {
		accepted, rejected = 0, 0
		chosen := -1
		for i := range apps {
			if apps[i].JobID == jobID && apps[i].ID == applicationID {
				chosen = i
				break
			}
		}
		if chosen == -1 {
			return nil, errNothingToSave
		}
		if !apps[chosen].Status.CanTransition(model.ApplicationStatusAccepted) {
			return nil, fmt.Errorf("application %s: %s -> accepted: %w",
				applicationID, apps[chosen].Status, ErrInvalidTransition)
		}

		now := r.opts.now()
		apps[chosen].Status = model.ApplicationStatusAccepted
		apps[chosen].RespondedAt = &now
		accepted++

		for i := range apps {
			if i == chosen {
				continue
			}
			if apps[i].JobID == jobID && apps[i].Status == model.ApplicationStatusPending {
				apps[i].Status = model.ApplicationStatusRejected
				apps[i].RespondedAt = &now
				rejected++
			}
		}
		return apps, nil
	})
	if err != nil {
		return err
	}
	if accepted > 0 {
		metrics.RecordApplicationAccepted()
	}
	for i := 0; i < rejected; i++ {
		metrics.RecordApplicationRejected()
	}
	return nil
}

// SetStatus overwrites an application's status, validating the
// transition table. Used by cancellation paths.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, ErrInvalidInput)
	}
	return r.mutate(ctx, func(apps []model.JobApplication) ([]model.JobApplication, error) {
		for i := range apps {
			if apps[i].ID != id {
				continue
			}
			if apps[i].Status == status {
				return nil, errNothingToSave
			}
			if !apps[i].Status.CanTransition(status) {
				return nil, fmt.Errorf("application %s: %s -> %s: %w", id, apps[i].Status, status, ErrInvalidTransition)
			}
			now := r.opts.now()
			apps[i].Status = status
			apps[i].RespondedAt = &now
			return apps, nil
		}
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	})
}

// SetPaymentStatus updates the payment flag on an application.
func (r *ApplicationRepository) SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	return r.mutate(ctx, func(apps []model.JobApplication) ([]model.JobApplication, error) {
		for i := range apps {
			if apps[i].ID == id {
				apps[i].PaymentStatus = status
				return apps, nil
			}
		}
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	})
}

// SetEmployerLegalConfirmation toggles the employer's legal flag.
// Contact details are only exposed downstream once both parties have
// confirmed; that gate lives in a collaborator.
func (r *ApplicationRepository) SetEmployerLegalConfirmation(ctx context.Context, id string, confirmed bool) error {
	return r.setLegal(ctx, id, func(app *model.JobApplication) {
		app.EmployerConfirmedLegal = confirmed
	})
}

// SetWorkerLegalConfirmation toggles the worker's legal flag.
func (r *ApplicationRepository) SetWorkerLegalConfirmation(ctx context.Context, id string, confirmed bool) error {
	return r.setLegal(ctx, id, func(app *model.JobApplication) {
		app.WorkerConfirmedLegal = confirmed
	})
}

func (r *ApplicationRepository) setLegal(ctx context.Context, id string, set func(*model.JobApplication)) error {
	return r.mutate(ctx, func(apps []model.JobApplication) ([]model.JobApplication, error) {
		for i := range apps {
			if apps[i].ID == id {
				set(&apps[i])
				return apps, nil
			}
		}
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	})
}

func (r *ApplicationRepository) filter(ctx context.Context, keep func(model.JobApplication) bool) ([]model.JobApplication, error) {
	apps, _, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.JobApplication, 0, len(apps))
	for _, app := range apps {
		if keep(app) {
			out = append(out, app)
		}
	}
	return out, nil
}

// mutate runs one read-modify-write cycle with conflict retries.
func (r *ApplicationRepository) mutate(ctx context.Context, fn func([]model.JobApplication) ([]model.JobApplication, error)) error {
	for attempt := 0; attempt < r.opts.saveRetries; attempt++ {
		apps, version, err := r.coll.Load(ctx)
		if err != nil {
			return err
		}
		next, err := fn(apps)
		if errors.Is(err, errNothingToSave) {
			return nil
		}
		if err != nil {
			return err
		}
		err = r.coll.Save(ctx, next, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, records.ErrConflict) {
			return err
		}
		r.opts.log.Warn(ctx, "save conflict, retrying", logger.Int("attempt", attempt+1))
	}
	return fmt.Errorf("applications: %w", records.ErrConflict)
}
