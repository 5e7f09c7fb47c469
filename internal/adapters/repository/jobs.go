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

// JobsCollectionKey is the collection key owned by the job repository.
const JobsCollectionKey = "jobs"

// legacyUndefinedOwner is the sentinel some historic clients persisted
// instead of omitting the employer id.
const legacyUndefinedOwner = "undefined"

// JobRepository owns the "jobs" collection.
type JobRepository struct {
	coll *records.Collection[model.Job]
	opts options
}

// NewJobRepository creates a job repository on store.
func NewJobRepository(store kv.Store, opts ...Option) *JobRepository {
	o := options{
		log:         logger.Named("jobs"),
		now:         time.Now,
		newID:       uuid.NewString,
		saveRetries: defaultSaveRetries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &JobRepository{
		coll: records.NewCollection[model.Job](store, JobsCollectionKey),
		opts: o,
	}
}

// Add persists a new job. A missing id is generated, a missing status
// defaults to draft; only draft and open are valid creation states.
func (r *JobRepository) Add(ctx context.Context, job model.Job) (model.Job, error) {
	if job.EmployerID == "" {
		return model.Job{}, fmt.Errorf("add job: employerId is required: %w", ErrInvalidInput)
	}
	if job.Status == "" {
		job.Status = model.JobStatusDraft
	}
	if job.Status != model.JobStatusDraft && job.Status != model.JobStatusOpen {
		return model.Job{}, fmt.Errorf("add job: creation status %q not allowed: %w", job.Status, ErrInvalidInput)
	}
	if job.ID == "" {
		job.ID = r.opts.newID()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = r.opts.now()
	}

	err := r.mutate(ctx, func(jobs []model.Job) ([]model.Job, error) {
		return append(jobs, job), nil
	})
	if err != nil {
		return model.Job{}, err
	}
	metrics.RecordJobCreated()
	return job, nil
}

// GetAll returns every persisted job.
func (r *JobRepository) GetAll(ctx context.Context) ([]model.Job, error) {
	jobs, _, err := r.coll.Load(ctx)
	return jobs, err
}

// GetByID returns the job with the given id or ErrNotFound.
func (r *JobRepository) GetByID(ctx context.Context, id string) (model.Job, error) {
	jobs, _, err := r.coll.Load(ctx)
	if err != nil {
		return model.Job{}, err
	}
	for _, job := range jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return model.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
}

// Update merges patch into the stored job. An absent id is a no-op.
// Status changes are validated against the transition table.
func (r *JobRepository) Update(ctx context.Context, id string, patch model.JobPatch) error {
	var updated bool
	err := r.mutate(ctx, func(jobs []model.Job) ([]model.Job, error) {
		for i := range jobs {
			if jobs[i].ID != id {
				continue
			}
			merged, err := applyPatch(jobs[i], patch)
			if err != nil {
				return nil, err
			}
			jobs[i] = merged
			updated = true
			break
		}
		return jobs, nil
	})
	if err != nil {
		return err
	}
	if updated {
		metrics.RecordJobUpdated()
	}
	return nil
}

// Delete removes the job with the given id. An absent id is a no-op.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	var deleted bool
	err := r.mutate(ctx, func(jobs []model.Job) ([]model.Job, error) {
		out := jobs[:0]
		for _, job := range jobs {
			if job.ID == id {
				deleted = true
				continue
			}
			out = append(out, job)
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	if deleted {
		metrics.RecordJobDeleted()
	}
	return nil
}

// GetOpen returns all jobs with status open.
func (r *JobRepository) GetOpen(ctx context.Context) ([]model.Job, error) {
	jobs, _, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Status == model.JobStatusOpen {
			out = append(out, job)
		}
	}
	return out, nil
}

// GetForEmployer returns all jobs owned by employerID. This is a pure
// filter; orphaned records are handled by RepairOrphans instead of
// being rewritten inside a read path.
func (r *JobRepository) GetForEmployer(ctx context.Context, employerID string) ([]model.Job, error) {
	jobs, _, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.EmployerID == employerID {
			out = append(out, job)
		}
	}
	return out, nil
}

// RepairOrphans reassigns jobs without a valid owning employer and
// returns how many records were rewritten. A job with the legacy
// ownerId field adopts that value; otherwise an open or draft orphan
// is adopted by employerID. Orphans in terminal states are left
// untouched. Running twice writes nothing the second time.
func (r *JobRepository) RepairOrphans(ctx context.Context, employerID string) (int, error) {
	if employerID == "" {
		return 0, fmt.Errorf("repair orphans: employerId is required: %w", ErrInvalidInput)
	}

	var repaired, skipped int
	err := r.mutate(ctx, func(jobs []model.Job) ([]model.Job, error) {
		repaired, skipped = 0, 0
		for i := range jobs {
			if jobs[i].EmployerID != "" && jobs[i].EmployerID != legacyUndefinedOwner {
				continue
			}
			switch {
			case jobs[i].LegacyOwnerID != "" && jobs[i].LegacyOwnerID != legacyUndefinedOwner:
				jobs[i].EmployerID = jobs[i].LegacyOwnerID
				jobs[i].LegacyOwnerID = ""
				repaired++
			case jobs[i].Status == model.JobStatusOpen || jobs[i].Status == model.JobStatusDraft:
				jobs[i].EmployerID = employerID
				repaired++
			default:
				skipped++
			}
		}
		if repaired == 0 {
			return nil, errNothingToSave
		}
		return jobs, nil
	})
	if err != nil {
		return 0, err
	}
	if skipped > 0 {
		r.opts.log.Warn(ctx, "orphaned jobs left unassigned",
			logger.Int("count", skipped),
			logger.String("employer_id", employerID))
	}
	for i := 0; i < repaired; i++ {
		metrics.RecordJobRepaired()
	}
	return repaired, nil
}

// ReplaceEmployerIDs rewrites employer ids according to mapping in one
// collection rewrite and returns how many jobs changed. Ids absent
// from mapping are untouched; an empty mapping writes nothing.
func (r *JobRepository) ReplaceEmployerIDs(ctx context.Context, mapping map[string]string) (int, error) {
	if len(mapping) == 0 {
		return 0, nil
	}
	var rewritten int
	err := r.mutate(ctx, func(jobs []model.Job) ([]model.Job, error) {
		rewritten = 0
		for i := range jobs {
			next, ok := mapping[jobs[i].EmployerID]
			if !ok || next == jobs[i].EmployerID {
				continue
			}
			jobs[i].EmployerID = next
			rewritten++
		}
		if rewritten == 0 {
			return nil, errNothingToSave
		}
		return jobs, nil
	})
	if err != nil {
		return 0, err
	}
	return rewritten, nil
}

// applyPatch merges non-nil patch fields into job.
func applyPatch(job model.Job, patch model.JobPatch) (model.Job, error) {
	if patch.Status != nil && *patch.Status != job.Status {
		if !patch.Status.Valid() {
			return model.Job{}, fmt.Errorf("status %q: %w", *patch.Status, ErrInvalidInput)
		}
		if !job.Status.CanTransition(*patch.Status) {
			return model.Job{}, fmt.Errorf("job %s: %s -> %s: %w", job.ID, job.Status, *patch.Status, ErrInvalidTransition)
		}
		job.Status = *patch.Status
	}
	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Category != nil {
		job.Category = *patch.Category
	}
	if patch.RequiredAllTags != nil {
		job.RequiredAllTags = *patch.RequiredAllTags
	}
	if patch.RequiredAnyTags != nil {
		job.RequiredAnyTags = *patch.RequiredAnyTags
	}
	if patch.Address != nil {
		job.Address = *patch.Address
	}
	if patch.TimeMode != nil {
		job.TimeMode = *patch.TimeMode
	}
	if patch.StartAt != nil {
		job.StartAt = patch.StartAt
	}
	if patch.EndAt != nil {
		job.EndAt = patch.EndAt
	}
	if patch.Hours != nil {
		job.Hours = *patch.Hours
	}
	if patch.DueAt != nil {
		job.DueAt = patch.DueAt
	}
	if patch.WorkerAmountCents != nil {
		job.WorkerAmountCents = *patch.WorkerAmountCents
	}
	if patch.MatchedWorkerID != nil {
		job.MatchedWorkerID = *patch.MatchedWorkerID
	}
	return job, nil
}

// errNothingToSave aborts a mutate cycle without writing.
var errNothingToSave = errors.New("nothing to save")

// mutate runs one read-modify-write cycle with conflict retries.
func (r *JobRepository) mutate(ctx context.Context, fn func([]model.Job) ([]model.Job, error)) error {
	for attempt := 0; attempt < r.opts.saveRetries; attempt++ {
		jobs, version, err := r.coll.Load(ctx)
		if err != nil {
			return err
		}
		next, err := fn(jobs)
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
	return fmt.Errorf("jobs: %w", records.ErrConflict)
}
