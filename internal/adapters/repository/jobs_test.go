package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/adapters/repository"
	"github.com/gighive/gighive/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newJobRepo() (*repository.JobRepository, *kv.MemoryStore) {
	store := kv.NewMemoryStore()
	return repository.NewJobRepository(store), store
}

// loadRawJobs reads the raw jobs blob so tests can observe whether a
// call wrote a new collection version.
func loadRawJobs(ctx context.Context, store kv.Store) (json.RawMessage, int64, error) {
	blob, found, err := store.Get(ctx, "jobs")
	if err != nil || !found {
		return nil, 0, err
	}
	var env struct {
		Version int64           `json:"version"`
		Items   json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(blob, &env); err != nil {
		return blob, 0, nil
	}
	return env.Items, env.Version, nil
}

func TestJobRepositoryCRUD(t *testing.T) {
	Convey("Given an empty job repository", t, func() {
		ctx := context.Background()
		repo, _ := newJobRepo()

		Convey("When adding a job", func() {
			job, err := repo.Add(ctx, model.Job{
				EmployerID:        "emp-1",
				Title:             "Door shift",
				Category:          "security",
				Status:            model.JobStatusOpen,
				WorkerAmountCents: 12000,
			})
			So(err, ShouldBeNil)
			So(job.ID, ShouldNotBeEmpty)
			So(job.CreatedAt.IsZero(), ShouldBeFalse)

			Convey("Then it is readable by id", func() {
				got, err := repo.GetByID(ctx, job.ID)
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Door shift")
			})

			Convey("Then GetAll contains it", func() {
				all, err := repo.GetAll(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
			})

			Convey("When updating fields", func() {
				title := "Night door shift"
				So(repo.Update(ctx, job.ID, model.JobPatch{Title: &title}), ShouldBeNil)
				got, _ := repo.GetByID(ctx, job.ID)
				So(got.Title, ShouldEqual, "Night door shift")
				So(got.Category, ShouldEqual, "security")
			})

			Convey("When deleting it", func() {
				So(repo.Delete(ctx, job.ID), ShouldBeNil)
				_, err := repo.GetByID(ctx, job.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Then getting an unknown id yields ErrNotFound", func() {
			_, err := repo.GetByID(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then updating an unknown id is a no-op", func() {
			title := "x"
			So(repo.Update(ctx, "nope", model.JobPatch{Title: &title}), ShouldBeNil)
		})

		Convey("Then adding without an employer fails", func() {
			_, err := repo.Add(ctx, model.Job{Title: "orphan"})
			So(errors.Is(err, repository.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Then adding in a matched state fails", func() {
			_, err := repo.Add(ctx, model.Job{EmployerID: "emp-1", Status: model.JobStatusMatched})
			So(errors.Is(err, repository.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestJobRepositoryStatusTransitions(t *testing.T) {
	Convey("Given an open job", t, func() {
		ctx := context.Background()
		repo, _ := newJobRepo()
		job, err := repo.Add(ctx, model.Job{EmployerID: "emp-1", Status: model.JobStatusOpen})
		So(err, ShouldBeNil)

		Convey("Then open -> matched is allowed", func() {
			matched := model.JobStatusMatched
			worker := "w-1"
			So(repo.Update(ctx, job.ID, model.JobPatch{Status: &matched, MatchedWorkerID: &worker}), ShouldBeNil)
			got, _ := repo.GetByID(ctx, job.ID)
			So(got.Status, ShouldEqual, model.JobStatusMatched)
			So(got.MatchedWorkerID, ShouldEqual, "w-1")
		})

		Convey("Then open -> draft is rejected", func() {
			draft := model.JobStatusDraft
			err := repo.Update(ctx, job.ID, model.JobPatch{Status: &draft})
			So(errors.Is(err, repository.ErrInvalidTransition), ShouldBeTrue)
		})

		Convey("Then done is terminal", func() {
			done := model.JobStatusDone
			So(repo.Update(ctx, job.ID, model.JobPatch{Status: &done}), ShouldBeNil)
			open := model.JobStatusOpen
			err := repo.Update(ctx, job.ID, model.JobPatch{Status: &open})
			So(errors.Is(err, repository.ErrInvalidTransition), ShouldBeTrue)
		})
	})
}

func TestJobRepositoryQueries(t *testing.T) {
	Convey("Given jobs from two employers in mixed states", t, func() {
		ctx := context.Background()
		repo, _ := newJobRepo()

		mustAdd := func(j model.Job) model.Job {
			job, err := repo.Add(ctx, j)
			So(err, ShouldBeNil)
			return job
		}
		mustAdd(model.Job{EmployerID: "emp-1", Status: model.JobStatusOpen})
		mustAdd(model.Job{EmployerID: "emp-1", Status: model.JobStatusDraft})
		mustAdd(model.Job{EmployerID: "emp-2", Status: model.JobStatusOpen})

		Convey("Then GetOpen returns only open jobs", func() {
			open, err := repo.GetOpen(ctx)
			So(err, ShouldBeNil)
			So(open, ShouldHaveLength, 2)
		})

		Convey("Then GetForEmployer filters by owner", func() {
			jobs, err := repo.GetForEmployer(ctx, "emp-1")
			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 2)
		})
	})
}

func TestJobRepositoryRepairOrphans(t *testing.T) {
	Convey("Given a store seeded with orphaned legacy jobs", t, func() {
		ctx := context.Background()
		store := kv.NewMemoryStore()

		// Legacy payload: bare array, missing and sentinel employer
		// ids, one ownerId carrier, one terminal orphan.
		seed := []byte(`[
			{"id":"j1","status":"open"},
			{"id":"j2","status":"draft","employerId":"undefined"},
			{"id":"j3","status":"open","ownerId":"emp-legacy","employerId":""},
			{"id":"j4","status":"done"},
			{"id":"j5","status":"open","employerId":"emp-9"}
		]`)
		So(store.Set(ctx, "jobs", seed), ShouldBeNil)
		repo := repository.NewJobRepository(store)

		Convey("When repairing on behalf of emp-42", func() {
			repaired, err := repo.RepairOrphans(ctx, "emp-42")
			So(err, ShouldBeNil)
			So(repaired, ShouldEqual, 3)

			Convey("Then open/draft orphans are adopted by the caller", func() {
				jobs, err := repo.GetForEmployer(ctx, "emp-42")
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 2)
			})

			Convey("Then a legacy ownerId wins over adoption", func() {
				job, err := repo.GetByID(ctx, "j3")
				So(err, ShouldBeNil)
				So(job.EmployerID, ShouldEqual, "emp-legacy")
				So(job.LegacyOwnerID, ShouldBeEmpty)
			})

			Convey("Then terminal orphans stay unassigned", func() {
				job, err := repo.GetByID(ctx, "j4")
				So(err, ShouldBeNil)
				So(job.EmployerID, ShouldBeEmpty)
			})

			Convey("Then owned jobs are untouched", func() {
				job, err := repo.GetByID(ctx, "j5")
				So(err, ShouldBeNil)
				So(job.EmployerID, ShouldEqual, "emp-9")
			})

			Convey("Then a second repair writes nothing", func() {
				_, versionBefore, err := loadRawJobs(ctx, store)
				So(err, ShouldBeNil)

				repaired, err := repo.RepairOrphans(ctx, "emp-42")
				So(err, ShouldBeNil)
				So(repaired, ShouldEqual, 0)

				_, versionAfter, err := loadRawJobs(ctx, store)
				So(err, ShouldBeNil)
				So(versionAfter, ShouldEqual, versionBefore)
			})
		})

		Convey("Then repairing without an employer id fails", func() {
			_, err := repo.RepairOrphans(ctx, "")
			So(errors.Is(err, repository.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestJobRepositoryCorruptCollection(t *testing.T) {
	Convey("Given a corrupt jobs blob", t, func() {
		ctx := context.Background()
		store := kv.NewMemoryStore()
		So(store.Set(ctx, "jobs", []byte("not json at all")), ShouldBeNil)
		repo := repository.NewJobRepository(store)

		Convey("Then GetAll returns an empty sequence rather than raising", func() {
			jobs, err := repo.GetAll(ctx)
			So(err, ShouldBeNil)
			So(jobs, ShouldBeEmpty)
		})

		Convey("Then the collection is writable again", func() {
			_, err := repo.Add(ctx, model.Job{EmployerID: "emp-1"})
			So(err, ShouldBeNil)
			jobs, _ := repo.GetAll(ctx)
			So(jobs, ShouldHaveLength, 1)
		})
	})
}

func TestJobRepositoryDeterministicClock(t *testing.T) {
	Convey("Given a repository with a fixed clock and id source", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		store := kv.NewMemoryStore()
		repo := repository.NewJobRepository(store,
			repository.WithClock(func() time.Time { return fixed }),
			repository.WithIDGenerator(func() string { return "job-1" }),
		)

		job, err := repo.Add(ctx, model.Job{EmployerID: "emp-1"})
		So(err, ShouldBeNil)
		So(job.ID, ShouldEqual, "job-1")
		So(job.CreatedAt.Equal(fixed), ShouldBeTrue)
		So(job.Status, ShouldEqual, model.JobStatusDraft)
	})
}
