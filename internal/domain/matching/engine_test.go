package matching_test

import (
	"testing"

	"github.com/gighive/gighive/internal/domain/matching"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/domain/taxonomy"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(f float64) *float64 { return &f }

func testCatalog() *taxonomy.Catalog {
	return taxonomy.NewCatalog([]taxonomy.Category{
		{
			Key:            "security",
			Title:          "Security",
			Activities:     []string{"patrol", "door_supervision", "event_security"},
			Qualifications: []string{"guard_license_34a", "first_aid"},
		},
		{
			Key:        "logistics",
			Title:      "Logistics",
			Activities: []string{"loading", "warehouse_picking"},
		},
	})
}

func openJob() model.Job {
	return model.Job{
		ID:       "j1",
		Category: "security",
		Status:   model.JobStatusOpen,
	}
}

func securityWorker() model.WorkerProfile {
	return model.WorkerProfile{
		UserID:       "w1",
		Categories:   []string{"security"},
		SelectedTags: []string{"patrol", "guard_license_34a"},
		RadiusKm:     15,
	}
}

func TestIsEligibleCategoryAndTags(t *testing.T) {
	Convey("Given a security worker and an open security job", t, func() {
		engine := matching.NewEngine(testCatalog())
		worker := securityWorker()
		job := openJob()

		Convey("Then the base case is eligible", func() {
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("When the job is in another category", func() {
			job.Category = "logistics"
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})

		Convey("When required-all tags are a subset of the worker's tags", func() {
			job.RequiredAllTags = []string{"patrol", "guard_license_34a"}
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("When a required-all tag is missing from the worker", func() {
			job.RequiredAllTags = []string{"patrol", "first_aid"}
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})

		Convey("When required-all is empty it is vacuously satisfied", func() {
			job.RequiredAllTags = nil
			worker.SelectedTags = nil
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("When required-any intersects the worker's tags", func() {
			job.RequiredAnyTags = []string{"first_aid", "patrol"}
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("When required-any does not intersect", func() {
			job.RequiredAnyTags = []string{"first_aid", "door_supervision"}
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})

		Convey("When a required tag is not declared under the job's category", func() {
			// Malformed record data must not make the job unsatisfiable.
			job.RequiredAllTags = []string{"loading"}
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})
	})
}

func TestIsEligibleStatus(t *testing.T) {
	Convey("Given an otherwise eligible pairing", t, func() {
		engine := matching.NewEngine(testCatalog())
		worker := securityWorker()

		Convey("Then non-open jobs are ineligible", func() {
			for _, status := range []model.JobStatus{
				model.JobStatusDraft,
				model.JobStatusMatched,
				model.JobStatusDone,
				model.JobStatusCanceled,
			} {
				job := openJob()
				job.Status = status
				So(engine.IsEligible(worker, job), ShouldBeFalse)
			}
		})

		Convey("Then a job with a matched worker is ineligible", func() {
			job := openJob()
			job.MatchedWorkerID = "someone-else"
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})
	})
}

func TestIsEligibleRadius(t *testing.T) {
	Convey("Given a worker in central Berlin with a 15 km radius", t, func() {
		engine := matching.NewEngine(testCatalog())
		worker := securityWorker()
		worker.HomeLat = ptr(52.5200)
		worker.HomeLon = ptr(13.4050)

		Convey("When the job is ~13.5 km away", func() {
			job := openJob()
			job.Address.Lat = ptr(52.5200)
			job.Address.Lon = ptr(13.6050)
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("When the job is ~34 km away", func() {
			job := openJob()
			job.Address.Lat = ptr(52.5200)
			job.Address.Lon = ptr(13.9050)
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})

		Convey("When the job sits exactly on the radius boundary", func() {
			worker.RadiusKm = 0
			job := openJob()
			job.Address.Lat = worker.HomeLat
			job.Address.Lon = worker.HomeLon
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})
	})
}

func TestIsEligibleMissingCoordinates(t *testing.T) {
	Convey("Given a job without coordinates", t, func() {
		worker := securityWorker()
		worker.HomeLat = ptr(52.5200)
		worker.HomeLon = ptr(13.4050)
		job := openJob()

		Convey("With the default match-anywhere policy the check is skipped", func() {
			engine := matching.NewEngine(testCatalog())
			So(engine.IsEligible(worker, job), ShouldBeTrue)
		})

		Convey("With require-coordinates the pairing is ineligible", func() {
			engine := matching.NewEngine(testCatalog(),
				matching.WithMissingCoordinatesPolicy(matching.RequireCoordinates))
			So(engine.IsEligible(worker, job), ShouldBeFalse)
		})
	})
}

func TestIsEligibleDeterminism(t *testing.T) {
	Convey("Given a fixed worker/job pair", t, func() {
		engine := matching.NewEngine(testCatalog())
		worker := securityWorker()
		job := openJob()
		job.RequiredAllTags = []string{"patrol"}

		first := engine.IsEligible(worker, job)
		for i := 0; i < 100; i++ {
			So(engine.IsEligible(worker, job), ShouldEqual, first)
		}
	})
}

func TestParseMissingCoordinatesPolicy(t *testing.T) {
	Convey("Given policy strings", t, func() {
		So(matching.ParseMissingCoordinatesPolicy("require_coordinates"), ShouldEqual, matching.RequireCoordinates)
		So(matching.ParseMissingCoordinatesPolicy("match_anywhere"), ShouldEqual, matching.MatchAnywhere)
		So(matching.ParseMissingCoordinatesPolicy(""), ShouldEqual, matching.MatchAnywhere)
	})
}
