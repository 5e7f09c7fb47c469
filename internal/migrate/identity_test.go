package migrate_test

import (
	"context"
	"testing"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/adapters/records"
	"github.com/gighive/gighive/internal/adapters/repository"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/internal/migrate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCanonicalID(t *testing.T) {
	Convey("Given email addresses", t, func() {
		So(migrate.CanonicalID("Anna.Schmidt@Example.com"), ShouldEqual, "user_anna_schmidt_example_com")
		So(migrate.CanonicalID("bob@x.de"), ShouldEqual, "user_bob_x_de")
		So(migrate.CanonicalID("weird+tag@mail.co"), ShouldEqual, "user_weird_tag_mail_co")
	})
}

func TestIsLegacyID(t *testing.T) {
	Convey("Given identifier shapes", t, func() {
		So(migrate.IsLegacyID("12345"), ShouldBeTrue)
		So(migrate.IsLegacyID("u-abc"), ShouldBeTrue)
		So(migrate.IsLegacyID("anna@example.com"), ShouldBeTrue)
		So(migrate.IsLegacyID("user_anna_example_com"), ShouldBeFalse)
		So(migrate.IsLegacyID(""), ShouldBeFalse)
	})
}

func seedStore(ctx context.Context, store kv.Store) {
	users := records.NewDocument[map[string]model.User](store, migrate.UsersCollectionKey)
	So(users.Save(ctx, map[string]model.User{
		"boss@firma.de":  {Role: "employer", LegacyID: "1001"},
		"worker@mail.de": {Role: "worker", LegacyID: "1002"},
	}), ShouldBeNil)

	profile := records.NewDocument[model.WorkerProfile](store, migrate.WorkerProfileCollectionKey)
	So(profile.Save(ctx, model.WorkerProfile{UserID: "1002", RadiusKm: 20}), ShouldBeNil)
}

func TestIdentityMigration(t *testing.T) {
	Convey("Given legacy jobs, users, and a profile", t, func() {
		ctx := context.Background()
		store := kv.NewMemoryStore()
		jobs := repository.NewJobRepository(store)
		seedStore(ctx, store)

		_, err := jobs.Add(ctx, model.Job{EmployerID: "1001", Status: model.JobStatusOpen})
		So(err, ShouldBeNil)
		_, err = jobs.Add(ctx, model.Job{EmployerID: "boss@firma.de", Status: model.JobStatusDraft})
		So(err, ShouldBeNil)
		_, err = jobs.Add(ctx, model.Job{EmployerID: "user_boss_firma_de", Status: model.JobStatusOpen})
		So(err, ShouldBeNil)

		migrator := migrate.NewIdentityMigrator(store, jobs)

		Convey("When running the migration", func() {
			summary, err := migrator.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then legacy and email employer ids are rewritten", func() {
				So(summary.JobsRewritten, ShouldEqual, 2)
				owned, err := jobs.GetForEmployer(ctx, "user_boss_firma_de")
				So(err, ShouldBeNil)
				So(owned, ShouldHaveLength, 3)
			})

			Convey("Then the worker profile id becomes canonical", func() {
				So(summary.ProfileRewritten, ShouldBeTrue)
				profile := records.NewDocument[model.WorkerProfile](store, migrate.WorkerProfileCollectionKey)
				p, found, err := profile.Load(ctx)
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(p.UserID, ShouldEqual, "user_worker_mail_de")
				So(p.RadiusKm, ShouldEqual, 20)
			})

			Convey("Then a second run rewrites nothing", func() {
				again, err := migrator.Run(ctx)
				So(err, ShouldBeNil)
				So(again.JobsRewritten, ShouldEqual, 0)
				So(again.ProfileRewritten, ShouldBeFalse)
				So(again.Total(), ShouldEqual, 0)
			})
		})
	})
}

func TestIdentityMigrationWithoutUsers(t *testing.T) {
	Convey("Given a store without a user directory", t, func() {
		ctx := context.Background()
		store := kv.NewMemoryStore()
		jobs := repository.NewJobRepository(store)
		migrator := migrate.NewIdentityMigrator(store, jobs)

		summary, err := migrator.Run(ctx)
		So(err, ShouldBeNil)
		So(summary.Total(), ShouldEqual, 0)
	})
}
