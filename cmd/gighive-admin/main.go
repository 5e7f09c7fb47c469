// Command gighive-admin runs one-shot maintenance operations against
// the job store: identity migration, orphan repair, and demo seeding.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/gighive/gighive/internal/adapters/kv"
	"github.com/gighive/gighive/internal/app"
	"github.com/gighive/gighive/internal/config"
	"github.com/gighive/gighive/internal/domain/model"
	"github.com/gighive/gighive/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "gighive-admin",
		Usage: "maintenance operations for the gighive job store",
		Commands: []*cli.Command{
			{
				Name:   "migrate-identities",
				Usage:  "rewrite legacy employer ids to canonical email-derived ids",
				Action: migrateIdentitiesAction,
			},
			{
				Name:  "repair-orphans",
				Usage: "assign ownerless jobs to an employer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "employer",
						Usage:    "employer id adopting the orphaned jobs",
						Required: true,
					},
				},
				Action: repairOrphansAction,
			},
			{
				Name:   "seed",
				Usage:  "store a set of demo jobs for local development",
				Action: seedAction,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// newService builds a Service on the store named by the environment.
// The returned cleanup closes backend connections.
func newService(ctx context.Context) (*app.Service, func(), error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	var (
		store   kv.Store
		cleanup = func() {}
	)
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return nil, nil, fmt.Errorf("the memory backend holds no data to maintain; configure file or postgres")
	case config.StoreBackendFile:
		store, err = kv.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
	case config.StoreBackendPostgres:
		pg, err := kv.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		store, cleanup = pg, pg.Close
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return app.New(
		app.WithLogger(logger.Get()),
		app.WithStore(store),
		app.WithSaveRetries(cfg.SaveRetries),
	), cleanup, nil
}

func migrateIdentitiesAction(ctx context.Context, _ *cli.Command) error {
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := svc.MigrateIdentities(ctx)
	if err != nil {
		return fmt.Errorf("migrate identities: %w", err)
	}
	fmt.Printf("jobs rewritten: %d\nprofile rewritten: %t\n",
		summary.JobsRewritten, summary.ProfileRewritten)
	return nil
}

func repairOrphansAction(ctx context.Context, cmd *cli.Command) error {
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	repaired, err := svc.RepairOrphans(ctx, cmd.String("employer"))
	if err != nil {
		return fmt.Errorf("repair orphans: %w", err)
	}
	fmt.Printf("jobs repaired: %d\n", repaired)
	return nil
}

func seedAction(ctx context.Context, _ *cli.Command) error {
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	lat, lon := 52.5200, 13.4050
	start := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
	end := start.Add(8 * time.Hour)

	seeds := []model.Job{
		{
			EmployerID:      "user_demo_employer_example_com",
			Title:           "Night door supervision",
			Category:        "security",
			RequiredAllTags: []string{"guard_license_34a"},
			Address: model.Address{
				Street: "Alexanderplatz 1", PostalCode: "10178", City: "Berlin",
				Lat: &lat, Lon: &lon,
			},
			Status:            model.JobStatusOpen,
			TimeMode:          model.TimeModeFixedTime,
			StartAt:           &start,
			EndAt:             &end,
			WorkerAmountCents: 18000,
		},
		{
			EmployerID:        "user_demo_employer_example_com",
			Title:             "Warehouse picking support",
			Category:          "logistics",
			RequiredAnyTags:   []string{"forklift_license", "warehouse_picking"},
			Status:            model.JobStatusOpen,
			TimeMode:          model.TimeModeHourPackage,
			Hours:             20,
			WorkerAmountCents: 30000,
		},
		{
			EmployerID:        "user_demo_employer_example_com",
			Title:             "Catering buildup",
			Category:          "events",
			Status:            model.JobStatusDraft,
			TimeMode:          model.TimeModeProject,
			WorkerAmountCents: 45000,
		},
	}

	for _, job := range seeds {
		created, err := svc.CreateJob(ctx, job)
		if err != nil {
			return fmt.Errorf("seed %q: %w", job.Title, err)
		}
		fmt.Printf("seeded %s (%s)\n", created.Title, created.ID)
	}
	return nil
}
