// Command crm-backfill pushes assisted-sale leads that were captured while
// the CRM sync was down (or not yet configured) into Kommo.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/config"
	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/database"
	"github.com/xavierca1/lead-portal/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-portal/internal/infra/queue"
)

func main() {
	since := flag.Duration("since", 24*time.Hour, "only sync leads created within this window")
	dryRun := flag.Bool("dry-run", false, "list the leads that would be synced without calling Kommo")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}
	if cfg.KommoAPIToken == "" && !*dryRun {
		log.Fatal("KOMMO_API_TOKEN must be set")
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	client := kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL, log)

	synced, failed, err := backfill(context.Background(), database.NewLeadRepository(db), client, time.Now().Add(-*since), *dryRun, log)
	if err != nil {
		log.WithError(err).Fatal("backfill aborted")
	}

	fmt.Printf("synced=%d failed=%d\n", synced, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func backfill(
	ctx context.Context,
	leads entity.LeadRepository,
	crm queue.CRMClient,
	cutoff time.Time,
	dryRun bool,
	log logrus.FieldLogger,
) (synced, failed int, err error) {
	all, err := leads.ListAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, l := range all {
		// newest first, so everything after this one is older still
		if l.CreatedAt.Before(cutoff) {
			break
		}
		if l.Method != entity.MethodAssistedSale {
			continue
		}

		entry := log.WithFields(logrus.Fields{"lead_id": l.ID, "batch": l.Batch})
		if dryRun {
			entry.Info("would sync")
			synced++
			continue
		}

		err := crm.SyncAssistedSale(ctx, queue.AssistedSaleEvent{
			LeadID:   l.ID,
			Name:     l.Name,
			Mobile:   l.Mobile,
			Email:    l.Email,
			Category: l.Category,
			Class:    l.Class,
			Batch:    l.Batch,
		})
		if err != nil {
			entry.WithError(err).Error("sync failed")
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}
