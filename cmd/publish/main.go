package main

import (
	"context"
	"flag"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/jlim/voucher-recon/internal/config"
	"github.com/jlim/voucher-recon/internal/logger"
	"github.com/jlim/voucher-recon/internal/publish"
	"github.com/jlim/voucher-recon/internal/reconcile"
)

// publish uploads the files a reconciliation run produced to GCS and
// streams the audit rows into BigQuery. It runs after cmd/reconcile; the
// reconciliation itself never performs network I/O.
func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to the YAML run configuration")
	runID := flag.String("run-id", "", "run id to stamp on exported rows (defaults to a new id)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal().Msg("-config is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	if cfg.Publish.GCSBucket == "" && cfg.Publish.Project == "" {
		log.Fatal().Msg("config has no publish target (set publish.gcs_bucket and/or publish.project)")
	}

	id := *runID
	if id == "" {
		id = uuid.NewString()
	}
	log = log.With().Str("run_id", id).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	reports, err := publish.DiscoverReports(cfg.Output.AuditDir)
	if err != nil {
		log.Fatal().Err(err).Msg("discovering audit reports")
	}
	ledgers, err := reconcile.DiscoverInputs(cfg.Output.LedgerDir, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("discovering ledgers")
	}
	if len(reports) == 0 && len(ledgers) == 0 {
		log.Fatal().Msg("nothing to publish")
	}

	if cfg.Publish.GCSBucket != "" {
		prefix := path.Join(cfg.Publish.GCSPrefix, id)
		artifacts := append(append([]string{}, ledgers...), reports...)
		if err := publish.UploadArtifacts(ctx, cfg.Publish.GCSBucket, prefix, artifacts); err != nil {
			log.Fatal().Err(err).Msg("uploading artifacts")
		}
		log.Info().Str("bucket", cfg.Publish.GCSBucket).Str("prefix", prefix).
			Int("files", len(artifacts)).Msg("artifacts uploaded")
	}

	if cfg.Publish.Project != "" {
		rows, err := publish.LoadReportRows(id, reports, time.Now().UTC())
		if err != nil {
			log.Fatal().Err(err).Msg("loading audit reports")
		}
		target := publish.Target{
			Project: cfg.Publish.Project,
			Dataset: cfg.Publish.Dataset,
			Table:   cfg.Publish.Table,
		}
		if err := publish.InsertAuditRows(ctx, target, rows); err != nil {
			log.Fatal().Err(err).Msg("inserting audit rows")
		}
		log.Info().Int("rows", len(rows)).
			Str("table", target.Project+"."+target.Dataset+"."+target.Table).
			Msg("audit rows inserted")
	}
}
