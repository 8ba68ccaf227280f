package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jlim/voucher-recon/internal/config"
	"github.com/jlim/voucher-recon/internal/ledger"
	"github.com/jlim/voucher-recon/internal/logger"
	"github.com/jlim/voucher-recon/internal/reconcile"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "path to the YAML run configuration")
	inputDir := flag.String("input-dir", "", "directory of transaction input files (overrides config)")
	ledgerDir := flag.String("ledger-dir", "", "destination for Redeem<HourKey>.csv files (overrides config)")
	snapshotDir := flag.String("snapshot-dir", "", "directory of RedemptionBalance<HourKey>.csv files (overrides config)")
	auditDir := flag.String("audit-dir", "", "destination for Audit<HourKey>.csv files (overrides config)")
	policy := flag.String("policy", "", "bucket write policy: append or replace (overrides config)")
	workers := flag.Int("workers", 0, "audit fan-out width; <2 runs sequentially (overrides config)")
	flag.Parse()

	opts := reconcile.Options{}
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading configuration")
		}
		mode, _ := cfg.Mode()
		opts = reconcile.Options{
			InputDir:    cfg.Input.Dir,
			Extensions:  cfg.Input.Extensions,
			LedgerDir:   cfg.Output.LedgerDir,
			SnapshotDir: cfg.Snapshots.Dir,
			AuditDir:    cfg.Output.AuditDir,
			Mode:        mode,
			Workers:     cfg.Run.Workers,
		}
	}
	if *inputDir != "" {
		opts.InputDir = *inputDir
	}
	if *ledgerDir != "" {
		opts.LedgerDir = *ledgerDir
	}
	if *snapshotDir != "" {
		opts.SnapshotDir = *snapshotDir
	}
	if *auditDir != "" {
		opts.AuditDir = *auditDir
	}
	if *policy != "" {
		mode, err := ledger.ParseMode(*policy)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -policy")
		}
		opts.Mode = mode
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	if opts.InputDir == "" || opts.LedgerDir == "" || opts.SnapshotDir == "" || opts.AuditDir == "" {
		log.Fatal().Msg("need -config or all of -input-dir, -ledger-dir, -snapshot-dir, -audit-dir")
	}

	ctx := logger.WithContext(context.Background(), log)

	res, err := reconcile.Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliation failed")
	}

	for _, p := range res.LedgerFiles {
		fmt.Println(p)
	}
	for _, p := range res.AuditFiles {
		fmt.Println(p)
	}
}
