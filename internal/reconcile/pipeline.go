// Package reconcile drives the hourly redemption reconciliation batch:
// compile transaction inputs into per-hour ledgers, then audit each hour
// against the upstream balance snapshots.
package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jlim/voucher-recon/internal/ledger"
	"github.com/jlim/voucher-recon/internal/logger"
	"github.com/jlim/voucher-recon/internal/record"
)

// Output file naming contract.
const (
	LedgerFilePrefix = "Redeem"
	AuditFilePrefix  = "Audit"
	OutputFileExt    = ".csv"
)

// LedgerPath returns the compiled ledger path for an hour key.
func LedgerPath(dir, key string) string {
	return filepath.Join(dir, LedgerFilePrefix+key+OutputFileExt)
}

// AuditPath returns the audit report path for an hour key.
func AuditPath(dir, key string) string {
	return filepath.Join(dir, AuditFilePrefix+key+OutputFileExt)
}

// Options configures one reconciliation run.
type Options struct {
	// InputPaths are the transaction files to compile. When empty,
	// InputDir is scanned instead.
	InputPaths []string
	// InputDir is scanned (non-recursive) for files with a recognized
	// extension, processed in ascending filename order.
	InputDir string
	// Extensions recognized during directory scanning; defaults to .csv.
	Extensions []string

	LedgerDir   string
	SnapshotDir string
	AuditDir    string

	// Mode is the bucket write policy; defaults to ledger.ModeAppend,
	// the observed upstream behavior (reruns duplicate rows).
	Mode ledger.Mode

	// Workers caps the bucket-parallel audit fan-out. Values below 2 run
	// the audit phase sequentially. Output contents are identical either
	// way: buckets are independent and each file has exactly one writer.
	Workers int
}

// Result lists what a run produced, in ascending hour-key order.
type Result struct {
	RunID       string
	LedgerFiles []string
	AuditFiles  []string
}

// Run executes a full compile+audit batch. It either completes
// deterministically or fails on the first malformed record; there is no
// partial-success mode and no retry.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	inputs := opts.InputPaths
	if len(inputs) == 0 {
		var err error
		inputs, err = DiscoverInputs(opts.InputDir, opts.Extensions)
		if err != nil {
			return nil, err
		}
	}
	log.Info().Int("input_files", len(inputs)).Msg("compiling redemption transactions")

	compiled, err := Compile(inputs)
	if err != nil {
		return nil, err
	}

	keys := compiled.HourKeys()
	writer := ledger.NewWriter(opts.Mode)
	result := &Result{RunID: runID}

	// Ledger emission stays sequential in ascending hour order.
	for _, key := range keys {
		rows := make([][]string, 0, len(compiled.Buckets[key]))
		for _, tx := range compiled.Buckets[key] {
			rows = append(rows, record.RenderTransactionRow(tx))
		}
		path := LedgerPath(opts.LedgerDir, key)
		if err := writer.Append(path, record.TransactionHeader, rows); err != nil {
			return nil, err
		}
		result.LedgerFiles = append(result.LedgerFiles, path)
		log.Debug().Str("hour", key).Int("rows", len(rows)).Str("file", path).Msg("ledger written")
	}

	// Audit buckets are independent: separate snapshot lookups, separate
	// output files. Fan out when asked to, one writer per file.
	auditFiles := make([]string, len(keys))
	var g errgroup.Group
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i, key := range keys {
		g.Go(func() error {
			entries, err := Audit(key, compiled.Tallies[key], opts.SnapshotDir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			mismatches := 0
			for _, e := range entries {
				if e.Status == record.StatusMismatch {
					mismatches++
				}
				rows = append(rows, record.RenderAuditRow(e))
			}
			path := AuditPath(opts.AuditDir, key)
			if err := writer.Append(path, record.AuditHeader, rows); err != nil {
				return err
			}
			auditFiles[i] = path
			if mismatches > 0 {
				log.Warn().Str("hour", key).Int("mismatches", mismatches).Str("file", path).Msg("balance mismatches found")
			} else {
				log.Debug().Str("hour", key).Int("rows", len(rows)).Str("file", path).Msg("audit written")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.AuditFiles = auditFiles

	log.Info().
		Int("buckets", len(keys)).
		Int("ledger_files", len(result.LedgerFiles)).
		Int("audit_files", len(result.AuditFiles)).
		Msg("reconciliation complete")
	return result, nil
}

// DiscoverInputs lists files in dir carrying one of the recognized
// extensions, sorted ascending by filename. The sort fixes the encounter
// order of rows and therefore the within-bucket ledger order.
func DiscoverInputs(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{OutputFileExt}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan input dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(name), ext) {
				paths = append(paths, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
