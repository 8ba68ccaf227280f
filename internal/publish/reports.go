package publish

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/jlim/voucher-recon/internal/reconcile"
	"github.com/jlim/voucher-recon/internal/record"
)

// DiscoverReports lists the Audit<HourKey>.csv files in dir, ascending by
// hour key.
func DiscoverReports(dir string) ([]string, error) {
	pattern := filepath.Join(dir, reconcile.AuditFilePrefix+"*"+reconcile.OutputFileExt)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan audit dir %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadReportRows parses the given audit report files into warehouse rows
// stamped with runID.
func LoadReportRows(runID string, paths []string, loadedAt time.Time) ([]*AuditRow, error) {
	var out []*AuditRow
	for _, p := range paths {
		rows, err := record.ReadFile(p)
		if err != nil {
			return nil, err
		}
		for i, raw := range rows {
			entry, err := record.ParseAuditEntry(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", p, i+1, err)
			}
			row, err := AuditRowFromEntry(runID, filepath.Base(p), entry, loadedAt)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", p, i+1, err)
			}
			out = append(out, row)
		}
	}
	return out, nil
}
