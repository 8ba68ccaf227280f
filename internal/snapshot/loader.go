// Package snapshot loads the per-hour balance snapshot files produced
// upstream. A snapshot maps (household, denomination) to the voucher
// balance recorded at the end of that hour.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jlim/voucher-recon/internal/record"
)

// FilePrefix and FileExt form the snapshot file naming contract:
// RedemptionBalance<HourKey>.csv.
const (
	FilePrefix = "RedemptionBalance"
	FileExt    = ".csv"
)

// Path returns the snapshot file path for an hour key inside dir.
func Path(dir, hourKey string) string {
	return filepath.Join(dir, FilePrefix+hourKey+FileExt)
}

// Balances is a snapshot's lookup table.
type Balances map[record.BalanceKey]int

// Load reads the snapshot for hourKey from dir. A missing file is a
// legitimate "no data for that hour" condition and yields an empty map,
// not an error. When the same (household, denomination) key appears more
// than once in a file, the last row wins.
func Load(dir, hourKey string) (Balances, error) {
	path := Path(dir, hourKey)

	rows, err := record.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Balances{}, nil
		}
		return nil, err
	}

	balances := make(Balances, len(rows))
	for i, row := range rows {
		entry, err := record.ParseSnapshotEntry(row)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		balances[entry.Key()] = entry.Balance
	}
	return balances, nil
}
