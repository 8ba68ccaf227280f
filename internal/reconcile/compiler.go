package reconcile

import (
	"fmt"
	"sort"

	"github.com/jlim/voucher-recon/internal/hourkey"
	"github.com/jlim/voucher-recon/internal/record"
)

// Tally counts redemptions per (household, denomination) within one hour
// bucket.
type Tally map[record.BalanceKey]int

// CompileResult is the grouped output of a compile pass: per-bucket
// ledgers in encounter order plus per-bucket redemption tallies.
type CompileResult struct {
	Buckets map[string][]record.Transaction
	Tallies map[string]Tally
}

// HourKeys returns the bucket keys in ascending (chronological) order.
func (r *CompileResult) HourKeys() []string {
	keys := make([]string, 0, len(r.Buckets))
	for k := range r.Buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Compile reads every input file in the given order, parses each row and
// groups rows into hour buckets by transaction timestamp. Within a bucket
// rows keep the order they were encountered across the input list, which
// makes the emitted ledgers deterministic for a fixed input ordering.
//
// Any row that fails to parse aborts the whole compile; this is a batch
// correctness tool, and a clear file/row error beats partial output.
func Compile(paths []string) (*CompileResult, error) {
	res := &CompileResult{
		Buckets: make(map[string][]record.Transaction),
		Tallies: make(map[string]Tally),
	}

	for _, path := range paths {
		rows, err := record.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			tx, err := record.ParseTransaction(row)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
			}
			key := hourkey.FromTime(tx.Timestamp)
			res.Buckets[key] = append(res.Buckets[key], tx)

			tally := res.Tallies[key]
			if tally == nil {
				tally = make(Tally)
				res.Tallies[key] = tally
			}
			tally[record.BalanceKey{HouseholdID: tx.HouseholdID, Denomination: tx.Denomination}]++
		}
	}
	return res, nil
}
