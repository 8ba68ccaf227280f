package reconcile

import (
	"fmt"
	"sort"

	"github.com/jlim/voucher-recon/internal/hourkey"
	"github.com/jlim/voucher-recon/internal/record"
	"github.com/jlim/voucher-recon/internal/snapshot"
)

// Audit reconciles one hour bucket. For every (household, denomination)
// pair with redemption activity it compares the previous hour's snapshot
// balance minus the redeemed count against the balance the current hour's
// snapshot actually recorded.
//
// Each redemption must decrement the balance by exactly one unit. A
// MISMATCH means the independently captured snapshot disagrees with the
// redemption trail — data loss, double-spend or out-of-band tampering —
// and is reported, never corrected here.
func Audit(key string, tally Tally, snapshotDir string) ([]record.AuditEntry, error) {
	prevKey, err := hourkey.Previous(key)
	if err != nil {
		return nil, err
	}
	prev, err := snapshot.Load(snapshotDir, prevKey)
	if err != nil {
		return nil, fmt.Errorf("previous snapshot for %s: %w", key, err)
	}
	curr, err := snapshot.Load(snapshotDir, key)
	if err != nil {
		return nil, fmt.Errorf("current snapshot for %s: %w", key, err)
	}

	entries := make([]record.AuditEntry, 0, len(tally))
	for _, bk := range sortedKeys(tally) {
		count := tally[bk]
		if count == 0 {
			continue
		}
		entries = append(entries, classify(key, bk, count, prev, curr))
	}
	return entries, nil
}

// classify is the pure reconciliation verdict for one tallied key.
// A missing previous balance takes precedence over a missing actual one.
func classify(key string, bk record.BalanceKey, count int, prev, curr snapshot.Balances) record.AuditEntry {
	e := record.AuditEntry{
		Date:          hourkey.Date(key),
		Hour:          hourkey.Hour(key),
		HouseholdID:   bk.HouseholdID,
		Denomination:  bk.Denomination,
		RedeemedCount: count,
	}

	prevBal, havePrev := prev[bk]
	actBal, haveActual := curr[bk]
	if havePrev {
		e.PrevBalance = intPtr(prevBal)
	}
	if haveActual {
		e.ActualBalance = intPtr(actBal)
	}

	switch {
	case !havePrev:
		e.Status = record.StatusSkipNoPrev
	case !haveActual:
		e.Status = record.StatusSkipNoActual
	default:
		expected := prevBal - count
		e.ExpectedBalance = intPtr(expected)
		if expected == actBal {
			e.Status = record.StatusOK
		} else {
			e.Status = record.StatusMismatch
		}
	}
	return e
}

// sortedKeys orders tally keys ascending by (household, denomination) so
// audit rows come out deterministically.
func sortedKeys(tally Tally) []record.BalanceKey {
	keys := make([]record.BalanceKey, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].HouseholdID != keys[j].HouseholdID {
			return keys[i].HouseholdID < keys[j].HouseholdID
		}
		return keys[i].Denomination < keys[j].Denomination
	})
	return keys
}

func intPtr(v int) *int { return &v }
