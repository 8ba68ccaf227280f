// Package publish exports artifacts of a completed reconciliation run:
// output files to GCS for retention, audit rows to BigQuery for the
// reporting dashboards. The core run never touches the network; these
// exports happen afterwards, from cmd/publish.
package publish

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/jlim/voucher-recon/internal/record"
)

// AuditRow is the warehouse shape of one audit entry. Nullable balances
// map to NullInt64 exactly as blanks in the CSV reports.
type AuditRow struct {
	RunID string `bigquery:"run_id"`

	AuditDate civil.Date `bigquery:"audit_date"`
	AuditHour int64      `bigquery:"audit_hour"`

	HouseholdID  string `bigquery:"household_id"`
	Denomination int64  `bigquery:"denomination"`

	PrevBalance     bigquery.NullInt64 `bigquery:"prev_balance"`
	RedeemedCount   int64              `bigquery:"redeemed_count"`
	ExpectedBalance bigquery.NullInt64 `bigquery:"expected_balance"`
	ActualBalance   bigquery.NullInt64 `bigquery:"actual_balance"`

	Status     string `bigquery:"status"`
	SourceFile string `bigquery:"source_file"`

	LoadedTS time.Time `bigquery:"loaded_ts"`
}

// Target names the destination table.
type Target struct {
	Project string
	Dataset string
	Table   string
}

// AuditRowFromEntry converts a parsed audit entry into its warehouse row.
func AuditRowFromEntry(runID, sourceFile string, e record.AuditEntry, loadedAt time.Time) (*AuditRow, error) {
	date, err := civil.ParseDate(formatDate(e.Date))
	if err != nil {
		return nil, fmt.Errorf("audit date %q: %w", e.Date, err)
	}
	hour, err := parseHour(e.Hour)
	if err != nil {
		return nil, err
	}

	return &AuditRow{
		RunID:           runID,
		AuditDate:       date,
		AuditHour:       hour,
		HouseholdID:     e.HouseholdID,
		Denomination:    int64(e.Denomination),
		PrevBalance:     nullableInt(e.PrevBalance),
		RedeemedCount:   int64(e.RedeemedCount),
		ExpectedBalance: nullableInt(e.ExpectedBalance),
		ActualBalance:   nullableInt(e.ActualBalance),
		Status:          string(e.Status),
		SourceFile:      sourceFile,
		LoadedTS:        loadedAt,
	}, nil
}

// InsertAuditRows streams rows into the target table.
func InsertAuditRows(ctx context.Context, target Target, rows []*AuditRow) error {
	client, err := bigquery.NewClient(ctx, target.Project)
	if err != nil {
		return fmt.Errorf("InsertAuditRows: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertAuditRowsWithClient(ctx, client, target, rows)
}

// InsertAuditRowsWithClient streams rows using the provided client.
func InsertAuditRowsWithClient(ctx context.Context, client *bigquery.Client, target Target, rows []*AuditRow) error {
	if len(rows) == 0 {
		return nil
	}
	table := client.DatasetInProject(target.Project, target.Dataset).Table(target.Table)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertAuditRows: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// QueryMismatches returns the MISMATCH rows recorded for one audit date,
// ordered by hour then household.
func QueryMismatches(ctx context.Context, client *bigquery.Client, target Target, date civil.Date) ([]*AuditRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT run_id, audit_date, audit_hour, household_id, denomination,
		       prev_balance, redeemed_count, expected_balance, actual_balance,
		       status, source_file, loaded_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE status = 'MISMATCH' AND audit_date = @audit_date
		ORDER BY audit_hour, household_id, denomination`,
		target.Project, target.Dataset, target.Table))
	q.Parameters = []bigquery.QueryParameter{{Name: "audit_date", Value: date}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryMismatches: %w", err)
	}

	var rows []*AuditRow
	for {
		var row AuditRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryMismatches: iterating: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// formatDate turns the report's YYYYMMDD date into YYYY-MM-DD.
func formatDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

func parseHour(h string) (int64, error) {
	v, err := strconv.Atoi(h)
	if err != nil || v < 0 || v > 23 {
		return 0, fmt.Errorf("audit hour %q: want 00-23", h)
	}
	return int64(v), nil
}

func nullableInt(v *int) bigquery.NullInt64 {
	if v == nil {
		return bigquery.NullInt64{}
	}
	return bigquery.NullInt64{Int64: int64(*v), Valid: true}
}
