package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Timestamp layouts accepted for Transaction_Date_Time, tried in order.
var timestampLayouts = []string{
	"2006-01-02-150405",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// MalformedTimestampError reports a transaction timestamp matching none of
// the accepted layouts.
type MalformedTimestampError struct {
	Raw string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("unrecognized Transaction_Date_Time format: %q", e.Raw)
}

// MalformedDenominationError reports a denomination that does not resolve
// to a non-negative whole number after symbol and decimal normalization.
type MalformedDenominationError struct {
	Raw string
}

func (e *MalformedDenominationError) Error() string {
	return fmt.Sprintf("denomination %q does not resolve to a non-negative whole number", e.Raw)
}

// ParseTimestamp parses a transaction timestamp, trying each accepted
// layout in order. The first layout that parses wins.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedTimestampError{Raw: s}
}

// ParseDenomination normalizes a denomination value to a whole-unit
// integer. A leading currency symbol is stripped and an all-zero decimal
// component is tolerated, so "$2", "2" and "2.00" all resolve to 2.
// Exact decimal arithmetic is used; no float round-trip.
func ParseDenomination(s string) (int, error) {
	raw := s
	n, err := parseWholeAmount(s)
	if err != nil {
		return 0, &MalformedDenominationError{Raw: raw}
	}
	return n, nil
}

// parseWholeAmount resolves a possibly symbol-prefixed decimal string to a
// non-negative integer. Fractional remainders are rejected.
func parseWholeAmount(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return 0, fmt.Errorf("not numeric: %w", err)
	}
	if d.Negative && !d.IsZero() {
		return 0, fmt.Errorf("negative amount")
	}
	if d.IsZero() {
		return 0, nil
	}
	// Strip trailing zeros so "2.00" carries exponent 0 before conversion.
	d.Reduce(&d)
	if d.Exponent < 0 {
		return 0, fmt.Errorf("fractional amount")
	}
	n, err := d.Int64()
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %w", err)
	}
	return int(n), nil
}

// ParseTransaction builds a Transaction from a header-keyed row. All
// values are trimmed; columns absent from the row become empty strings.
// The timestamp and denomination must normalize or an error is returned.
func ParseTransaction(row map[string]string) (Transaction, error) {
	get := func(col string) string { return strings.TrimSpace(row[col]) }

	tx := Transaction{
		TransactionID:   get(ColTransactionID),
		HouseholdID:     get(ColHouseholdID),
		MerchantID:      get(ColMerchantID),
		DateTime:        get(ColDateTime),
		VoucherCode:     get(ColVoucherCode),
		DenominationRaw: get(ColDenomination),
		AmountRedeemed:  get(ColAmountRedeemed),
		PaymentStatus:   get(ColPaymentStatus),
		Remarks:         get(ColRemarks),
	}

	ts, err := ParseTimestamp(tx.DateTime)
	if err != nil {
		return Transaction{}, err
	}
	tx.Timestamp = ts

	denom, err := ParseDenomination(tx.DenominationRaw)
	if err != nil {
		return Transaction{}, err
	}
	tx.Denomination = denom

	return tx, nil
}

// RenderTransactionRow renders a transaction back into the fixed ledger
// column order, reproducing the raw timestamp and denomination text.
func RenderTransactionRow(tx Transaction) []string {
	return []string{
		tx.TransactionID,
		tx.HouseholdID,
		tx.MerchantID,
		tx.DateTime,
		tx.VoucherCode,
		tx.DenominationRaw,
		tx.AmountRedeemed,
		tx.PaymentStatus,
		tx.Remarks,
	}
}

// ParseSnapshotEntry builds a SnapshotEntry from a header-keyed row of a
// RedemptionBalance file. Household id and denomination are normalized the
// same way transaction rows are.
func ParseSnapshotEntry(row map[string]string) (SnapshotEntry, error) {
	get := func(col string) string { return strings.TrimSpace(row[col]) }

	denom, err := ParseDenomination(get("denomination"))
	if err != nil {
		return SnapshotEntry{}, err
	}
	balance, err := parseWholeAmount(get("voucher_balance"))
	if err != nil {
		return SnapshotEntry{}, fmt.Errorf("voucher_balance %q: %w", get("voucher_balance"), err)
	}

	return SnapshotEntry{
		HouseholdID:  get("household_id"),
		Denomination: denom,
		Balance:      balance,
		Date:         get("date"),
		Hour:         get("hour"),
	}, nil
}

// RenderAuditRow renders an audit entry into the fixed audit column order.
// The denomination carries a currency-symbol prefix; nil balances render
// as blank fields.
func RenderAuditRow(e AuditEntry) []string {
	return []string{
		e.Date,
		e.Hour,
		e.HouseholdID,
		"$" + strconv.Itoa(e.Denomination),
		renderNullableInt(e.PrevBalance),
		strconv.Itoa(e.RedeemedCount),
		renderNullableInt(e.ExpectedBalance),
		renderNullableInt(e.ActualBalance),
		string(e.Status),
	}
}

// ParseAuditEntry builds an AuditEntry from a header-keyed row of a
// written Audit file. Used when publishing reports to the warehouse.
func ParseAuditEntry(row map[string]string) (AuditEntry, error) {
	get := func(col string) string { return strings.TrimSpace(row[col]) }

	denom, err := ParseDenomination(get("denomination"))
	if err != nil {
		return AuditEntry{}, err
	}
	count, err := strconv.Atoi(get("redeemed_count"))
	if err != nil {
		return AuditEntry{}, fmt.Errorf("redeemed_count %q: %w", get("redeemed_count"), err)
	}

	e := AuditEntry{
		Date:          get("date"),
		Hour:          get("hour"),
		HouseholdID:   get("household_id"),
		Denomination:  denom,
		RedeemedCount: count,
		Status:        AuditStatus(get("status")),
	}
	if e.PrevBalance, err = parseNullableInt(get("prev_balance")); err != nil {
		return AuditEntry{}, fmt.Errorf("prev_balance: %w", err)
	}
	if e.ExpectedBalance, err = parseNullableInt(get("expected_balance")); err != nil {
		return AuditEntry{}, fmt.Errorf("expected_balance: %w", err)
	}
	if e.ActualBalance, err = parseNullableInt(get("actual_balance")); err != nil {
		return AuditEntry{}, fmt.Errorf("actual_balance: %w", err)
	}
	return e, nil
}

func renderNullableInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseNullableInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
