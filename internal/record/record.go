// Package record defines the three record shapes moving through the
// reconciler — redemption transactions, balance snapshot entries and audit
// entries — together with the codec that parses and renders them.
package record

import "time"

// Transaction column names, in the fixed input/output order.
const (
	ColTransactionID  = "Transaction_ID"
	ColHouseholdID    = "Household_ID"
	ColMerchantID     = "Merchant_ID"
	ColDateTime       = "Transaction_Date_Time"
	ColVoucherCode    = "Voucher_Code"
	ColDenomination   = "Denomination_Used"
	ColAmountRedeemed = "Amount_Redeemed"
	ColPaymentStatus  = "Payment_Status"
	ColRemarks        = "Remarks"
)

// TransactionHeader is the column order of transaction input files and of
// the compiled Redeem<HourKey>.csv ledgers.
var TransactionHeader = []string{
	ColTransactionID,
	ColHouseholdID,
	ColMerchantID,
	ColDateTime,
	ColVoucherCode,
	ColDenomination,
	ColAmountRedeemed,
	ColPaymentStatus,
	ColRemarks,
}

// SnapshotHeader is the column order of RedemptionBalance<HourKey>.csv files.
var SnapshotHeader = []string{"household_id", "denomination", "voucher_balance", "date", "hour"}

// AuditHeader is the column order of Audit<HourKey>.csv reports.
var AuditHeader = []string{
	"date", "hour", "household_id", "denomination",
	"prev_balance", "redeemed_count", "expected_balance", "actual_balance", "status",
}

// Transaction is one voucher redemption event. Raw column values are kept
// as read (trimmed) so compiled ledgers reproduce the input verbatim; the
// parsed timestamp and normalized denomination sit alongside them.
type Transaction struct {
	TransactionID   string
	HouseholdID     string
	MerchantID      string
	DateTime        string // raw timestamp text as it appeared in the input
	VoucherCode     string
	DenominationRaw string // raw denomination text, e.g. "$2.00"
	AmountRedeemed  string // passed through unvalidated
	PaymentStatus   string
	Remarks         string

	Timestamp    time.Time
	Denomination int
}

// SnapshotEntry is one household+denomination balance known at the end of
// a specific hour.
type SnapshotEntry struct {
	HouseholdID  string
	Denomination int
	Balance      int
	Date         string
	Hour         string
}

// BalanceKey identifies a balance within one snapshot.
type BalanceKey struct {
	HouseholdID  string
	Denomination int
}

// Key returns the lookup key for this entry.
func (e SnapshotEntry) Key() BalanceKey {
	return BalanceKey{HouseholdID: e.HouseholdID, Denomination: e.Denomination}
}

// AuditStatus classifies one reconciliation outcome.
type AuditStatus string

const (
	// StatusOK means expected and actual balances agree.
	StatusOK AuditStatus = "OK"
	// StatusMismatch means the snapshot does not reflect the redemptions.
	StatusMismatch AuditStatus = "MISMATCH"
	// StatusSkipNoPrev means the previous hour had no snapshot entry for
	// the key; no expectation can be formed.
	StatusSkipNoPrev AuditStatus = "SKIP_NO_PREV"
	// StatusSkipNoActual means the current hour had no snapshot entry for
	// the key; the expectation cannot be checked.
	StatusSkipNoActual AuditStatus = "SKIP_NO_ACTUAL"
)

// AuditEntry is one reconciliation outcome for an (hour, household,
// denomination) triple. Nil balances mean the corresponding snapshot had
// no entry for the key and render as blank fields.
type AuditEntry struct {
	Date            string
	Hour            string
	HouseholdID     string
	Denomination    int
	PrevBalance     *int
	RedeemedCount   int
	ExpectedBalance *int
	ActualBalance   *int
	Status          AuditStatus
}
