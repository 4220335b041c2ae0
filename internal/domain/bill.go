package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is derived from the bill's current non-deleted payment links,
// except CANCELLED which is terminal and set explicitly.
type BillStatus string

const (
	BillStatusOpen          BillStatus = "OPEN"
	BillStatusPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillStatusPaid          BillStatus = "PAID"
	BillStatusCancelled     BillStatus = "CANCELLED"
)

// Bill is a vendor obligation originated by an accrual transaction and
// settled by later payment transactions linked through BillPayment rows.
type Bill struct {
	EntityID string
	VersionFields

	OrganizationID       string
	VendorName           string
	Amount               decimal.Decimal
	DueDate              time.Time
	Status               BillStatus
	AccrualTransactionID string
}

// BillPatch carries the fields an edit may change.
type BillPatch struct {
	VendorName *string
	Amount     *decimal.Decimal
	DueDate    *time.Time
	Status     *BillStatus
}

// NextVersion builds the version superseding b with patch-present fields
// overlaid.
func (b *Bill) NextVersion(patch BillPatch, versionID string, now time.Time, actor string) *Bill {
	next := *b
	next.VersionFields = NextVersionFields(b.VersionFields, versionID, now, actor)

	if patch.VendorName != nil {
		next.VendorName = *patch.VendorName
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.DueDate != nil {
		next.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}

	return &next
}

// BillPayment links a settlement transaction to a bill. Detaching a link is
// a tombstone version, never a row removal.
type BillPayment struct {
	EntityID string
	VersionFields

	BillID        string
	TransactionID string
	Amount        decimal.Decimal
}

// DeletedVersion builds the tombstone version detaching the payment link.
func (p *BillPayment) DeletedVersion(versionID string, now time.Time, actor string) *BillPayment {
	next := *p
	next.VersionFields = NextVersionFields(p.VersionFields, versionID, now, actor)
	next.MarkDeleted(now, actor)

	return &next
}

// CalculateBillStatus derives the status implied by the given payment links
// and their linked transaction amounts. Voided or detached payments must be
// filtered out by the caller before the sum.
func CalculateBillStatus(billAmount decimal.Decimal, payments []*BillPayment) BillStatus {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	switch {
	case paid.IsZero():
		return BillStatusOpen
	case paid.GreaterThanOrEqual(billAmount):
		return BillStatusPaid
	default:
		return BillStatusPartiallyPaid
	}
}
