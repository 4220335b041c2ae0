package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCalculateBillStatus(t *testing.T) {
	billAmount := decimal.NewFromInt(500)

	payment := func(amount int64) *BillPayment {
		return &BillPayment{Amount: decimal.NewFromInt(amount)}
	}

	tests := []struct {
		name     string
		payments []*BillPayment
		want     BillStatus
	}{
		{"no payments", nil, BillStatusOpen},
		{"partial payment", []*BillPayment{payment(200)}, BillStatusPartiallyPaid},
		{"exact payment", []*BillPayment{payment(500)}, BillStatusPaid},
		{"overpayment", []*BillPayment{payment(300), payment(300)}, BillStatusPaid},
		{"several partials", []*BillPayment{payment(100), payment(150)}, BillStatusPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateBillStatus(billAmount, tt.payments); got != tt.want {
				t.Errorf("CalculateBillStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBill_NextVersion_PatchOverlay(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	bill := &Bill{
		EntityID:             "bill-1",
		VersionFields:        NewVersionFields("v-1", now, "alice"),
		OrganizationID:       "org-1",
		VendorName:           "Acme Supplies",
		Amount:               decimal.NewFromInt(500),
		DueDate:              now.AddDate(0, 1, 0),
		Status:               BillStatusOpen,
		AccrualTransactionID: "txn-1",
	}

	status := BillStatusPartiallyPaid
	next := bill.NextVersion(BillPatch{Status: &status}, "v-2", now.Add(time.Hour), "bob")

	if next.Status != BillStatusPartiallyPaid {
		t.Errorf("status = %v, want PARTIALLY_PAID", next.Status)
	}
	// Unpatched fields copy forward.
	if next.VendorName != "Acme Supplies" || !next.Amount.Equal(decimal.NewFromInt(500)) {
		t.Error("unpatched fields must survive the new version")
	}
	if next.AccrualTransactionID != "txn-1" {
		t.Error("accrual link must survive the new version")
	}
	if next.PreviousVersionID != "v-1" {
		t.Errorf("previous version = %q, want v-1", next.PreviousVersionID)
	}
}

func TestBillPayment_DeletedVersion(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p := &BillPayment{
		EntityID:      "pay-1",
		VersionFields: NewVersionFields("v-1", now, "alice"),
		BillID:        "bill-1",
		TransactionID: "txn-2",
		Amount:        decimal.NewFromInt(200),
	}

	tomb := p.DeletedVersion("v-2", now.Add(time.Hour), "system")

	if !tomb.IsDeleted {
		t.Error("tombstone must be marked deleted")
	}
	if tomb.IsCurrent() {
		t.Error("tombstone must not be current")
	}
	if tomb.BillID != "bill-1" || tomb.TransactionID != "txn-2" {
		t.Error("tombstone keeps the link fields for audit")
	}
}

func TestAccountType_Contributions(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		accType    AccountType
		debitSign  int
		creditSign int
	}{
		{AccountTypeAsset, 1, -1},
		{AccountTypeExpense, 1, -1},
		{AccountTypeLiability, -1, 1},
		{AccountTypeEquity, -1, 1},
		{AccountTypeRevenue, -1, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.accType), func(t *testing.T) {
			debit := tt.accType.DebitContribution(amount)
			credit := tt.accType.CreditContribution(amount)

			if debit.Sign() != tt.debitSign {
				t.Errorf("debit sign = %d, want %d", debit.Sign(), tt.debitSign)
			}
			if credit.Sign() != tt.creditSign {
				t.Errorf("credit sign = %d, want %d", credit.Sign(), tt.creditSign)
			}
			if !debit.Add(credit).IsZero() {
				t.Error("debit and credit contributions must cancel")
			}
		})
	}
}
