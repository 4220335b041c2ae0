package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one double-entry posting: a non-negative amount moved from
// the credit account to the debit account. Direction is encoded entirely by
// which account sits on which side; the amount itself carries no sign.
type Transaction struct {
	EntityID string
	VersionFields

	OrganizationID  string
	TransactionDate time.Time
	Amount          decimal.Decimal
	DebitAccountID  string
	CreditAccountID string
	Description     string
	ReferenceNumber string

	IsVoided   bool
	VoidedAt   *time.Time
	VoidedBy   string
	VoidReason string

	Reconciled      bool
	ReconciledAt    *time.Time
	StatementLineID string
}

// Validate checks the structural rules every version must satisfy.
func (t *Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.DebitAccountID == t.CreditAccountID {
		return ErrSameAccount
	}

	return nil
}

// TransactionPatch carries the fields an edit may change. Nil fields copy
// forward from the current version untouched, so partial updates can never
// null out unspecified fields.
type TransactionPatch struct {
	TransactionDate *time.Time
	Amount          *decimal.Decimal
	DebitAccountID  *string
	CreditAccountID *string
	Description     *string
	ReferenceNumber *string
	Reconciled      *bool
	ReconciledAt    *time.Time
	StatementLineID *string
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.TransactionDate == nil && p.Amount == nil &&
		p.DebitAccountID == nil && p.CreditAccountID == nil &&
		p.Description == nil && p.ReferenceNumber == nil &&
		p.Reconciled == nil && p.ReconciledAt == nil && p.StatementLineID == nil
}

// NextVersion builds the version superseding t: a full copy of t with only
// the patch-present fields overlaid, fresh version fields, and the
// previous-version pointer set to t's version ID.
func (t *Transaction) NextVersion(patch TransactionPatch, versionID string, now time.Time, actor string) *Transaction {
	next := *t
	next.VersionFields = NextVersionFields(t.VersionFields, versionID, now, actor)

	if patch.TransactionDate != nil {
		next.TransactionDate = *patch.TransactionDate
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.DebitAccountID != nil {
		next.DebitAccountID = *patch.DebitAccountID
	}
	if patch.CreditAccountID != nil {
		next.CreditAccountID = *patch.CreditAccountID
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.ReferenceNumber != nil {
		next.ReferenceNumber = *patch.ReferenceNumber
	}
	if patch.Reconciled != nil {
		next.Reconciled = *patch.Reconciled
	}
	if patch.ReconciledAt != nil {
		next.ReconciledAt = patch.ReconciledAt
	}
	if patch.StatementLineID != nil {
		next.StatementLineID = *patch.StatementLineID
	}

	return &next
}

// VoidVersion builds the terminal voided version of t. Void carries no
// patch: every business field copies forward, only the void markers change.
func (t *Transaction) VoidVersion(reason, versionID string, now time.Time, actor string) *Transaction {
	next := *t
	next.VersionFields = NextVersionFields(t.VersionFields, versionID, now, actor)
	next.IsVoided = true
	at := now
	next.VoidedAt = &at
	next.VoidedBy = actor
	next.VoidReason = reason

	return &next
}

// Touches reports whether the transaction posts through accountID on either
// side.
func (t *Transaction) Touches(accountID string) bool {
	return t.DebitAccountID == accountID || t.CreditAccountID == accountID
}
