package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType determines which side of a posting increases the balance.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitContribution returns the signed balance effect of debiting amount
// against an account of this type. Assets and expenses grow on the debit
// side; liabilities, equity and revenue shrink.
func (t AccountType) DebitContribution(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return amount
	default:
		return amount.Neg()
	}
}

// CreditContribution is the exact inverse of DebitContribution.
func (t AccountType) CreditContribution(amount decimal.Decimal) decimal.Decimal {
	return t.DebitContribution(amount).Neg()
}

// Account is a versioned ledger account. CurrentBalance is a cache of the
// signed sum of all current, non-voided transactions touching the account;
// it is maintained in the same atomic unit as every transaction write and
// never derived at read time.
type Account struct {
	EntityID string
	VersionFields

	OrganizationID string
	Name           string
	Type           AccountType
	CurrentBalance decimal.Decimal
}

// AccountPatch carries the fields an edit may change. Nil fields survive
// unchanged on the next version.
type AccountPatch struct {
	Name *string
	Type *AccountType
}

// NextVersion builds the version superseding a, overlaying only the fields
// present in patch. The balance cache carries forward untouched.
func (a *Account) NextVersion(patch AccountPatch, versionID string, now time.Time, actor string) *Account {
	next := *a
	next.VersionFields = NextVersionFields(a.VersionFields, versionID, now, actor)

	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}

	return &next
}

// DeletedVersion builds the tombstone version for a.
func (a *Account) DeletedVersion(versionID string, now time.Time, actor string) *Account {
	next := *a
	next.VersionFields = NextVersionFields(a.VersionFields, versionID, now, actor)
	next.MarkDeleted(now, actor)

	return &next
}
