package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementStatus tracks a statement through its reconciliation lifecycle.
type StatementStatus string

const (
	StatementStatusImported  StatementStatus = "IMPORTED"
	StatementStatusMatching  StatementStatus = "MATCHING"
	StatementStatusCompleted StatementStatus = "COMPLETED"
)

// LineStatus tracks a single statement line.
type LineStatus string

const (
	LineStatusUnmatched LineStatus = "UNMATCHED"
	LineStatusMatched   LineStatus = "MATCHED"
	LineStatusConfirmed LineStatus = "CONFIRMED"
	LineStatusSkipped   LineStatus = "SKIPPED"
)

// MatchType records how a line was paired with a transaction.
type MatchType string

const (
	MatchTypeAutoExact MatchType = "AUTO_EXACT"
	MatchTypeAutoFuzzy MatchType = "AUTO_FUZZY"
	MatchTypeManual    MatchType = "MANUAL"
)

// BankStatement is a batch of externally-supplied lines for one bank
// account. Upstream file parsing is a collaborator concern; lines arrive
// already normalized.
type BankStatement struct {
	EntityID string
	VersionFields

	OrganizationID string
	BankAccountID  string
	StatementDate  time.Time
	Status         StatementStatus
}

// StatementPatch carries the fields an edit may change.
type StatementPatch struct {
	Status *StatementStatus
}

// NextVersion builds the version superseding s.
func (s *BankStatement) NextVersion(patch StatementPatch, versionID string, now time.Time, actor string) *BankStatement {
	next := *s
	next.VersionFields = NextVersionFields(s.VersionFields, versionID, now, actor)

	if patch.Status != nil {
		next.Status = *patch.Status
	}

	return &next
}

// StatementLine is one bank-reported movement. Amount is signed: deposits
// positive, withdrawals negative. Matching compares absolute values because
// direction is implied by which side the ledger transaction posts through.
type StatementLine struct {
	EntityID string
	VersionFields

	StatementID     string
	TransactionDate time.Time
	Amount          decimal.Decimal
	Description     string
	ReferenceNumber string
	Category        string

	Status               LineStatus
	MatchedTransactionID string
	MatchType            MatchType
	MatchScore           float64
	MatchedAt            *time.Time
}

// StatementLinePatch carries the fields an edit may change.
type StatementLinePatch struct {
	Status               *LineStatus
	MatchedTransactionID *string
	MatchType            *MatchType
	MatchScore           *float64
	MatchedAt            *time.Time
}

// NextVersion builds the version superseding l with patch-present fields
// overlaid.
func (l *StatementLine) NextVersion(patch StatementLinePatch, versionID string, now time.Time, actor string) *StatementLine {
	next := *l
	next.VersionFields = NextVersionFields(l.VersionFields, versionID, now, actor)

	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.MatchedTransactionID != nil {
		next.MatchedTransactionID = *patch.MatchedTransactionID
	}
	if patch.MatchType != nil {
		next.MatchType = *patch.MatchType
	}
	if patch.MatchScore != nil {
		next.MatchScore = *patch.MatchScore
	}
	if patch.MatchedAt != nil {
		next.MatchedAt = patch.MatchedAt
	}

	return &next
}
