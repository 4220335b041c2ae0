package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConcurrentModification is the optimistic-lock conflict: the version
	// targeted by a close was already closed by another writer. Callers retry
	// from a fresh read or surface the conflict; the core never retries it.
	ErrConcurrentModification = errors.New("version already closed by another writer")

	// Not-found errors: no current version exists for the given stable ID.
	ErrAccountNotFound       = errors.New("account not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrBillNotFound          = errors.New("bill not found")
	ErrStatementNotFound     = errors.New("bank statement not found")
	ErrStatementLineNotFound = errors.New("statement line not found")

	// Validation errors
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrSameAccount         = errors.New("debit and credit account must differ")
	ErrCrossOrganization   = errors.New("debit and credit accounts belong to different organizations")
	ErrDomainRuleViolation = errors.New("domain rule violation")
)

// Rule names carried by DomainRuleError.
const (
	RuleClosedPeriod          = "closed_fiscal_period"
	RuleAccountHasPostings    = "account_has_postings"
	RuleTransactionVoided     = "transaction_voided"
	RuleTransactionReconciled = "transaction_reconciled"
	RuleStatementCompleted    = "statement_completed"
	RuleLineAlreadyResolved   = "line_already_resolved"
	RuleBillCancelled         = "bill_cancelled"
)

// DomainRuleError is a rejected business-rule violation. It is never
// retried; the request is wrong, not unlucky.
type DomainRuleError struct {
	Rule   string
	Detail string
}

func (e *DomainRuleError) Error() string {
	return fmt.Sprintf("domain rule %s: %s", e.Rule, e.Detail)
}

func (e *DomainRuleError) Unwrap() error {
	return ErrDomainRuleViolation
}

// NewDomainRuleError builds a DomainRuleError with a formatted detail.
func NewDomainRuleError(rule, format string, args ...any) *DomainRuleError {
	return &DomainRuleError{Rule: rule, Detail: fmt.Sprintf(format, args...)}
}
