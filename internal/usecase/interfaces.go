package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
)

// AccountRepository defines data access for versioned accounts.
//
// CloseVersion is the version store's sole concurrency primitive: a
// conditional update matching {versionID, systemTo = MAX}. Zero rows
// affected means another writer already closed the version and the
// implementation must return domain.ErrConcurrentModification.
type AccountRepository interface {
	Insert(ctx context.Context, tx Transaction, account *domain.Account) error
	CloseVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetCurrent(ctx context.Context, id string) (*domain.Account, error)
	GetCurrentTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// AddToBalance adjusts the balance cache on the current version row in
	// place. Cache maintenance is not a business change and creates no
	// version.
	AddToBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, now time.Time) error
	SetBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, now time.Time) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for versioned ledger
// transactions.
type TransactionRepository interface {
	Insert(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	CloseVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetCurrent(ctx context.Context, id string) (*domain.Transaction, error)
	GetCurrentTx(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	// GetAsOf returns the version whose valid window covered at.
	GetAsOf(ctx context.Context, id string, at time.Time) (*domain.Transaction, error)
	// GetBitemporalAsOf additionally constrains the system window,
	// reconstructing what the system believed at systemAt.
	GetBitemporalAsOf(ctx context.Context, id string, validAt, systemAt time.Time) (*domain.Transaction, error)
	// History returns every version newest-first, voided and deleted
	// included.
	History(ctx context.Context, id string) ([]*domain.Transaction, error)
	// ListCurrentByAccount returns current versions touching the account,
	// voided included; callers filter.
	ListCurrentByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
	// ListCurrentByAccountTx is ListCurrentByAccount inside the caller's
	// transaction.
	ListCurrentByAccountTx(ctx context.Context, tx Transaction, accountID string) ([]*domain.Transaction, error)
	// ListUnreconciled returns current, non-voided, unreconciled
	// transactions touching the account dated within [from, to].
	ListUnreconciled(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Transaction, error)
}

// BillRepository defines data access for versioned bills and payment links.
type BillRepository interface {
	InsertBill(ctx context.Context, tx Transaction, bill *domain.Bill) error
	CloseBillVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetBill(ctx context.Context, id string) (*domain.Bill, error)
	GetBillTx(ctx context.Context, tx Transaction, id string) (*domain.Bill, error)
	// GetBillByAccrualTransaction returns the bill originated by the given
	// accrual transaction, or domain.ErrBillNotFound.
	GetBillByAccrualTransaction(ctx context.Context, tx Transaction, transactionID string) (*domain.Bill, error)

	InsertPayment(ctx context.Context, tx Transaction, payment *domain.BillPayment) error
	ClosePaymentVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetPaymentTx(ctx context.Context, tx Transaction, id string) (*domain.BillPayment, error)
	// ListPaymentsByBill returns current, non-deleted payment links.
	ListPaymentsByBill(ctx context.Context, tx Transaction, billID string) ([]*domain.BillPayment, error)
	ListPaymentsByTransaction(ctx context.Context, tx Transaction, transactionID string) ([]*domain.BillPayment, error)
}

// StatementRepository defines data access for versioned bank statements and
// their lines.
type StatementRepository interface {
	InsertStatement(ctx context.Context, tx Transaction, stmt *domain.BankStatement) error
	CloseStatementVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetStatement(ctx context.Context, id string) (*domain.BankStatement, error)

	InsertLine(ctx context.Context, tx Transaction, line *domain.StatementLine) error
	CloseLineVersion(ctx context.Context, tx Transaction, versionID string, now time.Time) error
	GetLine(ctx context.Context, id string) (*domain.StatementLine, error)
	// ListLines returns the current version of every line on the statement.
	ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error)
}

// PeriodGuard is the external fiscal-period collaborator consulted before
// any edit or void.
type PeriodGuard interface {
	IsDateInClosedPeriod(ctx context.Context, orgID string, date time.Time) (domain.PeriodCheck, error)
}

// BillService is the bill aggregation collaborator: status recalculation on
// amount change, link detachment and cascade cancellation on void. All
// methods run inside the caller's transaction.
type BillService interface {
	RecalculateStatus(ctx context.Context, tx Transaction, billID string, now time.Time, actor string) error
	CancelBill(ctx context.Context, tx Transaction, billID string, now time.Time, actor string) error
	DetachPayment(ctx context.Context, tx Transaction, paymentID string, now time.Time, actor string) error
}

// BalanceLedger applies and reverses a transaction's debit/credit effect on
// the two account balance caches, inside the caller's transaction.
type BalanceLedger interface {
	Apply(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	Reverse(ctx context.Context, tx Transaction, txn *domain.Transaction) error
}

// TransactionEditor is the narrow edit-path surface the reconciliation
// engine commits through.
type TransactionEditor interface {
	Edit(ctx context.Context, id string, patch domain.TransactionPatch, actor string) (*domain.Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries operations that fail with transient database errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
