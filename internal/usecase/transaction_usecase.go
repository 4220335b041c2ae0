package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
)

// TransactionUseCase orchestrates the ledger transaction lifecycle:
// ACTIVE -> ACTIVE' (edited, repeatable) -> VOIDED (terminal). Every
// mutation closes the current version, writes the next one and adjusts the
// balance caches in a single database transaction; the conditional close is
// the only cross-request coordination.
type TransactionUseCase struct {
	txManager TransactionManager
	txnRepo   TransactionRepository
	billRepo  BillRepository
	ledger    BalanceLedger
	bills     BillService
	periods   PeriodGuard
	idGen     IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	txnRepo TransactionRepository,
	billRepo BillRepository,
	ledger BalanceLedger,
	bills BillService,
	periods PeriodGuard,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager: txManager,
		txnRepo:   txnRepo,
		billRepo:  billRepo,
		ledger:    ledger,
		bills:     bills,
		periods:   periods,
		idGen:     idGen,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	OrganizationID  string
	TransactionDate time.Time
	Amount          decimal.Decimal
	DebitAccountID  string
	CreditAccountID string
	Description     string
	ReferenceNumber string
	Actor           string
}

// Create records a new transaction and applies its balance effect.
func (uc *TransactionUseCase) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateActor(input.Actor); err != nil {
		return nil, err
	}

	if err := uc.guardPeriod(ctx, input.OrganizationID, input.TransactionDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		EntityID:        uc.idGen.Generate(),
		VersionFields:   domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
		OrganizationID:  input.OrganizationID,
		TransactionDate: input.TransactionDate,
		Amount:          input.Amount,
		DebitAccountID:  input.DebitAccountID,
		CreditAccountID: input.CreditAccountID,
		Description:     input.Description,
		ReferenceNumber: input.ReferenceNumber,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.txnRepo.Insert(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.ledger.Apply(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// Edit supersedes the current version with a patched one: close current,
// reverse its balance effect, insert the next version (unspecified fields
// copy forward), apply the new effect, and recalculate any bills funded by
// this transaction when the amount changed. A concurrent writer losing the
// close surfaces domain.ErrConcurrentModification and leaves state
// untouched.
func (uc *TransactionUseCase) Edit(ctx context.Context, id string, patch domain.TransactionPatch, actor string) (*domain.Transaction, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}

	current, err := uc.txnRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.IsVoided {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionVoided, "transaction %s is voided", id)
	}
	if current.Reconciled {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionReconciled,
			"transaction %s is reconciled; un-reconcile before editing", id)
	}

	// A patch that changes nothing writes nothing.
	if patch.Empty() {
		return current, nil
	}

	if err := uc.guardPeriod(ctx, current.OrganizationID, current.TransactionDate); err != nil {
		return nil, err
	}
	if patch.TransactionDate != nil {
		if err := uc.guardPeriod(ctx, current.OrganizationID, *patch.TransactionDate); err != nil {
			return nil, err
		}
	}
	if patch.Amount != nil {
		if err := domain.ValidateAmount(*patch.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	next := current.NextVersion(patch, uc.idGen.Generate(), now, actor)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	amountChanged := !next.Amount.Equal(current.Amount)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.txnRepo.CloseVersion(ctx, tx, current.VersionID, now); err != nil {
		return nil, err
	}

	if err := uc.ledger.Reverse(ctx, tx, current); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Insert(ctx, tx, next); err != nil {
		return nil, err
	}

	if err := uc.ledger.Apply(ctx, tx, next); err != nil {
		return nil, err
	}

	if amountChanged {
		if err := uc.recalculateLinkedBills(ctx, tx, id, now, actor); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return next, nil
}

// Void terminates the transaction: close current, insert a voided version,
// reverse the balance effect without reapplying, detach bill-payment links
// referencing the transaction and recalculate their bills, and
// cascade-cancel a bill when this transaction was its originating accrual.
func (uc *TransactionUseCase) Void(ctx context.Context, id, reason, actor string) (*domain.Transaction, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}

	current, err := uc.txnRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.IsVoided {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionVoided, "transaction %s is already voided", id)
	}
	if current.Reconciled {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionReconciled,
			"transaction %s is reconciled; un-reconcile before voiding", id)
	}

	if err := uc.guardPeriod(ctx, current.OrganizationID, current.TransactionDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	voided := current.VoidVersion(reason, uc.idGen.Generate(), now, actor)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.txnRepo.CloseVersion(ctx, tx, current.VersionID, now); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Insert(ctx, tx, voided); err != nil {
		return nil, err
	}

	if err := uc.ledger.Reverse(ctx, tx, current); err != nil {
		return nil, err
	}

	// Detach payment links first, then recalculate their bills with the
	// links gone.
	payments, err := uc.billRepo.ListPaymentsByTransaction(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	billIDs := make([]string, 0, len(payments))
	seen := make(map[string]bool)
	for _, p := range payments {
		if err := uc.bills.DetachPayment(ctx, tx, p.EntityID, now, actor); err != nil {
			return nil, err
		}
		if !seen[p.BillID] {
			seen[p.BillID] = true
			billIDs = append(billIDs, p.BillID)
		}
	}

	for _, billID := range billIDs {
		if err := uc.bills.RecalculateStatus(ctx, tx, billID, now, actor); err != nil {
			return nil, err
		}
	}

	// A voided accrual cancels the bill it originated.
	accrualBill, err := uc.billRepo.GetBillByAccrualTransaction(ctx, tx, id)
	switch {
	case err == nil:
		if err := uc.bills.CancelBill(ctx, tx, accrualBill.EntityID, now, actor); err != nil {
			return nil, err
		}
	case !errors.Is(err, domain.ErrBillNotFound):
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return voided, nil
}

// Get returns the current version.
func (uc *TransactionUseCase) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetCurrent(ctx, id)
}

// GetAsOf returns the version that was business-valid at the given instant.
func (uc *TransactionUseCase) GetAsOf(ctx context.Context, id string, at time.Time) (*domain.Transaction, error) {
	return uc.txnRepo.GetAsOf(ctx, id, at)
}

// GetBitemporalAsOf returns the version that was valid at validAt as the
// system believed it at systemAt.
func (uc *TransactionUseCase) GetBitemporalAsOf(ctx context.Context, id string, validAt, systemAt time.Time) (*domain.Transaction, error) {
	return uc.txnRepo.GetBitemporalAsOf(ctx, id, validAt, systemAt)
}

// History returns all versions newest-first for audit display, voided and
// deleted included.
func (uc *TransactionUseCase) History(ctx context.Context, id string) ([]*domain.Transaction, error) {
	return uc.txnRepo.History(ctx, id)
}

func (uc *TransactionUseCase) guardPeriod(ctx context.Context, orgID string, date time.Time) error {
	check, err := uc.periods.IsDateInClosedPeriod(ctx, orgID, date)
	if err != nil {
		return err
	}

	if check.Closed {
		return domain.NewDomainRuleError(domain.RuleClosedPeriod,
			"date %s falls in closed period %s", date.Format("2006-01-02"), check.PeriodName)
	}

	return nil
}

func (uc *TransactionUseCase) recalculateLinkedBills(ctx context.Context, tx Transaction, transactionID string, now time.Time, actor string) error {
	payments, err := uc.billRepo.ListPaymentsByTransaction(ctx, tx, transactionID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, p := range payments {
		if seen[p.BillID] {
			continue
		}
		seen[p.BillID] = true

		if err := uc.bills.RecalculateStatus(ctx, tx, p.BillID, now, actor); err != nil {
			return err
		}
	}

	return nil
}
