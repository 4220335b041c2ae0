package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
)

// BillUseCase manages bills and their payment links, and implements the
// BillService collaborator consumed by the transaction lifecycle.
type BillUseCase struct {
	txManager TransactionManager
	billRepo  BillRepository
	idGen     IDGenerator
}

// NewBillUseCase creates a new BillUseCase.
func NewBillUseCase(txManager TransactionManager, billRepo BillRepository, idGen IDGenerator) *BillUseCase {
	return &BillUseCase{
		txManager: txManager,
		billRepo:  billRepo,
		idGen:     idGen,
	}
}

// CreateBillInput represents input for creating a bill.
type CreateBillInput struct {
	OrganizationID       string
	VendorName           string
	Amount               decimal.Decimal
	DueDate              time.Time
	AccrualTransactionID string
	Actor                string
}

// CreateBill records a new bill originated by the given accrual
// transaction.
func (uc *BillUseCase) CreateBill(ctx context.Context, input CreateBillInput) (*domain.Bill, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateActor(input.Actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bill := &domain.Bill{
		EntityID:             uc.idGen.Generate(),
		VersionFields:        domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
		OrganizationID:       input.OrganizationID,
		VendorName:           input.VendorName,
		Amount:               input.Amount,
		DueDate:              input.DueDate,
		Status:               domain.BillStatusOpen,
		AccrualTransactionID: input.AccrualTransactionID,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.billRepo.InsertBill(ctx, tx, bill); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return bill, nil
}

// AddPaymentInput represents input for linking a payment transaction to a
// bill.
type AddPaymentInput struct {
	BillID        string
	TransactionID string
	Amount        decimal.Decimal
	Actor         string
}

// AddPayment links a settlement transaction to a bill and recalculates the
// bill's status in the same atomic unit.
func (uc *BillUseCase) AddPayment(ctx context.Context, input AddPaymentInput) (*domain.BillPayment, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateActor(input.Actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &domain.BillPayment{
		EntityID:      uc.idGen.Generate(),
		VersionFields: domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
		BillID:        input.BillID,
		TransactionID: input.TransactionID,
		Amount:        input.Amount,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bill, err := uc.billRepo.GetBillTx(ctx, tx, input.BillID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillStatusCancelled {
		return nil, domain.NewDomainRuleError(domain.RuleBillCancelled, "bill %s is cancelled", input.BillID)
	}

	if err := uc.billRepo.InsertPayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := uc.RecalculateStatus(ctx, tx, input.BillID, now, input.Actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return payment, nil
}

// GetBill returns the current version of a bill.
func (uc *BillUseCase) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	return uc.billRepo.GetBill(ctx, id)
}

// RecalculateStatus re-derives the bill status from its current payment
// links and writes a new version only when the status actually changed.
// Cancelled bills stay cancelled.
func (uc *BillUseCase) RecalculateStatus(ctx context.Context, tx Transaction, billID string, now time.Time, actor string) error {
	bill, err := uc.billRepo.GetBillTx(ctx, tx, billID)
	if err != nil {
		return err
	}

	if bill.Status == domain.BillStatusCancelled {
		return nil
	}

	payments, err := uc.billRepo.ListPaymentsByBill(ctx, tx, billID)
	if err != nil {
		return err
	}

	status := domain.CalculateBillStatus(bill.Amount, payments)
	if status == bill.Status {
		return nil
	}

	return uc.writeStatus(ctx, tx, bill, status, now, actor)
}

// CancelBill marks the bill cancelled. Terminal.
func (uc *BillUseCase) CancelBill(ctx context.Context, tx Transaction, billID string, now time.Time, actor string) error {
	bill, err := uc.billRepo.GetBillTx(ctx, tx, billID)
	if err != nil {
		return err
	}

	if bill.Status == domain.BillStatusCancelled {
		return nil
	}

	return uc.writeStatus(ctx, tx, bill, domain.BillStatusCancelled, now, actor)
}

// DetachPayment tombstones a payment link. The caller recalculates the
// affected bill afterwards.
func (uc *BillUseCase) DetachPayment(ctx context.Context, tx Transaction, paymentID string, now time.Time, actor string) error {
	payment, err := uc.billRepo.GetPaymentTx(ctx, tx, paymentID)
	if err != nil {
		return err
	}

	if err := uc.billRepo.ClosePaymentVersion(ctx, tx, payment.VersionID, now); err != nil {
		return err
	}

	tombstone := payment.DeletedVersion(uc.idGen.Generate(), now, actor)

	return uc.billRepo.InsertPayment(ctx, tx, tombstone)
}

func (uc *BillUseCase) writeStatus(ctx context.Context, tx Transaction, bill *domain.Bill, status domain.BillStatus, now time.Time, actor string) error {
	if err := uc.billRepo.CloseBillVersion(ctx, tx, bill.VersionID, now); err != nil {
		return err
	}

	next := bill.NextVersion(domain.BillPatch{Status: &status}, uc.idGen.Generate(), now, actor)

	return uc.billRepo.InsertBill(ctx, tx, next)
}
