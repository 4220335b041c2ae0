package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

const billCols = versionCols + ", organization_id, vendor_name, amount, due_date, status, accrual_transaction_id"

const paymentCols = versionCols + ", bill_id, transaction_id, amount"

// BillRepository implements usecase.BillRepository over the append-only
// bills and bill_payments tables.
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

// InsertBill appends a bill version row.
func (r *BillRepository) InsertBill(ctx context.Context, tx usecase.Transaction, bill *domain.Bill) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO bills (`+billCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		bill.VersionID, bill.EntityID, textToPg(bill.PreviousVersionID),
		timeToPg(bill.ValidFrom), timeToPg(bill.ValidTo),
		timeToPg(bill.SystemFrom), timeToPg(bill.SystemTo),
		bill.IsDeleted, timePtrToPg(bill.DeletedAt), textToPg(bill.DeletedBy),
		bill.ChangedBy,
		bill.OrganizationID, bill.VendorName, decimalToNumeric(bill.Amount),
		timeToPg(bill.DueDate), string(bill.Status), textToPg(bill.AccrualTransactionID),
	)

	return err
}

// CloseBillVersion conditionally closes a bill version.
func (r *BillRepository) CloseBillVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "bills", versionID, now)
}

// GetBill returns the live bill version.
func (r *BillRepository) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	return r.getBill(ctx, r.pool, id)
}

// GetBillTx is GetBill inside the caller's transaction.
func (r *BillRepository) GetBillTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Bill, error) {
	return r.getBill(ctx, txQuerier(tx), id)
}

func (r *BillRepository) getBill(ctx context.Context, q querier, id string) (*domain.Bill, error) {
	bill, err := scanBill(q.QueryRow(ctx,
		`SELECT `+billCols+` FROM bills
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}

		return nil, err
	}

	return bill, nil
}

// GetBillByAccrualTransaction returns the bill originated by the given
// accrual transaction.
func (r *BillRepository) GetBillByAccrualTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) (*domain.Bill, error) {
	bill, err := scanBill(txQuerier(tx).QueryRow(ctx,
		`SELECT `+billCols+` FROM bills
		 WHERE accrual_transaction_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		transactionID, timeToPg(domain.MaxTime),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}

		return nil, err
	}

	return bill, nil
}

// InsertPayment appends a payment-link version row.
func (r *BillRepository) InsertPayment(ctx context.Context, tx usecase.Transaction, payment *domain.BillPayment) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO bill_payments (`+paymentCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		payment.VersionID, payment.EntityID, textToPg(payment.PreviousVersionID),
		timeToPg(payment.ValidFrom), timeToPg(payment.ValidTo),
		timeToPg(payment.SystemFrom), timeToPg(payment.SystemTo),
		payment.IsDeleted, timePtrToPg(payment.DeletedAt), textToPg(payment.DeletedBy),
		payment.ChangedBy,
		payment.BillID, payment.TransactionID, decimalToNumeric(payment.Amount),
	)

	return err
}

// ClosePaymentVersion conditionally closes a payment-link version.
func (r *BillRepository) ClosePaymentVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "bill_payments", versionID, now)
}

// GetPaymentTx returns the live payment-link version.
func (r *BillRepository) GetPaymentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.BillPayment, error) {
	payment, err := scanPayment(txQuerier(tx).QueryRow(ctx,
		`SELECT `+paymentCols+` FROM bill_payments
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}

		return nil, err
	}

	return payment, nil
}

// ListPaymentsByBill returns current, non-deleted payment links for a bill.
func (r *BillRepository) ListPaymentsByBill(ctx context.Context, tx usecase.Transaction, billID string) ([]*domain.BillPayment, error) {
	return r.listPayments(ctx, txQuerier(tx),
		`SELECT `+paymentCols+` FROM bill_payments
		 WHERE bill_id = $1 AND valid_to = $2 AND NOT is_deleted
		 ORDER BY entity_id`,
		billID, timeToPg(domain.MaxTime))
}

// ListPaymentsByTransaction returns current, non-deleted payment links
// referencing a transaction.
func (r *BillRepository) ListPaymentsByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.BillPayment, error) {
	return r.listPayments(ctx, txQuerier(tx),
		`SELECT `+paymentCols+` FROM bill_payments
		 WHERE transaction_id = $1 AND valid_to = $2 AND NOT is_deleted
		 ORDER BY entity_id`,
		transactionID, timeToPg(domain.MaxTime))
}

func (r *BillRepository) listPayments(ctx context.Context, q querier, sql string, args ...any) ([]*domain.BillPayment, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.BillPayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var (
		b         domain.Bill
		prevID    pgtype.Text
		deletedAt pgtype.Timestamptz
		deletedBy pgtype.Text
		amount    pgtype.Numeric
		status    string
		accrualID pgtype.Text
	)

	dests := versionFieldDests(&b.EntityID, &b.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests, &b.OrganizationID, &b.VendorName, &amount, &b.DueDate, &status, &accrualID)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	b.PreviousVersionID = pgToText(prevID)
	b.DeletedAt = pgToTimePtr(deletedAt)
	b.DeletedBy = pgToText(deletedBy)
	b.Amount = numericToDecimal(amount)
	b.Status = domain.BillStatus(status)
	b.AccrualTransactionID = pgToText(accrualID)

	return &b, nil
}

func scanPayment(row pgx.Row) (*domain.BillPayment, error) {
	var (
		p         domain.BillPayment
		prevID    pgtype.Text
		deletedAt pgtype.Timestamptz
		deletedBy pgtype.Text
		amount    pgtype.Numeric
	)

	dests := versionFieldDests(&p.EntityID, &p.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests, &p.BillID, &p.TransactionID, &amount)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	p.PreviousVersionID = pgToText(prevID)
	p.DeletedAt = pgToTimePtr(deletedAt)
	p.DeletedBy = pgToText(deletedBy)
	p.Amount = numericToDecimal(amount)

	return &p, nil
}
