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

const transactionCols = versionCols + `, organization_id, transaction_date, amount,
	debit_account_id, credit_account_id, description, reference_number,
	is_voided, voided_at, voided_by, void_reason,
	reconciled, reconciled_at, statement_line_id`

// TransactionRepository implements usecase.TransactionRepository over the
// append-only transactions table. The (entity_id, valid_to) index makes
// current-version lookup O(1); no in-memory version graph is ever built.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Insert appends a version row.
func (r *TransactionRepository) Insert(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO transactions (`+transactionCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		         $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		txn.VersionID, txn.EntityID, textToPg(txn.PreviousVersionID),
		timeToPg(txn.ValidFrom), timeToPg(txn.ValidTo),
		timeToPg(txn.SystemFrom), timeToPg(txn.SystemTo),
		txn.IsDeleted, timePtrToPg(txn.DeletedAt), textToPg(txn.DeletedBy),
		txn.ChangedBy,
		txn.OrganizationID, timeToPg(txn.TransactionDate), decimalToNumeric(txn.Amount),
		txn.DebitAccountID, txn.CreditAccountID, txn.Description, textToPg(txn.ReferenceNumber),
		txn.IsVoided, timePtrToPg(txn.VoidedAt), textToPg(txn.VoidedBy), textToPg(txn.VoidReason),
		txn.Reconciled, timePtrToPg(txn.ReconciledAt), textToPg(txn.StatementLineID),
	)

	return err
}

// CloseVersion conditionally closes the version's valid and system windows.
func (r *TransactionRepository) CloseVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "transactions", versionID, now)
}

// GetCurrent returns the live version for the stable ID.
func (r *TransactionRepository) GetCurrent(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.getOne(ctx, r.pool,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime))
}

// GetCurrentTx is GetCurrent inside the caller's transaction.
func (r *TransactionRepository) GetCurrentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return r.getOne(ctx, txQuerier(tx),
		`SELECT `+transactionCols+` FROM transactions
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime))
}

// GetAsOf returns the version whose business window covered at.
func (r *TransactionRepository) GetAsOf(ctx context.Context, id string, at time.Time) (*domain.Transaction, error) {
	return r.getOne(ctx, r.pool,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE entity_id = $1 AND valid_from <= $2 AND valid_to > $2
		 ORDER BY system_from DESC
		 LIMIT 1`,
		id, timeToPg(at))
}

// GetBitemporalAsOf additionally constrains the system window,
// reconstructing what the system believed at systemAt even after later
// corrections.
func (r *TransactionRepository) GetBitemporalAsOf(ctx context.Context, id string, validAt, systemAt time.Time) (*domain.Transaction, error) {
	return r.getOne(ctx, r.pool,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE entity_id = $1
		   AND valid_from <= $2 AND valid_to > $2
		   AND system_from <= $3 AND system_to > $3`,
		id, timeToPg(validAt), timeToPg(systemAt))
}

// History returns every version newest-first, voided and deleted included.
func (r *TransactionRepository) History(ctx context.Context, id string) ([]*domain.Transaction, error) {
	txns, err := r.list(ctx, r.pool,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE entity_id = $1
		 ORDER BY system_from DESC, version_id DESC`,
		id)
	if err != nil {
		return nil, err
	}

	if len(txns) == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	return txns, nil
}

// ListCurrentByAccount returns current versions touching the account,
// voided included.
func (r *TransactionRepository) ListCurrentByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	return r.listCurrentByAccount(ctx, r.pool, accountID)
}

// ListCurrentByAccountTx is ListCurrentByAccount inside the caller's
// transaction.
func (r *TransactionRepository) ListCurrentByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Transaction, error) {
	return r.listCurrentByAccount(ctx, txQuerier(tx), accountID)
}

func (r *TransactionRepository) listCurrentByAccount(ctx context.Context, q querier, accountID string) ([]*domain.Transaction, error) {
	return r.list(ctx, q,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE (debit_account_id = $1 OR credit_account_id = $1)
		   AND valid_to = $2 AND NOT is_deleted
		 ORDER BY transaction_date, entity_id`,
		accountID, timeToPg(domain.MaxTime))
}

// ListUnreconciled returns current, non-voided, unreconciled transactions
// touching the account dated within [from, to].
func (r *TransactionRepository) ListUnreconciled(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	return r.list(ctx, r.pool,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE (debit_account_id = $1 OR credit_account_id = $1)
		   AND valid_to = $2 AND NOT is_deleted
		   AND NOT is_voided AND NOT reconciled
		   AND transaction_date >= $3 AND transaction_date <= $4
		 ORDER BY transaction_date, entity_id`,
		accountID, timeToPg(domain.MaxTime), timeToPg(from), timeToPg(to))
}

func (r *TransactionRepository) getOne(ctx context.Context, q querier, sql string, args ...any) (*domain.Transaction, error) {
	txn, err := scanTransaction(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

func (r *TransactionRepository) list(ctx context.Context, q querier, sql string, args ...any) ([]*domain.Transaction, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t            domain.Transaction
		prevID       pgtype.Text
		deletedAt    pgtype.Timestamptz
		deletedBy    pgtype.Text
		amount       pgtype.Numeric
		refNumber    pgtype.Text
		voidedAt     pgtype.Timestamptz
		voidedBy     pgtype.Text
		voidReason   pgtype.Text
		reconciledAt pgtype.Timestamptz
		lineID       pgtype.Text
	)

	dests := versionFieldDests(&t.EntityID, &t.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests,
		&t.OrganizationID, &t.TransactionDate, &amount,
		&t.DebitAccountID, &t.CreditAccountID, &t.Description, &refNumber,
		&t.IsVoided, &voidedAt, &voidedBy, &voidReason,
		&t.Reconciled, &reconciledAt, &lineID,
	)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	t.PreviousVersionID = pgToText(prevID)
	t.DeletedAt = pgToTimePtr(deletedAt)
	t.DeletedBy = pgToText(deletedBy)
	t.Amount = numericToDecimal(amount)
	t.ReferenceNumber = pgToText(refNumber)
	t.VoidedAt = pgToTimePtr(voidedAt)
	t.VoidedBy = pgToText(voidedBy)
	t.VoidReason = pgToText(voidReason)
	t.ReconciledAt = pgToTimePtr(reconciledAt)
	t.StatementLineID = pgToText(lineID)

	return &t, nil
}
