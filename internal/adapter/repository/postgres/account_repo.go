package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

const accountCols = versionCols + ", organization_id, name, type, current_balance"

// AccountRepository implements usecase.AccountRepository over the
// append-only accounts table.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Insert appends a version row.
func (r *AccountRepository) Insert(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO accounts (`+accountCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		account.VersionID, account.EntityID, textToPg(account.PreviousVersionID),
		timeToPg(account.ValidFrom), timeToPg(account.ValidTo),
		timeToPg(account.SystemFrom), timeToPg(account.SystemTo),
		account.IsDeleted, timePtrToPg(account.DeletedAt), textToPg(account.DeletedBy),
		account.ChangedBy,
		account.OrganizationID, account.Name, string(account.Type),
		decimalToNumeric(account.CurrentBalance),
	)

	return err
}

// CloseVersion conditionally closes the version's valid and system windows.
func (r *AccountRepository) CloseVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "accounts", versionID, now)
}

// GetCurrent returns the live version for the stable ID.
func (r *AccountRepository) GetCurrent(ctx context.Context, id string) (*domain.Account, error) {
	return r.getCurrent(ctx, r.pool, id)
}

// GetCurrentTx is GetCurrent inside the caller's transaction.
func (r *AccountRepository) GetCurrentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.getCurrent(ctx, txQuerier(tx), id)
}

func (r *AccountRepository) getCurrent(ctx context.Context, q querier, id string) (*domain.Account, error) {
	row := q.QueryRow(ctx,
		`SELECT `+accountCols+` FROM accounts
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime),
	)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// AddToBalance adjusts the balance cache on the current version row in
// place; cache maintenance creates no version.
func (r *AccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, now time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx,
		`UPDATE accounts SET current_balance = current_balance + $2
		 WHERE entity_id = $1 AND valid_to = $3 AND NOT is_deleted`,
		id, decimalToNumeric(delta), timeToPg(domain.MaxTime),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetBalance overwrites the balance cache on the current version row.
func (r *AccountRepository) SetBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, now time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx,
		`UPDATE accounts SET current_balance = $2
		 WHERE entity_id = $1 AND valid_to = $3 AND NOT is_deleted`,
		id, decimalToNumeric(balance), timeToPg(domain.MaxTime),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List returns current accounts for an organization ordered by stable ID.
func (r *AccountRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountCols+` FROM accounts
		 WHERE organization_id = $1 AND valid_to = $2 AND NOT is_deleted
		 ORDER BY entity_id
		 LIMIT $3 OFFSET $4`,
		orgID, timeToPg(domain.MaxTime), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a         domain.Account
		prevID    pgtype.Text
		deletedAt pgtype.Timestamptz
		deletedBy pgtype.Text
		acctType  string
		balance   pgtype.Numeric
	)

	dests := versionFieldDests(&a.EntityID, &a.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests, &a.OrganizationID, &a.Name, &acctType, &balance)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	a.PreviousVersionID = pgToText(prevID)
	a.DeletedAt = pgToTimePtr(deletedAt)
	a.DeletedBy = pgToText(deletedBy)
	a.Type = domain.AccountType(acctType)
	a.CurrentBalance = numericToDecimal(balance)

	return &a, nil
}
