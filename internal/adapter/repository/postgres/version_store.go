package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so repository
// queries can run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// versionCols is the shared column prefix of every versioned table, in
// scan order.
const versionCols = "version_id, entity_id, previous_version_id, valid_from, valid_to, system_from, system_to, is_deleted, deleted_at, deleted_by, changed_by"

// closeVersion is the version store's only concurrency primitive: a
// conditional update matching the still-open system window. Zero rows
// affected means another writer closed the version first.
func closeVersion(ctx context.Context, q querier, table, versionID string, now time.Time) error {
	sql := fmt.Sprintf(
		`UPDATE %s SET valid_to = $2, system_to = $2 WHERE version_id = $1 AND system_to = $3`,
		table,
	)

	tag, err := q.Exec(ctx, sql, versionID, timeToPg(now), timeToPg(domain.MaxTime))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}

	return nil
}

func txQuerier(tx usecase.Transaction) querier {
	return tx.(*Tx).PgxTx()
}

// Type conversion helpers.

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPg(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPg(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func pgToTimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}

	v := t.Time

	return &v
}

func textToPg(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}

	return pgtype.Text{String: s, Valid: true}
}

func pgToText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}

	return t.String
}

// scanVersionFields scans the shared version column prefix. Callers pass
// the remaining destinations after these.
func versionFieldDests(entityID *string, v *domain.VersionFields, deletedAt *pgtype.Timestamptz, prevID, deletedBy *pgtype.Text) []any {
	return []any{
		&v.VersionID, entityID, prevID,
		&v.ValidFrom, &v.ValidTo, &v.SystemFrom, &v.SystemTo,
		&v.IsDeleted, deletedAt, deletedBy, &v.ChangedBy,
	}
}
