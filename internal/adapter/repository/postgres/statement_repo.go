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

const statementCols = versionCols + ", organization_id, bank_account_id, statement_date, status"

const lineCols = versionCols + `, statement_id, transaction_date, amount, description,
	reference_number, category, status, matched_transaction_id, match_type, match_score, matched_at`

// StatementRepository implements usecase.StatementRepository over the
// append-only bank_statements and statement_lines tables.
type StatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{pool: pool}
}

// InsertStatement appends a statement version row.
func (r *StatementRepository) InsertStatement(ctx context.Context, tx usecase.Transaction, stmt *domain.BankStatement) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO bank_statements (`+statementCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		stmt.VersionID, stmt.EntityID, textToPg(stmt.PreviousVersionID),
		timeToPg(stmt.ValidFrom), timeToPg(stmt.ValidTo),
		timeToPg(stmt.SystemFrom), timeToPg(stmt.SystemTo),
		stmt.IsDeleted, timePtrToPg(stmt.DeletedAt), textToPg(stmt.DeletedBy),
		stmt.ChangedBy,
		stmt.OrganizationID, stmt.BankAccountID, timeToPg(stmt.StatementDate), string(stmt.Status),
	)

	return err
}

// CloseStatementVersion conditionally closes a statement version.
func (r *StatementRepository) CloseStatementVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "bank_statements", versionID, now)
}

// GetStatement returns the live statement version.
func (r *StatementRepository) GetStatement(ctx context.Context, id string) (*domain.BankStatement, error) {
	stmt, err := scanStatement(r.pool.QueryRow(ctx,
		`SELECT `+statementCols+` FROM bank_statements
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatementNotFound
		}

		return nil, err
	}

	return stmt, nil
}

// InsertLine appends a line version row.
func (r *StatementRepository) InsertLine(ctx context.Context, tx usecase.Transaction, line *domain.StatementLine) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO statement_lines (`+lineCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		         $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		line.VersionID, line.EntityID, textToPg(line.PreviousVersionID),
		timeToPg(line.ValidFrom), timeToPg(line.ValidTo),
		timeToPg(line.SystemFrom), timeToPg(line.SystemTo),
		line.IsDeleted, timePtrToPg(line.DeletedAt), textToPg(line.DeletedBy),
		line.ChangedBy,
		line.StatementID, timeToPg(line.TransactionDate), decimalToNumeric(line.Amount),
		line.Description, textToPg(line.ReferenceNumber), textToPg(line.Category),
		string(line.Status), textToPg(line.MatchedTransactionID), textToPg(string(line.MatchType)),
		line.MatchScore, timePtrToPg(line.MatchedAt),
	)

	return err
}

// CloseLineVersion conditionally closes a line version.
func (r *StatementRepository) CloseLineVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	return closeVersion(ctx, txQuerier(tx), "statement_lines", versionID, now)
}

// GetLine returns the live line version.
func (r *StatementRepository) GetLine(ctx context.Context, id string) (*domain.StatementLine, error) {
	line, err := scanLine(r.pool.QueryRow(ctx,
		`SELECT `+lineCols+` FROM statement_lines
		 WHERE entity_id = $1 AND valid_to = $2 AND NOT is_deleted`,
		id, timeToPg(domain.MaxTime),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatementLineNotFound
		}

		return nil, err
	}

	return line, nil
}

// ListLines returns the current version of every line on the statement.
func (r *StatementRepository) ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+lineCols+` FROM statement_lines
		 WHERE statement_id = $1 AND valid_to = $2 AND NOT is_deleted
		 ORDER BY transaction_date, entity_id`,
		statementID, timeToPg(domain.MaxTime),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.StatementLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func scanStatement(row pgx.Row) (*domain.BankStatement, error) {
	var (
		s         domain.BankStatement
		prevID    pgtype.Text
		deletedAt pgtype.Timestamptz
		deletedBy pgtype.Text
		status    string
	)

	dests := versionFieldDests(&s.EntityID, &s.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests, &s.OrganizationID, &s.BankAccountID, &s.StatementDate, &status)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	s.PreviousVersionID = pgToText(prevID)
	s.DeletedAt = pgToTimePtr(deletedAt)
	s.DeletedBy = pgToText(deletedBy)
	s.Status = domain.StatementStatus(status)

	return &s, nil
}

func scanLine(row pgx.Row) (*domain.StatementLine, error) {
	var (
		l         domain.StatementLine
		prevID    pgtype.Text
		deletedAt pgtype.Timestamptz
		deletedBy pgtype.Text
		amount    pgtype.Numeric
		refNumber pgtype.Text
		category  pgtype.Text
		status    string
		matchedID pgtype.Text
		matchType pgtype.Text
		matchedAt pgtype.Timestamptz
	)

	dests := versionFieldDests(&l.EntityID, &l.VersionFields, &deletedAt, &prevID, &deletedBy)
	dests = append(dests,
		&l.StatementID, &l.TransactionDate, &amount, &l.Description,
		&refNumber, &category, &status, &matchedID, &matchType, &l.MatchScore, &matchedAt,
	)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	l.PreviousVersionID = pgToText(prevID)
	l.DeletedAt = pgToTimePtr(deletedAt)
	l.DeletedBy = pgToText(deletedBy)
	l.Amount = numericToDecimal(amount)
	l.ReferenceNumber = pgToText(refNumber)
	l.Category = pgToText(category)
	l.Status = domain.LineStatus(status)
	l.MatchedTransactionID = pgToText(matchedID)
	l.MatchType = domain.MatchType(pgToText(matchType))
	l.MatchedAt = pgToTimePtr(matchedAt)

	return &l, nil
}
