package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
)

// ReconciliationUseCase matches bank statement lines against unreconciled
// ledger transactions and commits confirmed matches through the
// transaction edit path.
type ReconciliationUseCase struct {
	txManager    TransactionManager
	stmtRepo     StatementRepository
	txnRepo      TransactionRepository
	transactions TransactionEditor
	idGen        IDGenerator
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	stmtRepo StatementRepository,
	txnRepo TransactionRepository,
	transactions TransactionEditor,
	idGen IDGenerator,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:    txManager,
		stmtRepo:     stmtRepo,
		txnRepo:      txnRepo,
		transactions: transactions,
		idGen:        idGen,
	}
}

// StatementLineInput is one normalized line supplied by the ingestion
// collaborator: deposits positive, withdrawals negative.
type StatementLineInput struct {
	TransactionDate time.Time
	Amount          decimal.Decimal
	Description     string
	ReferenceNumber string
	Category        string
}

// ImportStatementInput represents input for importing a statement.
type ImportStatementInput struct {
	OrganizationID string
	BankAccountID  string
	StatementDate  time.Time
	Lines          []StatementLineInput
	Actor          string
}

// ImportStatement persists a statement and its lines in one atomic unit.
func (uc *ReconciliationUseCase) ImportStatement(ctx context.Context, input ImportStatementInput) (*domain.BankStatement, error) {
	if err := domain.ValidateActor(input.Actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stmt := &domain.BankStatement{
		EntityID:       uc.idGen.Generate(),
		VersionFields:  domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
		OrganizationID: input.OrganizationID,
		BankAccountID:  input.BankAccountID,
		StatementDate:  input.StatementDate,
		Status:         domain.StatementStatusImported,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.stmtRepo.InsertStatement(ctx, tx, stmt); err != nil {
		return nil, err
	}

	for _, li := range input.Lines {
		line := &domain.StatementLine{
			EntityID:        uc.idGen.Generate(),
			VersionFields:   domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
			StatementID:     stmt.EntityID,
			TransactionDate: li.TransactionDate,
			Amount:          li.Amount,
			Description:     li.Description,
			ReferenceNumber: li.ReferenceNumber,
			Category:        li.Category,
			Status:          domain.LineStatusUnmatched,
		}

		if err := uc.stmtRepo.InsertLine(ctx, tx, line); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return stmt, nil
}

// MatchResult summarizes an auto-match run.
type MatchResult struct {
	StatementID string
	Exact       int
	Fuzzy       int
	Unmatched   int
}

// AutoMatchStatement runs the two matching passes over the statement's
// unmatched lines. Greedy, not globally optimal: each line matches at most
// once, each transaction is consumed at most once. Lines and candidates are
// processed in (date, id) order so identical inputs always produce
// identical pairings.
func (uc *ReconciliationUseCase) AutoMatchStatement(ctx context.Context, statementID, actor string) (*MatchResult, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}

	stmt, err := uc.stmtRepo.GetStatement(ctx, statementID)
	if err != nil {
		return nil, err
	}
	if stmt.Status == domain.StatementStatusCompleted {
		return nil, domain.NewDomainRuleError(domain.RuleStatementCompleted, "statement %s is completed", statementID)
	}

	lines, err := uc.stmtRepo.ListLines(ctx, statementID)
	if err != nil {
		return nil, err
	}

	unmatched := make([]*domain.StatementLine, 0, len(lines))
	for _, l := range lines {
		if l.Status == domain.LineStatusUnmatched {
			unmatched = append(unmatched, l)
		}
	}
	sortLines(unmatched)

	if len(unmatched) == 0 {
		return &MatchResult{StatementID: statementID}, nil
	}

	candidates, err := uc.loadCandidates(ctx, stmt.BankAccountID, unmatched)
	if err != nil {
		return nil, err
	}

	type pairing struct {
		line      *domain.StatementLine
		txn       *domain.Transaction
		matchType domain.MatchType
		score     float64
	}

	consumed := make(map[string]bool)
	var pairings []pairing

	matchedLines := make(map[string]bool)

	// Pass 1: exact. First candidate in order wins.
	for _, line := range unmatched {
		for _, txn := range candidates {
			if consumed[txn.EntityID] {
				continue
			}
			if domain.IsExactMatch(line, txn) {
				consumed[txn.EntityID] = true
				matchedLines[line.EntityID] = true
				pairings = append(pairings, pairing{line: line, txn: txn, matchType: domain.MatchTypeAutoExact, score: 1.0})

				break
			}
		}
	}

	// Pass 2: fuzzy. Highest score wins; strict comparison keeps the first
	// of equal scorers, so ties break deterministically on candidate order.
	for _, line := range unmatched {
		if matchedLines[line.EntityID] {
			continue
		}

		var best *domain.Transaction
		bestScore := -1.0
		for _, txn := range candidates {
			if consumed[txn.EntityID] {
				continue
			}
			if score := domain.FuzzyScore(line, txn); score > bestScore {
				bestScore = score
				best = txn
			}
		}

		if best != nil && bestScore > domain.MinFuzzyScore() {
			consumed[best.EntityID] = true
			matchedLines[line.EntityID] = true
			pairings = append(pairings, pairing{line: line, txn: best, matchType: domain.MatchTypeAutoFuzzy, score: bestScore})
		}
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result := &MatchResult{StatementID: statementID}
	for _, p := range pairings {
		if err := uc.writeLineMatch(ctx, tx, p.line, p.txn.EntityID, p.matchType, p.score, now, actor); err != nil {
			return nil, err
		}

		if p.matchType == domain.MatchTypeAutoExact {
			result.Exact++
		} else {
			result.Fuzzy++
		}
	}
	result.Unmatched = len(unmatched) - len(pairings)

	if stmt.Status == domain.StatementStatusImported {
		if err := uc.writeStatementStatus(ctx, tx, stmt, domain.StatementStatusMatching, now, actor); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// ManualMatch pairs an unmatched line with a transaction chosen by an
// operator.
func (uc *ReconciliationUseCase) ManualMatch(ctx context.Context, lineID, transactionID, actor string) (*domain.StatementLine, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}

	line, err := uc.stmtRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line.Status != domain.LineStatusUnmatched {
		return nil, domain.NewDomainRuleError(domain.RuleLineAlreadyResolved, "line %s is %s", lineID, line.Status)
	}

	txn, err := uc.txnRepo.GetCurrent(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsVoided {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionVoided, "transaction %s is voided", transactionID)
	}
	if txn.Reconciled {
		return nil, domain.NewDomainRuleError(domain.RuleTransactionReconciled, "transaction %s is already reconciled", transactionID)
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.writeLineMatch(ctx, tx, line, transactionID, domain.MatchTypeManual, 1.0, now, actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return uc.stmtRepo.GetLine(ctx, lineID)
}

// SkipLine marks a line as intentionally unresolved.
func (uc *ReconciliationUseCase) SkipLine(ctx context.Context, lineID, actor string) error {
	if err := domain.ValidateActor(actor); err != nil {
		return err
	}

	line, err := uc.stmtRepo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if line.Status != domain.LineStatusUnmatched {
		return domain.NewDomainRuleError(domain.RuleLineAlreadyResolved, "line %s is %s", lineID, line.Status)
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.stmtRepo.CloseLineVersion(ctx, tx, line.VersionID, now); err != nil {
		return err
	}

	skipped := domain.LineStatusSkipped
	next := line.NextVersion(domain.StatementLinePatch{Status: &skipped}, uc.idGen.Generate(), now, actor)
	if err := uc.stmtRepo.InsertLine(ctx, tx, next); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CompletionResult summarizes a completion run.
type CompletionResult struct {
	StatementID string
	Confirmed   int
	Skipped     int
}

// CompleteReconciliation marks every matched line's transaction reconciled
// through the edit path and promotes the line to CONFIRMED, then marks the
// statement COMPLETED. Each line is committed in its own atomic unit, so a
// partial failure leaves earlier confirmations durable; re-running only
// processes lines whose transaction is not yet reconciled and performs zero
// writes when everything is already confirmed. A transaction reconciled by
// a racing confirmation is skipped, not re-applied; the edit path's
// conditional close rejects the stale write.
func (uc *ReconciliationUseCase) CompleteReconciliation(ctx context.Context, statementID, actor string) (*CompletionResult, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}

	stmt, err := uc.stmtRepo.GetStatement(ctx, statementID)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{StatementID: statementID}
	if stmt.Status == domain.StatementStatusCompleted {
		return result, nil
	}

	lines, err := uc.stmtRepo.ListLines(ctx, statementID)
	if err != nil {
		return nil, err
	}
	sortLines(lines)

	now := time.Now().UTC()
	for _, line := range lines {
		if line.Status != domain.LineStatusMatched {
			continue
		}

		txn, err := uc.txnRepo.GetCurrent(ctx, line.MatchedTransactionID)
		if err != nil {
			return nil, err
		}

		if !txn.Reconciled {
			reconciled := true
			at := now
			_, err = uc.transactions.Edit(ctx, txn.EntityID, domain.TransactionPatch{
				Reconciled:      &reconciled,
				ReconciledAt:    &at,
				StatementLineID: &line.EntityID,
			}, actor)
			if err != nil {
				return nil, err
			}
		} else {
			result.Skipped++
		}

		if err := uc.confirmLine(ctx, line, now, actor); err != nil {
			return nil, err
		}
		result.Confirmed++
	}

	stmt, err = uc.stmtRepo.GetStatement(ctx, statementID)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.writeStatementStatus(ctx, tx, stmt, domain.StatementStatusCompleted, now, actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// GetStatement returns the current version of a statement.
func (uc *ReconciliationUseCase) GetStatement(ctx context.Context, id string) (*domain.BankStatement, error) {
	return uc.stmtRepo.GetStatement(ctx, id)
}

// ListLines returns the current version of every line on a statement.
func (uc *ReconciliationUseCase) ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error) {
	lines, err := uc.stmtRepo.ListLines(ctx, statementID)
	if err != nil {
		return nil, err
	}
	sortLines(lines)

	return lines, nil
}

func (uc *ReconciliationUseCase) loadCandidates(ctx context.Context, accountID string, lines []*domain.StatementLine) ([]*domain.Transaction, error) {
	from, to := lines[0].TransactionDate, lines[0].TransactionDate
	for _, l := range lines[1:] {
		if l.TransactionDate.Before(from) {
			from = l.TransactionDate
		}
		if l.TransactionDate.After(to) {
			to = l.TransactionDate
		}
	}

	window := time.Duration(domain.FuzzyDateWindowDays()*24) * time.Hour
	candidates, err := uc.txnRepo.ListUnreconciled(ctx, accountID, from.Add(-window), to.Add(window))
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].TransactionDate.Equal(candidates[j].TransactionDate) {
			return candidates[i].TransactionDate.Before(candidates[j].TransactionDate)
		}

		return candidates[i].EntityID < candidates[j].EntityID
	})

	return candidates, nil
}

func (uc *ReconciliationUseCase) writeLineMatch(ctx context.Context, tx Transaction, line *domain.StatementLine, transactionID string, matchType domain.MatchType, score float64, now time.Time, actor string) error {
	if err := uc.stmtRepo.CloseLineVersion(ctx, tx, line.VersionID, now); err != nil {
		return err
	}

	matched := domain.LineStatusMatched
	at := now
	next := line.NextVersion(domain.StatementLinePatch{
		Status:               &matched,
		MatchedTransactionID: &transactionID,
		MatchType:            &matchType,
		MatchScore:           &score,
		MatchedAt:            &at,
	}, uc.idGen.Generate(), now, actor)

	return uc.stmtRepo.InsertLine(ctx, tx, next)
}

func (uc *ReconciliationUseCase) confirmLine(ctx context.Context, line *domain.StatementLine, now time.Time, actor string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.stmtRepo.CloseLineVersion(ctx, tx, line.VersionID, now); err != nil {
		return err
	}

	confirmed := domain.LineStatusConfirmed
	next := line.NextVersion(domain.StatementLinePatch{Status: &confirmed}, uc.idGen.Generate(), now, actor)
	if err := uc.stmtRepo.InsertLine(ctx, tx, next); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *ReconciliationUseCase) writeStatementStatus(ctx context.Context, tx Transaction, stmt *domain.BankStatement, status domain.StatementStatus, now time.Time, actor string) error {
	if err := uc.stmtRepo.CloseStatementVersion(ctx, tx, stmt.VersionID, now); err != nil {
		return err
	}

	next := stmt.NextVersion(domain.StatementPatch{Status: &status}, uc.idGen.Generate(), now, actor)

	return uc.stmtRepo.InsertStatement(ctx, tx, next)
}

func sortLines(lines []*domain.StatementLine) {
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].TransactionDate.Equal(lines[j].TransactionDate) {
			return lines[i].TransactionDate.Before(lines[j].TransactionDate)
		}

		return lines[i].EntityID < lines[j].EntityID
	})
}
