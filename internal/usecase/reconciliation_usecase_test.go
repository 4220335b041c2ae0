package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
	"github.com/goodsteward/ledger/internal/usecase/mocks"
)

type reconFixture struct {
	stmtRepo     *mocks.MockStatementRepository
	txnRepo      *mocks.MockTransactionRepository
	accountRepo  *mocks.MockAccountRepository
	transactions *usecase.TransactionUseCase
	uc           *usecase.ReconciliationUseCase
}

func newReconFixture(t *testing.T) *reconFixture {
	t.Helper()

	txManager := mocks.NewMockTransactionManager()
	stmtRepo := mocks.NewMockStatementRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	accountRepo := mocks.NewMockAccountRepository()
	billRepo := mocks.NewMockBillRepository()
	guard := mocks.NewMockPeriodGuard()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo)
	bills := usecase.NewBillUseCase(txManager, billRepo, idGen)
	transactions := usecase.NewTransactionUseCase(txManager, txnRepo, billRepo, ledger, bills, guard, idGen)

	f := &reconFixture{
		stmtRepo:     stmtRepo,
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		transactions: transactions,
		uc:           usecase.NewReconciliationUseCase(txManager, stmtRepo, txnRepo, transactions, idGen),
	}

	for _, acc := range []struct {
		id      string
		accType domain.AccountType
	}{
		{"acct-cash", domain.AccountTypeAsset},
		{"acct-expense", domain.AccountTypeExpense},
	} {
		a := &domain.Account{
			EntityID:       acc.id,
			VersionFields:  domain.NewVersionFields(acc.id+"-v1", testDate, "seed"),
			OrganizationID: "org-1",
			Name:           acc.id,
			Type:           acc.accType,
			CurrentBalance: decimal.Zero,
		}
		if err := accountRepo.Insert(context.Background(), nil, a); err != nil {
			t.Fatalf("seed account %s: %v", acc.id, err)
		}
	}

	return f
}

func (f *reconFixture) createTxn(t *testing.T, date time.Time, amount float64, desc, ref string) *domain.Transaction {
	t.Helper()
	txn, err := f.transactions.Create(context.Background(), usecase.CreateTransactionInput{
		OrganizationID:  "org-1",
		TransactionDate: date,
		Amount:          decimal.NewFromFloat(amount),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
		Description:     desc,
		ReferenceNumber: ref,
		Actor:           "alice",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func (f *reconFixture) importStatement(t *testing.T, lines []usecase.StatementLineInput) *domain.BankStatement {
	t.Helper()
	stmt, err := f.uc.ImportStatement(context.Background(), usecase.ImportStatementInput{
		OrganizationID: "org-1",
		BankAccountID:  "acct-cash",
		StatementDate:  testDate.AddDate(0, 0, 15),
		Lines:          lines,
		Actor:          "alice",
	})
	if err != nil {
		t.Fatalf("import statement: %v", err)
	}
	return stmt
}

func (f *reconFixture) lineByDescription(t *testing.T, statementID, desc string) *domain.StatementLine {
	t.Helper()
	lines, err := f.uc.ListLines(context.Background(), statementID)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lines {
		if l.Description == desc {
			return l
		}
	}
	t.Fatalf("no line with description %q", desc)
	return nil
}

func TestReconciliationUseCase_ImportStatement(t *testing.T) {
	f := newReconFixture(t)

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-150.00), Description: "Electric Company"},
		{TransactionDate: testDate.AddDate(0, 0, -5), Amount: decimal.NewFromFloat(-200.00), Description: "Check 1234", ReferenceNumber: "CHK1234"},
	})

	if stmt.Status != domain.StatementStatusImported {
		t.Errorf("statement status = %v, want IMPORTED", stmt.Status)
	}

	lines, err := f.uc.ListLines(context.Background(), stmt.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	// Date order, earliest first.
	if !lines[0].TransactionDate.Before(lines[1].TransactionDate) {
		t.Error("lines must come back in date order")
	}
	for _, l := range lines {
		if l.Status != domain.LineStatusUnmatched {
			t.Errorf("line %s status = %v, want UNMATCHED", l.EntityID, l.Status)
		}
	}
}

func TestReconciliationUseCase_AutoMatch(t *testing.T) {
	f := newReconFixture(t)

	f.createTxn(t, testDate.AddDate(0, 0, -5), 200, "Check 1234", "chk-1234")
	f.createTxn(t, testDate, 150, "Utility payment", "")

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate.AddDate(0, 0, -5), Amount: decimal.NewFromFloat(-200.00), Description: "CHECK 1234", ReferenceNumber: "CHK1234"},
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-150.00), Description: "Electric Company"},
		{TransactionDate: testDate.AddDate(0, 0, 3), Amount: decimal.NewFromFloat(-999.00), Description: "Mystery fee"},
	})

	result, err := f.uc.AutoMatchStatement(context.Background(), stmt.EntityID, "alice")
	if err != nil {
		t.Fatalf("auto match: %v", err)
	}

	if result.Exact != 1 || result.Fuzzy != 1 || result.Unmatched != 1 {
		t.Errorf("result = %d exact, %d fuzzy, %d unmatched; want 1/1/1",
			result.Exact, result.Fuzzy, result.Unmatched)
	}

	exact := f.lineByDescription(t, stmt.EntityID, "CHECK 1234")
	if exact.Status != domain.LineStatusMatched || exact.MatchType != domain.MatchTypeAutoExact {
		t.Errorf("check line = %v/%v, want MATCHED/AUTO_EXACT", exact.Status, exact.MatchType)
	}
	if exact.MatchScore != 1.0 {
		t.Errorf("exact match score = %v, want 1.0", exact.MatchScore)
	}

	fuzzy := f.lineByDescription(t, stmt.EntityID, "Electric Company")
	if fuzzy.Status != domain.LineStatusMatched || fuzzy.MatchType != domain.MatchTypeAutoFuzzy {
		t.Errorf("utility line = %v/%v, want MATCHED/AUTO_FUZZY", fuzzy.Status, fuzzy.MatchType)
	}
	if fuzzy.MatchScore <= domain.MinFuzzyScore() || fuzzy.MatchScore >= 1.0 {
		t.Errorf("fuzzy match score = %v, want within (%v, 1.0)", fuzzy.MatchScore, domain.MinFuzzyScore())
	}
	if fuzzy.MatchedTransactionID == "" || fuzzy.MatchedTransactionID == exact.MatchedTransactionID {
		t.Error("each line must consume a distinct transaction")
	}

	mystery := f.lineByDescription(t, stmt.EntityID, "Mystery fee")
	if mystery.Status != domain.LineStatusUnmatched {
		t.Errorf("mystery line status = %v, want UNMATCHED", mystery.Status)
	}

	after, err := f.uc.GetStatement(context.Background(), stmt.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Status != domain.StatementStatusMatching {
		t.Errorf("statement status = %v, want MATCHING", after.Status)
	}
}

func TestReconciliationUseCase_AutoMatch_DeterministicTieBreak(t *testing.T) {
	f := newReconFixture(t)

	// Two indistinguishable candidates; the one with the smaller entity ID
	// must win every run.
	first := f.createTxn(t, testDate, 150, "Utility payment", "")
	f.createTxn(t, testDate, 150, "Utility payment", "")

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-150.00), Description: "Utility payment"},
	})

	result, err := f.uc.AutoMatchStatement(context.Background(), stmt.EntityID, "alice")
	if err != nil {
		t.Fatalf("auto match: %v", err)
	}
	if result.Fuzzy != 1 {
		t.Fatalf("fuzzy = %d, want 1", result.Fuzzy)
	}

	line := f.lineByDescription(t, stmt.EntityID, "Utility payment")
	if line.MatchedTransactionID != first.EntityID {
		t.Errorf("matched %s, want the earlier candidate %s", line.MatchedTransactionID, first.EntityID)
	}
}

func TestReconciliationUseCase_AutoMatch_CompletedStatement(t *testing.T) {
	f := newReconFixture(t)

	stmt := &domain.BankStatement{
		EntityID:       "stmt-1",
		VersionFields:  domain.NewVersionFields("v-1", testDate, "alice"),
		OrganizationID: "org-1",
		BankAccountID:  "acct-cash",
		StatementDate:  testDate,
		Status:         domain.StatementStatusCompleted,
	}
	if err := f.stmtRepo.InsertStatement(context.Background(), nil, stmt); err != nil {
		t.Fatal(err)
	}

	_, err := f.uc.AutoMatchStatement(context.Background(), "stmt-1", "alice")
	assertRule(t, err, domain.RuleStatementCompleted)
}

func TestReconciliationUseCase_ManualMatch(t *testing.T) {
	f := newReconFixture(t)

	txn := f.createTxn(t, testDate, 75, "Office supplies", "")
	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate.AddDate(0, 0, 10), Amount: decimal.NewFromFloat(-75.00), Description: "POS purchase"},
	})
	line := f.lineByDescription(t, stmt.EntityID, "POS purchase")

	matched, err := f.uc.ManualMatch(context.Background(), line.EntityID, txn.EntityID, "alice")
	if err != nil {
		t.Fatalf("manual match: %v", err)
	}

	if matched.Status != domain.LineStatusMatched || matched.MatchType != domain.MatchTypeManual {
		t.Errorf("line = %v/%v, want MATCHED/MANUAL", matched.Status, matched.MatchType)
	}
	if matched.MatchScore != 1.0 {
		t.Errorf("manual match score = %v, want 1.0", matched.MatchScore)
	}
	if matched.MatchedTransactionID != txn.EntityID {
		t.Errorf("matched transaction = %s, want %s", matched.MatchedTransactionID, txn.EntityID)
	}

	// A resolved line cannot be matched again.
	_, err = f.uc.ManualMatch(context.Background(), line.EntityID, txn.EntityID, "alice")
	assertRule(t, err, domain.RuleLineAlreadyResolved)
}

func TestReconciliationUseCase_ManualMatch_RejectsUnusableTransactions(t *testing.T) {
	f := newReconFixture(t)

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-75.00), Description: "POS purchase"},
	})
	line := f.lineByDescription(t, stmt.EntityID, "POS purchase")

	t.Run("voided transaction", func(t *testing.T) {
		txn := f.createTxn(t, testDate, 75, "Office supplies", "")
		if _, err := f.transactions.Void(context.Background(), txn.EntityID, "mistake", "alice"); err != nil {
			t.Fatal(err)
		}

		_, err := f.uc.ManualMatch(context.Background(), line.EntityID, txn.EntityID, "alice")
		assertRule(t, err, domain.RuleTransactionVoided)
	})

	t.Run("already reconciled transaction", func(t *testing.T) {
		reconciledAt := testDate
		txn := &domain.Transaction{
			EntityID:        "txn-reconciled",
			VersionFields:   domain.NewVersionFields("v-r1", testDate, "alice"),
			OrganizationID:  "org-1",
			TransactionDate: testDate,
			Amount:          decimal.NewFromInt(75),
			DebitAccountID:  "acct-expense",
			CreditAccountID: "acct-cash",
			Reconciled:      true,
			ReconciledAt:    &reconciledAt,
		}
		if err := f.txnRepo.Insert(context.Background(), nil, txn); err != nil {
			t.Fatal(err)
		}

		_, err := f.uc.ManualMatch(context.Background(), line.EntityID, txn.EntityID, "alice")
		assertRule(t, err, domain.RuleTransactionReconciled)
	})
}

func TestReconciliationUseCase_SkipLine(t *testing.T) {
	f := newReconFixture(t)

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-12.50), Description: "Service fee"},
	})
	line := f.lineByDescription(t, stmt.EntityID, "Service fee")

	if err := f.uc.SkipLine(context.Background(), line.EntityID, "alice"); err != nil {
		t.Fatalf("skip: %v", err)
	}

	after := f.lineByDescription(t, stmt.EntityID, "Service fee")
	if after.Status != domain.LineStatusSkipped {
		t.Errorf("line status = %v, want SKIPPED", after.Status)
	}

	err := f.uc.SkipLine(context.Background(), line.EntityID, "alice")
	assertRule(t, err, domain.RuleLineAlreadyResolved)
}

func TestReconciliationUseCase_Complete(t *testing.T) {
	f := newReconFixture(t)

	f.createTxn(t, testDate.AddDate(0, 0, -5), 200, "Check 1234", "chk-1234")
	f.createTxn(t, testDate, 150, "Utility payment", "")

	cashBefore, err := f.accountRepo.GetCurrent(context.Background(), "acct-cash")
	if err != nil {
		t.Fatal(err)
	}

	stmt := f.importStatement(t, []usecase.StatementLineInput{
		{TransactionDate: testDate.AddDate(0, 0, -5), Amount: decimal.NewFromFloat(-200.00), Description: "CHECK 1234", ReferenceNumber: "CHK1234"},
		{TransactionDate: testDate, Amount: decimal.NewFromFloat(-150.00), Description: "Electric Company"},
	})

	if _, err := f.uc.AutoMatchStatement(context.Background(), stmt.EntityID, "alice"); err != nil {
		t.Fatalf("auto match: %v", err)
	}

	result, err := f.uc.CompleteReconciliation(context.Background(), stmt.EntityID, "alice")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Confirmed != 2 || result.Skipped != 0 {
		t.Errorf("result = %d confirmed, %d skipped; want 2/0", result.Confirmed, result.Skipped)
	}

	lines, err := f.uc.ListLines(context.Background(), stmt.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lines {
		if l.Status != domain.LineStatusConfirmed {
			t.Errorf("line %s status = %v, want CONFIRMED", l.EntityID, l.Status)
		}

		txn, err := f.txnRepo.GetCurrent(context.Background(), l.MatchedTransactionID)
		if err != nil {
			t.Fatal(err)
		}
		if !txn.Reconciled || txn.ReconciledAt == nil {
			t.Errorf("transaction %s must be reconciled", txn.EntityID)
		}
		if txn.StatementLineID == "" {
			t.Errorf("transaction %s must link back to its statement line", txn.EntityID)
		}
	}

	after, err := f.uc.GetStatement(context.Background(), stmt.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Status != domain.StatementStatusCompleted {
		t.Errorf("statement status = %v, want COMPLETED", after.Status)
	}

	// Reconciling an unchanged amount must not move the balance.
	cashAfter, err := f.accountRepo.GetCurrent(context.Background(), "acct-cash")
	if err != nil {
		t.Fatal(err)
	}
	if !cashAfter.CurrentBalance.Equal(cashBefore.CurrentBalance) {
		t.Errorf("cash balance moved from %s to %s during reconciliation",
			cashBefore.CurrentBalance, cashAfter.CurrentBalance)
	}

	// Re-running against a completed statement is a no-op.
	writesBefore := mocks.TotalWrites(f.stmtRepo, f.txnRepo, f.accountRepo)
	again, err := f.uc.CompleteReconciliation(context.Background(), stmt.EntityID, "alice")
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if again.Confirmed != 0 || again.Skipped != 0 {
		t.Errorf("second run = %d confirmed, %d skipped; want 0/0", again.Confirmed, again.Skipped)
	}
	if got := mocks.TotalWrites(f.stmtRepo, f.txnRepo, f.accountRepo); got != writesBefore {
		t.Errorf("second run performed %d writes, want 0", got-writesBefore)
	}
}
