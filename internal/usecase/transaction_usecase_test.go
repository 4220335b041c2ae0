package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
	"github.com/goodsteward/ledger/internal/usecase/mocks"
)

var testDate = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

type lifecycleFixture struct {
	txnRepo     *mocks.MockTransactionRepository
	accountRepo *mocks.MockAccountRepository
	billRepo    *mocks.MockBillRepository
	guard       *mocks.MockPeriodGuard
	bills       *usecase.BillUseCase
	uc          *usecase.TransactionUseCase
}

func newLifecycleFixture() *lifecycleFixture {
	txManager := mocks.NewMockTransactionManager()
	txnRepo := mocks.NewMockTransactionRepository()
	accountRepo := mocks.NewMockAccountRepository()
	billRepo := mocks.NewMockBillRepository()
	guard := mocks.NewMockPeriodGuard()
	idGen := mocks.NewMockIDGenerator()

	ledger := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo)
	bills := usecase.NewBillUseCase(txManager, billRepo, idGen)

	return &lifecycleFixture{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		billRepo:    billRepo,
		guard:       guard,
		bills:       bills,
		uc:          usecase.NewTransactionUseCase(txManager, txnRepo, billRepo, ledger, bills, guard, idGen),
	}
}

func (f *lifecycleFixture) seedAccount(t *testing.T, id string, accType domain.AccountType) {
	t.Helper()
	acc := &domain.Account{
		EntityID:       id,
		VersionFields:  domain.NewVersionFields(id+"-v1", testDate, "seed"),
		OrganizationID: "org-1",
		Name:           id,
		Type:           accType,
		CurrentBalance: decimal.Zero,
	}
	if err := f.accountRepo.Insert(context.Background(), nil, acc); err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
}

func (f *lifecycleFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, err := f.accountRepo.GetCurrent(context.Background(), id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}
	return acc.CurrentBalance
}

func (f *lifecycleFixture) createTxn(t *testing.T, amount int64, ref string) *domain.Transaction {
	t.Helper()
	txn, err := f.uc.Create(context.Background(), usecase.CreateTransactionInput{
		OrganizationID:  "org-1",
		TransactionDate: testDate,
		Amount:          decimal.NewFromInt(amount),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
		Description:     "Utility payment",
		ReferenceNumber: ref,
		Actor:           "alice",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func assertRule(t *testing.T, err error, rule string) {
	t.Helper()
	var dre *domain.DomainRuleError
	if !errors.As(err, &dre) {
		t.Fatalf("expected domain rule error, got %v", err)
	}
	if dre.Rule != rule {
		t.Errorf("rule = %q, want %q", dre.Rule, rule)
	}
	if !errors.Is(err, domain.ErrDomainRuleViolation) {
		t.Error("rule error must unwrap to ErrDomainRuleViolation")
	}
}

func TestTransactionUseCase_Create(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	txn := f.createTxn(t, 500, "")

	if !txn.IsCurrent() {
		t.Error("new transaction should be current")
	}
	if txn.IsVoided || txn.Reconciled {
		t.Error("new transaction should be neither voided nor reconciled")
	}

	// Debiting an expense raises it, crediting an asset lowers it.
	if got := f.balance(t, "acct-expense"); !got.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expense balance = %s, want 500", got)
	}
	if got := f.balance(t, "acct-cash"); !got.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("cash balance = %s, want -500", got)
	}
}

func TestTransactionUseCase_Create_Validation(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	base := usecase.CreateTransactionInput{
		OrganizationID:  "org-1",
		TransactionDate: testDate,
		Amount:          decimal.NewFromInt(100),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
		Actor:           "alice",
	}

	t.Run("negative amount", func(t *testing.T) {
		input := base
		input.Amount = decimal.NewFromInt(-100)
		if _, err := f.uc.Create(context.Background(), input); !errors.Is(err, domain.ErrNegativeAmount) {
			t.Errorf("err = %v, want ErrNegativeAmount", err)
		}
	})

	t.Run("same debit and credit account", func(t *testing.T) {
		input := base
		input.CreditAccountID = "acct-expense"
		if _, err := f.uc.Create(context.Background(), input); !errors.Is(err, domain.ErrSameAccount) {
			t.Errorf("err = %v, want ErrSameAccount", err)
		}
	})

	t.Run("missing actor", func(t *testing.T) {
		input := base
		input.Actor = "  "
		if _, err := f.uc.Create(context.Background(), input); !errors.Is(err, domain.ErrMissingActor) {
			t.Errorf("err = %v, want ErrMissingActor", err)
		}
	})

	t.Run("closed period", func(t *testing.T) {
		f.guard.ClosedBefore = testDate.AddDate(0, 1, 0)
		defer func() { f.guard.ClosedBefore = time.Time{} }()

		writesBefore := f.txnRepo.Writes + f.accountRepo.Writes
		_, err := f.uc.Create(context.Background(), base)
		assertRule(t, err, domain.RuleClosedPeriod)

		if got := f.txnRepo.Writes + f.accountRepo.Writes; got != writesBefore {
			t.Errorf("writes = %d, want %d: rejected create must not touch state", got, writesBefore)
		}
	})
}

func TestTransactionUseCase_Edit_AmountChange(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
	txn := f.createTxn(t, 500, "")

	amount := decimal.NewFromInt(700)
	next, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{Amount: &amount}, "bob")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if next.PreviousVersionID != txn.VersionID {
		t.Errorf("previous version = %q, want %q", next.PreviousVersionID, txn.VersionID)
	}
	if next.ChangedBy != "bob" {
		t.Errorf("changed by = %q, want bob", next.ChangedBy)
	}
	// Unpatched fields copy forward.
	if next.Description != "Utility payment" {
		t.Errorf("description = %q, want copy-forward", next.Description)
	}

	// Old effect reversed, new effect applied.
	if got := f.balance(t, "acct-expense"); !got.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expense balance = %s, want 700", got)
	}
	if got := f.balance(t, "acct-cash"); !got.Equal(decimal.NewFromInt(-700)) {
		t.Errorf("cash balance = %s, want -700", got)
	}

	history, err := f.uc.History(context.Background(), txn.EntityID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].VersionID != next.VersionID {
		t.Error("history must be newest first")
	}
	if history[1].IsCurrent() {
		t.Error("superseded version must no longer be current")
	}
}

func TestTransactionUseCase_Edit_Rejections(t *testing.T) {
	t.Run("voided transaction", func(t *testing.T) {
		f := newLifecycleFixture()
		f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
		f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
		txn := f.createTxn(t, 500, "")

		if _, err := f.uc.Void(context.Background(), txn.EntityID, "duplicate entry", "alice"); err != nil {
			t.Fatalf("void: %v", err)
		}

		desc := "updated"
		_, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{Description: &desc}, "alice")
		assertRule(t, err, domain.RuleTransactionVoided)
	})

	t.Run("reconciled transaction", func(t *testing.T) {
		f := newLifecycleFixture()
		reconciledAt := testDate
		txn := &domain.Transaction{
			EntityID:        "txn-1",
			VersionFields:   domain.NewVersionFields("v-1", testDate, "alice"),
			OrganizationID:  "org-1",
			TransactionDate: testDate,
			Amount:          decimal.NewFromInt(100),
			DebitAccountID:  "acct-expense",
			CreditAccountID: "acct-cash",
			Reconciled:      true,
			ReconciledAt:    &reconciledAt,
		}
		if err := f.txnRepo.Insert(context.Background(), nil, txn); err != nil {
			t.Fatal(err)
		}

		desc := "updated"
		_, err := f.uc.Edit(context.Background(), "txn-1", domain.TransactionPatch{Description: &desc}, "alice")
		assertRule(t, err, domain.RuleTransactionReconciled)
	})

	t.Run("closed period", func(t *testing.T) {
		f := newLifecycleFixture()
		f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
		f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
		txn := f.createTxn(t, 500, "")

		f.guard.ClosedBefore = testDate.AddDate(0, 1, 0)

		writesBefore := f.txnRepo.Writes + f.accountRepo.Writes
		amount := decimal.NewFromInt(700)
		_, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{Amount: &amount}, "alice")
		assertRule(t, err, domain.RuleClosedPeriod)

		if got := f.txnRepo.Writes + f.accountRepo.Writes; got != writesBefore {
			t.Errorf("writes = %d, want %d: rejected edit must not touch state", got, writesBefore)
		}
		if got := f.balance(t, "acct-expense"); !got.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expense balance = %s, want unchanged 500", got)
		}
	})
}

func TestTransactionUseCase_Edit_ConcurrentConflict(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
	txn := f.createTxn(t, 500, "")

	// A racing writer already closed the version this edit read.
	f.txnRepo.CloseVersionFunc = func(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
		return domain.ErrConcurrentModification
	}

	amount := decimal.NewFromInt(700)
	_, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{Amount: &amount}, "bob")
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("err = %v, want ErrConcurrentModification", err)
	}

	// The losing edit leaves balances and the current version untouched.
	if got := f.balance(t, "acct-expense"); !got.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expense balance = %s, want 500", got)
	}
	f.txnRepo.CloseVersionFunc = nil
	current, err := f.uc.Get(context.Background(), txn.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if !current.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("current amount = %s, want 500", current.Amount)
	}
}

func TestTransactionUseCase_Edit_NoOpPatch(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
	txn := f.createTxn(t, 500, "")

	writesBefore := f.txnRepo.Writes + f.accountRepo.Writes
	same, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{}, "bob")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if same.VersionID != txn.VersionID {
		t.Errorf("version = %q, an empty patch must not supersede %q", same.VersionID, txn.VersionID)
	}
	if got := f.txnRepo.Writes + f.accountRepo.Writes; got != writesBefore {
		t.Errorf("writes = %d, want %d: an empty patch must write nothing", got, writesBefore)
	}
}

func TestTransactionUseCase_Create_CrossOrganization(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	foreign := &domain.Account{
		EntityID:       "acct-foreign",
		VersionFields:  domain.NewVersionFields("acct-foreign-v1", testDate, "seed"),
		OrganizationID: "org-2",
		Name:           "acct-foreign",
		Type:           domain.AccountTypeAsset,
	}
	if err := f.accountRepo.Insert(context.Background(), nil, foreign); err != nil {
		t.Fatal(err)
	}

	_, err := f.uc.Create(context.Background(), usecase.CreateTransactionInput{
		OrganizationID:  "org-1",
		TransactionDate: testDate,
		Amount:          decimal.NewFromInt(100),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-foreign",
		Actor:           "alice",
	})
	if !errors.Is(err, domain.ErrCrossOrganization) {
		t.Fatalf("err = %v, want ErrCrossOrganization", err)
	}

	if got := f.balance(t, "acct-expense"); !got.IsZero() {
		t.Errorf("expense balance = %s, rejected posting must not move balances", got)
	}
	if got := f.balance(t, "acct-foreign"); !got.IsZero() {
		t.Errorf("foreign balance = %s, rejected posting must not move balances", got)
	}
}

func TestTransactionUseCase_EditThenVoidRestoresBalances(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	txn := f.createTxn(t, 500, "")

	// However many times the amount changed, voiding reverses exactly the
	// latest effect and balances land back where they started.
	for _, v := range []int64{700, 250, 901} {
		amount := decimal.NewFromInt(v)
		if _, err := f.uc.Edit(context.Background(), txn.EntityID, domain.TransactionPatch{Amount: &amount}, "bob"); err != nil {
			t.Fatalf("edit to %d: %v", v, err)
		}
	}

	if _, err := f.uc.Void(context.Background(), txn.EntityID, "entered twice", "bob"); err != nil {
		t.Fatalf("void: %v", err)
	}

	if got := f.balance(t, "acct-expense"); !got.IsZero() {
		t.Errorf("expense balance = %s, want 0 after edits then void", got)
	}
	if got := f.balance(t, "acct-cash"); !got.IsZero() {
		t.Errorf("cash balance = %s, want 0 after edits then void", got)
	}

	history, err := f.uc.History(context.Background(), txn.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 5 {
		t.Errorf("history length = %d, want create + 3 edits + void", len(history))
	}
}

func TestTransactionUseCase_Void(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)
	txn := f.createTxn(t, 500, "")

	voided, err := f.uc.Void(context.Background(), txn.EntityID, "duplicate entry", "bob")
	if err != nil {
		t.Fatalf("void: %v", err)
	}

	if !voided.IsVoided {
		t.Error("expected voided version")
	}
	if voided.VoidReason != "duplicate entry" || voided.VoidedBy != "bob" {
		t.Errorf("void audit fields = %q by %q", voided.VoidReason, voided.VoidedBy)
	}

	// The balance effect is reversed and not reapplied.
	if got := f.balance(t, "acct-expense"); !got.IsZero() {
		t.Errorf("expense balance = %s, want 0", got)
	}
	if got := f.balance(t, "acct-cash"); !got.IsZero() {
		t.Errorf("cash balance = %s, want 0", got)
	}

	// Void is terminal.
	if _, err := f.uc.Void(context.Background(), txn.EntityID, "again", "bob"); err == nil {
		t.Error("second void should be rejected")
	}
}

func TestTransactionUseCase_Void_DetachesPaymentsAndRecalculates(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	bill, err := f.bills.CreateBill(context.Background(), usecase.CreateBillInput{
		OrganizationID: "org-1",
		VendorName:     "Acme Supplies",
		Amount:         decimal.NewFromInt(500),
		DueDate:        testDate.AddDate(0, 1, 0),
		Actor:          "alice",
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	payTxn := f.createTxn(t, 500, "CHK100")
	if _, err := f.bills.AddPayment(context.Background(), usecase.AddPaymentInput{
		BillID:        bill.EntityID,
		TransactionID: payTxn.EntityID,
		Amount:        decimal.NewFromInt(500),
		Actor:         "alice",
	}); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	paid, err := f.bills.GetBill(context.Background(), bill.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.Status != domain.BillStatusPaid {
		t.Fatalf("bill status = %v, want PAID before void", paid.Status)
	}

	if _, err := f.uc.Void(context.Background(), payTxn.EntityID, "bounced check", "bob"); err != nil {
		t.Fatalf("void: %v", err)
	}

	// The payment link is tombstoned and the bill reopens.
	after, err := f.bills.GetBill(context.Background(), bill.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Status != domain.BillStatusOpen {
		t.Errorf("bill status = %v, want OPEN after voiding its only payment", after.Status)
	}

	links, err := f.billRepo.ListPaymentsByTransaction(context.Background(), nil, payTxn.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 0 {
		t.Errorf("current payment links = %d, want 0", len(links))
	}
}

func TestTransactionUseCase_Void_CancelsOriginatedBill(t *testing.T) {
	f := newLifecycleFixture()
	f.seedAccount(t, "acct-cash", domain.AccountTypeAsset)
	f.seedAccount(t, "acct-expense", domain.AccountTypeExpense)

	accrual := f.createTxn(t, 500, "")
	bill, err := f.bills.CreateBill(context.Background(), usecase.CreateBillInput{
		OrganizationID:       "org-1",
		VendorName:           "Acme Supplies",
		Amount:               decimal.NewFromInt(500),
		DueDate:              testDate.AddDate(0, 1, 0),
		AccrualTransactionID: accrual.EntityID,
		Actor:                "alice",
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if _, err := f.uc.Void(context.Background(), accrual.EntityID, "entered twice", "bob"); err != nil {
		t.Fatalf("void: %v", err)
	}

	after, err := f.bills.GetBill(context.Background(), bill.EntityID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Status != domain.BillStatusCancelled {
		t.Errorf("bill status = %v, want CANCELLED after voiding its accrual", after.Status)
	}
}

func TestTransactionUseCase_Void_CollaboratorCalls(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager()
	txnRepo := mocks.NewMockTransactionRepository()
	accountRepo := mocks.NewMockAccountRepository()
	billRepo := mocks.NewMockBillRepository()
	idGen := mocks.NewMockIDGenerator()
	ledger := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo)

	guard := mocks.NewMockPeriodGuardClient(ctrl)
	bills := mocks.NewMockBillService(ctrl)
	uc := usecase.NewTransactionUseCase(txManager, txnRepo, billRepo, ledger, bills, guard, idGen)

	for _, acc := range []*domain.Account{
		{EntityID: "acct-cash", VersionFields: domain.NewVersionFields("acct-cash-v1", testDate, "seed"), OrganizationID: "org-1", Name: "acct-cash", Type: domain.AccountTypeAsset},
		{EntityID: "acct-expense", VersionFields: domain.NewVersionFields("acct-expense-v1", testDate, "seed"), OrganizationID: "org-1", Name: "acct-expense", Type: domain.AccountTypeExpense},
	} {
		if err := accountRepo.Insert(context.Background(), nil, acc); err != nil {
			t.Fatal(err)
		}
	}

	guard.EXPECT().
		IsDateInClosedPeriod(gomock.Any(), "org-1", gomock.Any()).
		Return(domain.PeriodCheck{}, nil).
		Times(2)

	txn, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		OrganizationID:  "org-1",
		TransactionDate: testDate,
		Amount:          decimal.NewFromInt(500),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
		Actor:           "alice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two payment links on the same bill: both are detached, the bill is
	// recalculated once.
	for _, id := range []string{"pay-1", "pay-2"} {
		if err := billRepo.InsertPayment(context.Background(), nil, &domain.BillPayment{
			EntityID:      id,
			VersionFields: domain.NewVersionFields(id+"-v1", testDate, "seed"),
			BillID:        "bill-1",
			TransactionID: txn.EntityID,
			Amount:        decimal.NewFromInt(250),
		}); err != nil {
			t.Fatal(err)
		}
	}

	bills.EXPECT().DetachPayment(gomock.Any(), gomock.Any(), "pay-1", gomock.Any(), "bob").Return(nil)
	bills.EXPECT().DetachPayment(gomock.Any(), gomock.Any(), "pay-2", gomock.Any(), "bob").Return(nil)
	bills.EXPECT().RecalculateStatus(gomock.Any(), gomock.Any(), "bill-1", gomock.Any(), "bob").Return(nil)

	if _, err := uc.Void(context.Background(), txn.EntityID, "bounced check", "bob"); err != nil {
		t.Fatalf("void: %v", err)
	}
}

func TestTransactionUseCase_GetAsOf(t *testing.T) {
	f := newLifecycleFixture()

	t0 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	v1 := &domain.Transaction{
		EntityID:        "txn-1",
		VersionFields:   domain.NewVersionFields("v-1", t0, "alice"),
		OrganizationID:  "org-1",
		TransactionDate: t0,
		Amount:          decimal.NewFromInt(100),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
	}
	v1.ValidTo = t1
	v1.SystemTo = t1
	if err := f.txnRepo.Insert(context.Background(), nil, v1); err != nil {
		t.Fatal(err)
	}

	v2 := &domain.Transaction{
		EntityID:        "txn-1",
		VersionFields:   domain.NewVersionFields("v-2", t1, "bob"),
		OrganizationID:  "org-1",
		TransactionDate: t0,
		Amount:          decimal.NewFromInt(250),
		DebitAccountID:  "acct-expense",
		CreditAccountID: "acct-cash",
	}
	v2.PreviousVersionID = "v-1"
	if err := f.txnRepo.Insert(context.Background(), nil, v2); err != nil {
		t.Fatal(err)
	}

	got, err := f.uc.GetAsOf(context.Background(), "txn-1", t0.AddDate(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got.VersionID != "v-1" {
		t.Errorf("as-of mid window = %s, want v-1", got.VersionID)
	}

	// The close boundary belongs to the successor.
	got, err = f.uc.GetAsOf(context.Background(), "txn-1", t1)
	if err != nil {
		t.Fatal(err)
	}
	if got.VersionID != "v-2" {
		t.Errorf("as-of close instant = %s, want v-2", got.VersionID)
	}

	// Before the superseding write was recorded, the system still believed
	// in the old version.
	got, err = f.uc.GetBitemporalAsOf(context.Background(), "txn-1", t0.AddDate(0, 0, 5), t0.AddDate(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got.VersionID != "v-1" {
		t.Errorf("bitemporal read = %s, want v-1", got.VersionID)
	}
}
