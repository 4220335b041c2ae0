package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

// MockTx is a no-op transaction.
type MockTx struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTx) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTx values.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	Begun     int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Begun++
	return &MockTx{}, nil
}

// MockIDGenerator generates deterministic sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	GenerateFunc func() string
	n            int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("id-%06d", m.n)
}

// MockPeriodGuard answers closed-period checks from a configured cutoff:
// every date before ClosedBefore is in a closed period.
type MockPeriodGuard struct {
	IsDateInClosedPeriodFunc func(ctx context.Context, orgID string, date time.Time) (domain.PeriodCheck, error)
	ClosedBefore             time.Time
}

func NewMockPeriodGuard() *MockPeriodGuard {
	return &MockPeriodGuard{}
}

func (m *MockPeriodGuard) IsDateInClosedPeriod(ctx context.Context, orgID string, date time.Time) (domain.PeriodCheck, error) {
	if m.IsDateInClosedPeriodFunc != nil {
		return m.IsDateInClosedPeriodFunc(ctx, orgID, date)
	}
	if !m.ClosedBefore.IsZero() && date.Before(m.ClosedBefore) {
		return domain.PeriodCheck{Closed: true, PeriodName: "FY" + m.ClosedBefore.Format("2006")}, nil
	}
	return domain.PeriodCheck{}, nil
}

// MockAccountRepository is an in-memory versioned account store.
type MockAccountRepository struct {
	mu       sync.RWMutex
	versions []*domain.Account
	Writes   int

	GetCurrentFunc func(ctx context.Context, id string) (*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

func (m *MockAccountRepository) Insert(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.versions = append(m.versions, &cp)
	m.Writes++
	return nil
}

func (m *MockAccountRepository) CloseVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockAccountRepository) GetCurrent(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetCurrentFunc != nil {
		return m.GetCurrentFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetCurrentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return m.GetCurrent(ctx, id)
}

func (m *MockAccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsCurrent() {
			v.CurrentBalance = v.CurrentBalance.Add(delta)
			m.Writes++
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsCurrent() {
			v.CurrentBalance = balance
			m.Writes++
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, v := range m.versions {
		if v.OrganizationID == orgID && v.IsCurrent() {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockTransactionRepository is an in-memory versioned transaction store.
type MockTransactionRepository struct {
	mu       sync.RWMutex
	versions []*domain.Transaction
	Writes   int

	GetCurrentFunc             func(ctx context.Context, id string) (*domain.Transaction, error)
	CloseVersionFunc           func(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error
	ListCurrentByAccountTxFunc func(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Insert(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.versions = append(m.versions, &cp)
	m.Writes++
	return nil
}

func (m *MockTransactionRepository) CloseVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	if m.CloseVersionFunc != nil {
		return m.CloseVersionFunc(ctx, tx, versionID, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockTransactionRepository) GetCurrent(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetCurrentFunc != nil {
		return m.GetCurrentFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetCurrentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return m.GetCurrent(ctx, id)
}

func (m *MockTransactionRepository) GetAsOf(ctx context.Context, id string, at time.Time) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsValidAt(at) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetBitemporalAsOf(ctx context.Context, id string, validAt, systemAt time.Time) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.versions {
		if v.EntityID == id && v.IsBitemporalAt(validAt, systemAt) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) History(ctx context.Context, id string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(m.versions) - 1; i >= 0; i-- {
		if m.versions[i].EntityID == id {
			cp := *m.versions[i]
			out = append(out, &cp)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return out, nil
}

func (m *MockTransactionRepository) ListCurrentByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, v := range m.versions {
		if v.IsCurrent() && v.Touches(accountID) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListCurrentByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Transaction, error) {
	if m.ListCurrentByAccountTxFunc != nil {
		return m.ListCurrentByAccountTxFunc(ctx, tx, accountID)
	}
	return m.ListCurrentByAccount(ctx, accountID)
}

func (m *MockTransactionRepository) ListUnreconciled(ctx context.Context, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, v := range m.versions {
		if !v.IsCurrent() || v.IsVoided || v.Reconciled || !v.Touches(accountID) {
			continue
		}
		if v.TransactionDate.Before(from) || v.TransactionDate.After(to) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

// MockBillRepository is an in-memory versioned bill and payment-link store.
type MockBillRepository struct {
	mu       sync.RWMutex
	bills    []*domain.Bill
	payments []*domain.BillPayment
	Writes   int
}

func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{}
}

func (m *MockBillRepository) InsertBill(ctx context.Context, tx usecase.Transaction, bill *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *bill
	m.bills = append(m.bills, &cp)
	m.Writes++
	return nil
}

func (m *MockBillRepository) CloseBillVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.bills {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockBillRepository) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.bills {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) GetBillTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Bill, error) {
	return m.GetBill(ctx, id)
}

func (m *MockBillRepository) GetBillByAccrualTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) (*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.bills {
		if v.AccrualTransactionID == transactionID && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) InsertPayment(ctx context.Context, tx usecase.Transaction, payment *domain.BillPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *payment
	m.payments = append(m.payments, &cp)
	m.Writes++
	return nil
}

func (m *MockBillRepository) ClosePaymentVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.payments {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockBillRepository) GetPaymentTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.BillPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.payments {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) ListPaymentsByBill(ctx context.Context, tx usecase.Transaction, billID string) ([]*domain.BillPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BillPayment
	for _, v := range m.payments {
		if v.BillID == billID && v.IsCurrent() {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockBillRepository) ListPaymentsByTransaction(ctx context.Context, tx usecase.Transaction, transactionID string) ([]*domain.BillPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BillPayment
	for _, v := range m.payments {
		if v.TransactionID == transactionID && v.IsCurrent() {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockStatementRepository is an in-memory versioned statement store.
type MockStatementRepository struct {
	mu         sync.RWMutex
	statements []*domain.BankStatement
	lines      []*domain.StatementLine
	Writes     int
}

func NewMockStatementRepository() *MockStatementRepository {
	return &MockStatementRepository{}
}

func (m *MockStatementRepository) InsertStatement(ctx context.Context, tx usecase.Transaction, stmt *domain.BankStatement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *stmt
	m.statements = append(m.statements, &cp)
	m.Writes++
	return nil
}

func (m *MockStatementRepository) CloseStatementVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.statements {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockStatementRepository) GetStatement(ctx context.Context, id string) (*domain.BankStatement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.statements {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrStatementNotFound
}

func (m *MockStatementRepository) InsertLine(ctx context.Context, tx usecase.Transaction, line *domain.StatementLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *line
	m.lines = append(m.lines, &cp)
	m.Writes++
	return nil
}

func (m *MockStatementRepository) CloseLineVersion(ctx context.Context, tx usecase.Transaction, versionID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.lines {
		if v.VersionID == versionID && v.SystemTo.Equal(domain.MaxTime) {
			v.ValidTo = now
			v.SystemTo = now
			m.Writes++
			return nil
		}
	}
	return domain.ErrConcurrentModification
}

func (m *MockStatementRepository) GetLine(ctx context.Context, id string) (*domain.StatementLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.lines {
		if v.EntityID == id && v.IsCurrent() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrStatementLineNotFound
}

func (m *MockStatementRepository) ListLines(ctx context.Context, statementID string) ([]*domain.StatementLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.StatementLine
	for _, v := range m.lines {
		if v.StatementID == statementID && v.IsCurrent() {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// TotalWrites sums write counts across the given repos; helper for
// idempotence assertions.
func TotalWrites(repos ...interface{ writeCount() int }) int {
	total := 0
	for _, r := range repos {
		total += r.writeCount()
	}
	return total
}

func (m *MockAccountRepository) writeCount() int     { return m.Writes }
func (m *MockTransactionRepository) writeCount() int { return m.Writes }
func (m *MockBillRepository) writeCount() int        { return m.Writes }
func (m *MockStatementRepository) writeCount() int   { return m.Writes }
