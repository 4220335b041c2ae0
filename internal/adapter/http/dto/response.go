package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	VersionID      string          `json:"version_id"`
	OrganizationID string          `json:"organization_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	ChangedBy      string          `json:"changed_by"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.EntityID,
		VersionID:      a.VersionID,
		OrganizationID: a.OrganizationID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.CurrentBalance,
		ChangedBy:      a.ChangedBy,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a transaction version in API responses.
type TransactionResponse struct {
	ID                string          `json:"id"`
	VersionID         string          `json:"version_id"`
	PreviousVersionID string          `json:"previous_version_id,omitempty"`
	OrganizationID    string          `json:"organization_id"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Amount            decimal.Decimal `json:"amount"`
	DebitAccountID    string          `json:"debit_account_id"`
	CreditAccountID   string          `json:"credit_account_id"`
	Description       string          `json:"description"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
	IsVoided          bool            `json:"is_voided"`
	VoidedAt          *time.Time      `json:"voided_at,omitempty"`
	VoidReason        string          `json:"void_reason,omitempty"`
	Reconciled        bool            `json:"reconciled"`
	ReconciledAt      *time.Time      `json:"reconciled_at,omitempty"`
	StatementLineID   string          `json:"statement_line_id,omitempty"`
	ValidFrom         time.Time       `json:"valid_from"`
	ValidTo           time.Time       `json:"valid_to"`
	SystemFrom        time.Time       `json:"system_from"`
	SystemTo          time.Time       `json:"system_to"`
	ChangedBy         string          `json:"changed_by"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.EntityID,
		VersionID:         t.VersionID,
		PreviousVersionID: t.PreviousVersionID,
		OrganizationID:    t.OrganizationID,
		TransactionDate:   t.TransactionDate,
		Amount:            t.Amount,
		DebitAccountID:    t.DebitAccountID,
		CreditAccountID:   t.CreditAccountID,
		Description:       t.Description,
		ReferenceNumber:   t.ReferenceNumber,
		IsVoided:          t.IsVoided,
		VoidedAt:          t.VoidedAt,
		VoidReason:        t.VoidReason,
		Reconciled:        t.Reconciled,
		ReconciledAt:      t.ReconciledAt,
		StatementLineID:   t.StatementLineID,
		ValidFrom:         t.ValidFrom,
		ValidTo:           t.ValidTo,
		SystemFrom:        t.SystemFrom,
		SystemTo:          t.SystemTo,
		ChangedBy:         t.ChangedBy,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	ID                   string          `json:"id"`
	VersionID            string          `json:"version_id"`
	OrganizationID       string          `json:"organization_id"`
	VendorName           string          `json:"vendor_name"`
	Amount               decimal.Decimal `json:"amount"`
	DueDate              time.Time       `json:"due_date"`
	Status               string          `json:"status"`
	AccrualTransactionID string          `json:"accrual_transaction_id,omitempty"`
}

// BillFromDomain converts domain bill to response.
func BillFromDomain(b *domain.Bill) *BillResponse {
	return &BillResponse{
		ID:                   b.EntityID,
		VersionID:            b.VersionID,
		OrganizationID:       b.OrganizationID,
		VendorName:           b.VendorName,
		Amount:               b.Amount,
		DueDate:              b.DueDate,
		Status:               string(b.Status),
		AccrualTransactionID: b.AccrualTransactionID,
	}
}

// PaymentResponse represents a bill payment link in API responses.
type PaymentResponse struct {
	ID            string          `json:"id"`
	BillID        string          `json:"bill_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentFromDomain converts domain payment link to response.
func PaymentFromDomain(p *domain.BillPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.EntityID,
		BillID:        p.BillID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
	}
}

// StatementResponse represents a bank statement in API responses.
type StatementResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	BankAccountID  string    `json:"bank_account_id"`
	StatementDate  time.Time `json:"statement_date"`
	Status         string    `json:"status"`
}

// StatementFromDomain converts domain statement to response.
func StatementFromDomain(s *domain.BankStatement) *StatementResponse {
	return &StatementResponse{
		ID:             s.EntityID,
		OrganizationID: s.OrganizationID,
		BankAccountID:  s.BankAccountID,
		StatementDate:  s.StatementDate,
		Status:         string(s.Status),
	}
}

// LineResponse represents a statement line in API responses.
type LineResponse struct {
	ID                   string          `json:"id"`
	StatementID          string          `json:"statement_id"`
	TransactionDate      time.Time       `json:"transaction_date"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	ReferenceNumber      string          `json:"reference_number,omitempty"`
	Category             string          `json:"category,omitempty"`
	Status               string          `json:"status"`
	MatchedTransactionID string          `json:"matched_transaction_id,omitempty"`
	MatchType            string          `json:"match_type,omitempty"`
	MatchScore           float64         `json:"match_score,omitempty"`
	MatchedAt            *time.Time      `json:"matched_at,omitempty"`
}

// LineFromDomain converts domain line to response.
func LineFromDomain(l *domain.StatementLine) *LineResponse {
	return &LineResponse{
		ID:                   l.EntityID,
		StatementID:          l.StatementID,
		TransactionDate:      l.TransactionDate,
		Amount:               l.Amount,
		Description:          l.Description,
		ReferenceNumber:      l.ReferenceNumber,
		Category:             l.Category,
		Status:               string(l.Status),
		MatchedTransactionID: l.MatchedTransactionID,
		MatchType:            string(l.MatchType),
		MatchScore:           l.MatchScore,
		MatchedAt:            l.MatchedAt,
	}
}

// LinesFromDomain converts domain lines to responses.
func LinesFromDomain(lines []*domain.StatementLine) []*LineResponse {
	result := make([]*LineResponse, len(lines))
	for i, l := range lines {
		result[i] = LineFromDomain(l)
	}
	return result
}

// MatchResultResponse represents an auto-match run in API responses.
type MatchResultResponse struct {
	StatementID string `json:"statement_id"`
	Exact       int    `json:"exact"`
	Fuzzy       int    `json:"fuzzy"`
	Unmatched   int    `json:"unmatched"`
}

// MatchResultFromUseCase converts a match result to response.
func MatchResultFromUseCase(r *usecase.MatchResult) *MatchResultResponse {
	return &MatchResultResponse{
		StatementID: r.StatementID,
		Exact:       r.Exact,
		Fuzzy:       r.Fuzzy,
		Unmatched:   r.Unmatched,
	}
}

// CompletionResultResponse represents a completion run in API responses.
type CompletionResultResponse struct {
	StatementID string `json:"statement_id"`
	Confirmed   int    `json:"confirmed"`
	Skipped     int    `json:"skipped"`
}

// CompletionResultFromUseCase converts a completion result to response.
func CompletionResultFromUseCase(r *usecase.CompletionResult) *CompletionResultResponse {
	return &CompletionResultResponse{
		StatementID: r.StatementID,
		Confirmed:   r.Confirmed,
		Skipped:     r.Skipped,
	}
}

// BalanceVerificationResponse represents a balance check in API responses.
type BalanceVerificationResponse struct {
	AccountID  string          `json:"account_id"`
	Recorded   decimal.Decimal `json:"recorded"`
	Computed   decimal.Decimal `json:"computed"`
	Difference decimal.Decimal `json:"difference"`
	Consistent bool            `json:"consistent"`
	CheckedAt  time.Time       `json:"checked_at"`
}

// BalanceVerificationFromUseCase converts a verification to response.
func BalanceVerificationFromUseCase(v *usecase.BalanceVerification) *BalanceVerificationResponse {
	return &BalanceVerificationResponse{
		AccountID:  v.AccountID,
		Recorded:   v.Recorded,
		Computed:   v.Computed,
		Difference: v.Difference,
		Consistent: v.Consistent,
		CheckedAt:  v.CheckedAt,
	}
}

// IntegrityResponse represents a transaction integrity check.
type IntegrityResponse struct {
	TransactionID string   `json:"transaction_id"`
	Consistent    bool     `json:"consistent"`
	Findings      []string `json:"findings,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
