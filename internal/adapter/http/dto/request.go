package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodsteward/ledger/internal/domain"
	"github.com/goodsteward/ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Actor          string `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		Actor:          r.Actor,
	}
}

// UpdateAccountRequest represents a partial account update. Absent fields
// are left unchanged.
type UpdateAccountRequest struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Actor string  `json:"actor"`
}

// ToPatch converts to a domain patch.
func (r *UpdateAccountRequest) ToPatch() domain.AccountPatch {
	patch := domain.AccountPatch{Name: r.Name}
	if r.Type != nil {
		t := domain.AccountType(*r.Type)
		patch.Type = &t
	}

	return patch
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	OrganizationID  string          `json:"organization_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Actor           string          `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		OrganizationID:  r.OrganizationID,
		TransactionDate: r.TransactionDate,
		Amount:          r.Amount,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
		Actor:           r.Actor,
	}
}

// EditTransactionRequest represents a partial transaction edit. Absent
// fields are left unchanged.
type EditTransactionRequest struct {
	TransactionDate *time.Time       `json:"transaction_date,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DebitAccountID  *string          `json:"debit_account_id,omitempty"`
	CreditAccountID *string          `json:"credit_account_id,omitempty"`
	Description     *string          `json:"description,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	Actor           string           `json:"actor"`
}

// ToPatch converts to a domain patch.
func (r *EditTransactionRequest) ToPatch() domain.TransactionPatch {
	return domain.TransactionPatch{
		TransactionDate: r.TransactionDate,
		Amount:          r.Amount,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Description:     r.Description,
		ReferenceNumber: r.ReferenceNumber,
	}
}

// VoidTransactionRequest represents a request to void a transaction.
type VoidTransactionRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

// CreateBillRequest represents a request to record a bill.
type CreateBillRequest struct {
	OrganizationID       string          `json:"organization_id"`
	VendorName           string          `json:"vendor_name"`
	Amount               decimal.Decimal `json:"amount"`
	DueDate              time.Time       `json:"due_date"`
	AccrualTransactionID string          `json:"accrual_transaction_id,omitempty"`
	Actor                string          `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBillRequest) ToUseCaseInput() usecase.CreateBillInput {
	return usecase.CreateBillInput{
		OrganizationID:       r.OrganizationID,
		VendorName:           r.VendorName,
		Amount:               r.Amount,
		DueDate:              r.DueDate,
		AccrualTransactionID: r.AccrualTransactionID,
		Actor:                r.Actor,
	}
}

// AddPaymentRequest represents a request to link a payment transaction to
// a bill.
type AddPaymentRequest struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Actor         string          `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *AddPaymentRequest) ToUseCaseInput(billID string) usecase.AddPaymentInput {
	return usecase.AddPaymentInput{
		BillID:        billID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		Actor:         r.Actor,
	}
}

// StatementLineItem represents a single line in an import request.
type StatementLineItem struct {
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Category        string          `json:"category,omitempty"`
}

// ImportStatementRequest represents a request to import a bank statement.
type ImportStatementRequest struct {
	OrganizationID string              `json:"organization_id"`
	BankAccountID  string              `json:"bank_account_id"`
	StatementDate  time.Time           `json:"statement_date"`
	Lines          []StatementLineItem `json:"lines"`
	Actor          string              `json:"actor"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportStatementRequest) ToUseCaseInput() usecase.ImportStatementInput {
	lines := make([]usecase.StatementLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.StatementLineInput{
			TransactionDate: l.TransactionDate,
			Amount:          l.Amount,
			Description:     l.Description,
			ReferenceNumber: l.ReferenceNumber,
			Category:        l.Category,
		}
	}

	return usecase.ImportStatementInput{
		OrganizationID: r.OrganizationID,
		BankAccountID:  r.BankAccountID,
		StatementDate:  r.StatementDate,
		Lines:          lines,
		Actor:          r.Actor,
	}
}

// ManualMatchRequest represents a request to match a line by hand.
type ManualMatchRequest struct {
	TransactionID string `json:"transaction_id"`
	Actor         string `json:"actor"`
}

// ActorRequest carries just the acting user, for operations with no other
// parameters.
type ActorRequest struct {
	Actor string `json:"actor"`
}
