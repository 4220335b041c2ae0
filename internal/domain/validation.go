package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrMissingActor       = errors.New("actor is required")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxTransactionAmount = "1000000000000" // 1 trillion
)

// ValidateAccountName validates account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAccountType validates the account type.
func ValidateAccountType(t AccountType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, string(t))
	}

	return nil
}

// ValidateAmount validates a transaction amount. Zero is allowed; direction
// is encoded by account sides, never by sign.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateActor validates the acting user identifier stamped on versions.
func ValidateActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return ErrMissingActor
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
