package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the bookkeeping ledger
var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrCredentialMissing     = errors.New("credential not configured for account")
	ErrCredentialMismatch    = errors.New("credential does not match")
	ErrLimitExceeded         = errors.New("transfer limit exceeded")
	ErrSameAccount           = errors.New("source and destination accounts cannot be the same")
	ErrNotTaxable            = errors.New("account is not taxable")
	ErrNotTransferable       = errors.New("account does not support transfers")
	ErrUnknownVariant        = errors.New("unknown account variant")
	ErrInvalidWithdrawMethod = errors.New("invalid withdrawal method")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountAlreadyExists  = errors.New("account already exists")
	ErrInvalidAccountID      = errors.New("invalid account ID")

	// Absorbed by their own components, never surfaced to an operation caller.
	ErrEncryptionFailure    = errors.New("encryption operation failed")
	ErrLogWriteFailure      = errors.New("audit log write failed")
	ErrLogSizeExceeded      = errors.New("audit log size limit reached")
	ErrMissingEncryptionKey = errors.New("encryption key or salt not configured")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// OperationError ties a ledger failure to the operation and account that produced it.
type OperationError struct {
	Operation string
	AccountID string
	Cause     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s on account '%s': %v", e.Operation, e.AccountID, e.Cause)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

func NewOperationError(operation, accountID string, cause error) error {
	return &OperationError{
		Operation: operation,
		AccountID: accountID,
		Cause:     cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAccountAlreadyExists)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsCredentialError(err error) bool {
	return errors.Is(err, ErrCredentialMissing) || errors.Is(err, ErrCredentialMismatch)
}

func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrNotTaxable) || errors.Is(err, ErrNotTransferable)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Is and As re-export the standard helpers so callers importing this
// package under its own name need not import both.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
