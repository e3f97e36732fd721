package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrContractNotFound         = errors.New("contract not found")
	ErrContractAlreadySubmitted = errors.New("contract is already submitted")
	ErrContractCancelled        = errors.New("contract is cancelled")
	ErrContractNotSubmitted     = errors.New("contract is not submitted")
	ErrContractLocked           = errors.New("contract is locked by another operation")
	ErrConcurrentModification   = errors.New("contract was modified concurrently")
	ErrInvoiceNotFound          = errors.New("invoice not found")
	ErrInvoiceNotSubmitted      = errors.New("invoice is not submitted")
	ErrInvalidPaymentAmount     = errors.New("invalid payment amount")
	ErrItemNotFound             = errors.New("item not found")
	ErrAssetAlreadyExists       = errors.New("asset already exists")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserDisabled             = errors.New("user account is disabled")
	ErrInvalidPassword          = errors.New("invalid password")
	ErrInvalidAPIKey            = errors.New("invalid api key")
	ErrForbidden                = errors.New("not permitted")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AsBusinessError unwraps err into a *BusinessError when one is in the chain.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// Error codes
const (
	ErrCodeContractNotFound         = "CONTRACT_NOT_FOUND"
	ErrCodeContractAlreadySubmitted = "CONTRACT_ALREADY_SUBMITTED"
	ErrCodeContractCancelled        = "CONTRACT_CANCELLED"
	ErrCodeContractNotSubmitted     = "CONTRACT_NOT_SUBMITTED"
	ErrCodeContractLocked           = "CONTRACT_LOCKED"
	ErrCodeConcurrentModification   = "CONCURRENT_MODIFICATION"
	ErrCodeInvoiceNotFound          = "INVOICE_NOT_FOUND"
	ErrCodeInvoiceNotSubmitted      = "INVOICE_NOT_SUBMITTED"
	ErrCodeInvalidPaymentAmount     = "INVALID_PAYMENT_AMOUNT"
	ErrCodeItemNotFound             = "ITEM_NOT_FOUND"
	ErrCodeAssetAlreadyExists       = "ASSET_ALREADY_EXISTS"
	ErrCodeUserNotFound             = "USER_NOT_FOUND"
	ErrCodeUserDisabled             = "USER_DISABLED"
	ErrCodeInvalidPassword          = "INVALID_PASSWORD"
	ErrCodeInvalidAPIKey            = "INVALID_API_KEY"
	ErrCodeForbidden                = "FORBIDDEN"
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
	ErrCodeInternal                 = "INTERNAL_ERROR"
)

// Wrap common errors with business context
func WrapContractNotFound(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotFound,
		fmt.Sprintf("Lease contract %s not found", name),
		ErrContractNotFound,
	)
}

func WrapContractAlreadySubmitted(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractAlreadySubmitted,
		fmt.Sprintf("Lease contract %s is already submitted", name),
		ErrContractAlreadySubmitted,
	)
}

func WrapContractCancelled(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractCancelled,
		fmt.Sprintf("Lease contract %s is cancelled", name),
		ErrContractCancelled,
	)
}

func WrapContractNotSubmitted(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotSubmitted,
		fmt.Sprintf("Lease contract %s is not submitted", name),
		ErrContractNotSubmitted,
	)
}

func WrapContractLocked(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractLocked,
		fmt.Sprintf("Lease contract %s is being modified by another operation", name),
		ErrContractLocked,
	)
}

func WrapConcurrentModification(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrentModification,
		fmt.Sprintf("Lease contract %s was modified concurrently, reload and retry", name),
		ErrConcurrentModification,
	)
}

func WrapInvoiceNotFound(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceNotFound,
		fmt.Sprintf("Invoice %s not found", name),
		ErrInvoiceNotFound,
	)
}

func WrapInvoiceNotSubmitted(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvoiceNotSubmitted,
		fmt.Sprintf("Invoice %s is not submitted", name),
		ErrInvoiceNotSubmitted,
	)
}

func WrapInvalidPaymentAmount(amount, outstanding string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Payment amount %s must be positive and not exceed outstanding %s", amount, outstanding),
		ErrInvalidPaymentAmount,
	)
}

func WrapItemNotFound(itemCode string) *BusinessError {
	return NewBusinessError(
		ErrCodeItemNotFound,
		fmt.Sprintf("Item %s not found", itemCode),
		ErrItemNotFound,
	)
}

func WrapAssetAlreadyExists(assetName string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssetAlreadyExists,
		fmt.Sprintf("Asset already exists: %s", assetName),
		ErrAssetAlreadyExists,
	)
}

func WrapUserNotFound() *BusinessError {
	return NewBusinessError(ErrCodeUserNotFound, "User not found", ErrUserNotFound)
}

func WrapUserDisabled() *BusinessError {
	return NewBusinessError(ErrCodeUserDisabled, "User account is disabled", ErrUserDisabled)
}

func WrapInvalidPassword() *BusinessError {
	return NewBusinessError(ErrCodeInvalidPassword, "Invalid password", ErrInvalidPassword)
}

func WrapInvalidAPIKey() *BusinessError {
	return NewBusinessError(ErrCodeInvalidAPIKey, "Invalid API credentials", ErrInvalidAPIKey)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(ErrCodeForbidden, message, ErrForbidden)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, "request validation failed", err)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapInternal(err error) *BusinessError {
	return NewBusinessError(ErrCodeInternal, "Internal server error", err)
}
