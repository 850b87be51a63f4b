// Package bankerrors defines the stable, machine-readable error taxonomy
// the banking engine returns to its callers (spec §7). Every failure the
// engine can produce is one of these codes; nothing else ever crosses the
// engine boundary.
package bankerrors

import "fmt"

// Code is a stable machine-readable error identifier.
type Code string

const (
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodeAccountNotFound     Code = "ACCOUNT_NOT_FOUND"
	CodeUnauthorizedAccess  Code = "UNAUTHORIZED_ACCESS"
	CodeAccountFrozen       Code = "ACCOUNT_FROZEN"
	CodeAccountClosed       Code = "ACCOUNT_CLOSED"
	CodeSelfTransfer        Code = "SELF_TRANSFER"
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
	CodeDuplicateOperation  Code = "DUPLICATE_OPERATION"
	CodeConcurrencyConflict Code = "CONCURRENCY_CONFLICT"
	CodeStorageError        Code = "STORAGE_ERROR"
)

// EngineError is the sum-typed error every engine operation returns on
// failure. It never carries internal detail (stack traces, SQL, row
// versions) — only a stable code and a safe, caller-facing message.
type EngineError struct {
	Code    Code
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

func InvalidAmount(message string) *EngineError {
	return New(CodeInvalidAmount, message)
}

func AccountNotFound() *EngineError {
	return New(CodeAccountNotFound, "account not found")
}

func UnauthorizedAccess() *EngineError {
	return New(CodeUnauthorizedAccess, "caller does not own this account")
}

func AccountFrozen() *EngineError {
	return New(CodeAccountFrozen, "account is frozen")
}

func AccountClosed() *EngineError {
	return New(CodeAccountClosed, "account is closed")
}

func SelfTransfer() *EngineError {
	return New(CodeSelfTransfer, "source and destination accounts must differ")
}

func InsufficientFunds() *EngineError {
	return New(CodeInsufficientFunds, "insufficient funds")
}

func DuplicateOperation() *EngineError {
	return New(CodeDuplicateOperation, "operation already in progress or recently completed")
}

func ConcurrencyConflict() *EngineError {
	return New(CodeConcurrencyConflict, "too many concurrent writers; retry with a new operation key")
}

// StorageError wraps an underlying store failure. The returned EngineError
// never repeats err's text in its Message — callers only ever see a safe,
// generic string; err is for the caller's own logs.
func StorageError(err error) *EngineError {
	return New(CodeStorageError, "a storage error prevented this operation from completing")
}

// As extracts an *EngineError from err, if it is one.
func As(err error) (*EngineError, bool) {
	ee, ok := err.(*EngineError)
	return ee, ok
}
