package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an operation attempted against a transaction or
// drawer in the wrong lifecycle state.
var ErrInvalidState = errors.New("invalid lifecycle state for operation")

// ErrInsufficientStock indicates a sale line would exceed the available
// quantity of a stock-tracked product.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrNegativeStock indicates a stock movement would take a tracked product's
// quantity below zero.
var ErrNegativeStock = errors.New("stock quantity would become negative")

// ErrPaymentInsufficient indicates cash tendered below the transaction total.
var ErrPaymentInsufficient = errors.New("payment amount is less than total")

// ErrNoOpenDrawer indicates the acting cashier has no open cash drawer.
var ErrNoOpenDrawer = errors.New("cashier has no open cash drawer")

// ErrDrawerAlreadyOpen indicates the cashier already has an open drawer.
var ErrDrawerAlreadyOpen = errors.New("cashier already has an open cash drawer")

// ErrOverReturn indicates a return quantity exceeds the returnable remainder.
var ErrOverReturn = errors.New("return quantity exceeds returnable quantity")

// ErrConflict indicates a concurrent serialization conflict that persisted
// past the repository's bounded retries.
var ErrConflict = errors.New("operation conflicted with a concurrent change")

// ErrInternal indicates an unrecoverable internal failure, including any
// violation of the ledger arithmetic invariants.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
