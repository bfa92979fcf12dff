package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that a candidate journal entry or input failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAllocation indicates that a sequence counter could not be advanced.
var ErrAllocation = errors.New("sequence allocation failed")

// ErrAccountNotConfigured indicates a ledger role has no usable account mapping.
var ErrAccountNotConfigured = errors.New("account not configured")

// ErrDuplicatePosting indicates a posting already exists for the same idempotency key.
var ErrDuplicatePosting = errors.New("duplicate posting")

// ErrIllegalTransition indicates an invoice state machine violation.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrOverpayment indicates a payment larger than the outstanding balance.
var ErrOverpayment = errors.New("overpayment")

// ErrCycle indicates an account hierarchy change that would introduce a cycle.
var ErrCycle = errors.New("account hierarchy cycle")

// ErrHierarchyDepth indicates an account hierarchy change that would exceed the depth limit.
var ErrHierarchyDepth = errors.New("account hierarchy too deep")

// ErrConflict indicates the operation conflicts with dependent data.
var ErrConflict = errors.New("conflict")

// ErrStorage is the generic I/O failure category for the persistence layer.
var ErrStorage = errors.New("storage failure")

// AppError carries a status-like code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message. Code 500 errors are classified as ErrStorage.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Is reports storage-category membership for 5xx errors.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= 500
}

// ViolationCode identifies one rule broken by a candidate journal entry.
type ViolationCode string

const (
	ViolationEmptyEntry      ViolationCode = "EMPTY_ENTRY"
	ViolationUnknownAccount  ViolationCode = "UNKNOWN_ACCOUNT"
	ViolationInactiveAccount ViolationCode = "INACTIVE_ACCOUNT"
	ViolationMalformedLine   ViolationCode = "MALFORMED_LINE"
	ViolationUnbalanced      ViolationCode = "UNBALANCED"
	ViolationInvalidTotals   ViolationCode = "INVALID_TOTALS"
	ViolationInvalidInput    ViolationCode = "INVALID_INPUT"
)

// Violation describes a single failed rule. LineIndex is -1 when the rule applies to the whole entry.
type Violation struct {
	Code        ViolationCode   `json:"code"`
	LineIndex   int             `json:"lineIndex"`
	AccountCode string          `json:"accountCode,omitempty"`
	Message     string          `json:"message"`
	Delta       decimal.Decimal `json:"delta"`
}

// ValidationError collects every violation found, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Code, v.Message))
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Has reports whether a violation with the given code was recorded.
func (e *ValidationError) Has(code ViolationCode) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// NewInputError returns a single-violation ValidationError for invalid caller input.
func NewInputError(format string, args ...any) *ValidationError {
	return &ValidationError{Violations: []Violation{{
		Code:      ViolationInvalidInput,
		LineIndex: -1,
		Message:   fmt.Sprintf(format, args...),
	}}}
}

// AllocationError is returned when no code could be produced for a sequence.
type AllocationError struct {
	Sequence string
	Err      error
}

func (e *AllocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sequence %q: allocation failed", e.Sequence)
	}
	return fmt.Sprintf("sequence %q: allocation failed: %v", e.Sequence, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// AccountNotConfiguredError names the ledger role that could not be resolved.
type AccountNotConfiguredError struct {
	Role        string
	AccountCode string
	Reason      string
}

func (e *AccountNotConfiguredError) Error() string {
	if e.AccountCode == "" {
		return fmt.Sprintf("account role %s is not configured", e.Role)
	}
	return fmt.Sprintf("account role %s maps to %s which is %s", e.Role, e.AccountCode, e.Reason)
}

func (e *AccountNotConfiguredError) Is(target error) bool { return target == ErrAccountNotConfigured }

// DuplicatePostingError carries the idempotency key that was already used.
type DuplicatePostingError struct {
	SourceInvoiceID string
	EventKind       string
}

func (e *DuplicatePostingError) Error() string {
	return fmt.Sprintf("posting for invoice %s event %s already exists", e.SourceInvoiceID, e.EventKind)
}

func (e *DuplicatePostingError) Is(target error) bool { return target == ErrDuplicatePosting }

// IllegalTransitionError reports the state and action that were rejected.
type IllegalTransitionError struct {
	From   string
	Action string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s to invoice in status %s", e.Action, e.From)
}

func (e *IllegalTransitionError) Is(target error) bool { return target == ErrIllegalTransition }

// OverpaymentError reports the outstanding balance and the rejected amount.
type OverpaymentError struct {
	Outstanding decimal.Decimal
	Attempted   decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds outstanding balance %s", e.Attempted.StringFixed(2), e.Outstanding.StringFixed(2))
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// CycleError reports the account whose proposed parent is one of its descendants.
type CycleError struct {
	AccountCode string
	ParentCode  string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("setting parent of %s to %s would create a cycle", e.AccountCode, e.ParentCode)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// HierarchyDepthError reports a parent assignment that would make the tree deeper than Limit levels.
type HierarchyDepthError struct {
	AccountCode string
	ParentCode  string
	Depth       int
	Limit       int
}

func (e *HierarchyDepthError) Error() string {
	return fmt.Sprintf("placing %s under %s would give the account hierarchy %d levels, limit is %d",
		e.AccountCode, e.ParentCode, e.Depth, e.Limit)
}

func (e *HierarchyDepthError) Is(target error) bool { return target == ErrHierarchyDepth }

// ConflictError reports a delete or update blocked by dependent records.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
