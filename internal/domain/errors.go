package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every failure
// path in the core maps to exactly one of these, so callers can branch
// with errors.Is/errors.As and the API layer can pick a status code.

var (
	// ErrNotFound covers an absent entity and a job whose contract is
	// not in progress — both are indistinguishable "nothing payable here".
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means the entity exists but the caller is not a
	// party with the required role. Distinct from ErrNotFound on purpose.
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientFunds rejects a payment the client cannot cover.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrInvalidInput rejects missing or malformed request parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTxFailure wraps store-level commit/rollback errors. Never
	// retried by the core; surfaced to the caller as-is.
	ErrTxFailure = errors.New("transaction failure")
)

// LimitExceededError rejects a deposit above the allowed cap and
// carries the computed maximum so the caller can see how much is allowed.
type LimitExceededError struct {
	Requested  Cents
	MaxDeposit Cents
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("deposit %s exceeds the maximum allowed of %s", e.Requested, e.MaxDeposit)
}
