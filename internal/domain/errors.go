package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Validation errors — rejected synchronously, local state unchanged.
	ErrEmptyName        = errors.New("customer name is required")
	ErrEmptyPhone       = errors.New("customer phone is required")
	ErrDuplicatePhone   = errors.New("phone number already exists")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer is deactivated")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidTxType    = errors.New("transaction type must be SALE or PAYMENT")

	// Sync errors
	ErrNoRemote   = errors.New("no remote endpoint configured")
	ErrPullFailed = errors.New("remote snapshot fetch failed")
)
