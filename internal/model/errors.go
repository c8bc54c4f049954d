package model

import "errors"

// Validation errors are returned before any state changes.
var (
	ErrInvalidAmount      = errors.New("invalid amount: must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSameAccount        = errors.New("source and destination accounts are the same")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrInvalidClient      = errors.New("invalid client")
	ErrInvalidAccountType = errors.New("invalid account type (must be EPARGNE or COURANT)")
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrClientNotFound  = errors.New("client not found")

	// ErrPartialTransfer is returned when the source leg of a transfer was
	// applied but the destination leg was not. A compensating deposit has been
	// recorded on the source when this error is returned.
	ErrPartialTransfer = errors.New("partial transfer failure")

	// ErrRemoteUnavailable never fails a ledger operation; it only reaches
	// callers through a sync ticket as a degraded-success signal.
	ErrRemoteUnavailable = errors.New("remote source unavailable")

	ErrForbidden = errors.New("operation not permitted for this session")
)
