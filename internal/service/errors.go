package service

import "errors"

// Failure taxonomy surfaced across the API boundary.
var (
	// ErrNotConfigured means the OAuth app credentials are incomplete.
	// Fatal until the deployment is fixed.
	ErrNotConfigured = errors.New("hubspot oauth app is not configured")

	// ErrNotConnected means no usable credential exists for the portal.
	// Recoverable by re-running the authorization flow.
	ErrNotConnected = errors.New("portal is not connected to hubspot")

	// ErrInvalidState means the CSRF state check failed: the state is
	// missing, expired, or already consumed. The user must restart the
	// authorization flow.
	ErrInvalidState = errors.New("invalid or expired oauth state")

	// ErrMissingIdentifier means no portal id could be resolved from the
	// request. The boundary fails closed instead of defaulting.
	ErrMissingIdentifier = errors.New("portal id is required")

	// ErrInvoiceNotActionable is the precondition rejection for
	// destructive single-invoice actions: the invoice is not overdue,
	// or it is already paid. No remote writes are attempted.
	ErrInvoiceNotActionable = errors.New("invoice is not overdue or is already paid")
)
