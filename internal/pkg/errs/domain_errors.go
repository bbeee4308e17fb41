package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Inventory errors
	ErrItemNotFound          = errors.New("item not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrNoItems               = errors.New("no items")

	// Checkout errors
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentNotFound     = errors.New("payment record not found")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrPaymentDeclined     = errors.New("payment was not accepted")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different request")
	ErrIdempotencyInProgress  = errors.New("request with this idempotency key is in progress")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
