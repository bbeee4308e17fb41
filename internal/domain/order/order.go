package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems            = errors.New("order must contain at least one item")
	ErrMissingPayment     = errors.New("payment details are required")
	ErrMissingShipping    = errors.New("shipping details are required")
	ErrNegativeUnitPrice  = errors.New("unit price cannot be negative")
	ErrEmptyConfirmation  = errors.New("confirmation number is required")
	ErrNonPositiveLineQty = errors.New("line quantity must be positive")
)

// LineItem is a snapshot of an inventory item taken at reservation time. The
// name and price are frozen here so later catalog changes never rewrite an
// existing order.
type LineItem struct {
	ItemID     int64
	Name       string
	Quantity   int32
	PriceCents int64
}

// Order is immutable once persisted. The orchestrator is its only writer.
type Order struct {
	id                  uuid.UUID
	confirmationNumber  string
	customerName        string
	paymentConfirmation string
	items               []LineItem
	createdAt           time.Time
}

func NewOrder(
	confirmationNumber string,
	customerName string,
	paymentConfirmation string,
	items []LineItem,
	createdAt time.Time,
) (*Order, error) {
	if confirmationNumber == "" {
		return nil, ErrEmptyConfirmation
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrNonPositiveLineQty
		}
		if it.PriceCents < 0 {
			return nil, ErrNegativeUnitPrice
		}
	}

	return &Order{
		id:                  uuid.New(),
		confirmationNumber:  confirmationNumber,
		customerName:        customerName,
		paymentConfirmation: paymentConfirmation,
		items:               items,
		createdAt:           createdAt,
	}, nil
}

func (o *Order) ID() uuid.UUID               { return o.id }
func (o *Order) ConfirmationNumber() string  { return o.confirmationNumber }
func (o *Order) CustomerName() string        { return o.customerName }
func (o *Order) PaymentConfirmation() string { return o.paymentConfirmation }
func (o *Order) Items() []LineItem           { return o.items }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }

// TotalCents is the sum of quantity * unit price over all lines.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, it := range o.items {
		total += int64(it.Quantity) * it.PriceCents
	}
	return total
}
