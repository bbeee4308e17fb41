package shipping

import (
	"errors"
	"strings"
)

var (
	ErrMissingConfirmation = errors.New("confirmation number is required")
	ErrMissingName         = errors.New("recipient name is required")
	ErrMissingAddress      = errors.New("address line 1 is required")
	ErrMissingCity         = errors.New("city is required")
	ErrMissingState        = errors.New("state is required")
	ErrMissingZip          = errors.New("zip is required")
	ErrNonPositivePackets  = errors.New("num packets must be positive")
)

// Address is the delivery destination captured from the checkout request.
// Tagged because it is embedded in the wire event below.
type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// Event is the at-least-once message published after an order is persisted.
// ConfirmationNumber doubles as the idempotency key: replays of the same
// event must yield exactly one shipping record.
type Event struct {
	ConfirmationNumber string  `json:"confirmationNumber"`
	BusinessID         int64   `json:"businessId"`
	Address            Address `json:"address"`
	NumPackets         int32   `json:"numPackets"`
	WeightKg           float64 `json:"weight"`
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ConfirmationNumber) == "" {
		return ErrMissingConfirmation
	}
	if strings.TrimSpace(e.Address.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(e.Address.AddressLine1) == "" {
		return ErrMissingAddress
	}
	if strings.TrimSpace(e.Address.City) == "" {
		return ErrMissingCity
	}
	if strings.TrimSpace(e.Address.State) == "" {
		return ErrMissingState
	}
	if strings.TrimSpace(e.Address.Zip) == "" {
		return ErrMissingZip
	}
	if e.NumPackets <= 0 {
		return ErrNonPositivePackets
	}
	return nil
}

// Record is what the dispatcher persists, keyed by confirmation number.
type Record struct {
	ConfirmationNumber string
	BusinessID         int64
	Address            Address
	NumPackets         int32
	WeightKg           float64
}
