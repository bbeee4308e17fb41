package payment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingHolderName = errors.New("card holder name is required")
	ErrMissingCardNumber = errors.New("card number is required")
	ErrMissingExpDate    = errors.New("expiration date is required")
	ErrMissingCVV        = errors.New("cvv is required")
)

// CardDetails is the payment section of a checkout request as it travels
// between the orchestrator and the ledger.
type CardDetails struct {
	CardHolderName string
	CardNumber     string
	ExpDate        string
	CVV            string
}

// Record is a write-once payment ledger entry. No sufficiency or fraud logic
// lives here; the ledger only persists the attempt and hands back a
// confirmation token.
type Record struct {
	ConfirmationNumber string
	CardHolderName     string
	CardNumber         string
	ExpDate            string
	CVV                string
	ReversalRequired   bool
	CreatedAt          time.Time
}

func NewRecord(confirmationNumber, holderName, cardNumber, expDate, cvv string, createdAt time.Time) (*Record, error) {
	if strings.TrimSpace(holderName) == "" {
		return nil, ErrMissingHolderName
	}
	if strings.TrimSpace(cardNumber) == "" {
		return nil, ErrMissingCardNumber
	}
	if strings.TrimSpace(expDate) == "" {
		return nil, ErrMissingExpDate
	}
	if strings.TrimSpace(cvv) == "" {
		return nil, ErrMissingCVV
	}

	return &Record{
		ConfirmationNumber: confirmationNumber,
		CardHolderName:     holderName,
		CardNumber:         cardNumber,
		ExpDate:            expDate,
		CVV:                cvv,
		CreatedAt:          createdAt,
	}, nil
}
