package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
)

type PaymentClient struct {
	baseURL string
	http    *http.Client
}

func NewPaymentClient(cfg config.UpstreamConfig) *PaymentClient {
	return &PaymentClient{
		baseURL: cfg.PaymentBaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type chargePayload struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpDate        string `json:"expDate"`
	CVV            string `json:"cvv"`
}

type chargeResponse struct {
	ConfirmationNumber string `json:"confirmationNumber"`
}

// Charge records the payment attempt in the ledger and returns its
// confirmation token. Declines come back as ErrPaymentDeclined; anything the
// ledger did not definitively answer is an upstream error.
func (c *PaymentClient) Charge(ctx context.Context, card payment.CardDetails) (string, error) {
	body, err := json.Marshal(chargePayload{
		CardHolderName: card.CardHolderName,
		CardNumber:     card.CardNumber,
		ExpDate:        card.ExpDate,
		CVV:            card.CVV,
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal payment details")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(err, "failed to build payment request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return "", errs.ErrPaymentDeclined
	default:
		return "", errs.Mark(
			errs.New(fmt.Sprintf("payment service returned %d", resp.StatusCode)),
			errs.ErrUpstreamUnavailable,
		)
	}

	var p chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", errs.Mark(errs.Wrap(err, "failed to decode payment response"), errs.ErrUpstreamUnavailable)
	}
	if p.ConfirmationNumber == "" {
		return "", errs.Mark(errs.New("payment response missing confirmation number"), errs.ErrUpstreamUnavailable)
	}
	return p.ConfirmationNumber, nil
}

// FlagReversal asks the ledger to mark a captured payment for out-of-band
// reversal. Called on the compensating path after order persistence fails.
func (c *PaymentClient) FlagReversal(ctx context.Context, confirmationNumber string) error {
	url := fmt.Sprintf("%s/payment/%s/reversal", c.baseURL, confirmationNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errs.Wrap(err, "failed to build reversal request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Mark(
			errs.New(fmt.Sprintf("payment reversal returned %d", resp.StatusCode)),
			errs.ErrUpstreamUnavailable,
		)
	}
	return nil
}
