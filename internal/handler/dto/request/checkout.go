package request

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"
)

type PaymentSection struct {
	CardHolderName string `json:"cardHolderName" binding:"required"`
	CardNumber     string `json:"cardNumber" binding:"required"`
	ExpDate        string `json:"expDate" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
}

type ShippingSection struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Zip          string `json:"zip" binding:"required"`
}

// CheckoutRequest is the full order payload: the lines to reserve plus the
// payment and shipping sections captured verbatim for the saga.
type CheckoutRequest struct {
	Items    []ReserveLine   `json:"items" binding:"required"`
	Payment  PaymentSection  `json:"payment" binding:"required"`
	Shipping ShippingSection `json:"shipping" binding:"required"`
}

func (r CheckoutRequest) ToCard() payment.CardDetails {
	return payment.CardDetails{
		CardHolderName: r.Payment.CardHolderName,
		CardNumber:     r.Payment.CardNumber,
		ExpDate:        r.Payment.ExpDate,
		CVV:            r.Payment.CVV,
	}
}

func (r CheckoutRequest) ToAddress() shipping.Address {
	return shipping.Address{
		Name:         r.Shipping.Name,
		AddressLine1: r.Shipping.AddressLine1,
		AddressLine2: r.Shipping.AddressLine2,
		City:         r.Shipping.City,
		State:        r.Shipping.State,
		Zip:          r.Shipping.Zip,
	}
}

func (r CheckoutRequest) ToLines() []inventory.ReservationLine {
	lines := make([]inventory.ReservationLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = inventory.ReservationLine{ItemID: it.ID, Quantity: it.Quantity}
	}
	return lines
}
