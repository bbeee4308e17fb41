package response

import (
	"time"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/order"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/infra/postgres"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/usecase"
)

type OrderLineResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Quantity   int32  `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type CheckoutResponse struct {
	ConfirmationNumber string              `json:"confirmationNumber"`
	Items              []OrderLineResponse `json:"items"`
}

type OrderResponse struct {
	ConfirmationNumber  string              `json:"confirmationNumber"`
	CustomerName        string              `json:"customerName"`
	PaymentConfirmation string              `json:"paymentConfirmation"`
	Items               []OrderLineResponse `json:"items"`
	TotalCents          int64               `json:"totalCents"`
	CreatedAt           time.Time           `json:"createdAt"`
}

func FromCheckoutResult(result *usecase.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		ConfirmationNumber: result.ConfirmationNumber,
		Items:              fromLineItems(result.Items),
	}
}

func FromOrderRM(rm *postgres.OrderRM) *OrderResponse {
	var total int64
	for _, it := range rm.Items {
		total += int64(it.Quantity) * it.PriceCents
	}
	return &OrderResponse{
		ConfirmationNumber:  rm.ConfirmationNumber,
		CustomerName:        rm.CustomerName,
		PaymentConfirmation: rm.PaymentConfirmation,
		Items:               fromLineItems(rm.Items),
		TotalCents:          total,
		CreatedAt:           rm.CreatedAt,
	}
}

func fromLineItems(items []order.LineItem) []OrderLineResponse {
	resp := make([]OrderLineResponse, len(items))
	for i, it := range items {
		resp[i] = OrderLineResponse{
			ID:         it.ItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		}
	}
	return resp
}
