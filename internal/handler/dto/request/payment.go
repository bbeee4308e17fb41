package request

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/payment"
)

type ChargeRequest struct {
	CardHolderName string `json:"cardHolderName" binding:"required"`
	CardNumber     string `json:"cardNumber" binding:"required"`
	ExpDate        string `json:"expDate" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
}

func (r ChargeRequest) ToCard() payment.CardDetails {
	return payment.CardDetails{
		CardHolderName: r.CardHolderName,
		CardNumber:     r.CardNumber,
		ExpDate:        r.ExpDate,
		CVV:            r.CVV,
	}
}
