package response

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/shipping"

	"github.com/jinzhu/copier"
)

type ShippingAddressResponse struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

type ShippingRecordResponse struct {
	ConfirmationNumber string                  `json:"confirmationNumber"`
	BusinessID         int64                   `json:"businessId"`
	Address            ShippingAddressResponse `json:"address"`
	NumPackets         int32                   `json:"numPackets"`
	WeightKg           float64                 `json:"weight"`
}

func FromShippingRecord(rec *shipping.Record) *ShippingRecordResponse {
	var addr ShippingAddressResponse
	_ = copier.Copy(&addr, &rec.Address)
	return &ShippingRecordResponse{
		ConfirmationNumber: rec.ConfirmationNumber,
		BusinessID:         rec.BusinessID,
		Address:            addr,
		NumPackets:         rec.NumPackets,
		WeightKg:           rec.WeightKg,
	}
}
