package response

type ChargeResponse struct {
	ConfirmationNumber string `json:"confirmationNumber"`
}
