package dto

type CustomerDTO struct {
	ID             string `json:"_id"`
	CustomerID     string `json:"customerId"`
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	ChannelPartner string `json:"channelPartner"`
	BankName       string `json:"bankName"`
	// "open" or "close"; closing is gated on a recorded disbursement.
	Status         string  `json:"status"`
	TotalDisbursed float64 `json:"totalDisbursed"`
	CreatedAt      string  `json:"createdAt"`
}

type UpdateCustomerFieldDTO struct {
	ChannelPartner *string `json:"channelPartner,omitempty"`
	BankName       *string `json:"bankName,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=open close"`
}
