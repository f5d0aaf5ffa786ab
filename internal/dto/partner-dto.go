package dto

type PartnerDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Firm      string `json:"firm"`
	PAN       string `json:"pan"`
	Aadhaar   string `json:"aadhaar"`
	CreatedAt string `json:"createdAt"`
}

type CreatePartnerDTO struct {
	Name    string `json:"name" validate:"required,max=100"`
	Mobile  string `json:"mobile" validate:"required,indian_mobile"`
	Email   string `json:"email" validate:"omitempty,email"`
	Firm    string `json:"firm" validate:"omitempty,max=150"`
	PAN     string `json:"pan" validate:"omitempty,pan_number"`
	Aadhaar string `json:"aadhaar" validate:"omitempty,aadhaar_number"`
}
