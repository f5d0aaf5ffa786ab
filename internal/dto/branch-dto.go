package dto

type BranchDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	BankName  string `json:"bankName"`
	Address   string `json:"address"`
	Contact   string `json:"contact"`
	Manager   string `json:"manager"`
	CreatedAt string `json:"createdAt"`
}

type CreateBranchDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	BankName string `json:"bankName" validate:"required,max=100"`
	Address  string `json:"address" validate:"omitempty,max=200"`
	Contact  string `json:"contact" validate:"omitempty,indian_mobile"`
	Manager  string `json:"manager" validate:"omitempty,max=100"`
}
