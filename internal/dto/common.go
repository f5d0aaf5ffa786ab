package dto

type ShortUserDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type ShortPartnerDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
