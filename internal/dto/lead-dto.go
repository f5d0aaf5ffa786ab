package dto

type LeadDTO struct {
	ID             string `json:"_id"`
	LeadID         string `json:"leadId"`
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	LeadType       string `json:"leadType"`
	SubType        string `json:"subType"`
	Status         string `json:"status"`
	WorkflowStatus string `json:"workflowStatus"`
	CreatedAt      string `json:"createdAt"`
}

type CreateLeadDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Mobile   string `json:"mobile" validate:"required,indian_mobile"`
	Email    string `json:"email" validate:"omitempty,email"`
	LeadType string `json:"leadType" validate:"required"`
	SubType  string `json:"subType" validate:"omitempty"`
}

type UpdateLeadWorkflowDTO struct {
	WorkflowStatus string `json:"workflowStatus" validate:"required,oneof=FreePool Postpone"`
}
