package dto

import "github.com/aarondl/null/v8"

type CaseDTO struct {
	ID               string       `json:"_id"`
	CaseID           string       `json:"caseId"`
	LeadID           string       `json:"leadId"`
	CustomerName     string       `json:"customerName"`
	Mobile           string       `json:"mobile"`
	Email            string       `json:"email"`
	LeadType         string       `json:"leadType"`
	SubType          string       `json:"subType"`
	Bank             string       `json:"bank"`
	Branch           string       `json:"branch"`
	ChannelPartner   string       `json:"channelPartner"`
	AssignedTo       null.String  `json:"assignedTo"`
	Task             string       `json:"task"`
	Status           string       `json:"status"`
	Amount           null.Float64 `json:"amount"`
	PermanentAddress string       `json:"permanentAddress"`
	Notes            string       `json:"notes"`
	CreatedAt        string       `json:"createdAt"`
}

// Partial case updates: every field optional so a single-field PATCH-style
// PUT only carries what changed.
type UpdateCaseDTO struct {
	AssignedTo *null.String  `json:"assignedTo,omitempty"`
	Task       *string       `json:"task,omitempty"`
	Status     *string       `json:"status,omitempty" validate:"omitempty,oneof=in-progress pending-documents approved rejected disbursed"`
	Amount     *null.Float64 `json:"amount,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

type CaseCommentDTO struct {
	Comment string `json:"comment" validate:"required"`
}

type CaseAuditEntryDTO struct {
	Action     string        `json:"action"`
	FromStatus string        `json:"fromStatus"`
	ToStatus   string        `json:"toStatus"`
	Comment    string        `json:"comment"`
	Actor      *ShortUserDTO `json:"actor"`
	CreatedAt  string        `json:"createdAt"`
}
