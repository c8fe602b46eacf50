package dto

type ActionReportRequest struct {
	Status    string  `json:"status" validate:"required,oneof=actioned dismissed"`
	AdminNote *string `json:"admin_note" validate:"omitnil,max=1000"`
}
