package dto

// UpdateStatusRequest payload for advancing a repair's status.
type UpdateStatusRequest struct {
	StatusStep int `json:"statusStep" validate:"required,min=1,max=4"`
}
