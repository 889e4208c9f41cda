package dto

import "github.com/technoghar/repair-service/internal/domain"

// ServiceRequestPayload describes a repair submission.
type ServiceRequestPayload struct {
	DeviceType string `json:"device" validate:"required"`
	Brand      string `json:"brand" validate:"required"`
	Issue      string `json:"issue" validate:"required"`
}

// BookingRequest describes a doorstep booking form submission.
type BookingRequest struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone" validate:"required,phone"`
	Device string `json:"device" validate:"required"`
	Issue  string `json:"issue" validate:"required"`
}

// ActiveRepairResponse is the customer/guest view of a repair.
type ActiveRepairResponse struct {
	TicketID      string                `json:"ticketId"`
	Device        string                `json:"device"`
	Issue         string                `json:"issue"`
	ReceivedDate  string                `json:"receivedDate"`
	StatusStep    domain.StatusStep     `json:"statusStep"`
	StatusLabel   string                `json:"statusLabel"`
	EstimatedDate string                `json:"estimatedDate"`
	Steps         []domain.ProgressStep `json:"steps"`
}

// ProfileResponse bundles the customer's profile page data.
type ProfileResponse struct {
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	MemberSince  string                `json:"memberSince"`
	ActiveRepair *ActiveRepairResponse `json:"activeRepair,omitempty"`
	History      []domain.HistoryEntry `json:"history"`
}

// NewActiveRepairResponse projects a repair with its derived progress steps.
func NewActiveRepairResponse(repair domain.ActiveRepair, steps []domain.ProgressStep) *ActiveRepairResponse {
	return &ActiveRepairResponse{
		TicketID:      repair.TicketID,
		Device:        repair.Device,
		Issue:         repair.Issue,
		ReceivedDate:  repair.ReceivedDate,
		StatusStep:    repair.StatusStep,
		StatusLabel:   repair.StatusStep.Label(),
		EstimatedDate: repair.EstimatedDate,
		Steps:         steps,
	}
}
