package events

import (
	"time"

	"github.com/technoghar/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRepairRequested     EventType = "repair_requested"
	EventRepairStatusChanged EventType = "repair_status_changed"
	EventBookingRequested    EventType = "booking_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type  domain.SubjectType `json:"type"`
	Email *string            `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RepairRequestedPayload payload.
type RepairRequestedPayload struct {
	OwnerEmail   string `json:"owner_email"`
	Device       string `json:"device"`
	Issue        string `json:"issue"`
	ReceivedDate string `json:"received_date"`
}

// RepairStatusChangedPayload payload.
type RepairStatusChangedPayload struct {
	OwnerEmail string            `json:"owner_email"`
	NewStep    domain.StatusStep `json:"new_step"`
}

// BookingRequestedPayload payload.
type BookingRequestedPayload struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Device string `json:"device"`
	Issue  string `json:"issue"`
}
