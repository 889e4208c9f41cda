package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/events"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/pkg/util"
)

// RepairService coordinates customer-facing repair workflows.
type RepairService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// RepairDependencies bundles requirements for the repair service.
type RepairDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// ServiceRequestInput describes a repair submission.
type ServiceRequestInput struct {
	DeviceType string
	Brand      string
	Issue      string
}

// BookingInput describes a doorstep booking request. Bookings are
// acknowledged and announced but not persisted.
type BookingInput struct {
	Name   string
	Phone  string
	Device string
	Issue  string
}

// TrackResult is the guest view of a found ticket.
type TrackResult struct {
	Repair domain.ActiveRepair
	Steps  []domain.ProgressStep
}

// NewRepairService constructs the service.
func NewRepairService(deps RepairDependencies) *RepairService {
	return &RepairService{users: deps.UserRepo, dispatcher: deps.Dispatcher}
}

// SubmitRequest opens a repair ticket for the customer, overwriting any prior
// active repair. The new ticket starts at Received with a pending estimate.
func (s *RepairService) SubmitRequest(ctx context.Context, ownerEmail string, input ServiceRequestInput) (*domain.ActiveRepair, error) {
	now := time.Now()
	repair := domain.ActiveRepair{
		HasActiveRepair: true,
		TicketID:        domain.NewTicketID(now),
		Device:          fmt.Sprintf("%s (%s)", input.Brand, strings.ToUpper(input.DeviceType)),
		Issue:           input.Issue,
		ReceivedDate:    now.Format(domain.DateLayout),
		StatusStep:      domain.StatusReceived,
		EstimatedDate:   domain.EstimatePending,
	}

	if err := s.users.ReplaceActiveRepair(ctx, ownerEmail, repair); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventRepairRequested,
		TicketID: repair.TicketID,
		Actor:    customerActor(ownerEmail),
		Payload: events.RepairRequestedPayload{
			OwnerEmail:   ownerEmail,
			Device:       repair.Device,
			Issue:        repair.Issue,
			ReceivedDate: repair.ReceivedDate,
		},
	})
	return &repair, nil
}

// Profile returns the customer's record with derived progress steps for the
// active repair, or nil steps when no repair is open.
func (s *RepairService) Profile(ctx context.Context, email string) (*domain.UserRecord, []domain.ProgressStep, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	var steps []domain.ProgressStep
	if user.ActiveRepair.HasActiveRepair {
		steps = user.ActiveRepair.StatusStep.ProgressSteps()
	}
	return user, steps, nil
}

// TrackTicket is the guest lookup: a linear scan over all user records
// comparing active-repair ticket IDs only; history entries are not searched.
// Ticket IDs are not guaranteed unique, so the first match in scan order wins.
// A miss is a normal not-found outcome.
func (s *RepairService) TrackTicket(ctx context.Context, ticketID string) (*TrackResult, error) {
	ticketID = strings.ToUpper(strings.TrimSpace(ticketID))
	if ticketID == "" {
		return nil, util.NewValidationError("ticket id required", nil)
	}

	records, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ActiveRepair.HasActiveRepair && record.ActiveRepair.TicketID == ticketID {
			return &TrackResult{
				Repair: record.ActiveRepair,
				Steps:  record.ActiveRepair.StatusStep.ProgressSteps(),
			}, nil
		}
	}
	return nil, util.NewNotFound("ticket", map[string]any{"ticketId": ticketID})
}

// SubmitBooking acknowledges a doorstep booking and announces it. Validation
// happens at the API boundary before any call lands here.
func (s *RepairService) SubmitBooking(ctx context.Context, input BookingInput) {
	s.publishEvent(ctx, events.Event{
		Type:  events.EventBookingRequested,
		Actor: events.Actor{Type: domain.SubjectTypeGuest},
		Payload: events.BookingRequestedPayload{
			Name:   input.Name,
			Phone:  input.Phone,
			Device: input.Device,
			Issue:  input.Issue,
		},
	})
}

func (s *RepairService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func customerActor(email string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeCustomer, Email: &email}
}
