package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/events"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/internal/store"
	"github.com/technoghar/repair-service/pkg/util"
)

// captureDispatcher records published events.
type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func newTestRepairService() (*RepairService, repository.UserRepository, *captureDispatcher) {
	repo := repository.NewUserRepository(store.NewMemStore())
	dispatcher := &captureDispatcher{}
	svc := NewRepairService(RepairDependencies{UserRepo: repo, Dispatcher: dispatcher})
	return svc, repo, dispatcher
}

func seedCustomer(t *testing.T, repo repository.UserRepository, email string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.UserRecord{
		Name:         "Asha Rao",
		Email:        email,
		PasswordHash: "$2a$12$fakehash",
		MemberSince:  "2024",
		ActiveRepair: domain.ActiveRepair{HasActiveRepair: false},
	}))
}

func TestSubmitRequest(t *testing.T) {
	svc, repo, dispatcher := newTestRepairService()
	ctx := context.Background()
	seedCustomer(t, repo, "asha@example.com")

	repair, err := svc.SubmitRequest(ctx, "asha@example.com", ServiceRequestInput{
		DeviceType: "laptop",
		Brand:      "Dell",
		Issue:      "Overheating",
	})
	require.NoError(t, err)

	assert.True(t, repair.HasActiveRepair)
	assert.Equal(t, "Dell (LAPTOP)", repair.Device)
	assert.Equal(t, "Overheating", repair.Issue)
	assert.Equal(t, domain.StatusReceived, repair.StatusStep)
	assert.Equal(t, domain.EstimatePending, repair.EstimatedDate)
	assert.Equal(t, time.Now().Format(domain.DateLayout), repair.ReceivedDate)
	assert.Regexp(t, regexp.MustCompile(fmt.Sprintf(`^TG-%d-\d{1,4}$`, time.Now().Year())), repair.TicketID)

	stored, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, *repair, stored.ActiveRepair)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventRepairRequested, published[0].Type)
	assert.Equal(t, repair.TicketID, published[0].TicketID)
}

func TestSubmitRequestOverwritesPriorActiveRepair(t *testing.T) {
	svc, repo, _ := newTestRepairService()
	ctx := context.Background()
	seedCustomer(t, repo, "asha@example.com")

	first, err := svc.SubmitRequest(ctx, "asha@example.com", ServiceRequestInput{
		DeviceType: "smartphone", Brand: "Apple", Issue: "Screen Broken",
	})
	require.NoError(t, err)

	second, err := svc.SubmitRequest(ctx, "asha@example.com", ServiceRequestInput{
		DeviceType: "laptop", Brand: "Dell", Issue: "Overheating",
	})
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, second.Device, stored.ActiveRepair.Device)
	assert.NotEqual(t, first.Device, stored.ActiveRepair.Device)
}

func TestSubmitRequestUnknownOwner(t *testing.T) {
	svc, _, _ := newTestRepairService()

	_, err := svc.SubmitRequest(context.Background(), "nobody@example.com", ServiceRequestInput{
		DeviceType: "laptop", Brand: "Dell", Issue: "Overheating",
	})
	assert.True(t, util.IsNotFound(err))
}

func TestProfile(t *testing.T) {
	svc, repo, _ := newTestRepairService()
	ctx := context.Background()
	seedCustomer(t, repo, "asha@example.com")

	user, steps, err := svc.Profile(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", user.Name)
	assert.Nil(t, steps)

	_, err = svc.SubmitRequest(ctx, "asha@example.com", ServiceRequestInput{
		DeviceType: "laptop", Brand: "Dell", Issue: "Overheating",
	})
	require.NoError(t, err)

	_, steps, err = svc.Profile(ctx, "asha@example.com")
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, domain.StepActive, steps[0].State)
	assert.Equal(t, domain.StepPending, steps[1].State)
}

func TestTrackTicket(t *testing.T) {
	svc, repo, _ := newTestRepairService()
	ctx := context.Background()
	seedCustomer(t, repo, "asha@example.com")

	repair, err := svc.SubmitRequest(ctx, "asha@example.com", ServiceRequestInput{
		DeviceType: "laptop", Brand: "Dell", Issue: "Overheating",
	})
	require.NoError(t, err)

	result, err := svc.TrackTicket(ctx, repair.TicketID)
	require.NoError(t, err)
	assert.Equal(t, repair.TicketID, result.Repair.TicketID)
	require.Len(t, result.Steps, 4)

	// input is trimmed and upper-cased before comparison
	result, err = svc.TrackTicket(ctx, "  "+repair.TicketID+" ")
	require.NoError(t, err)
	assert.Equal(t, repair.TicketID, result.Repair.TicketID)
}

func TestTrackTicketMissIsNotFoundNotFailure(t *testing.T) {
	svc, repo, _ := newTestRepairService()
	seedCustomer(t, repo, "asha@example.com")

	_, err := svc.TrackTicket(context.Background(), "TG-2024-9999")
	assert.True(t, util.IsNotFound(err))
}

func TestTrackTicketDuplicateIDFirstScanOrderWins(t *testing.T) {
	// Ticket IDs carry no uniqueness guarantee. The in-memory store scans in
	// key order, so the owner with the lexicographically smaller email wins;
	// the remote store promises no order at all.
	svc, repo, _ := newTestRepairService()
	ctx := context.Background()

	shared := domain.ActiveRepair{
		HasActiveRepair: true,
		TicketID:        "TG-2024-7777",
		Device:          "Dell (LAPTOP)",
		Issue:           "Overheating",
		ReceivedDate:    "2024-06-01",
		StatusStep:      domain.StatusReceived,
		EstimatedDate:   domain.EstimatePending,
	}

	seedCustomer(t, repo, "zed@example.com")
	seedCustomer(t, repo, "asha@example.com")
	require.NoError(t, repo.ReplaceActiveRepair(ctx, "zed@example.com", shared))
	altered := shared
	altered.Issue = "Keyboard Issue"
	require.NoError(t, repo.ReplaceActiveRepair(ctx, "asha@example.com", altered))

	result, err := svc.TrackTicket(ctx, "TG-2024-7777")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard Issue", result.Repair.Issue)
}

func TestTrackTicketEmptyInput(t *testing.T) {
	svc, _, _ := newTestRepairService()

	_, err := svc.TrackTicket(context.Background(), "   ")
	require.Error(t, err)
	assert.False(t, util.IsNotFound(err))
}

func TestSubmitBookingPublishesEvent(t *testing.T) {
	svc, _, dispatcher := newTestRepairService()

	svc.SubmitBooking(context.Background(), BookingInput{
		Name:   "Asha Rao",
		Phone:  "+91 98765 43210",
		Device: "laptop",
		Issue:  "Overheating",
	})

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventBookingRequested, published[0].Type)
	payload, ok := published[0].Payload.(events.BookingRequestedPayload)
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", payload.Name)
}
