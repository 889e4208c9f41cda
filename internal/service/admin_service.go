package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/events"
	"github.com/technoghar/repair-service/internal/repository"
	"github.com/technoghar/repair-service/pkg/util"
)

// AdminService aggregates user records into the repair worklist and applies
// status-advancing writes.
type AdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// AdminDependencies bundles requirements for the admin service.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// RepairView projects an active repair alongside its owner for the worklist.
type RepairView struct {
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	TicketID      string            `json:"ticketId"`
	Device        string            `json:"device"`
	Issue         string            `json:"issue"`
	ReceivedDate  string            `json:"receivedDate"`
	StatusStep    domain.StatusStep `json:"statusStep"`
	EstimatedDate string            `json:"estimatedDate"`
}

// UserSummary projects a user row for the admin users table.
type UserSummary struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	MemberSince string `json:"memberSince"`
	Orders      int    `json:"orders"`
}

// Stats holds the dashboard KPI counters.
type Stats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveRepairs int `json:"activeRepairs"`
	Revenue       int `json:"revenue"`
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{users: deps.UserRepo, dispatcher: deps.Dispatcher}
}

// ListRepairs scans all users, keeps those with an active repair and sorts by
// received date, newest first. Dates that fail to parse sort after every
// parseable date; their relative order follows scan order.
func (s *AdminService) ListRepairs(ctx context.Context) ([]RepairView, error) {
	records, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	repairs := make([]RepairView, 0)
	for _, record := range records {
		if !record.ActiveRepair.HasActiveRepair {
			continue
		}
		repairs = append(repairs, RepairView{
			CustomerName:  record.Name,
			CustomerEmail: record.Email,
			TicketID:      record.ActiveRepair.TicketID,
			Device:        record.ActiveRepair.Device,
			Issue:         record.ActiveRepair.Issue,
			ReceivedDate:  record.ActiveRepair.ReceivedDate,
			StatusStep:    record.ActiveRepair.StatusStep,
			EstimatedDate: record.ActiveRepair.EstimatedDate,
		})
	}

	sort.SliceStable(repairs, func(i, j int) bool {
		return parseReceivedDate(repairs[i].ReceivedDate).After(parseReceivedDate(repairs[j].ReceivedDate))
	})
	return repairs, nil
}

// AdvanceStatus writes a new status for the owner's active repair. Reaching
// Ready also overwrites the estimate with the pickup sentinel. Any value 1-4
// is accepted; the data layer does not enforce forward-only movement. A store
// failure surfaces the adapter's error so the caller can roll its view back.
func (s *AdminService) AdvanceStatus(ctx context.Context, ownerEmail string, newStatus domain.StatusStep) error {
	if !newStatus.Valid() {
		return util.NewValidationError("status step must be between 1 and 4", map[string]any{"statusStep": int(newStatus)})
	}

	fields := map[string]any{
		repository.PathStatusStep: int(newStatus),
	}
	if newStatus == domain.StatusReady {
		fields[repository.PathEstimatedDate] = domain.EstimateReady
	}
	if err := s.users.UpdateFields(ctx, ownerEmail, fields); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventRepairStatusChanged,
		Actor: events.Actor{Type: domain.SubjectTypeAdmin},
		Payload: events.RepairStatusChangedPayload{
			OwnerEmail: ownerEmail,
			NewStep:    newStatus,
		},
	})
	return nil
}

// ListUsers projects all users for the admin table.
func (s *AdminService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	records, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]UserSummary, 0, len(records))
	for _, record := range records {
		users = append(users, UserSummary{
			Name:        record.Name,
			Email:       record.Email,
			MemberSince: record.MemberSince,
			Orders:      len(record.History),
		})
	}
	return users, nil
}

// GetStats computes the dashboard KPI counters. Revenue is a flat per-repair
// placeholder, matching the storefront demo.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	records, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, record := range records {
		if record.ActiveRepair.HasActiveRepair {
			active++
		}
	}
	return &Stats{
		TotalUsers:    len(records),
		ActiveRepairs: active,
		Revenue:       active * 50,
	}, nil
}

// receivedDateLayouts lists accepted formats, newest first. The service
// writes DateLayout; older records carry locale-formatted strings.
var receivedDateLayouts = []string{
	domain.DateLayout,
	"1/2/2006",
	"2/1/2006",
	"Jan 2, 2006",
}

// parseReceivedDate returns the zero time for unparseable input so those
// entries sort last in the descending worklist.
func parseReceivedDate(value string) time.Time {
	for _, layout := range receivedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *AdminService) publishEvent(ctx context.Context, event events.Event) {
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
