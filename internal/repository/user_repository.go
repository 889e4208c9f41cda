package repository

import (
	"context"

	"github.com/technoghar/repair-service/internal/domain"
	"github.com/technoghar/repair-service/internal/store"
	"github.com/technoghar/repair-service/pkg/util"
)

// Dotted-path targets used for partial updates.
const (
	PathActiveRepair  = "activeRepair"
	PathStatusStep    = "activeRepair.statusStep"
	PathEstimatedDate = "activeRepair.estimatedDate"
)

// UserRepository owns the user-record schema and exposes typed access over the
// record store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	Create(ctx context.Context, record *domain.UserRecord) error
	UpdateFields(ctx context.Context, email string, fields map[string]any) error
	ReplaceActiveRepair(ctx context.Context, email string, repair domain.ActiveRepair) error
	ListAll(ctx context.Context) ([]domain.UserRecord, error)
}

type userRepository struct {
	store store.Store
}

// NewUserRepository returns a record-store backed implementation.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	doc, err := r.store.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return decodeRecord(email, doc), nil
}

// Create writes a new record after checking the key is free. The store offers
// no atomic create-if-absent, so a second writer landing between the check and
// the set silently overwrites; an accepted limitation at this scale.
func (r *userRepository) Create(ctx context.Context, record *domain.UserRecord) error {
	_, err := r.store.Get(ctx, record.Email)
	if err == nil {
		return util.NewAlreadyExists("user", map[string]any{"email": record.Email})
	}
	if !util.IsNotFound(err) {
		return err
	}
	return r.store.Set(ctx, record.Email, encodeRecord(record))
}

func (r *userRepository) UpdateFields(ctx context.Context, email string, fields map[string]any) error {
	return r.store.UpdatePaths(ctx, email, fields)
}

func (r *userRepository) ReplaceActiveRepair(ctx context.Context, email string, repair domain.ActiveRepair) error {
	return r.store.UpdatePaths(ctx, email, map[string]any{
		PathActiveRepair: encodeActiveRepair(repair),
	})
}

// ListAll materializes the full collection. O(total users); the only bulk-read
// primitive the store offers.
func (r *userRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	docs, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]domain.UserRecord, 0, len(docs))
	for _, kd := range docs {
		records = append(records, *decodeRecord(kd.Key, kd.Doc))
	}
	return records, nil
}

func encodeRecord(record *domain.UserRecord) store.Document {
	history := make([]any, 0, len(record.History))
	for _, entry := range record.History {
		history = append(history, map[string]any{
			"id":     entry.ID,
			"date":   entry.Date,
			"device": entry.Device,
			"issue":  entry.Issue,
			"status": entry.Status,
			"cost":   entry.Cost,
		})
	}
	return store.Document{
		"name":         record.Name,
		"email":        record.Email,
		"password":     record.PasswordHash,
		"memberSince":  record.MemberSince,
		"activeRepair": encodeActiveRepair(record.ActiveRepair),
		"history":      history,
	}
}

func encodeActiveRepair(repair domain.ActiveRepair) map[string]any {
	return map[string]any{
		"hasActiveRepair": repair.HasActiveRepair,
		"ticketId":        repair.TicketID,
		"device":          repair.Device,
		"issue":           repair.Issue,
		"receivedDate":    repair.ReceivedDate,
		"statusStep":      int(repair.StatusStep),
		"estimatedDate":   repair.EstimatedDate,
	}
}

func decodeRecord(key string, doc store.Document) *domain.UserRecord {
	record := &domain.UserRecord{
		Name:         getString(doc, "name"),
		Email:        getString(doc, "email"),
		PasswordHash: getString(doc, "password"),
		MemberSince:  getString(doc, "memberSince"),
	}
	if record.Email == "" {
		record.Email = key
	}
	if sub, ok := doc["activeRepair"].(map[string]any); ok {
		record.ActiveRepair = decodeActiveRepair(sub)
	}
	if items, ok := doc["history"].([]any); ok {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			record.History = append(record.History, domain.HistoryEntry{
				ID:     getString(entry, "id"),
				Date:   getString(entry, "date"),
				Device: getString(entry, "device"),
				Issue:  getString(entry, "issue"),
				Status: getString(entry, "status"),
				Cost:   getString(entry, "cost"),
			})
		}
	}
	return record
}

func decodeActiveRepair(sub map[string]any) domain.ActiveRepair {
	hasActive, _ := sub["hasActiveRepair"].(bool)
	return domain.ActiveRepair{
		HasActiveRepair: hasActive,
		TicketID:        getString(sub, "ticketId"),
		Device:          getString(sub, "device"),
		Issue:           getString(sub, "issue"),
		ReceivedDate:    getString(sub, "receivedDate"),
		StatusStep:      domain.NormalizeStep(sub["statusStep"]),
		EstimatedDate:   getString(sub, "estimatedDate"),
	}
}

func getString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
