package domain

// DateLayout is the format used for received and history dates written by
// this service. Reads tolerate older locale-formatted dates (see the admin
// worklist comparator).
const DateLayout = "2006-01-02"

// UserRecord is the aggregate persisted per customer, keyed by email. Email is
// a case-sensitive identifier and doubles as the foreign key for ticket
// ownership. The record carries at most one active repair plus an append-only
// repair history.
type UserRecord struct {
	Name         string         `bson:"name" json:"name"`
	Email        string         `bson:"email" json:"email"`
	PasswordHash string         `bson:"password" json:"-"`
	MemberSince  string         `bson:"memberSince" json:"memberSince"`
	ActiveRepair ActiveRepair   `bson:"activeRepair" json:"activeRepair"`
	History      []HistoryEntry `bson:"history" json:"history"`
}

// ActiveRepair is the at-most-one open ticket attached to a user record.
// Invariant: HasActiveRepair true implies TicketID, Device, Issue and a valid
// StatusStep are all present.
type ActiveRepair struct {
	HasActiveRepair bool       `bson:"hasActiveRepair" json:"hasActiveRepair"`
	TicketID        string     `bson:"ticketId,omitempty" json:"ticketId,omitempty"`
	Device          string     `bson:"device,omitempty" json:"device,omitempty"`
	Issue           string     `bson:"issue,omitempty" json:"issue,omitempty"`
	ReceivedDate    string     `bson:"receivedDate,omitempty" json:"receivedDate,omitempty"`
	StatusStep      StatusStep `bson:"statusStep,omitempty" json:"statusStep,omitempty"`
	EstimatedDate   string     `bson:"estimatedDate,omitempty" json:"estimatedDate,omitempty"`
}

// HistoryEntry is immutable once appended.
type HistoryEntry struct {
	ID     string `bson:"id" json:"id"`
	Date   string `bson:"date" json:"date"`
	Device string `bson:"device" json:"device"`
	Issue  string `bson:"issue" json:"issue"`
	Status string `bson:"status" json:"status"`
	Cost   string `bson:"cost" json:"cost"`
}

// Validate checks the active-repair invariant.
func (r ActiveRepair) Validate() bool {
	if !r.HasActiveRepair {
		return true
	}
	return r.TicketID != "" && r.Device != "" && r.Issue != "" && r.StatusStep.Valid()
}
