package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// StatusStep encodes ticket progress as an integer 1-4. The ordering is
// strict, but the data layer permits writing any value in range; only the
// admin UI limits choices to forward steps.
type StatusStep int

const (
	StatusReceived  StatusStep = 1
	StatusDiagnosed StatusStep = 2
	StatusRepairing StatusStep = 3
	StatusReady     StatusStep = 4
)

// EstimatePending is the estimate text for a freshly submitted request.
const EstimatePending = "Pending Diagnosis"

// EstimateReady is the sentinel written when a ticket reaches StatusReady. It
// overwrites whatever free-text estimate existed.
const EstimateReady = "Ready for Pickup"

// Valid reports whether s is within the ordered range.
func (s StatusStep) Valid() bool {
	return s >= StatusReceived && s <= StatusReady
}

// Label returns the display name for the step.
func (s StatusStep) Label() string {
	switch s {
	case StatusReceived:
		return "Received"
	case StatusDiagnosed:
		return "Diagnosed"
	case StatusRepairing:
		return "Repairing"
	case StatusReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// StepState is the derived display state of one progress step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepPending   StepState = "pending"
)

// StateAt derives the display state of step index i (1..4) for current status
// s: completed if i < s, active if i == s, otherwise pending.
func (s StatusStep) StateAt(i StatusStep) StepState {
	switch {
	case i < s:
		return StepCompleted
	case i == s:
		return StepActive
	default:
		return StepPending
	}
}

// ProgressStep pairs a step with its derived state for display.
type ProgressStep struct {
	Step  StatusStep `json:"step"`
	Label string     `json:"label"`
	State StepState  `json:"state"`
}

// ProgressSteps derives the full four-step tracker for the current status.
func (s StatusStep) ProgressSteps() []ProgressStep {
	steps := make([]ProgressStep, 0, 4)
	for i := StatusReceived; i <= StatusReady; i++ {
		steps = append(steps, ProgressStep{Step: i, Label: i.Label(), State: s.StateAt(i)})
	}
	return steps
}

// NewTicketID synthesizes a ticket identifier of the form
// TG-<year>-<random 0..9999>. Uniqueness is not guaranteed: there is no
// collision check against existing tickets, and scan-based lookup under
// duplicate IDs returns whichever record the scan reaches first.
func NewTicketID(now time.Time) string {
	return fmt.Sprintf("TG-%d-%d", now.Year(), rand.IntN(10000))
}

// NormalizeStep coerces a loosely typed status value into a StatusStep.
// Legacy records stored the step as a string or float; everything is brought
// to one integer type at the repository boundary so status values are never
// compared across mixed representations.
func NormalizeStep(v any) StatusStep {
	switch t := v.(type) {
	case StatusStep:
		return t
	case int:
		return StatusStep(t)
	case int32:
		return StatusStep(t)
	case int64:
		return StatusStep(t)
	case float64:
		return StatusStep(int(t))
	case string:
		var n int
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return StatusStep(n)
		}
	}
	return 0
}
