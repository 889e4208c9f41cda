package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateAtTruthTable(t *testing.T) {
	for s := StatusReceived; s <= StatusReady; s++ {
		for i := StatusReceived; i <= StatusReady; i++ {
			got := s.StateAt(i)
			switch {
			case i < s:
				assert.Equal(t, StepCompleted, got, "status %d step %d", s, i)
			case i == s:
				assert.Equal(t, StepActive, got, "status %d step %d", s, i)
			default:
				assert.Equal(t, StepPending, got, "status %d step %d", s, i)
			}
		}
	}
}

func TestProgressSteps(t *testing.T) {
	steps := StatusRepairing.ProgressSteps()
	require.Len(t, steps, 4)

	assert.Equal(t, StepCompleted, steps[0].State)
	assert.Equal(t, StepCompleted, steps[1].State)
	assert.Equal(t, StepActive, steps[2].State)
	assert.Equal(t, StepPending, steps[3].State)
	assert.Equal(t, "Repairing", steps[2].Label)
}

func TestStatusStepValid(t *testing.T) {
	tests := []struct {
		step StatusStep
		want bool
	}{
		{0, false},
		{StatusReceived, true},
		{StatusDiagnosed, true},
		{StatusRepairing, true},
		{StatusReady, true},
		{5, false},
		{-1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.step.Valid(), "step %d", tt.step)
	}
}

func TestStatusStepLabel(t *testing.T) {
	assert.Equal(t, "Received", StatusReceived.Label())
	assert.Equal(t, "Diagnosed", StatusDiagnosed.Label())
	assert.Equal(t, "Repairing", StatusRepairing.Label())
	assert.Equal(t, "Ready", StatusReady.Label())
	assert.Equal(t, "Unknown", StatusStep(9).Label())
}

func TestNewTicketID(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^TG-2024-(\d{1,4})$`)

	for range 50 {
		id := NewTicketID(now)
		match := pattern.FindStringSubmatch(id)
		require.NotNil(t, match, "unexpected ticket id %q", id)

		n, err := strconv.Atoi(match[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 10000)
	}
}

func TestNewTicketIDUsesCurrentYear(t *testing.T) {
	id := NewTicketID(time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(id, "TG-2031-"), "got %q", id)
}

func TestNormalizeStep(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  StatusStep
	}{
		{"int", 3, StatusRepairing},
		{"int32", int32(2), StatusDiagnosed},
		{"int64", int64(4), StatusReady},
		{"float64", float64(1), StatusReceived},
		{"string", "3", StatusRepairing},
		{"garbage string", "ready", 0},
		{"nil", nil, 0},
		{"already typed", StatusReady, StatusReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStep(tt.input))
		})
	}
}

func TestActiveRepairValidate(t *testing.T) {
	assert.True(t, ActiveRepair{HasActiveRepair: false}.Validate())

	complete := ActiveRepair{
		HasActiveRepair: true,
		TicketID:        fmt.Sprintf("TG-%d-1", time.Now().Year()),
		Device:          "Dell (LAPTOP)",
		Issue:           "Overheating",
		StatusStep:      StatusReceived,
	}
	assert.True(t, complete.Validate())

	missingDevice := complete
	missingDevice.Device = ""
	assert.False(t, missingDevice.Validate())

	badStep := complete
	badStep.StatusStep = 7
	assert.False(t, badStep.Validate())
}
