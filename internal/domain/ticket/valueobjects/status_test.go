package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to TicketStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusFinished, true},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusPending, true},
		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusFinished, true},
		{StatusFinished, StatusPending, false},
		{StatusFinished, StatusInProgress, false},
		{StatusFinished, StatusFinished, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewTicketStatus(t *testing.T) {
	s, err := NewTicketStatus("in_progress")
	assert.NoError(t, err)
	assert.True(t, s.IsInProgress())

	_, err = NewTicketStatus("closed")
	assert.Error(t, err)
}
