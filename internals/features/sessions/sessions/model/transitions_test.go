package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"scheduled → starting_soon", SessionStatusScheduled, SessionStatusStartingSoon, true},
		{"scheduled → in_progress (sweep telat)", SessionStatusScheduled, SessionStatusInProgress, true},
		{"scheduled → cancelled", SessionStatusScheduled, SessionStatusCancelled, true},
		{"scheduled → reschedule_requested", SessionStatusScheduled, SessionStatusRescheduleRequested, true},
		{"scheduled → expired tidak boleh", SessionStatusScheduled, SessionStatusExpired, false},

		{"starting_soon → in_progress", SessionStatusStartingSoon, SessionStatusInProgress, true},
		{"starting_soon → cancelled", SessionStatusStartingSoon, SessionStatusCancelled, true},
		{"starting_soon → scheduled tidak boleh mundur", SessionStatusStartingSoon, SessionStatusScheduled, false},

		{"in_progress → completed", SessionStatusInProgress, SessionStatusCompleted, true},
		{"in_progress → expired", SessionStatusInProgress, SessionStatusExpired, true},
		{"in_progress → cancelled tidak boleh", SessionStatusInProgress, SessionStatusCancelled, false},
		{"in_progress → reschedule tidak boleh", SessionStatusInProgress, SessionStatusRescheduleRequested, false},

		{"reschedule_requested → scheduled (approve/reject)", SessionStatusRescheduleRequested, SessionStatusScheduled, true},
		{"reschedule_requested → cancelled", SessionStatusRescheduleRequested, SessionStatusCancelled, true},

		{"completed terminal", SessionStatusCompleted, SessionStatusExpired, false},
		{"cancelled terminal", SessionStatusCancelled, SessionStatusScheduled, false},
		{"expired terminal", SessionStatusExpired, SessionStatusCompleted, false},
		{"no_show terminal", SessionStatusNoShow, SessionStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatusesHaveNoExit(t *testing.T) {
	terminals := []string{
		SessionStatusCompleted,
		SessionStatusCancelled,
		SessionStatusNoShow,
		SessionStatusExpired,
	}
	all := []string{
		SessionStatusScheduled, SessionStatusStartingSoon, SessionStatusInProgress,
		SessionStatusAwaitingResponse, SessionStatusRescheduleRequested,
		SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow, SessionStatusExpired,
	}
	for _, from := range terminals {
		assert.True(t, IsTerminalSessionStatus(from))
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s → %s harus ditolak", from, to)
		}
	}
}
