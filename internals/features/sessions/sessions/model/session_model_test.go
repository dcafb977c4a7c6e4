package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIsOver(t *testing.T) {
	end := time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)
	s := SessionModel{SessionEndTime: end}

	assert.False(t, s.IsOver(end.Add(-time.Minute)))
	assert.True(t, s.IsOver(end)) // tepat di end sudah dihitung lewat
	assert.True(t, s.IsOver(end.Add(time.Minute)))
}

func TestSessionRescheduleRoundTrip(t *testing.T) {
	s := SessionModel{}

	got, err := s.Reschedule()
	require.NoError(t, err)
	assert.Nil(t, got, "tanpa pengajuan harus nil")

	requester := uuid.New()
	in := RescheduleRequest{
		RequestedBy:  requester,
		RequestedAt:  time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		NewStartTime: time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC),
		NewEndTime:   time.Date(2026, 8, 12, 11, 0, 0, 0, time.UTC),
		Reason:       "bentrok jadwal sekolah",
		Status:       RescheduleStatusPending,
	}
	require.NoError(t, s.SetReschedule(&in))

	out, err := s.Reschedule()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, requester, out.RequestedBy)
	assert.Equal(t, RescheduleStatusPending, out.Status)
	assert.True(t, in.NewStartTime.Equal(out.NewStartTime))
	assert.True(t, in.NewEndTime.Equal(out.NewEndTime))
}

func TestSessionHasParticipant(t *testing.T) {
	student, tutor, outsider := uuid.New(), uuid.New(), uuid.New()
	s := SessionModel{SessionStudentID: student, SessionTutorID: tutor}

	assert.True(t, s.HasParticipant(student))
	assert.True(t, s.HasParticipant(tutor))
	assert.False(t, s.HasParticipant(outsider))
}
