package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatParticipants(t *testing.T) {
	student, tutor, outsider := uuid.New(), uuid.New(), uuid.New()
	chat := ChatModel{ChatStudentID: student, ChatTutorID: tutor}

	assert.True(t, chat.HasParticipant(student))
	assert.True(t, chat.HasParticipant(tutor))
	assert.False(t, chat.HasParticipant(outsider))

	assert.Equal(t, tutor, chat.Counterpart(student))
	assert.Equal(t, student, chat.Counterpart(tutor))
}

func TestSessionOfferRoundTrip(t *testing.T) {
	msg := ChatMessageModel{}

	offer, err := msg.Offer()
	require.NoError(t, err)
	assert.Nil(t, offer, "pesan biasa tanpa penawaran harus nil")

	subjectID := uuid.New()
	start := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	in := SessionOffer{
		SubjectID:    subjectID,
		Description:  "Persiapan ujian aljabar",
		StartTime:    start,
		EndTime:      start.Add(90 * time.Minute),
		Duration:     90,
		PricePerHour: 28,
		TotalPrice:   42,
		Status:       OfferStatusProposed,
	}
	require.NoError(t, msg.SetOffer(&in))

	out, err := msg.Offer()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, subjectID, out.SubjectID)
	assert.Equal(t, OfferStatusProposed, out.Status)
	assert.Equal(t, 90, out.Duration)
	assert.Equal(t, float64(42), out.TotalPrice)
	assert.Nil(t, out.SessionID, "session belum dibuat sebelum accept")
}
