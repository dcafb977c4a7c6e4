package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveRequestStatus(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    string
		expiresAt time.Time
		want      string
	}{
		{"pending sebelum window habis", RequestStatusPending, now.Add(time.Hour), RequestStatusPending},
		{"pending tepat di batas window", RequestStatusPending, now, RequestStatusPending},
		{"pending lewat window", RequestStatusPending, now.Add(-time.Second), RequestStatusExpired},
		{"accepted tidak pernah expired", RequestStatusAccepted, now.Add(-24 * time.Hour), RequestStatusAccepted},
		{"cancelled tidak pernah expired", RequestStatusCancelled, now.Add(-24 * time.Hour), RequestStatusCancelled},
		{"expired tetap expired", RequestStatusExpired, now.Add(time.Hour), RequestStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRequestStatus(tt.status, tt.expiresAt, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestExtendable(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	graceEnd := now.Add(2 * 24 * time.Hour)
	gracePassed := now.Add(-time.Hour)

	tests := []struct {
		name       string
		status     string
		expiresAt  time.Time
		finalAt    *time.Time
		extensions int
		want       bool
	}{
		{"window masih jalan", RequestStatusPending, now.Add(time.Hour), nil, 0, true},
		{"lewat window, belum diingatkan", RequestStatusPending, now.Add(-time.Hour), nil, 0, false},
		{"masa tenggang setelah reminder", RequestStatusPending, now.Add(-25 * time.Hour), &graceEnd, 0, true},
		{"masa tenggang sudah lewat", RequestStatusPending, now.Add(-5 * 24 * time.Hour), &gracePassed, 0, false},
		{"jatah perpanjangan habis di masa tenggang", RequestStatusPending, now.Add(-25 * time.Hour), &graceEnd, MaxExtensions, false},
		{"sudah dipersist expired", RequestStatusExpired, now.Add(-25 * time.Hour), &graceEnd, 0, false},
		{"accepted tidak bisa diperpanjang", RequestStatusAccepted, now.Add(time.Hour), nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequestExtendable(tt.status, tt.expiresAt, tt.finalAt, tt.extensions, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTerminalRequestStatus(t *testing.T) {
	assert.False(t, IsTerminalRequestStatus(RequestStatusPending))
	assert.True(t, IsTerminalRequestStatus(RequestStatusAccepted))
	assert.True(t, IsTerminalRequestStatus(RequestStatusCancelled))
	assert.True(t, IsTerminalRequestStatus(RequestStatusExpired))
}

func TestTrialRequestEffectiveStatusAndExtension(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	trial := TrialRequestModel{
		TrialRequestStatus:    RequestStatusPending,
		TrialRequestExpiresAt: now.Add(TrialRequestTTL),
	}
	assert.Equal(t, RequestStatusPending, trial.EffectiveStatus(now))
	assert.Equal(t, RequestStatusExpired, trial.EffectiveStatus(now.Add(TrialRequestTTL+time.Minute)))

	// Perpanjangan hanya sekali
	assert.True(t, trial.CanExtend())
	trial.TrialRequestExtensionsCount = MaxExtensions
	assert.False(t, trial.CanExtend())
}

// Request yang lapsed tetap tersimpan PENDING: pembaca melihatnya expired
// (lazy), tapi pemilik yang sudah menerima reminder masih bisa memperpanjang
// sampai final deadline lewat.
func TestTrialRequestExtendableDuringGrace(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	final := now.Add(FinalGracePeriod)

	trial := TrialRequestModel{
		TrialRequestStatus:         RequestStatusPending,
		TrialRequestExpiresAt:      now.Add(-time.Hour),
		TrialRequestFinalExpiresAt: &final,
	}
	assert.Equal(t, RequestStatusExpired, trial.EffectiveStatus(now))
	assert.True(t, trial.Extendable(now))

	// Belum diingatkan = belum ada masa tenggang.
	trial.TrialRequestFinalExpiresAt = nil
	assert.False(t, trial.Extendable(now))
}

func TestSessionRequestEffectiveStatusAndExtension(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	sr := SessionRequestModel{
		SessionRequestStatus:    RequestStatusPending,
		SessionRequestExpiresAt: now.Add(SessionRequestTTL),
	}
	assert.Equal(t, RequestStatusPending, sr.EffectiveStatus(now))
	assert.Equal(t, RequestStatusPending, sr.EffectiveStatus(now.Add(SessionRequestTTL-time.Minute)))
	assert.Equal(t, RequestStatusExpired, sr.EffectiveStatus(now.Add(SessionRequestTTL+time.Minute)))

	assert.True(t, sr.CanExtend())
	sr.SessionRequestExtensionsCount = 1
	assert.False(t, sr.CanExtend())
}
