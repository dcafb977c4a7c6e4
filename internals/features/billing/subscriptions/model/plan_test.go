package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFor(t *testing.T) {
	tests := []struct {
		name       string
		tier       string
		wantTier   string
		wantRate   float64
		wantMonths int
		wantHours  int
	}{
		{"flexible", "FLEXIBLE", TierFlexible, 30, 0, 0},
		{"regular", "REGULAR", TierRegular, 28, 3, 12},
		{"long term", "LONG_TERM", TierLongTerm, 25, 6, 24},
		{"case-insensitive", "regular", TierRegular, 28, 3, 12},
		{"tier tak dikenal jatuh ke flexible", "PLATINUM", TierFlexible, 30, 0, 0},
		{"kosong jatuh ke flexible", "", TierFlexible, 30, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanFor(tt.tier)
			assert.Equal(t, tt.wantTier, plan.Tier)
			assert.Equal(t, tt.wantRate, plan.PricePerHour)
			assert.Equal(t, tt.wantMonths, plan.CommitmentMonths)
			assert.Equal(t, tt.wantHours, plan.MinimumHours)
		})
	}
}

func TestPlanForEnvOverride(t *testing.T) {
	t.Setenv("PLAN_REGULAR_RATE", "35")
	assert.Equal(t, float64(35), PlanFor(TierRegular).PricePerHour)
	// Tier lain tidak ikut berubah
	assert.Equal(t, float64(30), PlanFor(TierFlexible).PricePerHour)
}

func TestUpfrontCharge(t *testing.T) {
	assert.Equal(t, float64(0), PlanFor(TierFlexible).UpfrontCharge())
	assert.False(t, PlanFor(TierFlexible).HasUpfrontCharge())

	assert.Equal(t, float64(28*12), PlanFor(TierRegular).UpfrontCharge())
	assert.True(t, PlanFor(TierRegular).HasUpfrontCharge())

	assert.Equal(t, float64(25*24), PlanFor(TierLongTerm).UpfrontCharge())
}

func TestSessionRate(t *testing.T) {
	regular := TierRegular
	longTerm := TierLongTerm
	empty := ""

	assert.Equal(t, float64(30), SessionRate(nil), "tanpa plan pakai tarif FLEXIBLE")
	assert.Equal(t, float64(30), SessionRate(&empty))
	assert.Equal(t, float64(28), SessionRate(&regular))
	assert.Equal(t, float64(25), SessionRate(&longTerm))
}

func TestPeriodFor(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	start, end := PeriodFor(PlanFor(TierFlexible), now)
	assert.True(t, start.Equal(now))
	assert.Nil(t, end, "FLEXIBLE tanpa end date")

	start, end = PeriodFor(PlanFor(TierRegular), now)
	require.NotNil(t, end)
	assert.True(t, start.Equal(now))
	assert.True(t, end.Equal(now.AddDate(0, 3, 0)))

	_, end = PeriodFor(PlanFor(TierLongTerm), now)
	require.NotNil(t, end)
	assert.True(t, end.Equal(now.AddDate(0, 6, 0)))
}

func TestHoursRemaining(t *testing.T) {
	sub := StudentSubscriptionModel{
		SubscriptionMinimumHours:    12,
		SubscriptionTotalHoursTaken: 4.5,
	}
	assert.Equal(t, 7.5, sub.HoursRemaining())

	sub.SubscriptionTotalHoursTaken = 15
	assert.Equal(t, float64(0), sub.HoursRemaining(), "tidak pernah negatif")

	flexible := StudentSubscriptionModel{SubscriptionMinimumHours: 0, SubscriptionTotalHoursTaken: 9}
	assert.Equal(t, float64(0), flexible.HoursRemaining())
}
