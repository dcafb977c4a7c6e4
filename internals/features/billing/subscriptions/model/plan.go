// file: internals/features/billing/subscriptions/model/plan.go
package model

import (
	"os"
	"strconv"
	"strings"
)

// Tier subscription student.
const (
	TierFlexible = "FLEXIBLE"
	TierRegular  = "REGULAR"
	TierLongTerm = "LONG_TERM"
)

// Plan: konfigurasi harga per tier. FLEXIBLE tanpa komitmen &
// tanpa charge di muka (billing per sesi); tier komitmen bayar
// pricePerHour*minimumHours di depan.
type Plan struct {
	Tier             string  `json:"tier"`
	PricePerHour     float64 `json:"price_per_hour"`
	CommitmentMonths int     `json:"commitment_months"`
	MinimumHours     int     `json:"minimum_hours"`
}

// Fallback hardcoded kalau config source tidak tersedia.
var defaultPlans = map[string]Plan{
	TierFlexible: {Tier: TierFlexible, PricePerHour: 30, CommitmentMonths: 0, MinimumHours: 0},
	TierRegular:  {Tier: TierRegular, PricePerHour: 28, CommitmentMonths: 3, MinimumHours: 12},
	TierLongTerm: {Tier: TierLongTerm, PricePerHour: 25, CommitmentMonths: 6, MinimumHours: 24},
}

// PlanFor resolve plan dari tier; harga bisa override via env
// (PLAN_FLEXIBLE_RATE dsb). Tier tak dikenal → FLEXIBLE.
func PlanFor(tier string) Plan {
	t := strings.ToUpper(strings.TrimSpace(tier))
	plan, ok := defaultPlans[t]
	if !ok {
		plan = defaultPlans[TierFlexible]
	}
	if v := os.Getenv("PLAN_" + plan.Tier + "_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			plan.PricePerHour = rate
		}
	}
	return plan
}

// IsValidTier cek tier dikenal.
func IsValidTier(tier string) bool {
	_, ok := defaultPlans[strings.ToUpper(strings.TrimSpace(tier))]
	return ok
}

// UpfrontCharge: nominal charge di muka untuk tier komitmen (0 untuk FLEXIBLE).
func (p Plan) UpfrontCharge() float64 {
	return p.PricePerHour * float64(p.MinimumHours)
}

// HasUpfrontCharge true untuk REGULAR/LONG_TERM.
func (p Plan) HasUpfrontCharge() bool {
	return p.MinimumHours > 0
}

// SessionRate mengembalikan tarif per jam sesi untuk plan student;
// plan kosong (belum subscribe) dihargai FLEXIBLE.
func SessionRate(currentPlan *string) float64 {
	if currentPlan == nil || strings.TrimSpace(*currentPlan) == "" {
		return PlanFor(TierFlexible).PricePerHour
	}
	return PlanFor(*currentPlan).PricePerHour
}
