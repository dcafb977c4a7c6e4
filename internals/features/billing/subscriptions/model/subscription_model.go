// file: internals/features/billing/subscriptions/model/subscription_model.go
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status lifecycle subscription.
const (
	SubscriptionStatusPending   = "pending" // menunggu konfirmasi pembayaran
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

type StudentSubscriptionModel struct {
	/* ============ PK & FK ============ */
	SubscriptionID        uuid.UUID `gorm:"column:subscription_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subscription_id"`
	SubscriptionStudentID uuid.UUID `gorm:"column:subscription_student_id;type:uuid;not null;index" json:"subscription_student_id"`

	/* ============ Tier & harga (snapshot saat subscribe) ============ */
	SubscriptionTier             string  `gorm:"column:subscription_tier;type:varchar(20);not null" json:"subscription_tier"`
	SubscriptionPricePerHour     float64 `gorm:"column:subscription_price_per_hour;not null" json:"subscription_price_per_hour"`
	SubscriptionCommitmentMonths int     `gorm:"column:subscription_commitment_months;not null;default:0" json:"subscription_commitment_months"`
	SubscriptionMinimumHours     int     `gorm:"column:subscription_minimum_hours;not null;default:0" json:"subscription_minimum_hours"`

	/* ============ Periode ============ */
	SubscriptionStartDate *time.Time `gorm:"column:subscription_start_date;type:timestamptz" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `gorm:"column:subscription_end_date;type:timestamptz" json:"subscription_end_date,omitempty"`

	/* ============ State ============ */
	SubscriptionStatus          string  `gorm:"column:subscription_status;type:varchar(20);not null;default:'pending';index" json:"subscription_status"`
	SubscriptionTotalHoursTaken float64 `gorm:"column:subscription_total_hours_taken;not null;default:0" json:"subscription_total_hours_taken"`

	/* ============ Payment (midtrans) ============ */
	SubscriptionOrderID            string  `gorm:"column:subscription_order_id;type:varchar(100);not null;uniqueIndex" json:"subscription_order_id"`
	SubscriptionPaymentToken       *string `gorm:"column:subscription_payment_token;type:text" json:"subscription_payment_token,omitempty"`
	SubscriptionPaymentMethodToken *string `gorm:"column:subscription_payment_method_token;type:text" json:"-"`

	SubscriptionCancelledAt *time.Time `gorm:"column:subscription_cancelled_at;type:timestamptz" json:"subscription_cancelled_at,omitempty"`

	/* ============ Audit ============ */
	SubscriptionCreatedAt time.Time      `gorm:"column:subscription_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"subscription_created_at"`
	SubscriptionUpdatedAt time.Time      `gorm:"column:subscription_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"subscription_updated_at"`
	SubscriptionDeletedAt gorm.DeletedAt `gorm:"column:subscription_deleted_at;index" json:"subscription_deleted_at,omitempty"`
}

func (StudentSubscriptionModel) TableName() string { return "student_subscriptions" }

// HoursRemaining untuk tier komitmen; 0 untuk FLEXIBLE.
func (m *StudentSubscriptionModel) HoursRemaining() float64 {
	if m.SubscriptionMinimumHours <= 0 {
		return 0
	}
	remaining := float64(m.SubscriptionMinimumHours) - m.SubscriptionTotalHoursTaken
	return math.Max(remaining, 0)
}

// PeriodFor menghitung start/end dari commitment months terhadap "now".
// FLEXIBLE (0 bulan): tanpa end date.
func PeriodFor(plan Plan, now time.Time) (start time.Time, end *time.Time) {
	start = now
	if plan.CommitmentMonths > 0 {
		e := now.AddDate(0, plan.CommitmentMonths, 0)
		end = &e
	}
	return start, end
}
