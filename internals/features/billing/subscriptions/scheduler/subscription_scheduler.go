// file: internals/features/billing/subscriptions/scheduler/subscription_scheduler.go
package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	subscriptionModel "tutorin_backend/internals/features/billing/subscriptions/model"
	userModel "tutorin_backend/internals/features/users/user/model"
)

// StartSubscriptionExpiryScheduler: ACTIVE yang lewat end date → EXPIRED,
// dan tier di users.current_plan ikut dibersihkan.
func StartSubscriptionExpiryScheduler(db *gorm.DB) {
	go func() {
		for {
			ExpireOldSubscriptions(db, time.Now())
			time.Sleep(24 * time.Hour)
		}
	}()
}

func ExpireOldSubscriptions(db *gorm.DB, now time.Time) {
	var expired []subscriptionModel.StudentSubscriptionModel
	if err := db.
		Where("subscription_status = ? AND subscription_end_date IS NOT NULL AND subscription_end_date <= ?",
			subscriptionModel.SubscriptionStatusActive, now).
		Limit(500).
		Find(&expired).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SWEEP ERROR] Gagal ambil subscription kedaluwarsa: %v", err)
		return
	}

	for i := range expired {
		sub := &expired[i]
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&subscriptionModel.StudentSubscriptionModel{}).
				Where("subscription_id = ? AND subscription_status = ?",
					sub.SubscriptionID, subscriptionModel.SubscriptionStatusActive).
				Update("subscription_status", subscriptionModel.SubscriptionStatusExpired)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Keburu di-cancel student; current_plan sudah dibersihkan di sana.
				return nil
			}

			return tx.Model(&userModel.UserModel{}).
				Where("id = ? AND current_plan = ?", sub.SubscriptionStudentID, sub.SubscriptionTier).
				Update("current_plan", nil).Error
		})
		if err != nil {
			log.Printf("[SUBSCRIPTION-SWEEP ERROR] Gagal expire subscription %s: %v", sub.SubscriptionID, err)
		}
	}
	if len(expired) > 0 {
		log.Printf("[SUBSCRIPTION-SWEEP] %d subscription kedaluwarsa diproses", len(expired))
	}
}
