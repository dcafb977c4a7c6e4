// file: internals/features/billing/subscriptions/controller/webhook_controller.go
package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	subscriptionModel "tutorin_backend/internals/features/billing/subscriptions/model"
	subscriptionService "tutorin_backend/internals/features/billing/subscriptions/service"
	helper "tutorin_backend/internals/helpers"
)

/* ================= POST /api/billing/notification ================= */

// HandleMidtransNotification: webhook status transaksi dari Midtrans.
// Endpoint ini publik (di-skip auth middleware), jadi payload TIDAK
// dipercaya mentah-mentah — status final selalu diverifikasi ulang
// lewat Core API sebelum subscription diaktifkan.
func (ctrl *SubscriptionController) HandleMidtransNotification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid webhook")
	}

	orderID, ok1 := body["order_id"].(string)
	transactionStatus, ok2 := body["transaction_status"].(string)
	if !ok1 || !ok2 {
		log.Println("[BILLING-WEBHOOK ERROR] Payload webhook tidak lengkap:", body)
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", transactionStatus)

	var sub subscriptionModel.StudentSubscriptionModel
	if err := ctrl.DB.Where("subscription_order_id = ?", orderID).First(&sub).Error; err != nil {
		log.Println("[BILLING-WEBHOOK ERROR] Subscription tidak ditemukan untuk order:", orderID)
		return helper.Error(c, fiber.StatusNotFound, "Order tidak dikenal")
	}

	switch transactionStatus {
	case "capture", "settlement":
		status, err := subscriptionService.CheckTransactionStatus(orderID)
		if err != nil {
			log.Println("[BILLING-WEBHOOK ERROR] Gagal verifikasi ke Midtrans:", err)
			return helper.Error(c, fiber.StatusBadGateway, "Gagal verifikasi pembayaran")
		}
		if !subscriptionService.IsPaidStatus(status.TransactionStatus) {
			log.Println("[BILLING-WEBHOOK] Status notifikasi tidak cocok dengan Core API:", status.TransactionStatus)
			return helper.Success(c, "OK", nil)
		}
		var savedToken *string
		if status.SavedTokenID != "" {
			savedToken = &status.SavedTokenID
		}
		if err := ActivateSubscription(ctrl.DB, &sub, time.Now(), savedToken); err != nil {
			// Sudah aktif dari jalur confirm manual — webhook tetap 200.
			log.Println("[BILLING-WEBHOOK] Aktivasi dilewati:", err)
		}

	case "expire", "cancel", "deny", "failure":
		res := ctrl.DB.Model(&subscriptionModel.StudentSubscriptionModel{}).
			Where("subscription_id = ? AND subscription_status = ?",
				sub.SubscriptionID, subscriptionModel.SubscriptionStatusPending).
			Update("subscription_status", subscriptionModel.SubscriptionStatusCancelled)
		if res.Error != nil {
			log.Println("[BILLING-WEBHOOK ERROR] Gagal tandai subscription gagal bayar:", res.Error)
		}

	default:
		log.Println("[BILLING-WEBHOOK] Status tidak diproses:", transactionStatus)
	}

	return helper.Success(c, "OK", nil)
}
