// file: internals/features/billing/subscriptions/controller/subscription_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	subscriptionDTO "tutorin_backend/internals/features/billing/subscriptions/dto"
	subscriptionModel "tutorin_backend/internals/features/billing/subscriptions/model"
	subscriptionService "tutorin_backend/internals/features/billing/subscriptions/service"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

var validate = validator.New()

type SubscriptionController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewSubscriptionController(db *gorm.DB, events notifier.Publisher) *SubscriptionController {
	return &SubscriptionController{DB: db, Events: events}
}

/* ================= POST /api/subscriptions ================= */

// Subscribe: buat subscription PENDING + snap token. Satu ACTIVE per student.
func (ctrl *SubscriptionController) Subscribe(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req subscriptionDTO.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !subscriptionModel.IsValidTier(req.Tier) {
		return helper.FromFiberError(c, helper.ValidationFailure("Tier tidak dikenal"))
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}

	var activeCount int64
	if err := ctrl.DB.Model(&subscriptionModel.StudentSubscriptionModel{}).
		Where("subscription_student_id = ? AND subscription_status = ?",
			studentID, subscriptionModel.SubscriptionStatusActive).
		Count(&activeCount).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek subscription aktif")
	}
	if activeCount > 0 {
		return helper.FromFiberError(c, helper.InvalidState("Masih ada subscription aktif"))
	}

	plan := subscriptionModel.PlanFor(req.Tier)
	sub := subscriptionModel.StudentSubscriptionModel{
		SubscriptionStudentID:        studentID,
		SubscriptionTier:             plan.Tier,
		SubscriptionPricePerHour:     plan.PricePerHour,
		SubscriptionCommitmentMonths: plan.CommitmentMonths,
		SubscriptionMinimumHours:     plan.MinimumHours,
		SubscriptionStatus:           subscriptionModel.SubscriptionStatusPending,
		SubscriptionOrderID:          "SUB-" + strings.ToUpper(uuid.NewString()[:18]),
	}
	if err := ctrl.DB.Create(&sub).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat subscription")
	}

	token, err := subscriptionService.GenerateSubscriptionSnapToken(&sub, plan, student.UserName, student.ContactEmail())
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}
	sub.SubscriptionPaymentToken = &token
	ctrl.DB.Model(&subscriptionModel.StudentSubscriptionModel{}).
		Where("subscription_id = ?", sub.SubscriptionID).
		Update("subscription_payment_token", token)

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Subscription dibuat, lanjutkan pembayaran",
		subscriptionDTO.SubscribeResponse{
			Subscription: subscriptionDTO.ToSubscriptionResponse(&sub),
			SnapToken:    token,
			UpfrontPrice: plan.UpfrontCharge(),
		})
}

/* ================= GET /api/subscriptions/me ================= */

func (ctrl *SubscriptionController) GetMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var subs []subscriptionModel.StudentSubscriptionModel
	if err := ctrl.DB.
		Where("subscription_student_id = ?", studentID).
		Order("subscription_created_at DESC").
		Find(&subs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil subscription")
	}

	out := make([]subscriptionDTO.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, subscriptionDTO.ToSubscriptionResponse(&subs[i]))
	}
	return helper.Success(c, "OK", out)
}

/* ================= POST /api/subscriptions/:id/confirm ================= */

// ConfirmPayment: verifikasi status transaksi ke Midtrans, lalu PENDING→ACTIVE.
// Jalur webhook memakai aktivasi yang sama.
func (ctrl *SubscriptionController) ConfirmPayment(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req subscriptionDTO.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var sub subscriptionModel.StudentSubscriptionModel
	if err := ctrl.DB.First(&sub, "subscription_id = ?", subID).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Subscription tidak ditemukan"))
	}
	if sub.SubscriptionStudentID != studentID {
		return helper.FromFiberError(c, helper.Forbidden("Bukan subscription milikmu"))
	}
	if req.PaymentConfirmationID != sub.SubscriptionOrderID {
		return helper.FromFiberError(c, helper.ValidationFailure("Konfirmasi pembayaran tidak cocok dengan subscription ini"))
	}

	status, err := subscriptionService.CheckTransactionStatus(sub.SubscriptionOrderID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, "Gagal verifikasi status pembayaran")
	}
	if !subscriptionService.IsPaidStatus(status.TransactionStatus) {
		return helper.FromFiberError(c, helper.InvalidState("Pembayaran belum berhasil (status: "+status.TransactionStatus+")"))
	}

	var savedToken *string
	if status.SavedTokenID != "" {
		savedToken = &status.SavedTokenID
	}
	if err := ActivateSubscription(ctrl.DB, &sub, time.Now(), savedToken); err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.First(&sub, "subscription_id = ?", subID).Error; err == nil {
		return helper.Success(c, "Subscription aktif", subscriptionDTO.ToSubscriptionResponse(&sub))
	}
	return helper.Success(c, "Subscription aktif", fiber.Map{"subscription_id": subID})
}

// ActivateSubscription: conditional update PENDING→ACTIVE + stamp periode +
// tulis tier ke users.current_plan. Dipakai confirm manual dan webhook.
func ActivateSubscription(db *gorm.DB, sub *subscriptionModel.StudentSubscriptionModel, now time.Time, paymentMethodToken *string) error {
	plan := subscriptionModel.PlanFor(sub.SubscriptionTier)
	start, end := subscriptionModel.PeriodFor(plan, now)

	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"subscription_status":     subscriptionModel.SubscriptionStatusActive,
			"subscription_start_date": start,
			"subscription_end_date":   end,
		}
		if paymentMethodToken != nil {
			updates["subscription_payment_method_token"] = *paymentMethodToken
		}
		res := tx.Model(&subscriptionModel.StudentSubscriptionModel{}).
			Where("subscription_id = ? AND subscription_status = ?",
				sub.SubscriptionID, subscriptionModel.SubscriptionStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Subscription sudah tidak PENDING")
		}

		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", sub.SubscriptionStudentID).
			Update("current_plan", sub.SubscriptionTier).Error
	})
}

/* ================= POST /api/subscriptions/:id/cancel ================= */

func (ctrl *SubscriptionController) Cancel(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var sub subscriptionModel.StudentSubscriptionModel
	if err := ctrl.DB.First(&sub, "subscription_id = ?", subID).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Subscription tidak ditemukan"))
	}
	if sub.SubscriptionStudentID != studentID && !helper.IsAdmin(c) {
		return helper.FromFiberError(c, helper.Forbidden("Bukan subscription milikmu"))
	}
	if sub.SubscriptionStatus != subscriptionModel.SubscriptionStatusActive {
		return helper.FromFiberError(c, helper.InvalidState("Hanya subscription ACTIVE yang bisa dibatalkan"))
	}

	now := time.Now()
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&subscriptionModel.StudentSubscriptionModel{}).
			Where("subscription_id = ? AND subscription_status = ?",
				subID, subscriptionModel.SubscriptionStatusActive).
			Updates(map[string]interface{}{
				"subscription_status":       subscriptionModel.SubscriptionStatusCancelled,
				"subscription_cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Status subscription sudah berubah")
		}

		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", sub.SubscriptionStudentID).
			Update("current_plan", nil).Error
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	return helper.Success(c, "Subscription dibatalkan", fiber.Map{
		"subscription_id": subID,
		"status":          subscriptionModel.SubscriptionStatusCancelled,
	})
}
