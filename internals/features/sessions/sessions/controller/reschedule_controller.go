// file: internals/features/sessions/sessions/controller/reschedule_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	sessionDTO "tutorin_backend/internals/features/sessions/sessions/dto"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

/* ================= POST /api/sessions/:id/reschedule ================= */

// RequestReschedule: salah satu pihak mengajukan jadwal baru. End time baru
// dihitung dari durasi semula. Maksimal satu pengajuan outstanding, dan
// harus diajukan minimal 10 menit sebelum start.
func (ctrl *SessionController) RequestReschedule(c *fiber.Ctx) error {
	session, userID, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sessionDTO.RescheduleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	now := time.Now()
	if !sessionModel.CanTransition(session.SessionStatus, sessionModel.SessionStatusRescheduleRequested) {
		return helper.FromFiberError(c, helper.InvalidState("Sesi tidak bisa dijadwal ulang dari status "+session.SessionStatus))
	}
	if now.After(session.SessionStartTime.Add(-sessionModel.MinRescheduleNotice)) {
		return helper.FromFiberError(c, helper.InvalidState("Pengajuan jadwal ulang minimal 10 menit sebelum sesi dimulai"))
	}
	if !req.NewStartTime.After(now) {
		return helper.FromFiberError(c, helper.ValidationFailure("new_start_time harus di masa depan"))
	}

	if existing, _ := session.Reschedule(); existing != nil && existing.Status == sessionModel.RescheduleStatusPending {
		return helper.FromFiberError(c, helper.InvalidState("Masih ada pengajuan jadwal ulang yang menunggu respons"))
	}

	duration := time.Duration(session.SessionDuration) * time.Minute
	reschedule := sessionModel.RescheduleRequest{
		RequestedBy:  userID,
		RequestedAt:  now,
		NewStartTime: req.NewStartTime,
		NewEndTime:   req.NewStartTime.Add(duration),
		Reason:       req.Reason,
		Status:       sessionModel.RescheduleStatusPending,
	}
	if err := session.SetReschedule(&reschedule); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyusun pengajuan jadwal ulang")
	}

	res := ctrl.DB.Model(&sessionModel.SessionModel{}).
		Where("session_id = ? AND session_status IN ?", session.SessionID,
			[]string{sessionModel.SessionStatusScheduled, sessionModel.SessionStatusStartingSoon}).
		Updates(map[string]interface{}{
			"session_status":     sessionModel.SessionStatusRescheduleRequested,
			"session_reschedule": session.SessionReschedule,
		})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengajukan jadwal ulang")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Status sesi sudah berubah"))
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionRescheduled, fiber.Map{
		"session_id":     session.SessionID,
		"requested_by":   userID,
		"new_start_time": reschedule.NewStartTime,
		"phase":          "requested",
	})

	session.SessionStatus = sessionModel.SessionStatusRescheduleRequested
	return helper.Success(c, "Pengajuan jadwal ulang terkirim", sessionDTO.ToSessionResponse(session))
}

/* ================= POST /api/sessions/:id/reschedule/respond ================= */

// RespondReschedule: hanya pihak LAWAN pengaju yang boleh merespons;
// approve maupun reject dua-duanya mengembalikan sesi ke SCHEDULED.
func (ctrl *SessionController) RespondReschedule(c *fiber.Ctx) error {
	session, userID, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sessionDTO.RespondRescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}

	if session.SessionStatus != sessionModel.SessionStatusRescheduleRequested {
		return helper.FromFiberError(c, helper.InvalidState("Tidak ada pengajuan jadwal ulang yang menunggu"))
	}
	reschedule, rErr := session.Reschedule()
	if rErr != nil || reschedule == nil || reschedule.Status != sessionModel.RescheduleStatusPending {
		return helper.FromFiberError(c, helper.InvalidState("Tidak ada pengajuan jadwal ulang yang menunggu"))
	}
	if reschedule.RequestedBy == userID {
		return helper.FromFiberError(c, helper.Forbidden("Pengaju tidak boleh merespons pengajuannya sendiri"))
	}

	now := time.Now()
	reschedule.RespondedAt = &now
	reschedule.RespondedBy = &userID

	updates := map[string]interface{}{
		"session_status": sessionModel.SessionStatusScheduled,
	}
	if req.Approve {
		reschedule.Status = sessionModel.RescheduleStatusApproved
		updates["session_start_time"] = reschedule.NewStartTime
		updates["session_end_time"] = reschedule.NewEndTime
	} else {
		reschedule.Status = sessionModel.RescheduleStatusRejected
		if req.Reason != "" {
			reschedule.Reason = req.Reason
		}
	}
	if err := session.SetReschedule(reschedule); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui pengajuan")
	}
	updates["session_reschedule"] = session.SessionReschedule

	res := ctrl.DB.Model(&sessionModel.SessionModel{}).
		Where("session_id = ? AND session_status = ?", session.SessionID, sessionModel.SessionStatusRescheduleRequested).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal merespons pengajuan")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Status sesi sudah berubah"))
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionRescheduled, fiber.Map{
		"session_id":   session.SessionID,
		"responded_by": userID,
		"approved":     req.Approve,
		"phase":        "responded",
	})

	session.SessionStatus = sessionModel.SessionStatusScheduled
	if req.Approve {
		session.SessionStartTime = reschedule.NewStartTime
		session.SessionEndTime = reschedule.NewEndTime
	}
	return helper.Success(c, "Pengajuan jadwal ulang direspons", sessionDTO.ToSessionResponse(session))
}
