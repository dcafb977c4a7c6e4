// file: internals/features/sessions/feedback/model/feedback_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackStatusPending   = "pending"
	FeedbackStatusSubmitted = "submitted"
)

const (
	FeedbackTypeText  = "text"
	FeedbackTypeAudio = "audio"
)

// MaxAudioDurationSeconds: feedback audio maksimal 60 detik.
const MaxAudioDurationSeconds = 60

// TutorSessionFeedbackModel: kewajiban feedback tutor, 1:1 dengan sesi selesai.
// Telat = ditolak keras, bukan sekadar ditandai; lewat sweep bulanan
// pembayarannya hangus.
type TutorSessionFeedbackModel struct {
	FeedbackID        uuid.UUID `gorm:"column:feedback_id;type:uuid;default:gen_random_uuid();primaryKey" json:"feedback_id"`
	FeedbackSessionID uuid.UUID `gorm:"column:feedback_session_id;type:uuid;not null;uniqueIndex" json:"feedback_session_id"`
	FeedbackTutorID   uuid.UUID `gorm:"column:feedback_tutor_id;type:uuid;not null;index" json:"feedback_tutor_id"`
	FeedbackStudentID uuid.UUID `gorm:"column:feedback_student_id;type:uuid;not null;index" json:"feedback_student_id"`

	FeedbackRating        *int    `gorm:"column:feedback_rating" json:"feedback_rating,omitempty"`
	FeedbackType          *string `gorm:"column:feedback_type;type:varchar(10)" json:"feedback_type,omitempty"`
	FeedbackText          *string `gorm:"column:feedback_text;type:text" json:"feedback_text,omitempty"`
	FeedbackAudioURL      *string `gorm:"column:feedback_audio_url;type:text" json:"feedback_audio_url,omitempty"`
	FeedbackAudioDuration *int    `gorm:"column:feedback_audio_duration" json:"feedback_audio_duration,omitempty"`

	FeedbackDueDate time.Time `gorm:"column:feedback_due_date;not null;index" json:"feedback_due_date"`
	FeedbackStatus  string    `gorm:"column:feedback_status;type:varchar(20);not null;default:'pending';index" json:"feedback_status"`

	FeedbackSubmittedAt *time.Time `gorm:"column:feedback_submitted_at" json:"feedback_submitted_at,omitempty"`
	FeedbackIsLate      bool       `gorm:"column:feedback_is_late;not null;default:false" json:"feedback_is_late"`

	FeedbackPaymentForfeited bool       `gorm:"column:feedback_payment_forfeited;not null;default:false" json:"feedback_payment_forfeited"`
	FeedbackForfeitedAmount  *float64   `gorm:"column:feedback_forfeited_amount" json:"feedback_forfeited_amount,omitempty"`
	FeedbackForfeitedAt      *time.Time `gorm:"column:feedback_forfeited_at" json:"feedback_forfeited_at,omitempty"`

	FeedbackCreatedAt time.Time      `gorm:"column:feedback_created_at;autoCreateTime" json:"feedback_created_at"`
	FeedbackUpdatedAt time.Time      `gorm:"column:feedback_updated_at;autoUpdateTime" json:"feedback_updated_at"`
	FeedbackDeletedAt gorm.DeletedAt `gorm:"column:feedback_deleted_at;index" json:"-"`
}

func (TutorSessionFeedbackModel) TableName() string {
	return "tutor_session_feedbacks"
}

// FeedbackDueDate: tanggal 3 bulan berikutnya setelah sesi selesai,
// akhir hari (23:59:59.999). Batas keras, bukan soft deadline.
func FeedbackDueDate(completedAt time.Time) time.Time {
	loc := completedAt.Location()
	firstOfNextMonth := time.Date(completedAt.Year(), completedAt.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return time.Date(firstOfNextMonth.Year(), firstOfNextMonth.Month(), 3, 23, 59, 59, 999_000_000, loc)
}

// CanSubmit: masih pending, belum hangus, dan belum lewat due date.
func (m *TutorSessionFeedbackModel) CanSubmit(now time.Time) bool {
	if m.FeedbackStatus != FeedbackStatusPending {
		return false
	}
	if m.FeedbackPaymentForfeited {
		return false
	}
	return !now.After(m.FeedbackDueDate)
}
