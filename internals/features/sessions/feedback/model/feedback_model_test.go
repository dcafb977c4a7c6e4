package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackDueDate(t *testing.T) {
	tests := []struct {
		name        string
		completedAt time.Time
		want        time.Time
	}{
		{
			"pertengahan bulan",
			time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
			time.Date(2026, 9, 3, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			"akhir bulan",
			time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 3, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			"desember menyeberang tahun",
			time.Date(2026, 12, 20, 8, 0, 0, 0, time.UTC),
			time.Date(2027, 1, 3, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			"selesai tanggal 1",
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 3, 23, 59, 59, 999_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(FeedbackDueDate(tt.completedAt)),
				"want %s got %s", tt.want, FeedbackDueDate(tt.completedAt))
		})
	}
}

func TestCanSubmit(t *testing.T) {
	due := time.Date(2026, 9, 3, 23, 59, 59, 999_000_000, time.UTC)

	base := TutorSessionFeedbackModel{
		FeedbackStatus:  FeedbackStatusPending,
		FeedbackDueDate: due,
	}

	t.Run("sebelum due date boleh", func(t *testing.T) {
		assert.True(t, base.CanSubmit(due.Add(-time.Hour)))
	})
	t.Run("tepat di due date masih boleh", func(t *testing.T) {
		assert.True(t, base.CanSubmit(due))
	})
	t.Run("lewat due date ditolak keras", func(t *testing.T) {
		assert.False(t, base.CanSubmit(due.Add(time.Millisecond)))
	})
	t.Run("sudah submitted tidak bisa lagi", func(t *testing.T) {
		fb := base
		fb.FeedbackStatus = FeedbackStatusSubmitted
		assert.False(t, fb.CanSubmit(due.Add(-time.Hour)))
	})
	t.Run("payment forfeited blokir permanen", func(t *testing.T) {
		fb := base
		fb.FeedbackPaymentForfeited = true
		assert.False(t, fb.CanSubmit(due.Add(-time.Hour)))
	})
}
