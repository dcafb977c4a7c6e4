// file: internals/features/sessions/sessions/scheduler/session_scheduler.go
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"tutorin_backend/internals/features/sessions/sessions/model"
)

// StartSessionStatusScheduler: sweep transisi status berbasis jam dinding.
// Satu pass, satu `now`, urutan naik (STARTING_SOON → IN_PROGRESS → EXPIRED)
// supaya sesi tidak melompati status dalam satu tick. Semua update
// bersyarat status, aman berlomba dengan cancel/complete manual.
func StartSessionStatusScheduler(db *gorm.DB) {
	go func() {
		intervalSec := 60
		if val := os.Getenv("SESSION_SWEEP_INTERVAL_SECONDS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalSec = parsed
			}
		}

		for {
			SweepSessionStatuses(db, time.Now())
			time.Sleep(time.Duration(intervalSec) * time.Second)
		}
	}()
}

// SweepSessionStatuses dipisah supaya bisa dipanggil langsung (dan diuji)
// tanpa goroutine loop.
func SweepSessionStatuses(db *gorm.DB, now time.Time) {
	// 1) SCHEDULED → STARTING_SOON saat masuk jendela 10 menit sebelum start.
	res := db.Model(&model.SessionModel{}).
		Where("session_status = ? AND session_start_time > ? AND session_start_time <= ?",
			model.SessionStatusScheduled, now, now.Add(model.StartingSoonWindow)).
		Update("session_status", model.SessionStatusStartingSoon)
	if res.Error != nil {
		log.Printf("[SESSION-SWEEP ERROR] starting_soon: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[SESSION-SWEEP] %d sesi → starting_soon", res.RowsAffected)
	}

	// 2) {SCHEDULED, STARTING_SOON} → IN_PROGRESS begitu start lewat; stamp started_at.
	res = db.Model(&model.SessionModel{}).
		Where("session_status IN ? AND session_start_time <= ? AND session_end_time > ?",
			[]string{model.SessionStatusScheduled, model.SessionStatusStartingSoon}, now, now).
		Updates(map[string]interface{}{
			"session_status":     model.SessionStatusInProgress,
			"session_started_at": now,
		})
	if res.Error != nil {
		log.Printf("[SESSION-SWEEP ERROR] in_progress: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[SESSION-SWEEP] %d sesi → in_progress", res.RowsAffected)
	}

	// 3) IN_PROGRESS/AWAITING_RESPONSE → EXPIRED kalau end lewat tanpa
	//    completion manual. Completion yang menang duluan di baris DB
	//    tetap menang: update ini tidak menyentuh status terminal.
	res = db.Model(&model.SessionModel{}).
		Where("session_status IN ? AND session_end_time <= ?",
			[]string{model.SessionStatusInProgress, model.SessionStatusAwaitingResponse}, now).
		Update("session_status", model.SessionStatusExpired)
	if res.Error != nil {
		log.Printf("[SESSION-SWEEP ERROR] expired: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[SESSION-SWEEP] %d sesi → expired", res.RowsAffected)
	}
}
