// file: internals/features/matching/requests/model/request_lifecycle.go
package model

import "time"

// Status lifecycle trial/session request. Terminal state sticky:
// accepted/cancelled/expired tidak pernah balik ke pending
// (expired hanya bisa dihapus permanen oleh sweep delete).
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusExpired   = "expired"
	RequestStatusCancelled = "cancelled"
)

// Window & batas lifecycle.
const (
	TrialRequestTTL   = 24 * time.Hour
	SessionRequestTTL = 7 * 24 * time.Hour
	ExtensionTTL      = 7 * 24 * time.Hour // perpanjangan sekali
	FinalGracePeriod  = 3 * 24 * time.Hour // reminder → hard delete
	MaxExtensions     = 1
)

// IsTerminalRequestStatus: accepted/cancelled/expired tidak bisa ditransisi lagi.
func IsTerminalRequestStatus(status string) bool {
	switch status {
	case RequestStatusAccepted, RequestStatusCancelled, RequestStatusExpired:
		return true
	}
	return false
}

// EffectiveRequestStatus: satu-satunya sumber kebenaran "sudah expired atau belum".
// Dipakai di SEMUA titik baca status; sweep hanya mem-persist apa yang
// fungsi ini laporkan (sweep = cache refresh, bukan logika tersendiri).
func EffectiveRequestStatus(status string, expiresAt time.Time, now time.Time) string {
	if status == RequestStatusPending && now.After(expiresAt) {
		return RequestStatusExpired
	}
	return status
}

// RequestExtendable: perpanjangan boleh selama baris tersimpan masih PENDING
// dan jatah belum habis — baik di dalam window, maupun SETELAH lewat window
// selama masih dalam masa tenggang reminder (final deadline belum lewat).
// Lewat window tapi belum diingatkan (finalExpiresAt nil) = tidak bisa:
// sweep-lah yang membuka masa tenggang, bukan permintaan user.
func RequestExtendable(status string, expiresAt time.Time, finalExpiresAt *time.Time, extensions int, now time.Time) bool {
	if status != RequestStatusPending || extensions >= MaxExtensions {
		return false
	}
	if now.Before(expiresAt) {
		return true
	}
	return finalExpiresAt != nil && now.Before(*finalExpiresAt)
}
