// file: internals/features/sessions/sessions/model/transitions.go
package model

// validTransitions: tabel transisi eksplisit status sesi. Dipakai baik oleh
// aksi user (cancel/complete/reschedule) maupun sweep; semua mutasi status
// lewat satu tabel supaya tidak ada jalur diam-diam.
var validTransitions = map[string][]string{
	SessionStatusScheduled: {
		SessionStatusStartingSoon,
		SessionStatusInProgress,
		SessionStatusCancelled,
		SessionStatusRescheduleRequested,
		SessionStatusCompleted,
		SessionStatusNoShow,
	},
	SessionStatusStartingSoon: {
		SessionStatusInProgress,
		SessionStatusCancelled,
		SessionStatusRescheduleRequested,
		SessionStatusCompleted,
		SessionStatusNoShow,
	},
	SessionStatusInProgress: {
		SessionStatusCompleted,
		SessionStatusExpired,
		SessionStatusNoShow,
		SessionStatusAwaitingResponse,
	},
	SessionStatusAwaitingResponse: {
		SessionStatusCompleted,
		SessionStatusExpired,
		SessionStatusNoShow,
	},
	SessionStatusRescheduleRequested: {
		SessionStatusScheduled, // approve maupun reject dua-duanya balik ke scheduled
		SessionStatusCancelled,
		SessionStatusCompleted,
	},
	// Terminal: tidak ada jalan keluar.
	SessionStatusCompleted: {},
	SessionStatusCancelled: {},
	SessionStatusNoShow:    {},
	SessionStatusExpired:   {},
}

// CanTransition melaporkan apakah perpindahan from→to diizinkan.
func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
