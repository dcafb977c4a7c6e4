package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesContactEmail(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		provided string
		want     bool
	}{
		{"sama persis", "budi@example.com", "budi@example.com", true},
		{"beda kapitalisasi tetap cocok", "Budi@Example.com", "budi@example.COM", true},
		{"spasi pinggir diabaikan", "  budi@example.com ", "budi@example.com", true},
		{"email beda", "budi@example.com", "siti@example.com", false},
		{"provided kosong", "budi@example.com", "", false},
		// provided kosong sudah ditolak di controller sebelum sampai sini
		{"keduanya kosong cocok secara literal", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesContactEmail(tt.stored, tt.provided))
		})
	}
}
