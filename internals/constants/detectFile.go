package constants

import (
	"path/filepath"
	"strings"
)

// Tipe file konten feedback
const (
	FileTypeAudio   = 2
	FileTypeUnknown = 99
)

// Ekstensi audio yang diterima untuk feedback suara
var audioExts = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".ogg": {}, ".webm": {},
}

func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := audioExts[ext]; ok {
		return FileTypeAudio
	}
	return FileTypeUnknown
}

// IsAudioFile untuk validasi URL audio feedback tutor
func IsAudioFile(filename string) bool {
	return DetectFileTypeFromExt(filename) == FileTypeAudio
}
