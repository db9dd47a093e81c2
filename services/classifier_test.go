package services

import (
	"testing"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
)

func TestDetectMediaType(t *testing.T) {
	tests := []struct {
		path string
		want models.MediaType
	}{
		{"photo.jpg", models.MediaTypeImage},
		{"photo.JPEG", models.MediaTypeImage},
		{"icon.png", models.MediaTypeImage},
		{"anim.gif", models.MediaTypeImage},
		{"scan.bmp", models.MediaTypeImage},
		{"scan.tiff", models.MediaTypeImage},
		{"pic.webp", models.MediaTypeImage},
		{"song.mp3", models.MediaTypeAudio},
		{"clip.wav", models.MediaTypeAudio},
		{"clip.OGG", models.MediaTypeAudio},
		{"track.flac", models.MediaTypeAudio},
		{"voice.aac", models.MediaTypeAudio},
		{"notes.txt", models.MediaTypeText},
		{"readme.md", models.MediaTypeText},
		{"doc.rtf", models.MediaTypeText},
		{"/tmp/nested/dir/song.mp3", models.MediaTypeAudio},
		{"archive.zip", models.MediaTypeUnknown},
		{"binary.exe", models.MediaTypeUnknown},
		{"noextension", models.MediaTypeUnknown},
		{"", models.MediaTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectMediaType(tt.path); got != tt.want {
				t.Errorf("DetectMediaType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
