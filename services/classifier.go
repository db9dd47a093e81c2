package services

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
)

// extensionTypes covers common extensions the platform MIME table may miss.
var extensionTypes = map[string]models.MediaType{
	".jpg":  models.MediaTypeImage,
	".jpeg": models.MediaTypeImage,
	".png":  models.MediaTypeImage,
	".gif":  models.MediaTypeImage,
	".bmp":  models.MediaTypeImage,
	".tiff": models.MediaTypeImage,
	".webp": models.MediaTypeImage,
	".mp3":  models.MediaTypeAudio,
	".wav":  models.MediaTypeAudio,
	".ogg":  models.MediaTypeAudio,
	".flac": models.MediaTypeAudio,
	".aac":  models.MediaTypeAudio,
	".txt":  models.MediaTypeText,
	".md":   models.MediaTypeText,
	".rtf":  models.MediaTypeText,
}

// DetectMediaType classifies a file as image, audio or text from its name
// alone. Returns MediaTypeUnknown when neither the MIME table nor the
// extension fallback recognizes it.
func DetectMediaType(filePath string) models.MediaType {
	ext := strings.ToLower(filepath.Ext(filePath))

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		switch {
		case strings.HasPrefix(mimeType, "image/"):
			return models.MediaTypeImage
		case strings.HasPrefix(mimeType, "audio/"):
			return models.MediaTypeAudio
		case strings.HasPrefix(mimeType, "text/plain"):
			return models.MediaTypeText
		}
	}

	if kind, ok := extensionTypes[ext]; ok {
		return kind
	}
	return models.MediaTypeUnknown
}
