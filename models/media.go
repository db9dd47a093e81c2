package models

// MediaType is the modality of a media asset.
type MediaType string

const (
	MediaTypeImage   MediaType = "image"
	MediaTypeAudio   MediaType = "audio"
	MediaTypeText    MediaType = "text"
	MediaTypeUnknown MediaType = "unknown"
)

// Returnable reports whether the type can be requested as a search result.
// Only audio and image records are stored, so only those can come back.
func (m MediaType) Returnable() bool {
	return m == MediaTypeAudio || m == MediaTypeImage
}

// MediaRecord is the unit stored in the vector index. The embedding itself
// lives only in the store and is always derived from Text in the same write.
type MediaRecord struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Tags []Tag     `json:"tags"`
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

// SearchResult pairs a stored record with its similarity score.
type SearchResult struct {
	Record MediaRecord `json:"record"`
	Score  float64     `json:"score"`
}
