package server

import (
	"fmt"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
)

// ArtistEntry is one matched asset plus its artist contact details.
type ArtistEntry struct {
	URL                string `json:"url"`
	ArtistName         string `json:"artist_name"`
	ArtistEmail        string `json:"artist_email"`
	ArtistPortfolioURL string `json:"artist_portfolio_url"`
}

// artistEntries synthesizes placeholder artist metadata from each matched
// record. A real artist registry can replace this without touching handlers.
func artistEntries(results []models.SearchResult) []ArtistEntry {
	entries := make([]ArtistEntry, 0, len(results))
	for _, result := range results {
		id := shortID(result.Record.ID)
		entries = append(entries, ArtistEntry{
			URL:                result.Record.URL,
			ArtistName:         fmt.Sprintf("Artist %s", id),
			ArtistEmail:        fmt.Sprintf("artist-%s@artists.example.com", id),
			ArtistPortfolioURL: fmt.Sprintf("https://artists.example.com/%s", result.Record.ID),
		})
	}
	return entries
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
