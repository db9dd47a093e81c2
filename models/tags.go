package models

import "strings"

// Tag is one label from the fixed emotion vocabulary.
type Tag string

const (
	TagJoy       Tag = "Joy"
	TagSorrow    Tag = "Sorrow"
	TagLove      Tag = "Love"
	TagFear      Tag = "Fear"
	TagHope      Tag = "Hope"
	TagAnger     Tag = "Anger"
	TagLonging   Tag = "Longing"
	TagFreedom   Tag = "Freedom"
	TagConflict  Tag = "Conflict"
	TagGratitude Tag = "Gratitude"
)

// AllTags is the closed vocabulary, in prompt order.
var AllTags = []Tag{
	TagJoy, TagSorrow, TagLove, TagFear, TagHope,
	TagAnger, TagLonging, TagFreedom, TagConflict, TagGratitude,
}

// ParseTags splits a comma-separated model completion into vocabulary tags.
// Matching is case-insensitive and duplicates collapse to one. Tokens outside
// the vocabulary come back in unknown; the model cannot be trusted to honor
// the tag list exactly, so callers must never store unknown tokens.
func ParseTags(raw string) (tags []Tag, unknown []string) {
	seen := make(map[Tag]bool)
	for _, piece := range strings.Split(raw, ",") {
		token := strings.TrimSpace(piece)
		if token == "" {
			continue
		}
		tag, ok := lookupTag(token)
		if !ok {
			unknown = append(unknown, token)
			continue
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags, unknown
}

func lookupTag(token string) (Tag, bool) {
	for _, tag := range AllTags {
		if strings.EqualFold(token, string(tag)) {
			return tag, true
		}
	}
	return "", false
}

// TagStrings converts a tag slice to plain strings for store payloads.
func TagStrings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}
