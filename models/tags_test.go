package models

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantTags    []Tag
		wantUnknown []string
	}{
		{
			name:     "clean subset",
			raw:      "Joy, Hope, Freedom",
			wantTags: []Tag{TagJoy, TagHope, TagFreedom},
		},
		{
			name:     "extra whitespace",
			raw:      "  Sorrow ,Longing ,  Love  ",
			wantTags: []Tag{TagSorrow, TagLonging, TagLove},
		},
		{
			name:     "case insensitive",
			raw:      "joy, ANGER, gRaTiTuDe",
			wantTags: []Tag{TagJoy, TagAnger, TagGratitude},
		},
		{
			name:        "unknown tokens dropped",
			raw:         "Joy, Nostalgia, Fear, Melancholy",
			wantTags:    []Tag{TagJoy, TagFear},
			wantUnknown: []string{"Nostalgia", "Melancholy"},
		},
		{
			name:        "nothing valid",
			raw:         "Happiness, Sadness",
			wantUnknown: []string{"Happiness", "Sadness"},
		},
		{
			name:     "duplicates collapse",
			raw:      "Joy, joy, Joy",
			wantTags: []Tag{TagJoy},
		},
		{
			name: "empty input",
			raw:  "",
		},
		{
			name:     "trailing comma",
			raw:      "Conflict,",
			wantTags: []Tag{TagConflict},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, unknown := ParseTags(tt.raw)
			if !reflect.DeepEqual(tags, tt.wantTags) {
				t.Errorf("tags: got %v, want %v", tags, tt.wantTags)
			}
			if !reflect.DeepEqual(unknown, tt.wantUnknown) {
				t.Errorf("unknown: got %v, want %v", unknown, tt.wantUnknown)
			}
		})
	}
}

func TestParseTagsOutputAlwaysInVocabulary(t *testing.T) {
	tags, _ := ParseTags("Joy, garbage, Fear, 123, hope")
	valid := make(map[Tag]bool)
	for _, tag := range AllTags {
		valid[tag] = true
	}
	for _, tag := range tags {
		if !valid[tag] {
			t.Errorf("tag %q outside vocabulary", tag)
		}
	}
}

func TestMediaTypeReturnable(t *testing.T) {
	if !MediaTypeAudio.Returnable() || !MediaTypeImage.Returnable() {
		t.Error("audio and image must be returnable")
	}
	if MediaTypeText.Returnable() || MediaTypeUnknown.Returnable() {
		t.Error("text and unknown must not be returnable")
	}
}
