package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreCopiesAndBuildsURL(t *testing.T) {
	uploads := t.TempDir()
	store, err := NewLocalStore(uploads, "http://localhost:8080/")
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(src, []byte("audio bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	publicURL, err := store.SaveFile(context.Background(), "clip.wav", src, "audio/wav")
	if err != nil {
		t.Fatal(err)
	}
	if publicURL != "http://localhost:8080/uploads/clip.wav" {
		t.Errorf("url: got %q", publicURL)
	}

	copied, err := os.ReadFile(filepath.Join(uploads, "clip.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != "audio bytes" {
		t.Errorf("copied content: got %q", copied)
	}
}

func TestLocalStoreSkipsCopyWhenAlreadyInPlace(t *testing.T) {
	uploads := t.TempDir()
	store, err := NewLocalStore(uploads, "http://localhost:8080")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(uploads, "photo.png")
	if err := os.WriteFile(path, []byte("pixels"), 0644); err != nil {
		t.Fatal(err)
	}

	publicURL, err := store.SaveFile(context.Background(), "photo.png", path, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if publicURL != "http://localhost:8080/uploads/photo.png" {
		t.Errorf("url: got %q", publicURL)
	}
}

func TestLocalStoreEscapesObjectName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "two words.png")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	publicURL, err := store.SaveFile(context.Background(), "two words.png", src, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if publicURL != "http://localhost:8080/uploads/two%20words.png" {
		t.Errorf("url: got %q", publicURL)
	}
}
