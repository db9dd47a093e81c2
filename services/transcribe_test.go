package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestTranscriber(whisperURL string, slept *[]time.Duration) *TranscriptionService {
	return &TranscriptionService{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		whisperURL: whisperURL,
		apiKey:     "test-key",
		logger:     zap.NewNop(),
		sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
	}
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFFfakeaudio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeAudioSuccess(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: got %q", got)
		}
		w.Write([]byte(`{"text": "hello world"}`))
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	text, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("text: got %q", text)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
	if len(slept) != 0 {
		t.Errorf("unexpected sleep: %v", slept)
	}
}

func TestTranscribeAudioRetriesOnceOnLoading(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"estimated_time": 5}`))
			return
		}
		w.Write([]byte(`{"text": "after retry"}`))
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	text, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "after retry" {
		t.Errorf("text: got %q", text)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
	if len(slept) != 1 || slept[0] != 5*time.Second {
		t.Errorf("slept: got %v, want one 5s wait", slept)
	}
}

func TestTranscribeAudioNoThirdAttempt(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"estimated_time": 1}`))
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	_, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t))
	if err == nil {
		t.Fatal("expected error after failed retry")
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want exactly 2", calls)
	}
}

func TestTranscribeAudioLoadingWithoutEstimateUsesDefault(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"text": "ok"}`))
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	if _, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t)); err != nil {
		t.Fatal(err)
	}
	if len(slept) != 1 || slept[0] != defaultModelWait {
		t.Errorf("slept: got %v, want default wait", slept)
	}
}

func TestTranscribeAudioHardFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	if _, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t)); err == nil {
		t.Fatal("expected error for non-success status")
	}
	if len(slept) != 0 {
		t.Errorf("hard failure must not wait: %v", slept)
	}
}

func TestTranscribeAudioMissingTextField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something_else": true}`))
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	if _, err := svc.TranscribeAudio(context.Background(), writeTempAudio(t)); err == nil {
		t.Fatal("expected error when response lacks text")
	}
}

func TestTranscribeAudioMissingFileSkipsNetwork(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer ts.Close()

	var slept []time.Duration
	svc := newTestTranscriber(ts.URL, &slept)

	if _, err := svc.TranscribeAudio(context.Background(), "/nonexistent/clip.wav"); err == nil {
		t.Fatal("expected error for missing file")
	}
	if calls != 0 {
		t.Errorf("missing file must not reach the network, got %d calls", calls)
	}
}
