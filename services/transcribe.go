package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const imageCaptionPrompt = "Describe this image with as much details as possible. " +
	"Mention the objects, people, animals, and any other relevant information in the image. " +
	"The description should be detailed and informative."

// defaultModelWait is used when a 503 from the inference endpoint carries no
// estimated_time field.
const defaultModelWait = 20 * time.Second

// TranscriptionService converts raw media into text: audio through the
// Whisper inference endpoint, images through a vision-capable chat model on
// the HuggingFace router.
type TranscriptionService struct {
	httpClient  *http.Client
	whisperURL  string
	apiKey      string
	vision      *openai.Client
	visionModel string
	logger      *zap.Logger

	// sleep is swapped out in tests to avoid real waits.
	sleep func(time.Duration)
}

func NewTranscriptionService(cfg config.HuggingFaceConfig, logger *zap.Logger) *TranscriptionService {
	visionCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.RouterEndpoint != "" {
		visionCfg.BaseURL = cfg.RouterEndpoint
	}
	return &TranscriptionService{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		whisperURL:  cfg.WhisperEndpoint,
		apiKey:      cfg.APIKey,
		vision:      openai.NewClientWithConfig(visionCfg),
		visionModel: cfg.VisionModel,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

type whisperResponse struct {
	Text          string  `json:"text"`
	EstimatedTime float64 `json:"estimated_time"`
}

// TranscribeAudio posts the raw audio bytes to the Whisper endpoint. When the
// model is still loading (HTTP 503) it waits the server-estimated time and
// retries exactly once; any other non-success response is a hard failure.
func (t *TranscriptionService) TranscribeAudio(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}

	t.logger.Info("transcribing audio", zap.String("path", audioPath))

	status, body, err := t.postAudio(ctx, data)
	if err != nil {
		return "", err
	}

	if status == http.StatusServiceUnavailable {
		wait := defaultModelWait
		var loading whisperResponse
		if json.Unmarshal(body, &loading) == nil && loading.EstimatedTime > 0 {
			wait = time.Duration(loading.EstimatedTime * float64(time.Second))
		}
		t.logger.Info("transcription model loading, waiting before retry", zap.Duration("wait", wait))
		t.sleep(wait)

		status, body, err = t.postAudio(ctx, data)
		if err != nil {
			return "", err
		}
	}

	if status < 200 || status >= 300 {
		return "", fmt.Errorf("transcription failed: http %d: %s", status, bytes.TrimSpace(body))
	}

	var resp whisperResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("transcription failed: parse response: %w", err)
	}
	if resp.Text == "" {
		return "", errors.New("transcription failed: no text found in response")
	}
	return resp.Text, nil
}

func (t *TranscriptionService) postAudio(ctx context.Context, data []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.whisperURL, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("transcription response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// TranscribeImage captions the image at the given public URL with the vision
// model. The URL must be reachable by the inference service.
func (t *TranscriptionService) TranscribeImage(ctx context.Context, imageURL string) (string, error) {
	t.logger.Info("captioning image", zap.String("url", imageURL))

	resp, err := t.vision.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.visionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: imageCaptionPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
			},
		}},
		MaxTokens: 500,
	})
	if err != nil {
		return "", fmt.Errorf("image captioning: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("image captioning: response contained no caption")
	}
	return resp.Choices[0].Message.Content, nil
}
