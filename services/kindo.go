package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	openai "github.com/sashabaranov/go-openai"
)

// Completer is a single-prompt completion surface over the Kindo LLM service.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// KindoClient talks to Kindo's chat-completions endpoint, which speaks the
// OpenAI wire format.
type KindoClient struct {
	client *openai.Client
	model  string
}

func NewKindoClient(cfg config.KindoConfig) *KindoClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	return &KindoClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (k *KindoClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := k.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: k.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("kindo completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("kindo completion: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
