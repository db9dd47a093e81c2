package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"go.uber.org/zap"
)

const describeMaxTokens = 200

const describeAudioPrompt = `You are given a transcription of a song clip. Your task is to use the transcription to describe the song. Try to understand what the song is about, what emotions it conveys, and what message it is trying to communicate. Write a brief description of the song using the transcription as a reference. The description should not be more than 100 words.
Transcription: %s`

const describeImagePrompt = `You are given a description of an image. Your task is to provide a detailed description of the image based on the given description. The description should capture the possible emotions, themes and story behind the image. It should be detailed and informative. The description should not be more than 100 words.
Description: %s`

const generalizePrompt = `You are given a text description. It could be about a music sample, an image or a movie plot. Whatever the media might be, using the given description, generate a generic description that captures the essence of the description. The generated description should be concise and informative. It should not contain any reference to what type of media the original description was about.
Description: %s`

const generateTagsPrompt = `You are given a description. Your task is to pick the relevant tags based on the description. The tags should be concise and descriptive, capturing the key elements of the description. These tags will help in categorizing and organizing the content for future reference. The possible tags are %s. The tags must be from this list only. Provide a comma separated list of tags that you think fit with the description. The output should contain nothing but the comma separated tags.
Description: %s`

// DescriptionService turns transcriptions into descriptions, strips them of
// medium-specific phrasing, and maps them onto the emotion vocabulary.
type DescriptionService struct {
	completer Completer
	logger    *zap.Logger
}

func NewDescriptionService(completer Completer, logger *zap.Logger) *DescriptionService {
	return &DescriptionService{completer: completer, logger: logger}
}

func (d *DescriptionService) DescribeAudio(ctx context.Context, transcription string) (string, error) {
	desc, err := d.completer.Complete(ctx, fmt.Sprintf(describeAudioPrompt, transcription), describeMaxTokens)
	if err != nil {
		return "", fmt.Errorf("audio description: %w", err)
	}
	d.logger.Debug("audio description generated", zap.String("description", desc))
	return desc, nil
}

func (d *DescriptionService) DescribeImage(ctx context.Context, caption string) (string, error) {
	desc, err := d.completer.Complete(ctx, fmt.Sprintf(describeImagePrompt, caption), describeMaxTokens)
	if err != nil {
		return "", fmt.Errorf("image description: %w", err)
	}
	d.logger.Debug("image description generated", zap.String("description", desc))
	return desc, nil
}

// Generalize strips medium-specific references while keeping the theme.
func (d *DescriptionService) Generalize(ctx context.Context, description string) (string, error) {
	desc, err := d.completer.Complete(ctx, fmt.Sprintf(generalizePrompt, description), describeMaxTokens)
	if err != nil {
		return "", fmt.Errorf("generic description: %w", err)
	}
	d.logger.Debug("generic description generated", zap.String("description", desc))
	return desc, nil
}

// GenerateTags asks the model for a comma-separated tag selection and keeps
// only tokens from the closed vocabulary. A completion with no valid tag is
// an error; an empty tag set must never reach the store.
func (d *DescriptionService) GenerateTags(ctx context.Context, genericDescription string) ([]models.Tag, error) {
	vocabulary := strings.Join(models.TagStrings(models.AllTags), ", ")
	raw, err := d.completer.Complete(ctx, fmt.Sprintf(generateTagsPrompt, vocabulary, genericDescription), describeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("tag generation: %w", err)
	}

	tags, unknown := models.ParseTags(raw)
	if len(unknown) > 0 {
		d.logger.Warn("model returned tags outside the vocabulary",
			zap.Strings("unknown", unknown))
	}
	if len(tags) == 0 {
		return nil, errors.New("tag generation: no valid tags in completion")
	}
	d.logger.Debug("tags generated", zap.Strings("tags", models.TagStrings(tags)))
	return tags, nil
}
