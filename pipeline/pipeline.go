// Package pipeline sequences the description-to-match stages: classify,
// transcribe, describe, generalize, tag, then store or search.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"github.com/Mystic-Slice/artist-recommendation-backend/services"
	"github.com/Mystic-Slice/artist-recommendation-backend/vectorstore"
	"go.uber.org/zap"
)

// Sentinel errors the HTTP layer maps to client-error responses.
var (
	ErrValidation       = errors.New("invalid request")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// Transcriber converts raw media into text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audioPath string) (string, error)
	TranscribeImage(ctx context.Context, imageURL string) (string, error)
}

// Describer expands, generalizes and tags transcriptions.
type Describer interface {
	DescribeAudio(ctx context.Context, transcription string) (string, error)
	DescribeImage(ctx context.Context, caption string) (string, error)
	Generalize(ctx context.Context, description string) (string, error)
	GenerateTags(ctx context.Context, genericDescription string) ([]models.Tag, error)
}

// VectorStore is the durable record collection. The pipeline never mutates
// records except through it.
type VectorStore interface {
	Upsert(ctx context.Context, text string, tags []models.Tag, mediaType models.MediaType, url string) (string, error)
	Search(ctx context.Context, text string, mediaType models.MediaType, tags []models.Tag, limit int) ([]models.SearchResult, error)
}

// QueryRequest is a match request. Exactly one of FilePath/Text must be set;
// FileURL accompanies FilePath as the publicly reachable copy of the file.
type QueryRequest struct {
	FilePath   string
	FileURL    string
	Text       string
	ReturnType models.MediaType
	UserID     string
}

// Pipeline orchestrates the stages over injected collaborators.
type Pipeline struct {
	transcriber Transcriber
	describer   Describer
	store       VectorStore
	logger      *zap.Logger
}

func New(transcriber Transcriber, describer Describer, store VectorStore, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		describer:   describer,
		store:       store,
		logger:      logger,
	}
}

// Ingest runs the full chain for one media file and stores the record.
// filePath is the local copy handed to transcription; publicURL is the
// durable pointer stored with the record.
func (p *Pipeline) Ingest(ctx context.Context, filePath, publicURL string) error {
	mediaType, description, err := p.describeFile(ctx, filePath, publicURL)
	if err != nil {
		return err
	}
	if !mediaType.Returnable() {
		// Text files carry no modality or asset worth storing.
		return fmt.Errorf("%w: cannot store %s media", ErrUnsupportedMedia, mediaType)
	}

	generic, err := p.describer.Generalize(ctx, description)
	if err != nil {
		return err
	}
	tags, err := p.describer.GenerateTags(ctx, generic)
	if err != nil {
		return err
	}

	id, err := p.store.Upsert(ctx, generic, tags, mediaType, publicURL)
	if err != nil {
		return err
	}
	p.logger.Info("media ingested",
		zap.String("record_id", id),
		zap.String("type", string(mediaType)),
		zap.String("url", publicURL))
	return nil
}

// Query resolves a match request and returns ranked results of the requested
// type, capped at the store's default limit.
func (p *Pipeline) Query(ctx context.Context, req QueryRequest) ([]models.SearchResult, error) {
	if !req.ReturnType.Returnable() {
		return nil, fmt.Errorf("%w: return_type must be audio or image", ErrValidation)
	}
	if (req.FilePath == "") == (req.Text == "") {
		return nil, fmt.Errorf("%w: exactly one of file or text is required", ErrValidation)
	}

	var description string
	if req.Text != "" {
		// Raw text is already a description; skip transcription stages.
		description = req.Text
	} else {
		var err error
		if _, description, err = p.describeFile(ctx, req.FilePath, req.FileURL); err != nil {
			return nil, err
		}
	}

	generic, err := p.describer.Generalize(ctx, description)
	if err != nil {
		return nil, err
	}
	tags, err := p.describer.GenerateTags(ctx, generic)
	if err != nil {
		return nil, err
	}

	return p.store.Search(ctx, generic, req.ReturnType, tags, vectorstore.DefaultSearchLimit)
}

// describeFile runs classify, transcribe and describe for one file.
func (p *Pipeline) describeFile(ctx context.Context, filePath, publicURL string) (models.MediaType, string, error) {
	mediaType := services.DetectMediaType(filePath)

	switch mediaType {
	case models.MediaTypeAudio:
		transcription, err := p.transcriber.TranscribeAudio(ctx, filePath)
		if err != nil {
			return mediaType, "", err
		}
		description, err := p.describer.DescribeAudio(ctx, transcription)
		return mediaType, description, err
	case models.MediaTypeImage:
		caption, err := p.transcriber.TranscribeImage(ctx, publicURL)
		if err != nil {
			return mediaType, "", err
		}
		description, err := p.describer.DescribeImage(ctx, caption)
		return mediaType, description, err
	case models.MediaTypeText:
		// Text needs no transcription or description; the content is the
		// description.
		content, err := os.ReadFile(filePath)
		if err != nil {
			return mediaType, "", fmt.Errorf("read text file: %w", err)
		}
		return mediaType, string(content), nil
	default:
		return mediaType, "", ErrUnsupportedMedia
	}
}
