// Package vectorstore is the gateway to the Qdrant collection that owns all
// MediaRecords. The orchestrator only ever touches records through it.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mystic-Slice/artist-recommendation-backend/config"
	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"github.com/Mystic-Slice/artist-recommendation-backend/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSearchLimit caps search results when the caller passes no limit.
const DefaultSearchLimit = 5

// qdrantStatus accepts both `status: "ok"` and `status: {"error": "..."}`.
type qdrantStatus struct {
	State string
	Error string
}

func (s *qdrantStatus) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.State = strings.ToLower(v)
		return nil
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Error != "" {
		s.State = "error"
		s.Error = obj.Error
	}
	return nil
}

type qdrantEnvelope[T any] struct {
	Status qdrantStatus `json:"status"`
	Result T            `json:"result"`
}

type qdrantPoint struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload map[string]any  `json:"payload"`
}

type fieldCondition struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value string `json:"value"`
}

// QdrantStore embeds text and reads/writes media points over Qdrant's HTTP
// API.
type QdrantStore struct {
	baseURL    string
	apiKey     string
	collection string
	embedder   services.Embedder
	client     *http.Client
	logger     *zap.Logger
}

func NewQdrantStore(cfg config.QdrantConfig, embedder services.Embedder, logger *zap.Logger) *QdrantStore {
	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}
	return &QdrantStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// EnsureCollection creates the collection if it does not exist. Safe to call
// on every startup; an existing collection is success.
func (qs *QdrantStore) EnsureCollection(ctx context.Context) error {
	var probe qdrantEnvelope[json.RawMessage]
	status, err := qs.do(ctx, http.MethodGet, qs.collectionPath(""), nil, &probe)
	if err != nil {
		return err
	}
	if status >= 200 && status < 300 {
		qs.logger.Info("collection already exists", zap.String("collection", qs.collection))
		return nil
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     services.EmbeddingDimension,
			"distance": "Cosine",
		},
	}
	var created qdrantEnvelope[json.RawMessage]
	status, err = qs.do(ctx, http.MethodPut, qs.collectionPath(""), req, &created)
	if err != nil {
		return err
	}
	if status >= 200 && status < 300 {
		qs.logger.Info("created collection", zap.String("collection", qs.collection))
		return nil
	}
	if strings.Contains(strings.ToLower(created.Status.Error), "already exists") {
		return nil
	}
	if created.Status.Error != "" {
		return fmt.Errorf("qdrant create collection: %s", created.Status.Error)
	}
	return fmt.Errorf("qdrant create collection: http %d", status)
}

// Upsert embeds text, assigns a fresh id and writes one point. Append-only:
// duplicate text or url is allowed. The embedding is computed from the exact
// text stored alongside it, so the two can never drift.
func (qs *QdrantStore) Upsert(ctx context.Context, text string, tags []models.Tag, mediaType models.MediaType, sourceURL string) (string, error) {
	if text == "" {
		return "", errors.New("qdrant upsert: empty text")
	}
	if len(tags) == 0 {
		return "", errors.New("qdrant upsert: empty tag set")
	}
	if !mediaType.Returnable() {
		return "", fmt.Errorf("qdrant upsert: type %q is not storable", mediaType)
	}

	vector, err := qs.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	req := map[string]any{
		"points": []map[string]any{{
			"id":     id,
			"vector": vector,
			"payload": map[string]any{
				"text": text,
				"tags": models.TagStrings(tags),
				"type": string(mediaType),
				"url":  sourceURL,
			},
		}},
	}

	var resp qdrantEnvelope[json.RawMessage]
	status, err := qs.do(ctx, http.MethodPut, qs.collectionPath("/points"), req, &resp)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		if resp.Status.Error != "" {
			return "", fmt.Errorf("qdrant upsert: %s", resp.Status.Error)
		}
		return "", fmt.Errorf("qdrant upsert: http %d", status)
	}

	qs.logger.Info("record stored",
		zap.String("id", id),
		zap.String("type", string(mediaType)))
	return id, nil
}

// Search embeds the query text and runs nearest-neighbor search. The
// requested type is a hard filter; tag overlap only boosts ranking, so a
// record with no matching tag can still be returned.
func (qs *QdrantStore) Search(ctx context.Context, text string, mediaType models.MediaType, tags []models.Tag, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := qs.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	should := make([]fieldCondition, 0, len(tags))
	for _, tag := range tags {
		should = append(should, fieldCondition{Key: "tags", Match: matchValue{Value: string(tag)}})
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"filter": map[string]any{
			"must": []fieldCondition{
				{Key: "type", Match: matchValue{Value: string(mediaType)}},
			},
			"should": should,
		},
	}

	var resp qdrantEnvelope[[]qdrantPoint]
	status, err := qs.do(ctx, http.MethodPost, qs.collectionPath("/points/search"), req, &resp)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		if resp.Status.Error != "" {
			return nil, fmt.Errorf("qdrant search: %s", resp.Status.Error)
		}
		return nil, fmt.Errorf("qdrant search: http %d", status)
	}

	results := make([]models.SearchResult, 0, len(resp.Result))
	for _, point := range resp.Result {
		record := models.MediaRecord{
			ID:   parsePointID(point.ID),
			Text: stringFromPayload(point.Payload, "text"),
			Type: models.MediaType(stringFromPayload(point.Payload, "type")),
			URL:  stringFromPayload(point.Payload, "url"),
		}
		if rawTags, ok := point.Payload["tags"].([]any); ok {
			for _, rawTag := range rawTags {
				if s, ok := rawTag.(string); ok {
					record.Tags = append(record.Tags, models.Tag(s))
				}
			}
		}
		results = append(results, models.SearchResult{Record: record, Score: point.Score})
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (qs *QdrantStore) collectionPath(suffix string) string {
	return fmt.Sprintf("/collections/%s%s", url.PathEscape(qs.collection), suffix)
}

// do issues one JSON request and decodes the envelope. A non-2xx status is
// not an error here; callers inspect the status and envelope together.
func (qs *QdrantStore) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, qs.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if qs.apiKey != "" {
		req.Header.Set("api-key", qs.apiKey)
	}

	resp, err := qs.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("qdrant response: %w", err)
	}
	if out != nil {
		// Best effort: error bodies may not match the envelope shape.
		_ = json.Unmarshal(data, out)
	}
	return resp.StatusCode, nil
}

func parsePointID(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func stringFromPayload(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}
