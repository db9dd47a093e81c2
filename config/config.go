// Package config loads deployment settings from .env and the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the process needs, loaded once at startup and
// passed into constructors. Business code never reads viper directly.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Qdrant      QdrantConfig
	OpenAI      OpenAIConfig
	Kindo       KindoConfig
	HuggingFace HuggingFaceConfig
	Storage     StorageConfig
	WorkerCount int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	// PublicBaseURL is the externally reachable base used to build media
	// URLs, e.g. "http://localhost:8080".
	PublicBaseURL string
}

// DatabaseConfig holds postgres connection settings for the accounts store.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// RedisConfig holds ingest queue connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QdrantConfig holds vector store settings.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// OpenAIConfig holds embedding service settings.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// KindoConfig holds completion service settings.
type KindoConfig struct {
	APIKey   string
	Endpoint string
	Model    string
}

// HuggingFaceConfig holds transcription service settings.
type HuggingFaceConfig struct {
	APIKey          string
	WhisperEndpoint string
	RouterEndpoint  string
	VisionModel     string
}

// StorageConfig selects the blob store backend.
type StorageConfig struct {
	// Backend is "local" or "minio".
	Backend    string
	UploadsDir string
	Minio      MinioConfig
}

// MinioConfig holds object storage credentials.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env (if present) plus the environment and applies defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	// A missing .env is fine; deployments may rely on the environment alone.
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QDRANT_URL", "http://localhost:6333")
	v.SetDefault("QDRANT_INDEX_NAME", "media")
	v.SetDefault("EMBEDDING_MODEL", "text-embedding-ada-002")
	v.SetDefault("KINDO_API_ENDPOINT", "https://llm.kindo.ai/v1")
	v.SetDefault("KINDO_MODEL", "azure/gpt-4-turbo")
	v.SetDefault("HUGGINGFACE_ROUTER_ENDPOINT", "https://router.huggingface.co/v1")
	v.SetDefault("VISION_MODEL", "meta-llama/Llama-3.2-11B-Vision-Instruct")
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("WORKER_COUNT", 4)

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetInt("SERVER_PORT"),
			PublicBaseURL: v.GetString("PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Qdrant: QdrantConfig{
			URL:        v.GetString("QDRANT_URL"),
			APIKey:     v.GetString("QDRANT_KEY"),
			Collection: v.GetString("QDRANT_INDEX_NAME"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("OPENAI_API_KEY"),
			Model:  v.GetString("EMBEDDING_MODEL"),
		},
		Kindo: KindoConfig{
			APIKey:   v.GetString("KINDO_API_KEY"),
			Endpoint: v.GetString("KINDO_API_ENDPOINT"),
			Model:    v.GetString("KINDO_MODEL"),
		},
		HuggingFace: HuggingFaceConfig{
			APIKey:          v.GetString("HUGGINGFACE_API_KEY"),
			WhisperEndpoint: v.GetString("WHISPER_API_ENDPOINT"),
			RouterEndpoint:  v.GetString("HUGGINGFACE_ROUTER_ENDPOINT"),
			VisionModel:     v.GetString("VISION_MODEL"),
		},
		Storage: StorageConfig{
			Backend:    v.GetString("STORAGE_BACKEND"),
			UploadsDir: v.GetString("UPLOADS_DIR"),
			Minio: MinioConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
		WorkerCount: v.GetInt("WORKER_COUNT"),
	}

	if cfg.Storage.Backend != "local" && cfg.Storage.Backend != "minio" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: must be local or minio", cfg.Storage.Backend)
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	return cfg, nil
}
