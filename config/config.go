package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	STORE_BACKEND string
	LOG_LEVEL     string
	LOG_FORMAT    string

	OWNER_EMAIL    string
	OWNER_PASSWORD string
	OWNER_NAME     string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

// Pipeline holds the settings of the metadata pipeline collaborators.
type Pipeline struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`

	ElevenLabsKey     string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL"`
	ElevenLabsVoice   string `env:"ELEVENLABS_VOICE_ID"`
	ElevenLabsModel   string `env:"ELEVENLABS_MODEL" envDefault:"eleven_monolingual_v1"`

	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryBaseURL      string `env:"CLOUDINARY_BASE_URL"`

	// Blob storage for review audio: "minio" or "s3"
	BlobBackend       string `env:"BLOB_BACKEND" envDefault:"minio"`
	BlobBucket        string `env:"BLOB_BUCKET" envDefault:"portfolio-audio"`
	BlobPublicBaseURL string `env:"BLOB_PUBLIC_BASE_URL"`
	BlobEndpoint      string `env:"BLOB_ENDPOINT" envDefault:"localhost:9000"`
	BlobRegion        string `env:"BLOB_REGION" envDefault:"us-east-1"`
	BlobAccessKey     string `env:"BLOB_ACCESS_KEY"`
	BlobSecretKey     string `env:"BLOB_SECRET_KEY"`
	BlobUseSSL        bool   `env:"BLOB_USE_SSL" envDefault:"false"`
	BlobPathStyle     bool   `env:"BLOB_PATH_STYLE" envDefault:"true"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	LockPrefix    string        `env:"PIPELINE_LOCK_PREFIX" envDefault:"portfolio:lock"`
	LockTTL       time.Duration `env:"PIPELINE_LOCK_TTL" envDefault:"5m"`

	IngestTimeout     time.Duration `env:"PIPELINE_INGEST_TIMEOUT" envDefault:"60s"`
	GenerateTimeout   time.Duration `env:"PIPELINE_GENERATE_TIMEOUT" envDefault:"90s"`
	SynthesizeTimeout time.Duration `env:"PIPELINE_SYNTHESIZE_TIMEOUT" envDefault:"60s"`
	StoreTimeout      time.Duration `env:"PIPELINE_STORE_TIMEOUT" envDefault:"30s"`
	PersistTimeout    time.Duration `env:"PIPELINE_PERSIST_TIMEOUT" envDefault:"10s"`

	GenerateAttempts int           `env:"PIPELINE_GENERATE_ATTEMPTS" envDefault:"1"`
	IngestAttempts   int           `env:"PIPELINE_INGEST_ATTEMPTS" envDefault:"1"`
	RetryDelay       time.Duration `env:"PIPELINE_RETRY_DELAY" envDefault:"1s"`
	RetryMaxDelay    time.Duration `env:"PIPELINE_RETRY_MAX_DELAY" envDefault:"10s"`
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	STORE_BACKEND = strings.ToLower(getEnv("STORE_BACKEND", "postgres"))
	if STORE_BACKEND == "postgres" {
		DB_URL = mustEnv("DB_URL")
	}
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "json")

	OWNER_EMAIL = strings.ToLower(strings.TrimSpace(mustEnv("OWNER_EMAIL")))
	OWNER_PASSWORD = getEnv("OWNER_PASSWORD", "")
	OWNER_NAME = getEnv("OWNER_NAME", "")

	// Google sign-in is optional
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	if GOOGLE_CLIENT_ID != "" {
		GOOGLE_CLIENT_SECRET = mustEnv("GOOGLE_CLIENT_SECRET")
		GOOGLE_REDIRECT_URL = mustEnv("GOOGLE_REDIRECT_URL")
	}
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != ""
}

// LoadPipeline parses the collaborator settings from the environment.
func LoadPipeline() (*Pipeline, error) {
	cfg := &Pipeline{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline config: %w", err)
	}
	cfg.BlobBackend = strings.ToLower(strings.TrimSpace(cfg.BlobBackend))
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	if cfg.GenerateAttempts < 1 {
		cfg.GenerateAttempts = 1
	}
	if cfg.IngestAttempts < 1 {
		cfg.IngestAttempts = 1
	}
	return cfg, nil
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
