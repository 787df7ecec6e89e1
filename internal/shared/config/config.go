package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL   string
	TemplatesFile string

	SnapshotStore string `validate:"oneof=memory redis local s3"`
	RedisURL      string `validate:"required_if=SnapshotStore redis"`
	LocalStoreDir string `validate:"required_if=SnapshotStore local"`
	AWSRegion     string
	S3Bucket      string `validate:"required_if=SnapshotStore s3"`
	S3Prefix      string
	SSEKMSKeyID   string

	LLMProvider  string `validate:"oneof=gemini openai"`
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string

	RelayPath     string        `validate:"startswith=/"`
	PublicBaseURL string        `validate:"omitempty,url"`
	NonceTTL      time.Duration `validate:"gt=0"`
	JWTSecret     string

	OCREngine     string `validate:"oneof=tesseract textlayer"`
	TesseractPath string
	PdftoppmPath  string
	ChromePath    string
}

// productionRequirements are checked only when Env is production.
type productionRequirements struct {
	JWTSecret     string `validate:"required,min=16"`
	PublicBaseURL string `validate:"required,url"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		TemplatesFile:   getEnv("TEMPLATES_FILE", ""),
		SnapshotStore:   normalizeStoreType(getEnv("SNAPSHOT_STORE", "memory")),
		RedisURL:        getEnv("REDIS_URL", ""),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		LLMProvider:     strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		LLMModel:        getEnv("LLM_MODEL", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		RelayPath:       getEnv("RELAY_PATH", "/api/v1/ajax"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		NonceTTL:        getDuration("NONCE_TTL", 12*time.Hour),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		OCREngine:       normalizeOCREngine(getEnv("OCR_ENGINE", "tesseract")),
		TesseractPath:   getEnv("TESSERACT_PATH", "tesseract"),
		PdftoppmPath:    getEnv("PDFTOPPM_PATH", "pdftoppm"),
		ChromePath:      getEnv("CHROME_PATH", ""),
	}
}

// Validate checks value constraints, plus the production-only requirements
// when Env is production.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Env == "production" {
		req := productionRequirements{JWTSecret: c.JWTSecret, PublicBaseURL: c.PublicBaseURL}
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid production config: %w", err)
		}
	}
	return nil
}

// UpstreamAPIKey returns the credential for the configured provider. Only
// the relay wiring calls this.
func (c Config) UpstreamAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// RelayURL is the absolute relay endpoint handed to clients.
func (c Config) RelayURL() string {
	return c.PublicBaseURL + c.RelayPath
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local", "file":
		return "local"
	case "redis":
		return "redis"
	default:
		return "memory"
	}
}

func normalizeOCREngine(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "textlayer", "text":
		return "textlayer"
	default:
		return "tesseract"
	}
}
