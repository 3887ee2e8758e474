package config

import (
	"fmt"
	"strings"
)

const (
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderPlaceholder = "placeholder"
	ProviderNone        = "none"

	defaultGeminiModel         = "gemini-2.5-flash"
	defaultOpenAIModel         = "gpt-4o-mini"
	defaultGeminiImageModel    = "imagen-3.0-generate-002"
	defaultOpenAIImageModel    = "dall-e-3"
	defaultMaxUploadBytes      = 10 << 20
	defaultModelTimeoutSeconds = 120
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	MaxUploadBytes  int64

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioRegion     string
	MinioUseSSL     bool

	DatabaseURL string

	LLMProvider         string
	LLMModel            string
	GeminiAPIKey        string
	OpenAIAPIKey        string
	ModelTimeoutSeconds int
	ModelBreakerEnabled bool

	ImageGenProvider string
	ImageGenModel    string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from .env files, the optional CONFIG_FILE, and environment
// variables, in increasing order of precedence.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	fc, err := loadYAMLFile(getEnv("CONFIG_FILE", ""))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            getEnv("PORT", orDefault(fc.Server.Port, "8080")),
		Env:             normalizeEnv(getEnv("ENV", orDefault(fc.Server.Env, "dev"))),
		LogLevel:        getEnv("LOG_LEVEL", orDefault(fc.Server.LogLevel, "info")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", orDefault(strings.Join(fc.Server.CORSAllowOrigin, ","), "http://localhost:5173"))),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", orDefaultInt64(fc.Server.MaxUploadBytes, defaultMaxUploadBytes)),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", fc.Storage.Type)),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", orDefault(fc.Storage.LocalDir, "./uploads")),
		AWSRegion:       getEnv("AWS_REGION", fc.Storage.S3.Region),
		S3Bucket:        getEnv("S3_BUCKET", fc.Storage.S3.Bucket),
		S3Prefix:        getEnv("S3_PREFIX", fc.Storage.S3.Prefix),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", fc.Storage.S3.KMSKeyID),
		MinioEndpoint:   getEnv("MINIO_ENDPOINT", fc.Storage.Minio.Endpoint),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", fc.Storage.Minio.AccessKey),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", fc.Storage.Minio.SecretKey),
		MinioBucket:     getEnv("MINIO_BUCKET", orDefault(fc.Storage.Minio.Bucket, "a11y-uploads")),
		MinioRegion:     getEnv("MINIO_REGION", fc.Storage.Minio.Region),
		MinioUseSSL:     getEnvBool("MINIO_USE_SSL", fc.Storage.Minio.UseSSL),

		DatabaseURL: getEnv("DATABASE_URL", fc.Database.URL),

		LLMProvider:         normalizeProvider(getEnv("LLM_PROVIDER", orDefault(fc.Model.Provider, ProviderGemini)), ProviderGemini),
		LLMModel:            getEnv("LLM_MODEL", fc.Model.Name),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		ModelTimeoutSeconds: getEnvInt("MODEL_TIMEOUT_SECONDS", orDefaultInt(fc.Model.TimeoutSeconds, defaultModelTimeoutSeconds)),
		ModelBreakerEnabled: getEnvBool("MODEL_BREAKER_ENABLED", fc.Model.BreakerEnabled),

		ImageGenProvider: normalizeProvider(getEnv("IMAGEGEN_PROVIDER", orDefault(fc.ImageGen.Provider, ProviderNone)), ProviderNone),
		ImageGenModel:    getEnv("IMAGEGEN_MODEL", fc.ImageGen.Model),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", orDefaultFloat(fc.RateLimit.RPS, 2)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", orDefaultInt(fc.RateLimit.Burst, 10)),
	}

	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModelFor(cfg.LLMProvider)
	}
	if cfg.ImageGenModel == "" {
		cfg.ImageGenModel = defaultImageModelFor(cfg.ImageGenProvider)
	}

	return cfg, nil
}

// Validate reports missing credentials for the selected providers.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	}
	switch c.ObjectStoreType {
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
	case "minio":
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("OBJECT_STORE=minio requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	}
	return nil
}

// IsDevLike reports whether the environment allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}

func normalizeProvider(raw, def string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ProviderGemini, "google":
		return ProviderGemini
	case ProviderOpenAI:
		return ProviderOpenAI
	case ProviderPlaceholder:
		return ProviderPlaceholder
	case ProviderNone, "off", "disabled":
		return ProviderNone
	default:
		return def
	}
}

func defaultModelFor(provider string) string {
	if provider == ProviderOpenAI {
		return defaultOpenAIModel
	}
	return defaultGeminiModel
}

func defaultImageModelFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return defaultOpenAIImageModel
	case ProviderGemini:
		return defaultGeminiImageModel
	default:
		return ""
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultInt64(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
