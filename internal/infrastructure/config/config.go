package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Log     LogConfig
	Auth    AuthConfig
	Storage StorageConfig
	Model   ModelConfig
	Gemini  GeminiConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir      string
	MaxUploadBytes int64
}

// ModelConfig holds classifier model settings.
// AttentionLayer, AttentionHead and ReferencePatch select which attention
// slice drives the heatmap; the defaults match the trained checkpoint's
// visualization setup and carry no clinical meaning on their own.
type ModelConfig struct {
	Path           string
	InputSize      int
	PatchGridSize  int
	AttentionLayer int
	AttentionHead  int
	ReferencePatch int
	BlendAlpha     float64
}

// GeminiConfig holds explanation service settings. An empty APIKey puts the
// explainer in fallback-only mode; it is not a startup error.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxImageDim int
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SCANNA_SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SCANNA_SERVER_PORT", 8080),
			Mode: getEnv("SCANNA_SERVER_MODE", "debug"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("SCANNA_MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("SCANNA_MONGO_DATABASE", "scanna"),
		},
		Redis: RedisConfig{
			Host:     getEnv("SCANNA_REDIS_HOST", "localhost"),
			Port:     getEnvInt("SCANNA_REDIS_PORT", 6379),
			Password: getEnv("SCANNA_REDIS_PASSWORD", ""),
			DB:       getEnvInt("SCANNA_REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:  getEnv("SCANNA_LOG_LEVEL", "info"),
			Format: getEnv("SCANNA_LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			Secret:      getEnv("SCANNA_JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvInt("SCANNA_JWT_EXPIRY_MINUTES", 30)) * time.Minute,
		},
		Storage: StorageConfig{
			UploadDir:      getEnv("SCANNA_UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: int64(getEnvInt("SCANNA_MAX_UPLOAD_BYTES", 10<<20)),
		},
		Model: ModelConfig{
			Path:           getEnv("SCANNA_MODEL_PATH", "./models/anemia_vit.onnx"),
			InputSize:      getEnvInt("SCANNA_MODEL_INPUT_SIZE", 224),
			PatchGridSize:  getEnvInt("SCANNA_MODEL_PATCH_GRID", 14),
			AttentionLayer: getEnvInt("SCANNA_ATTENTION_LAYER", 3),
			AttentionHead:  getEnvInt("SCANNA_ATTENTION_HEAD", 0),
			ReferencePatch: getEnvInt("SCANNA_REFERENCE_PATCH", 90),
			BlendAlpha:     getEnvFloat("SCANNA_BLEND_ALPHA", 0.6),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("SCANNA_GEMINI_API_KEY", ""),
			Model:       getEnv("SCANNA_GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:     getEnv("SCANNA_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:     time.Duration(getEnvInt("SCANNA_GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
			MaxImageDim: getEnvInt("SCANNA_GEMINI_MAX_IMAGE_DIM", 1024),
		},
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("SCANNA_JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
