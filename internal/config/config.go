// Package config loads the server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-me"

// Recognizer providers
const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// User stores
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds every setting of the server
type Config struct {
	Port   string
	AppEnv string

	MongoURI      string
	MongoDatabase string
	UserStore     string

	JWTSecret    string
	JWTAccessTTL time.Duration

	MaxUploadBytes    int64
	UploadFolder      string
	AllowedExtensions []string
	DefaultLanguage   string
	Calibration       time.Duration
	FFmpegPath        string

	STTProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	MockTranscript string
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads .env (when present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "speech_to_text")
	v.SetDefault("USER_STORE", StoreMongo)
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	v.SetDefault("UPLOAD_FOLDER", "uploads")
	v.SetDefault("ALLOWED_EXTENSIONS", "wav,mp3,m4a,flac,aac,webm")
	v.SetDefault("DEFAULT_LANGUAGE", "en-US")
	v.SetDefault("CALIBRATION_WINDOW", "500ms")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("STT_PROVIDER", ProviderGoogle)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("MOCK_TRANSCRIPT", "")
	return v
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		AppEnv:            v.GetString("APP_ENV"),
		MongoURI:          v.GetString("MONGODB_URI"),
		MongoDatabase:     v.GetString("MONGODB_DATABASE"),
		UserStore:         strings.ToLower(v.GetString("USER_STORE")),
		JWTSecret:         v.GetString("JWT_SECRET_KEY"),
		JWTAccessTTL:      v.GetDuration("JWT_ACCESS_TTL"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
		UploadFolder:      v.GetString("UPLOAD_FOLDER"),
		AllowedExtensions: splitList(v.GetString("ALLOWED_EXTENSIONS")),
		DefaultLanguage:   v.GetString("DEFAULT_LANGUAGE"),
		Calibration:       v.GetDuration("CALIBRATION_WINDOW"),
		FFmpegPath:        v.GetString("FFMPEG_PATH"),
		STTProvider:       strings.ToLower(v.GetString("STT_PROVIDER")),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		MockTranscript:    v.GetString("MOCK_TRANSCRIPT"),
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("PORT cannot be empty")
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET_KEY is required outside development")
	case c.JWTAccessTTL <= 0:
		return fmt.Errorf("JWT_ACCESS_TTL must be positive, got %s", c.JWTAccessTTL)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	case c.UploadFolder == "":
		return errors.New("UPLOAD_FOLDER cannot be empty")
	case len(c.AllowedExtensions) == 0:
		return errors.New("ALLOWED_EXTENSIONS cannot be empty")
	case c.Calibration < 0:
		return fmt.Errorf("CALIBRATION_WINDOW cannot be negative, got %s", c.Calibration)
	}

	switch c.UserStore {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required for the mongo store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.UserStore)
	}

	switch c.STTProvider {
	case ProviderGoogle, ProviderMock:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.STTProvider)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
