package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Storage    StorageConfig    `koanf:"storage"`
	Database   DatabaseConfig   `koanf:"database"`
	Assets     AssetsConfig     `koanf:"assets"`
	Supabase   SupabaseConfig   `koanf:"supabase"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	ElevenLabs ElevenLabsConfig `koanf:"elevenlabs"`
	Auth       AuthConfig       `koanf:"auth"`
}

type ServerConfig struct {
	Port        string `koanf:"port"`
	Environment string `koanf:"environment"`
	BaseURL     string `koanf:"base_url"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
	// File enables rotated file output in addition to stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// StorageConfig selects the durable key-value backend.
type StorageConfig struct {
	Driver        string `koanf:"driver"` // memory, sqlite, redis, postgres
	SQLitePath    string `koanf:"sqlite_path"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// DatabaseConfig is the Postgres connection used by the postgres storage driver.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type AssetsConfig struct {
	Driver         string        `koanf:"driver"` // local, supabase, minio
	LocalDir       string        `koanf:"local_dir"`
	MinioEndpoint  string        `koanf:"minio_endpoint"`
	MinioAccessKey string        `koanf:"minio_access_key"`
	MinioSecretKey string        `koanf:"minio_secret_key"`
	MinioBucket    string        `koanf:"minio_bucket"`
	MinioUseSSL    bool          `koanf:"minio_use_ssl"`
	MinioURLExpiry time.Duration `koanf:"minio_url_expiry"`
}

type SupabaseConfig struct {
	URL            string `koanf:"url"`
	PublishableKey string `koanf:"publishable_key"`
	JWTSecret      string `koanf:"jwt_secret"`
	StorageBucket  string `koanf:"storage_bucket"`
}

type OpenAIConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

type ElevenLabsConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type AuthConfig struct {
	Provider  string        `koanf:"provider"` // local or supabase
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = "development"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:" + cfg.Server.Port
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 28
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "scribe.db"
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
	if cfg.Storage.RedisPrefix == "" {
		cfg.Storage.RedisPrefix = "scribe:"
	}

	if cfg.Assets.Driver == "" {
		cfg.Assets.Driver = "local"
	}
	if cfg.Assets.LocalDir == "" {
		cfg.Assets.LocalDir = "assets"
	}
	if cfg.Assets.MinioBucket == "" {
		cfg.Assets.MinioBucket = "narrations"
	}
	if cfg.Assets.MinioURLExpiry == 0 {
		cfg.Assets.MinioURLExpiry = 7 * 24 * time.Hour
	}

	if cfg.Supabase.StorageBucket == "" {
		cfg.Supabase.StorageBucket = "narrations"
	}

	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 60 * time.Second
	}

	if cfg.ElevenLabs.BaseURL == "" {
		cfg.ElevenLabs.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.ElevenLabs.Timeout == 0 {
		cfg.ElevenLabs.Timeout = 120 * time.Second
	}

	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "local"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
}

// Validate checks driver names and the settings each selected driver needs.
// Provider API keys are optional here: operations that need a missing key
// fail with a validation error when invoked.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("STORAGE_REDIS_ADDR is required for the redis storage driver")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Assets.Driver {
	case "local":
	case "supabase":
		if err := c.requireSupabase("supabase asset store"); err != nil {
			return err
		}
	case "minio":
		if c.Assets.MinioEndpoint == "" {
			return fmt.Errorf("ASSETS_MINIO_ENDPOINT is required for the minio asset store")
		}
		if c.Assets.MinioAccessKey == "" || c.Assets.MinioSecretKey == "" {
			return fmt.Errorf("ASSETS_MINIO_ACCESS_KEY and ASSETS_MINIO_SECRET_KEY are required for the minio asset store")
		}
	default:
		return fmt.Errorf("unknown assets driver %q", c.Assets.Driver)
	}

	switch c.Auth.Provider {
	case "local":
	case "supabase":
		if err := c.requireSupabase("supabase auth provider"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (c *Config) requireSupabase(component string) error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required for the %s", component)
	}
	if c.Supabase.PublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required for the %s", component)
	}
	return nil
}

// TokenSecret is the HMAC secret used to sign and verify bearer tokens.
func (c *Config) TokenSecret() string {
	if c.Auth.Provider == "supabase" {
		return c.Supabase.JWTSecret
	}
	return c.Auth.JWTSecret
}
