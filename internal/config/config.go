package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	Backend       string        `yaml:"backend"` // gemini | openai | noop
	GeminiKey     string        `yaml:"gemini_key"`
	GeminiURL     string        `yaml:"gemini_url"`
	OpenAIKey     string        `yaml:"openai_key"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	DefaultModel  string        `yaml:"default_model"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	ChapterDelay  time.Duration `yaml:"chapter_delay"` // pacing between chapter drafts
}

type JobsConfig struct {
	Workers      int           `yaml:"workers"`       // max concurrent generations
	Timeout      time.Duration `yaml:"timeout"`       // wall-clock ceiling per job
	PollInterval time.Duration `yaml:"poll_interval"` // pending-job poll cadence
}

type StorageConfig struct {
	Bucket       string        `yaml:"bucket"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl"`
	LocalDir     string        `yaml:"local_dir"` // fallback/dev store
}

type SecurityConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Storage  StorageConfig  `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.AI.MaxRetries <= 0 {
		cfg.AI.MaxRetries = 3
	}
	if cfg.AI.RetryDelay <= 0 {
		cfg.AI.RetryDelay = 5 * time.Second
	}
	if cfg.AI.ChapterDelay <= 0 {
		cfg.AI.ChapterDelay = 5 * time.Second
	}
	if cfg.Jobs.Workers <= 0 {
		cfg.Jobs.Workers = 4
	}
	if cfg.Jobs.Timeout <= 0 {
		cfg.Jobs.Timeout = 60 * time.Minute
	}
	if cfg.Jobs.PollInterval <= 0 {
		cfg.Jobs.PollInterval = 500 * time.Millisecond
	}
	if cfg.Storage.SignedURLTTL <= 0 {
		cfg.Storage.SignedURLTTL = time.Hour
	}
	if cfg.Security.TokenTTL <= 0 {
		cfg.Security.TokenTTL = 24 * time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Security.JWTSecret == "" && !dev {
		return nil, errors.New("security.jwt_secret is required")
	}
	switch cfg.AI.Backend {
	case "gemini":
		if cfg.AI.GeminiKey == "" {
			return nil, errors.New("ai.gemini_key is required for backend=gemini")
		}
	case "openai":
		if cfg.AI.OpenAIKey == "" {
			return nil, errors.New("ai.openai_key is required for backend=openai")
		}
	case "noop":
		// no credentials
	case "":
		if dev {
			cfg.AI.Backend = "noop"
		} else {
			return nil, errors.New("ai.backend is required (gemini|openai|noop)")
		}
	default:
		return nil, fmt.Errorf("unknown ai.backend %q", cfg.AI.Backend)
	}
	if cfg.Storage.Bucket == "" && cfg.Storage.LocalDir == "" {
		if !dev {
			return nil, errors.New("storage.bucket or storage.local_dir is required")
		}
		cfg.Storage.LocalDir = os.TempDir()
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
