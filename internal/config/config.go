package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig holds the shared secret used to verify access tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// LLMConfig points at an OpenAI-compatible chat completions endpoint.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PipelineConfig tunes the generation pipeline.
type PipelineConfig struct {
	MaxAttempts          int           `mapstructure:"max_attempts"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	ArchiveArtifacts     bool          `mapstructure:"archive_artifacts"`
	RunTimeout           time.Duration `mapstructure:"run_timeout"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// LoadConfig reads configuration from file or environment variables.
// An optional .env file next to the config file is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	// server.address -> SERVER_ADDRESS, llm.api_key -> LLM_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	// --- Read Config File ---
	// A missing file is fine; env vars and defaults may be enough.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("reading config: %w", err)
		}
	}

	// --- Unmarshal Config ---
	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}

	if config.Pipeline.MaxAttempts < 1 {
		config.Pipeline.MaxAttempts = 1
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "program_pipeline")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.max_tokens", 8000)
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("pipeline.max_attempts", 1)
	v.SetDefault("pipeline.retry_initial_interval", "2s")
	v.SetDefault("pipeline.retry_max_interval", "30s")
	v.SetDefault("pipeline.archive_artifacts", true)
	v.SetDefault("pipeline.run_timeout", "5m")
	v.SetDefault("log.mode", "development")
}
