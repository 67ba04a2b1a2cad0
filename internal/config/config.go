package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for robolearn
type Config struct {
	Env      string
	LogLevel slog.Level
	Server   ServerConfig
	Gemini   GeminiConfig
	Session  SessionConfig
	Content  ContentConfig
	Progress ProgressConfig
	Cleanup  CleanupConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// GeminiConfig holds generative model configuration. An empty APIKey
// disables the AI features without failing startup.
type GeminiConfig struct {
	APIKey      string
	DesignModel string
	ReviewModel string
	Temperature float32
	Timeout     time.Duration
}

// SessionConfig holds visitor session configuration
type SessionConfig struct {
	TTL   time.Duration
	Redis RedisConfig
}

// RedisConfig holds Redis configuration. An empty Address selects the
// in-memory session store.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// ContentConfig holds content catalog configuration
type ContentConfig struct {
	Dir string // empty means embedded defaults only
}

// ProgressConfig holds learning progress configuration
type ProgressConfig struct {
	EmptyStageComplete bool
}

// CleanupConfig holds cleanup worker configuration
type CleanupConfig struct {
	Interval time.Duration
}

// Load loads configuration from an optional .env file, an optional
// config/config.yaml and environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	level, err := parseLevel(v.GetString("log_level"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:      v.GetString("env"),
		LogLevel: level,
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
		},
		Gemini: GeminiConfig{
			APIKey:      strings.TrimSpace(v.GetString("gemini.api_key")),
			DesignModel: v.GetString("gemini.design_model"),
			ReviewModel: v.GetString("gemini.review_model"),
			Temperature: float32(v.GetFloat64("gemini.temperature")),
			Timeout:     v.GetDuration("gemini.timeout"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
			Redis: RedisConfig{
				Address:  v.GetString("session.redis.address"),
				Password: v.GetString("session.redis.password"),
				DB:       v.GetInt("session.redis.db"),
			},
		},
		Content: ContentConfig{
			Dir: v.GetString("content.dir"),
		},
		Progress: ProgressConfig{
			EmptyStageComplete: v.GetBool("progress.empty_stage_complete"),
		},
		Cleanup: CleanupConfig{
			Interval: v.GetDuration("cleanup.interval"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "90s")
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("gemini.design_model", "gemini-2.5-pro")
	v.SetDefault("gemini.review_model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.timeout", "0s")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("progress.empty_stage_complete", false)
	v.SetDefault("cleanup.interval", "5m")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.request_timeout", "SERVER_REQUEST_TIMEOUT")
	_ = v.BindEnv("server.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("gemini.design_model", "GEMINI_DESIGN_MODEL")
	_ = v.BindEnv("gemini.review_model", "GEMINI_REVIEW_MODEL")
	_ = v.BindEnv("gemini.temperature", "GEMINI_TEMPERATURE")
	_ = v.BindEnv("gemini.timeout", "GEMINI_TIMEOUT")
	_ = v.BindEnv("session.ttl", "SESSION_TTL")
	_ = v.BindEnv("session.redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("session.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("session.redis.db", "REDIS_DB")
	_ = v.BindEnv("content.dir", "CONTENT_DIR")
	_ = v.BindEnv("progress.empty_stage_complete", "PROGRESS_EMPTY_STAGE_COMPLETE")
	_ = v.BindEnv("cleanup.interval", "CLEANUP_INTERVAL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.Session.TTL)
	}

	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini temperature must be within [0, 2], got %v", c.Gemini.Temperature)
	}

	if c.Gemini.Timeout < 0 {
		return fmt.Errorf("gemini timeout must not be negative, got %s", c.Gemini.Timeout)
	}

	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
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
