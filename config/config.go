package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir  string `json:"log_dir"`
	TempDir string `json:"temp_dir"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// External tool paths
	Tools ToolsConfig `json:"tools"`

	// Transcript acquisition settings
	Transcript TranscriptConfig `json:"transcript"`

	// Summarization provider settings
	Summary SummaryConfig `json:"summary"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

type ToolsConfig struct {
	YTDLPPath   string `json:"ytdlp_path"`
	FFmpegPath  string `json:"ffmpeg_path"`
	FFprobePath string `json:"ffprobe_path"`
}

// ProviderConfig identifies one OpenAI-compatible speech-to-text endpoint.
type ProviderConfig struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type TranscriptConfig struct {
	DefaultLanguage string `json:"default_language"`

	// Audio thresholds, in megabytes. CompressAboveMB triggers an ffmpeg
	// re-encode; MaxUploadMB is the hard provider limit that forces chunking.
	CompressAboveMB float64       `json:"compress_above_mb"`
	MaxUploadMB     float64       `json:"max_upload_mb"`
	ChunkDuration   time.Duration `json:"chunk_duration"`

	TranscribeTimeout time.Duration  `json:"transcribe_timeout"`
	Primary           ProviderConfig `json:"primary"`
	Fallback          ProviderConfig `json:"fallback"`
}

type SummaryConfig struct {
	BaseURL       string        `json:"base_url"`
	APIKey        string        `json:"api_key"`
	Model         string        `json:"model"`
	MaxInputChars int           `json:"max_input_chars"`
	Temperature   float64       `json:"temperature"`
	MaxTokens     int           `json:"max_tokens"`
	Timeout       time.Duration `json:"timeout"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments use environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:  getEnv("LOG_DIR", "./logs"),
		TempDir: getEnv("TEMP_DIR", filepath.Join(os.TempDir(), "yt-summarizer")),

		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "DELETE", "OPTIONS"},
			),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "./data/summaries.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		Tools: ToolsConfig{
			YTDLPPath:   getEnv("YTDLP_PATH", "yt-dlp"),
			FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),
		},

		Transcript: TranscriptConfig{
			DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "es"),
			CompressAboveMB:   getEnvAsFloat("AUDIO_COMPRESS_ABOVE_MB", 24),
			MaxUploadMB:       getEnvAsFloat("AUDIO_MAX_UPLOAD_MB", 25),
			ChunkDuration:     getEnvAsDuration("AUDIO_CHUNK_DURATION", 600*time.Second),
			TranscribeTimeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 5*time.Minute),
			Primary: ProviderConfig{
				Name:    getEnv("STT_PRIMARY_NAME", "openrouter"),
				BaseURL: getEnv("STT_PRIMARY_BASE_URL", "https://openrouter.ai/api/v1"),
				APIKey:  getEnv("OPENROUTER_API_KEY", ""),
				Model:   getEnv("STT_PRIMARY_MODEL", "openai/whisper-large-v3"),
			},
			Fallback: ProviderConfig{
				Name:    getEnv("STT_FALLBACK_NAME", "openai"),
				BaseURL: getEnv("STT_FALLBACK_BASE_URL", "https://api.openai.com/v1"),
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("STT_FALLBACK_MODEL", "whisper-1"),
			},
		},

		Summary: SummaryConfig{
			BaseURL:       getEnv("SUMMARY_BASE_URL", "https://openrouter.ai/api/v1"),
			APIKey:        getEnv("OPENROUTER_API_KEY", ""),
			Model:         getEnv("SUMMARY_MODEL", "openai/gpt-4o-mini"),
			MaxInputChars: getEnvAsInt("SUMMARY_MAX_INPUT_CHARS", 15000),
			Temperature:   getEnvAsFloat("SUMMARY_TEMPERATURE", 0.7),
			MaxTokens:     getEnvAsInt("SUMMARY_MAX_TOKENS", 2000),
			Timeout:       getEnvAsDuration("SUMMARY_TIMEOUT", 2*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}
	return validateThresholds(c)
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.TempDir, "temp directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.Transcript.TranscribeTimeout <= 0 {
		return errors.New("transcribe timeout must be positive")
	}
	if c.Summary.Timeout <= 0 {
		return errors.New("summary timeout must be positive")
	}
	return nil
}

func validateThresholds(c *Config) error {
	if c.Transcript.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.Transcript.CompressAboveMB > c.Transcript.MaxUploadMB {
		return errors.New("compress threshold must not exceed max upload size")
	}
	if c.Transcript.ChunkDuration <= 0 {
		return errors.New("chunk duration must be positive")
	}
	if c.Summary.MaxInputChars <= 0 {
		return errors.New("summary max input chars must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
