package model

import "time"

// Config is the complete vidfact configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	HTTP          HTTPConfig          `yaml:"http" mapstructure:"http"`
	Transcription TranscriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	Extraction    ExtractionConfig    `yaml:"extraction" mapstructure:"extraction"`
	Verification  VerificationConfig  `yaml:"verification" mapstructure:"verification"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	RateLimiting  RateLimitingConfig  `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency" mapstructure:"concurrency"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP service boundary
type ServerConfig struct {
	Host          string   `yaml:"host" mapstructure:"host"`
	Port          int      `yaml:"port" mapstructure:"port"`
	CORSOrigins   []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxAudioBytes int64    `yaml:"max_audio_bytes" mapstructure:"max_audio_bytes"`
}

// HTTPConfig configures outbound HTTP behavior (source validation)
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// TranscriptionConfig configures the speech-to-text provider
type TranscriptionConfig struct {
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ExtractionConfig configures claim extraction.
// Mode selects the tier: "heuristic" (no network calls) or "llm"
// (provider-backed, falls back to heuristic on failure).
type ExtractionConfig struct {
	Mode        string        `yaml:"mode" mapstructure:"mode"`
	Model       string        `yaml:"model" mapstructure:"model"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// VerificationConfig configures the fact-check provider
type VerificationConfig struct {
	Model           string        `yaml:"model" mapstructure:"model"`
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens       int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ValidateSources bool          `yaml:"validate_sources" mapstructure:"validate_sources"`
}

// CacheConfig configures the verdict cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig limits outbound provider calls
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool and source validation
type ConcurrencyConfig struct {
	Workers           int `yaml:"workers" mapstructure:"workers"`
	ValidationWorkers int `yaml:"validation_workers" mapstructure:"validation_workers"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			CORSOrigins:   []string{"*"},
			MaxAudioBytes: 10 << 20, // 10 MB
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "vidfact/0.1 (+https://github.com/vidfact/vidfact)",
		},
		Transcription: TranscriptionConfig{
			Model:    "whisper-1",
			Language: "en",
			Timeout:  60 * time.Second,
		},
		Extraction: ExtractionConfig{
			Mode:        "heuristic",
			Model:       "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: 0.1,
			Timeout:     30 * time.Second,
		},
		Verification: VerificationConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 500,
			Timeout:   30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			ValidationWorkers: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
