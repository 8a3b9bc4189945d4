package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	// Timezone is the IANA zone schedule times are interpreted in
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// Year assumed when the schedule text omits one
	Year int `yaml:"year" mapstructure:"year"`

	// DefaultEventTitle is the canonical summary for merged sessions
	DefaultEventTitle string `yaml:"default_event_title" mapstructure:"default_event_title"`

	// Locations is the known-location table, in priority order
	Locations []Location `yaml:"locations" mapstructure:"locations"`

	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Email       EmailConfig       `yaml:"email" mapstructure:"email"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig holds extraction provider configuration
type LLMConfig struct {
	// Provider name: "gemini", "openai", "ollama"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey for Gemini/OpenAI (environment variables preferred)
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout for API requests, in seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig holds extraction cache configuration
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// ValidationConfig holds the advisory duration bounds
type ValidationConfig struct {
	MinDurationMinutes int `yaml:"min_duration_minutes" mapstructure:"min_duration_minutes"`
	MaxDurationHours   int `yaml:"max_duration_hours" mapstructure:"max_duration_hours"`
}

// ConcurrencyConfig holds batch processing settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles LLM API calls during batch runs
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// EmailConfig holds SMTP delivery settings
type EmailConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	SMTPServer string `yaml:"smtp_server" mapstructure:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user" mapstructure:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass,omitempty" mapstructure:"smtp_pass"`
	From       string `yaml:"from" mapstructure:"from"`
	To         string `yaml:"to" mapstructure:"to"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := ".swimcal-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".swimcal", "cache")
	}

	return &Config{
		Timezone:          "America/New_York",
		Year:              time.Now().Year(),
		DefaultEventTitle: "Swim Practice",
		Locations: []Location{
			{
				Name:           "Regis",
				Address:        "Regis College Athletic Facility, 235 Wellesley St, Weston, MA",
				DefaultWeekday: true,
			},
			{
				Name:           "Brandeis",
				Address:        "Gosman Sports and Convocation Center, 415 South St, Waltham, MA",
				DefaultWeekend: true,
			},
			{
				Name:    "Wightman",
				Address: "Wightman Tennis Center, 100 Brown St, Weston, MA",
			},
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-flash-latest",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     cacheDir,
			TTLDays: 30,
		},
		Validation: ValidationConfig{
			MinDurationMinutes: 30,
			MaxDurationHours:   4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Email: EmailConfig{
			SMTPPort: 587,
		},
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	for _, loc := range c.Locations {
		if loc.Name == "" {
			return fmt.Errorf("location with address %q has no name", loc.Address)
		}
	}
	return nil
}

// TZ returns the configured timezone. Unknown or empty names fall back to
// the system zone; Validate reports them before a run starts.
func (c *Config) TZ() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// MinDuration returns the validator's lower bound.
func (c *Config) MinDuration() time.Duration {
	if c.Validation.MinDurationMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Validation.MinDurationMinutes) * time.Minute
}

// MaxDuration returns the validator's upper bound.
func (c *Config) MaxDuration() time.Duration {
	if c.Validation.MaxDurationHours <= 0 {
		return 4 * time.Hour
	}
	return time.Duration(c.Validation.MaxDurationHours) * time.Hour
}

// CacheTTL returns the extraction cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	days := c.Cache.TTLDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// Fingerprint returns a short hash of the extraction-relevant configuration.
// Cached extractions are invalidated when locations, the default title, the
// model, or the timezone change, because any of those alters LLM output.
func (c *Config) Fingerprint() string {
	data := struct {
		Locations    map[string]string `json:"locations"`
		DefaultTitle string            `json:"default_title"`
		Model        string            `json:"model"`
		Timezone     string            `json:"timezone"`
	}{
		Locations:    make(map[string]string, len(c.Locations)),
		DefaultTitle: c.DefaultEventTitle,
		Model:        c.LLM.Model,
		Timezone:     c.Timezone,
	}
	for _, loc := range c.Locations {
		data.Locations[loc.Name] = loc.Address
	}

	// json.Marshal sorts map keys, so the fingerprint is stable
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}
