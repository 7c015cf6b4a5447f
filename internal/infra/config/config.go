// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Spotify   SpotifyConfig   `yaml:"spotify"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Preview   PreviewConfig   `yaml:"preview"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr           string   `yaml:"addr" default:":8080"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SpotifyConfig represents catalog API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"KR"`
}

// OpenAIConfig represents classifier and artwork API configuration.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key" validate:"required"`
	Model      string `yaml:"model" default:"gpt-4.1-mini"`
	ImageModel string `yaml:"image_model" default:"dall-e-3"`
}

// PreviewConfig represents preview resolution configuration.
type PreviewConfig struct {
	Countries     []string `yaml:"countries"`
	MaxConcurrent int      `yaml:"max_concurrent" default:"4" validate:"gte=1,lte=16"`
	JitterMs      int      `yaml:"jitter_ms" default:"100" validate:"gte=0,lte=1000"`
}

// StrategyConfig represents a candidate retrieval strategy configuration.
type StrategyConfig struct {
	Type     string         `yaml:"type" default:"search" validate:"required"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// RecommendConfig represents recommendation pipeline configuration.
type RecommendConfig struct {
	Limit           int            `yaml:"limit" default:"20" validate:"gte=1,lte=50"`
	MaxPerArtist    int            `yaml:"max_per_artist" default:"2" validate:"gte=1"`
	MinPopularity   int            `yaml:"min_popularity" default:"35" validate:"gte=0,lte=100"`
	MinResultCount  int            `yaml:"min_result_count" default:"20" validate:"gte=0"`
	InstrumentalMax float64        `yaml:"instrumental_max" default:"0.5" validate:"gte=0,lte=1"`
	Strategy        StrategyConfig `yaml:"strategy"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}
	}
	if len(cfg.Preview.Countries) == 0 {
		cfg.Preview.Countries = []string{"kr", "jp", "us"}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, v)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Recommend.Strategy.Type != "search" && c.Recommend.Strategy.Type != "artist_expansion" {
		return errors.Newf("unsupported strategy type: %s", c.Recommend.Strategy.Type)
	}

	return nil
}
