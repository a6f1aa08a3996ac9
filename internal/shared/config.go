package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Search      SearchConfig      `toml:"search"`
	Scrape      ScrapeConfig      `toml:"scrape"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Anthropic AnthropicConfig `toml:"anthropic"`
	Firecrawl FirecrawlConfig `toml:"firecrawl"`
	LastFM    LastFMConfig    `toml:"lastfm"`
}

// AnthropicConfig contains language model credentials and settings.
type AnthropicConfig struct {
	APIKey         string  `toml:"api_key"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// FirecrawlConfig contains scrape backend credentials.
type FirecrawlConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// LastFMConfig contains the Last.fm metadata API key.
type LastFMConfig struct {
	APIKey string `toml:"api_key"`
}

// SearchConfig contains the ordered search endpoint list and per-attempt timeout.
type SearchConfig struct {
	Endpoints      []string `toml:"endpoints"`
	VideoEndpoints []string `toml:"video_endpoints"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// ScrapeConfig selects and tunes the scrape provider.
//
// Provider is "firecrawl" or "reader"; reader fetches pages directly and
// converts them to markdown locally, requiring no credentials.
type ScrapeConfig struct {
	Provider       string `toml:"provider"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PipelineConfig tunes the generation pipeline.
type PipelineConfig struct {
	MinSongs int `toml:"min_songs"`
	TopURLs  int `toml:"top_urls"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overlays environment variables onto the config. The env contract
// predates the config file: WEB_SEARCH_URLS and INVIDIOUS_URLS are
// comma-separated ordered endpoint lists.
func (c *Config) applyEnv() {
	if v := os.Getenv("WEB_SEARCH_URLS"); v != "" {
		c.Search.Endpoints = SplitEndpoints(v)
	}
	if v := os.Getenv("INVIDIOUS_URLS"); v != "" {
		c.Search.VideoEndpoints = SplitEndpoints(v)
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Credentials.Anthropic.APIKey = v
	}
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		c.Credentials.Firecrawl.APIKey = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.Credentials.LastFM.APIKey = v
	}
}

// SplitEndpoints parses a comma-separated endpoint list, trimming whitespace
// and dropping empty segments. Order is preserved; it is the provider
// priority order.
func SplitEndpoints(raw string) []string {
	parts := strings.Split(raw, ",")
	endpoints := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			endpoints = append(endpoints, trimmed)
		}
	}
	return endpoints
}

// ValidatePipeline fails fast when the configuration cannot support a
// pipeline run. Called before any network activity.
func (c *Config) ValidatePipeline() error {
	if c.Credentials.Anthropic.APIKey == "" {
		return fmt.Errorf("%w: anthropic api key is not set", ErrMissingCredentials)
	}
	if len(c.Search.Endpoints) == 0 {
		return fmt.Errorf("%w: no search endpoints configured", ErrInvalidConfig)
	}
	if c.Scrape.Provider == "firecrawl" && c.Credentials.Firecrawl.APIKey == "" {
		return fmt.Errorf("%w: firecrawl api key is not set", ErrMissingCredentials)
	}
	return nil
}
