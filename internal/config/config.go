package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/relevance"
)

// Config holds the shopsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Assistant AssistantConfig `yaml:"assistant"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	TrustedProxies  []string `yaml:"trusted_proxies"` // CIDRs whose X-Forwarded-For is honored
}

// CatalogConfig holds the WooCommerce connection settings.
type CatalogConfig struct {
	BaseURL        string `yaml:"base_url"` // e.g. https://shop.example/wp-json/wc/v3
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	Status         string `yaml:"status"`
	TimeoutSec     int    `yaml:"timeout_sec"`
}

// SearchConfig holds result caps, the retrieval plan and scoring weights.
type SearchConfig struct {
	ChatLimit           int               `yaml:"chat_limit"`
	LegacyLimit         int               `yaml:"legacy_limit"`
	FullQueryPageSize   int               `yaml:"full_query_page_size"`
	CombinedPageSize    int               `yaml:"combined_page_size"`
	KeywordPageSize     int               `yaml:"keyword_page_size"`
	KeywordPasses       int               `yaml:"keyword_passes"`
	PassTimeoutMs       int               `yaml:"pass_timeout_ms"`
	MaxConcurrentPasses int               `yaml:"max_concurrent_passes"`
	Stopwords           []string          `yaml:"stopwords"` // replaces the built-in list when set
	Weights             relevance.Weights `yaml:"weights"`
}

// PassTimeout returns the per-pass timeout.
func (s *SearchConfig) PassTimeout() time.Duration {
	return time.Duration(s.PassTimeoutMs) * time.Millisecond
}

// AssistantConfig selects the message composer.
type AssistantConfig struct {
	Provider   string `yaml:"provider"` // template (default), openai
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// RateLimitConfig holds admission control settings.
type RateLimitConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Requests  int    `yaml:"requests"`
	WindowSec int    `yaml:"window_sec"`
	Driver    string `yaml:"driver"` // memory (default), redis
}

// DatabaseConfig holds the shared counter store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Assistant providers.
const (
	AssistantTemplate = "template"
	AssistantOpenAI   = "openai"
)

// Rate limit drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML over the built-in weights, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	cfg := Config{Search: SearchConfig{Weights: relevance.DefaultWeights()}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Status == "" {
		c.Catalog.Status = "publish"
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 10
	}
	c.applySearchDefaults()
	if c.Assistant.Provider == "" {
		c.Assistant.Provider = AssistantTemplate
	}
	if c.Assistant.TimeoutSec <= 0 {
		c.Assistant.TimeoutSec = 5
	}
	if c.RateLimit.Driver == "" {
		c.RateLimit.Driver = DriverMemory
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 60
	}
	if c.RateLimit.WindowSec <= 0 {
		c.RateLimit.WindowSec = 60
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
}

func (c *Config) applySearchDefaults() {
	s := &c.Search
	if s.ChatLimit <= 0 {
		s.ChatLimit = 6
	}
	if s.LegacyLimit <= 0 {
		s.LegacyLimit = 5
	}
	if s.FullQueryPageSize <= 0 {
		s.FullQueryPageSize = 60
	}
	if s.CombinedPageSize <= 0 {
		s.CombinedPageSize = 40
	}
	if s.KeywordPageSize <= 0 {
		s.KeywordPageSize = 25
	}
	if s.KeywordPasses <= 0 {
		s.KeywordPasses = 3
	}
	if s.PassTimeoutMs <= 0 {
		s.PassTimeoutMs = 8000
	}
	if s.MaxConcurrentPasses <= 0 {
		s.MaxConcurrentPasses = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	for _, size := range []struct {
		name string
		v    int
	}{
		{"full_query_page_size", c.Search.FullQueryPageSize},
		{"combined_page_size", c.Search.CombinedPageSize},
		{"keyword_page_size", c.Search.KeywordPageSize},
	} {
		if size.v > 100 {
			return fmt.Errorf("search.%s must be at most 100, got %d", size.name, size.v)
		}
	}
	if c.Search.ChatLimit > 20 || c.Search.LegacyLimit > 20 {
		return fmt.Errorf("search.chat_limit and search.legacy_limit must be at most 20")
	}
	if c.Search.Weights.Threshold < 0 || c.Search.Weights.ThresholdMany < 0 {
		return fmt.Errorf("search.weights thresholds must not be negative")
	}

	switch c.Assistant.Provider {
	case AssistantTemplate:
	case AssistantOpenAI:
		if c.Assistant.APIKey == "" || c.Assistant.Model == "" {
			return fmt.Errorf("assistant.api_key and assistant.model are required for provider %q", AssistantOpenAI)
		}
	default:
		return fmt.Errorf("assistant.provider must be %q or %q, got %q",
			AssistantTemplate, AssistantOpenAI, c.Assistant.Provider)
	}

	switch c.RateLimit.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.RateLimit.Enabled && len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for rate_limit.driver %q", DriverRedis)
		}
	default:
		return fmt.Errorf("rate_limit.driver must be %q or %q, got %q", DriverMemory, DriverRedis, c.RateLimit.Driver)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog.base_url must be an http(s) URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.ConsumerKey == "" || c.Catalog.ConsumerSecret == "" {
		return fmt.Errorf("catalog.consumer_key and catalog.consumer_secret are required")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
