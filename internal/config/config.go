package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime settings. Values come from defaults, then an optional YAML file
// named by CONFIG_FILE, then environment variables.
type Config struct {
	HTTPAddr        string
	AuctionAPIURL   string
	AuctionAPIToken string
	APITimeout      time.Duration
	CatalogSync     time.Duration
	LogLevel        string
	AllowedOrigins  []string
}

// fileConfig is the YAML shape; zero values leave the defaults in place
type fileConfig struct {
	HTTPAddr       string   `yaml:"http_addr"`
	AuctionAPIURL  string   `yaml:"auction_api_url"`
	APITimeoutSec  int      `yaml:"api_timeout_sec"`
	CatalogSyncSec int      `yaml:"catalog_sync_sec"`
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		HTTPAddr:       ":8080",
		AuctionAPIURL:  "http://localhost:8000",
		APITimeout:     10 * time.Second,
		CatalogSync:    30 * time.Second,
		LogLevel:       "info",
		AllowedOrigins: []string{"*"},
	}
}

// LoadDotEnv loads a .env file into the environment; a missing file is reported but harmless
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads and validates the configuration
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.apply(fc); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.HTTPAddr = normalizeAddr(port)
	}
	cfg.AuctionAPIURL = getEnv("AUCTION_API_URL", cfg.AuctionAPIURL)
	cfg.AuctionAPIToken = getEnv("AUCTION_API_TOKEN", cfg.AuctionAPIToken)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}

	timeoutSec, err := getEnvInt("API_TIMEOUT_SEC", int(cfg.APITimeout.Seconds()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid API_TIMEOUT_SEC: %w", err)
	}
	if timeoutSec <= 0 {
		return Config{}, fmt.Errorf("API_TIMEOUT_SEC must be > 0")
	}
	cfg.APITimeout = time.Duration(timeoutSec) * time.Second

	syncSec, err := getEnvInt("CATALOG_SYNC_SEC", int(cfg.CatalogSync.Seconds()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CATALOG_SYNC_SEC: %w", err)
	}
	if syncSec <= 0 {
		return Config{}, fmt.Errorf("CATALOG_SYNC_SEC must be > 0")
	}
	cfg.CatalogSync = time.Duration(syncSec) * time.Second

	u, err := url.Parse(cfg.AuctionAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("AUCTION_API_URL must be an absolute URL, got %q", cfg.AuctionAPIURL)
	}
	if len(cfg.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("ALLOWED_ORIGINS must list at least one origin")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return fc, nil
}

func (c *Config) apply(fc fileConfig) error {
	if fc.HTTPAddr != "" {
		c.HTTPAddr = normalizeAddr(fc.HTTPAddr)
	}
	if fc.AuctionAPIURL != "" {
		c.AuctionAPIURL = fc.AuctionAPIURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.APITimeoutSec < 0 || fc.CatalogSyncSec < 0 {
		return fmt.Errorf("durations must be >= 0")
	}
	if fc.APITimeoutSec > 0 {
		c.APITimeout = time.Duration(fc.APITimeoutSec) * time.Second
	}
	if fc.CatalogSyncSec > 0 {
		c.CatalogSync = time.Duration(fc.CatalogSyncSec) * time.Second
	}
	return nil
}

// normalizeAddr turns a bare port into a listen address
func normalizeAddr(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
