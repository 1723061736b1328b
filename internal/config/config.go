package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// ConfigPathEnv names the environment variable holding the TOML config path
const ConfigPathEnv = "CARD_INSPECTOR_CONFIG"

// Duration is a time.Duration read from TOML strings such as "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Server contains HTTP listener settings.
type Server struct {
	Host               string   `toml:"host"`
	Port               string   `toml:"port"`
	RequestTimeout     Duration `toml:"request_timeout"`
	ImageFetchTimeout  Duration `toml:"image_fetch_timeout"`
	MaxRequestBodySize int64    `toml:"max_request_body_size"`
	// BlockPrivateHosts rejects analyze-url requests aimed at loopback or private addresses
	BlockPrivateHosts bool `toml:"block_private_hosts"`
}

// Analysis contains pipeline settings.
type Analysis struct {
	DefaultCategory string `toml:"default_category"`
	BatchWorkers    int    `toml:"batch_workers"`
	// Analyzer is "standard" or "header-only"
	Analyzer string `toml:"analyzer"`
	// RandomSeed pins character and template selection. Zero means unseeded.
	RandomSeed uint64 `toml:"random_seed"`
	// MaxPixels caps width*height for pixel analysis; larger images are scored from the header
	MaxPixels int64 `toml:"max_pixels"`
}

// Storage contains persistence settings.
type Storage struct {
	DatabasePath string `toml:"database_path"`
}

// Azure contains blob storage credentials for the azure image source.
type Azure struct {
	AccountName string `toml:"account_name"`
	AccountKey  string `toml:"account_key"`
}

type Config struct {
	Server   Server   `toml:"server"`
	Analysis Analysis `toml:"analysis"`
	Storage  Storage  `toml:"storage"`
	Azure    Azure    `toml:"azure"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: Server{
			Host:               "0.0.0.0",
			Port:               "8080",
			RequestTimeout:     Duration(30 * time.Second),
			ImageFetchTimeout:  Duration(15 * time.Second),
			MaxRequestBodySize: 20 * 1024 * 1024, // 20MB
			BlockPrivateHosts:  true,
		},
		Analysis: Analysis{
			DefaultCategory: string(models.DefaultCategory),
			Analyzer:        "standard",
			MaxPixels:       100_000_000,
		},
		Storage: Storage{
			DatabasePath: "cards.db",
		},
	}
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Server.Host)
	port := strings.TrimSpace(c.Server.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob credentials are configured
func (c *Config) AzureEnabled() bool {
	return c.Azure.AccountName != "" && c.Azure.AccountKey != ""
}

// DefaultCategory returns the configured fallback category
func (c *Config) DefaultCategory() models.Category {
	category, _ := models.ParseCategory(c.Analysis.DefaultCategory)
	return category
}

// Load builds the configuration from defaults, an optional .env file, an optional
// TOML file and finally the environment. An empty path falls back to CARD_INSPECTOR_CONFIG.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration without a TOML file
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnvOrDefault("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
	cfg.Server.RequestTimeout = Duration(parseDurationOrDefault("REQUEST_TIMEOUT", cfg.Server.RequestTimeout.Std()))
	cfg.Server.ImageFetchTimeout = Duration(parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", cfg.Server.ImageFetchTimeout.Std()))
	cfg.Server.MaxRequestBodySize = parseIntOrDefault("MAX_REQUEST_BODY_SIZE", cfg.Server.MaxRequestBodySize)
	cfg.Analysis.DefaultCategory = getEnvOrDefault("DEFAULT_CATEGORY", cfg.Analysis.DefaultCategory)
	cfg.Analysis.BatchWorkers = int(parseIntOrDefault("BATCH_WORKERS", int64(cfg.Analysis.BatchWorkers)))
	cfg.Analysis.RandomSeed = parseUintOrDefault("RANDOM_SEED", cfg.Analysis.RandomSeed)
	cfg.Analysis.Analyzer = getEnvOrDefault("ANALYZER", cfg.Analysis.Analyzer)
	cfg.Analysis.MaxPixels = parseIntOrDefault("MAX_PIXELS", cfg.Analysis.MaxPixels)
	cfg.Server.BlockPrivateHosts = parseBoolOrDefault("BLOCK_PRIVATE_HOSTS", cfg.Server.BlockPrivateHosts)
	cfg.Storage.DatabasePath = getEnvOrDefault("DATABASE_PATH", cfg.Storage.DatabasePath)
	cfg.Azure.AccountName = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", cfg.Azure.AccountName)
	cfg.Azure.AccountKey = getEnvOrDefault("AZURE_STORAGE_KEY", cfg.Azure.AccountKey)
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Server.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Server.Port)
	}
	if c.Server.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.Server.MaxRequestBodySize)
	}
	if c.Server.RequestTimeout <= 0 || c.Server.ImageFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			c.Server.RequestTimeout.Std(), c.Server.ImageFetchTimeout.Std())
	}
	if c.Analysis.BatchWorkers < 0 {
		return fmt.Errorf("BATCH_WORKERS must be >= 0 (got %d)", c.Analysis.BatchWorkers)
	}
	if c.Analysis.MaxPixels <= 0 {
		return fmt.Errorf("MAX_PIXELS must be > 0 (got %d)", c.Analysis.MaxPixels)
	}
	switch c.Analysis.Analyzer {
	case "standard", "header-only":
	default:
		return fmt.Errorf("unknown ANALYZER: %q", c.Analysis.Analyzer)
	}
	if _, ok := models.ParseCategory(c.Analysis.DefaultCategory); !ok {
		return fmt.Errorf("unknown DEFAULT_CATEGORY: %q", c.Analysis.DefaultCategory)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
