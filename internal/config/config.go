package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all kiosk client configuration
type Config struct {
	// Kiosk API
	APIURL        string
	APITimeout    time.Duration // Upper bound of a single API call (default: 30s)
	APIMaxRetries int           // Retries of idempotent GETs on transient failures (default: 2)
	APIRateLimit  float64       // Requests per second (default: 10)
	APIRateBurst  int

	// Requests view
	RefreshInterval time.Duration // Period of the requests refresh (default: 30s)
	DetailsCacheTTL time.Duration // Lifetime of cached catalog details (default: 10m)

	// Server
	ServerPort string

	// Paths
	ConfigDir    string
	DatabaseFile string // $CONFIG_DIR/kioskarr.db
	Ephemeral    bool   // Keep the token in memory only

	// Presentation
	Language string

	// Logging and tracing
	LogLevel       string
	TracingEnabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_TIMEOUT", 30*time.Second)
	v.SetDefault("API_MAX_RETRIES", 2)
	v.SetDefault("API_RATE_LIMIT", 10.0)
	v.SetDefault("API_RATE_BURST", 5)
	v.SetDefault("REFRESH_INTERVAL", 30*time.Second)
	v.SetDefault("DETAILS_CACHE_TTL", 10*time.Minute)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LANGUAGE", "fr")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("EPHEMERAL", false)
}

// Load loads configuration from a .env file, an optional config file and environment variables.
// Flags bound on v by the caller take precedence over all of them.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	// .env in the working directory (ignored if not found)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	if configFile != "" {
		v.SetConfigFile(configFile)
		ext := strings.TrimPrefix(filepath.Ext(configFile), ".")
		if ext == "" {
			ext = "env"
		}
		v.SetConfigType(ext)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	setDefaults(v)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "kioskarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	databaseFile := v.GetString("DATABASE_FILE")
	if databaseFile == "" {
		databaseFile = filepath.Join(configDir, "kioskarr.db")
	}

	cfg := &Config{
		APIURL:        strings.TrimRight(v.GetString("API_URL"), "/"),
		APITimeout:    v.GetDuration("API_TIMEOUT"),
		APIMaxRetries: v.GetInt("API_MAX_RETRIES"),
		APIRateLimit:  v.GetFloat64("API_RATE_LIMIT"),
		APIRateBurst:  v.GetInt("API_RATE_BURST"),

		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		DetailsCacheTTL: v.GetDuration("DETAILS_CACHE_TTL"),

		ServerPort: v.GetString("SERVER_PORT"),

		ConfigDir:    configDir,
		DatabaseFile: databaseFile,
		Ephemeral:    v.GetBool("EPHEMERAL"),

		Language: v.GetString("LANGUAGE"),

		LogLevel:       v.GetString("LOG_LEVEL"),
		TracingEnabled: v.GetBool("TRACING_ENABLED"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and bounds
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.APIMaxRetries < 0 {
		return fmt.Errorf("API_MAX_RETRIES must not be negative")
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.APIRateBurst < 1 {
		c.APIRateBurst = 1
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1s")
	}
	return nil
}
