package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const envPrefix = "YPLUS_"

// Config holds server settings. Accounts and history need a token key;
// without a database URL they are kept in memory.
type Config struct {
	Addr         string  `json:"addr"`
	CertFile     string  `json:"cert_file"`
	KeyFile      string  `json:"key_file"`
	DatabaseURL  string  `json:"database_url"`
	TokenKey     string  `json:"token_key"`
	RateLimit    float64 `json:"rate_limit"`
	RateBurst    int     `json:"rate_burst"`
	HeightSymbol string  `json:"height_symbol"`
	LogLevel     string  `json:"log_level"`
}

// FileConfig is the TOML form of Config.
type FileConfig struct {
	Addr         string  `toml:"addr"`
	CertFile     string  `toml:"cert_file"`
	KeyFile      string  `toml:"key_file"`
	DatabaseURL  string  `toml:"database_url"`
	TokenKey     string  `toml:"token_key"`
	RateLimit    float64 `toml:"rate_limit"`
	RateBurst    int     `toml:"rate_burst"`
	HeightSymbol string  `toml:"height_symbol"`
	LogLevel     string  `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		RateLimit:    5,
		RateBurst:    10,
		HeightSymbol: "y",
		LogLevel:     "info",
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// it exists), then .env in the working directory, then YPLUS_* variables.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		ApplyFileConfig(&cfg, fc)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := ApplyEnvConfig(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.yplus/config.toml, or "" without a home dir.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".yplus", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies every non-zero file value onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	setString(fc.Addr, &cfg.Addr)
	setString(fc.CertFile, &cfg.CertFile)
	setString(fc.KeyFile, &cfg.KeyFile)
	setString(fc.DatabaseURL, &cfg.DatabaseURL)
	setString(fc.TokenKey, &cfg.TokenKey)
	setString(fc.HeightSymbol, &cfg.HeightSymbol)
	setString(fc.LogLevel, &cfg.LogLevel)
	if fc.RateLimit > 0 {
		cfg.RateLimit = fc.RateLimit
	}
	if fc.RateBurst > 0 {
		cfg.RateBurst = fc.RateBurst
	}
}

// ApplyEnvConfig overrides cfg from YPLUS_* variables. DATABASE_URL and
// TOKEN_KEY are also honoured without the prefix.
func ApplyEnvConfig(cfg *Config) error {
	setString(os.Getenv("DATABASE_URL"), &cfg.DatabaseURL)
	setString(os.Getenv("TOKEN_KEY"), &cfg.TokenKey)

	setString(os.Getenv(envPrefix+"ADDR"), &cfg.Addr)
	setString(os.Getenv(envPrefix+"CERT_FILE"), &cfg.CertFile)
	setString(os.Getenv(envPrefix+"KEY_FILE"), &cfg.KeyFile)
	setString(os.Getenv(envPrefix+"DATABASE_URL"), &cfg.DatabaseURL)
	setString(os.Getenv(envPrefix+"TOKEN_KEY"), &cfg.TokenKey)
	setString(os.Getenv(envPrefix+"HEIGHT_SYMBOL"), &cfg.HeightSymbol)
	setString(os.Getenv(envPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if v := os.Getenv(envPrefix + "RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT %q: %w", envPrefix, v, err)
		}
		cfg.RateLimit = f
	}
	if v := os.Getenv(envPrefix + "RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_BURST %q: %w", envPrefix, v, err)
		}
		cfg.RateBurst = n
	}
	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("cert_file and key_file must be set together")
	}
	if c.DatabaseURL != "" && c.TokenKey == "" {
		return errors.New("token_key is required when database_url is set")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("rate_limit and rate_burst must be positive")
	}
	switch c.HeightSymbol {
	case "y", "Δs":
	default:
		return fmt.Errorf("height_symbol must be \"y\" or \"Δs\", got %q", c.HeightSymbol)
	}
	return nil
}

// TLS reports whether the server should listen with TLS.
func (c Config) TLS() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// AccountsEnabled reports whether accounts and history are served.
func (c Config) AccountsEnabled() bool {
	return c.TokenKey != ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func setString(v string, dst *string) {
	if v != "" {
		*dst = v
	}
}
