package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL      = "http://localhost:5000"
	DefaultLocale      = "en-US"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds CLI configuration stored at ~/.dwellingly/config. Any field can
// be overridden from the environment.
type Config struct {
	APIURL      string        `yaml:"api_url" env:"DWELLINGLY_API_URL"`
	Token       string        `yaml:"token" env:"DWELLINGLY_TOKEN"`
	Locale      string        `yaml:"locale,omitempty" env:"DWELLINGLY_LOCALE"`
	CachePath   string        `yaml:"cache_path,omitempty" env:"DWELLINGLY_CACHE_PATH"`
	LogFile     string        `yaml:"log_file,omitempty" env:"DWELLINGLY_LOG_FILE"`
	HTTPTimeout time.Duration `yaml:"http_timeout,omitempty" env:"DWELLINGLY_HTTP_TIMEOUT"`
}

// Defaults returns a config with every optional field filled.
func Defaults() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		Locale:      DefaultLocale,
		CachePath:   filepath.Join(Dir(), "cache.sqlite"),
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Dir returns the config directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dwellingly")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads the config file, if present, then applies environment
// overrides. It fails when the file is insecure or no token is available.
func Load() (*Config, error) {
	cfg, fileErr := Read()
	if fileErr != nil && !errors.Is(fileErr, os.ErrNotExist) {
		return nil, fileErr
	}
	if strings.TrimSpace(cfg.Token) == "" {
		if fileErr != nil {
			return nil, fmt.Errorf("config not found: %w", fileErr)
		}
		return nil, fmt.Errorf("config missing token")
	}
	return cfg, nil
}

// Read is Load without the token requirement. A missing file yields the
// defaults plus environment overrides and an error wrapping os.ErrNotExist.
func Read() (*Config, error) {
	cfg := Defaults()
	fileErr := readFile(Path(), &cfg)
	if fileErr != nil && !errors.Is(fileErr, os.ErrNotExist) {
		return nil, fileErr
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return &cfg, fileErr
}

func readFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.Token = strings.TrimSpace(c.Token)
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
