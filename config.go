package edgar

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds client settings read from a YAML file. Unset fields fall back
// to the package defaults. An explicit request_timeout_sec of 0 disables the
// request timeout.
type Config struct {
	Email             string `yaml:"email"`
	UserAgent         string `yaml:"user_agent"`
	RequestTimeoutSec *int   `yaml:"request_timeout_sec"`
	ScrapeTimeoutSec  int    `yaml:"scrape_timeout_sec"`
	TickersURL        string `yaml:"tickers_url"`
	SubmissionsURL    string `yaml:"submissions_url"`
	ArchivesURL       string `yaml:"archives_url"`
	FormsCatalog      string `yaml:"forms_catalog"`
}

// LoadConfig reads a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if (cfg.RequestTimeoutSec != nil && *cfg.RequestTimeoutSec < 0) || cfg.ScrapeTimeoutSec < 0 {
		return nil, fmt.Errorf("config %s: timeouts must not be negative", path)
	}
	return &cfg, nil
}

// ResolveUserAgent picks the identification header: an explicit user agent
// wins, then the configured email, then SEC_EMAIL.
func (cfg *Config) ResolveUserAgent() (string, error) {
	if cfg.UserAgent != "" {
		return cfg.UserAgent, nil
	}
	if cfg.Email != "" {
		if err := ValidateEmail(cfg.Email); err != nil {
			return "", err
		}
		return BuildUserAgent(cfg.Email), nil
	}
	email, err := GetSecEmail()
	if err != nil {
		return "", err
	}
	return BuildUserAgent(email), nil
}

// ScrapeTimeout returns the configured document timeout or DefaultScrapeTimeout
func (cfg *Config) ScrapeTimeout() time.Duration {
	if cfg.ScrapeTimeoutSec > 0 {
		return time.Duration(cfg.ScrapeTimeoutSec) * time.Second
	}
	return DefaultScrapeTimeout
}

// NewClient builds a Client from the config
func (cfg *Config) NewClient(logger *slog.Logger) (*Client, error) {
	ua, err := cfg.ResolveUserAgent()
	if err != nil {
		return nil, err
	}

	opts := []ClientOption{
		WithLogger(logger),
		WithScrapeTimeout(cfg.ScrapeTimeout()),
	}
	if cfg.RequestTimeoutSec != nil {
		opts = append(opts, WithRequestTimeout(time.Duration(*cfg.RequestTimeoutSec)*time.Second))
	}
	if cfg.TickersURL != "" {
		opts = append(opts, WithTickersURL(cfg.TickersURL))
	}
	if cfg.SubmissionsURL != "" {
		opts = append(opts, WithSubmissionsURL(cfg.SubmissionsURL))
	}
	if cfg.ArchivesURL != "" {
		opts = append(opts, WithArchivesURL(cfg.ArchivesURL))
	}

	return NewClient(ua, opts...), nil
}
