package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendConfig describes how the console reaches the content API.
type BackendConfig struct {
	// BaseURL is the API root, e.g. https://api.example.com/api.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds a single request to the API.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// UserAgent is sent with every API request.
	UserAgent string `env:"USER_AGENT" envDefault:"wishara-admin-console"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if b.Timeout > 2*time.Minute {
		b.Timeout = 2 * time.Minute
	}
}

// Validate ensures the base URL is an absolute http(s) URL.
func (b *BackendConfig) Validate() error {
	if b.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", b.BaseURL)
	}
	return nil
}
