package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeBackend verifies credentials against the content API.
	AuthModeBackend AuthMode = "backend"
	// AuthModeMock accepts the configured dev credentials (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "backend", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: backend, mock)", v)
	}
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Identifier string `env:"IDENTIFIER" envDefault:"admin@example.com"`
	Password   string `env:"PASSWORD"   envDefault:"secret"`
	UserID     string `env:"USER_ID"    envDefault:"dev-admin"`
	IsAdmin    bool   `env:"IS_ADMIN"   envDefault:"true"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"backend"`

	// SessionTTL is used when the backend token carries no usable expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// SessionKeyPrefix namespaces session records in Redis.
	SessionKeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModeBackend
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if strings.TrimSpace(a.SessionKeyPrefix) == "" {
		a.SessionKeyPrefix = "session:"
	}
}
