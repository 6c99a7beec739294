package devauth

// Package devauth provides a config-driven CredentialVerifier for local development.

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/ports"
)

// Config controls the dev verifier behavior.
type Config struct {
	Identifier      string
	Password        string
	UserID          string
	IsAdmin         bool
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.CredentialVerifier without a content API.
// It accepts exactly the configured identifier/password pair and issues an
// opaque random token, so backend calls made with it will be rejected.
type Provider struct {
	identifier      string
	password        string
	user            domainauth.User
	sessionDuration time.Duration
}

var _ ports.CredentialVerifier = (*Provider)(nil)

// NewProvider constructs a dev verifier from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Identifier) == "" {
		return nil, errors.New("dev auth: Identifier is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("dev auth: Password is required")
	}
	userID := cfg.UserID
	if userID == "" {
		userID = "dev-admin"
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identifier: strings.TrimSpace(cfg.Identifier),
		password:   cfg.Password,
		user: domainauth.User{
			ID:        userID,
			Email:     strings.TrimSpace(cfg.Identifier),
			FirstName: "Dev",
			LastName:  "Admin",
			IsAdmin:   cfg.IsAdmin,
		},
		sessionDuration: dur,
	}, nil
}

// Verify checks the credentials in constant time and returns the dev identity.
func (p *Provider) Verify(_ context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	creds = creds.Normalize()
	idOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(creds.Identifier)), []byte(strings.ToLower(p.identifier))) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(p.password)) == 1
	if !idOK || !pwOK {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}
	token, err := randomString(32)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("generate dev token: %w", err)
	}
	return domainauth.Identity{
		Token:     "dev." + token,
		User:      p.user,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}, nil
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
