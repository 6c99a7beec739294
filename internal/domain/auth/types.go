package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Credentials is what the login form submits.
type Credentials struct {
	Identifier string
	Password   string
}

// Normalize trims surrounding whitespace from the identifier; passwords are left as typed.
func (c Credentials) Normalize() Credentials {
	c.Identifier = strings.TrimSpace(c.Identifier)
	return c
}

// User is the profile record the content API returns for the signed-in account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Role derives the console role from the admin flag.
func (u User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// DisplayName returns the best human-readable label for the user.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	switch {
	case full != "":
		return full
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Identity is what a credential verifier returns on success:
// the backend bearer token, the user record and the absolute token expiry.
// ExpiresAt is zero when the token carries no usable expiry.
type Identity struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier carried in the session cookie.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session holds the admin capability.
func (s Session) IsAdmin() bool { return s.User.IsAdmin }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
