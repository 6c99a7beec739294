// Package push holds the notification token lifecycle states.
package push

import (
	"fmt"
	"time"
)

// State is a step of the notification token lifecycle.
type State string

const (
	StateUnregistered        State = "unregistered"
	StatePermissionRequested State = "permission_requested"
	StateTokenObtained       State = "token_obtained"
	StateRegistered          State = "registered"
)

// Permission mirrors the browser Notification.permission values.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission accepts the browser values; anything else is an error.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return "", fmt.Errorf("unknown notification permission %q", s)
	}
}

var forward = map[State]State{
	StateUnregistered:        StatePermissionRequested,
	StatePermissionRequested: StateTokenObtained,
	StateTokenObtained:       StateRegistered,
	// A refresh that replaces the token goes back through TokenObtained.
	StateRegistered: StateTokenObtained,
}

// CanTransition reports whether from → to is a legal lifecycle move.
// Falling back to Unregistered is always legal.
func CanTransition(from, to State) bool {
	if to == StateUnregistered {
		return true
	}
	next, ok := forward[from]
	return ok && next == to
}

// Snapshot is the observable state of one manager.
type Snapshot struct {
	State       State  `json:"state"`
	TokenSuffix string `json:"token_suffix,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	Attempts    int    `json:"attempts"`
}

// TokenSuffix returns the last few characters of a token for display; tokens are never shown whole.
func TokenSuffix(token string) string {
	const n = 8
	if len(token) <= n {
		return token
	}
	return "…" + token[len(token)-n:]
}

// BrowserReport is what the browser script last told the console about
// notification permission and its messaging token.
type BrowserReport struct {
	Permission Permission `json:"permission"`
	Token      string     `json:"token,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
