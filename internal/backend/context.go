package backend

import "context"

type sessionKey struct{}

type sessionCreds struct {
	id    string
	token string
}

// WithSession returns a context whose requests carry the session's bearer token.
// The session id is what a 401 tears down.
func WithSession(ctx context.Context, sessionID, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionCreds{id: sessionID, token: token})
}

// SessionFrom returns the session attached by WithSession.
func SessionFrom(ctx context.Context) (sessionID, token string, ok bool) {
	c, ok := ctx.Value(sessionKey{}).(sessionCreds)
	if !ok || c.token == "" {
		return "", "", false
	}
	return c.id, c.token, true
}
