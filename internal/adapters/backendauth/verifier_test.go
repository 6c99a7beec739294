package backendauth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/ports"
	"github.com/wishara/admin-console/internal/testutil"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("not-the-backend-secret"))
	require.NoError(t, err)
	return s
}

func newVerifier(t *testing.T, api *testutil.FakeAPI) *Verifier {
	t.Helper()
	client, err := backend.New(backend.Options{BaseURL: api.BaseURL()})
	require.NoError(t, err)
	return NewVerifier(client)
}

func TestVerifier_Success(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)

	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/auth/login", http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"token": token,
			"user":  map[string]any{"id": "u1", "email": "admin@example.com", "isAdmin": true},
		},
	})

	id, err := newVerifier(t, api).Verify(context.Background(), domainauth.Credentials{Identifier: " admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, token, id.Token)
	assert.True(t, id.User.IsAdmin)
	assert.True(t, exp.Equal(id.ExpiresAt))

	calls := api.CallsTo(http.MethodPost, "/api/auth/login")
	require.Len(t, calls, 1)
	assert.Equal(t, "admin@example.com", calls[0].Body["identifier"])
	assert.Equal(t, "pw", calls[0].Body["password"])
}

func TestVerifier_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"401", http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"}},
		{"400", http.StatusBadRequest, map[string]any{"message": "Missing fields"}},
		{"success false", http.StatusOK, map[string]any{"success": false, "message": "Invalid credentials"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.JSON("POST /api/auth/login", tt.status, tt.body)
			_, err := newVerifier(t, api).Verify(context.Background(), domainauth.Credentials{Identifier: "a", Password: "b"})
			assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
		})
	}
}

func TestVerifier_EmptyCredentialsShortCircuit(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, err := newVerifier(t, api).Verify(context.Background(), domainauth.Credentials{Identifier: "  "})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
	assert.Empty(t, api.Calls())
}

func TestVerifier_ServerErrorPassesThrough(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/auth/login", http.StatusInternalServerError, map[string]any{"message": "db down"})
	_, err := newVerifier(t, api).Verify(context.Background(), domainauth.Credentials{Identifier: "a", Password: "b"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestTokenExpiry(t *testing.T) {
	assert.True(t, TokenExpiry("opaque-token").IsZero())
	assert.True(t, TokenExpiry("").IsZero())

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"})
	s, err := noExp.SignedString([]byte("k"))
	require.NoError(t, err)
	assert.True(t, TokenExpiry(s).IsZero())
}
