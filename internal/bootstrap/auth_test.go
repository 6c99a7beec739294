package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
)

type nopDoer struct{}

func (nopDoer) Do(context.Context, backend.Request, any) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{
			name: "mock mode without redis",
			cfg: AuthConfig{Auth: config.AuthConfig{
				Mode:    config.AuthModeMock,
				DevAuth: config.DevAuthConfig{Identifier: "admin@example.com", Password: "secret", IsAdmin: true},
			}},
		},
		{
			name:    "mock mode without password",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeMock, DevAuth: config.DevAuthConfig{Identifier: "a@b.c"}}},
			wantErr: true,
		},
		{
			name: "backend mode",
			cfg:  AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeBackend}, API: nopDoer{}},
		},
		{
			name:    "backend mode without client",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeBackend}},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: "ldap"}, API: nopDoer{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = discardLogger()
			svc, err := BuildAuthService(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestBuildAuthServiceMockLoginUsesMemoryStore(t *testing.T) {
	svc, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode:       config.AuthModeMock,
			SessionTTL: time.Hour,
			DevAuth:    config.DevAuthConfig{Identifier: "admin@example.com", Password: "secret", UserID: "u1", IsAdmin: true},
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	sess, err := svc.Login(ctx, domainauth.Credentials{Identifier: "admin@example.com", Password: "secret"})
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.User.ID)
	assert.True(t, got.User.IsAdmin)
}
