package fcm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/adapters/memory"
	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
	"github.com/wishara/admin-console/internal/testutil"
)

func TestBrowserSource(t *testing.T) {
	ctx := context.Background()
	reports := memory.NewReportStore()
	src := NewBrowserSource("s1", reports)

	_, err := src.RequestPermission(ctx)
	assert.ErrorIs(t, err, ports.ErrPermissionPending)

	require.NoError(t, reports.SaveReport(ctx, "s1", push.BrowserReport{Permission: push.PermissionDenied}))
	p, err := src.RequestPermission(ctx)
	assert.ErrorIs(t, err, ports.ErrPermissionDenied)
	assert.Equal(t, push.PermissionDenied, p)

	require.NoError(t, reports.SaveReport(ctx, "s1", push.BrowserReport{Permission: push.PermissionGranted}))
	p, err = src.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, push.PermissionGranted, p)
	_, err = src.Token(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)

	require.NoError(t, reports.SaveReport(ctx, "s1", push.BrowserReport{Permission: push.PermissionGranted, Token: "fcm-abc"}))
	tok, err := src.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fcm-abc", tok)

	// Another session sees nothing.
	_, err = NewBrowserSource("s2", reports).Token(ctx)
	assert.ErrorIs(t, err, ports.ErrPermissionPending)
}

func newRegistrar(t *testing.T, api *testutil.FakeAPI) *APIRegistrar {
	t.Helper()
	c, err := backend.New(backend.Options{BaseURL: api.BaseURL()})
	require.NoError(t, err)
	return NewAPIRegistrar(c)
}

func TestAPIRegistrar_RegisterAndRemove(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/notifications/token", http.StatusOK, map[string]any{"success": true})
	api.JSON("POST /api/notifications/token/remove", http.StatusOK, map[string]any{"success": true})
	reg := newRegistrar(t, api)
	ctx := backend.WithSession(context.Background(), "s1", "bearer-1")

	require.NoError(t, reg.RegisterToken(ctx, "fcm-1"))
	require.NoError(t, reg.RemoveToken(ctx, "fcm-1"))

	reg1 := api.CallsTo(http.MethodPost, "/api/notifications/token")
	require.Len(t, reg1, 1)
	assert.Equal(t, "fcm-1", reg1[0].Body["token"])
	assert.Equal(t, "Bearer bearer-1", reg1[0].Auth)
	assert.Len(t, api.CallsTo(http.MethodPost, "/api/notifications/token/remove"), 1)
}

func TestAPIRegistrar_Validate(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		valid  bool
	}{
		{"explicit valid", http.StatusOK, map[string]any{"success": true, "data": map[string]any{"valid": true}}, true},
		{"no flag", http.StatusOK, map[string]any{"success": true, "message": "ok"}, true},
		{"explicit invalid", http.StatusOK, map[string]any{"success": true, "data": map[string]any{"valid": false}}, false},
		{"rejected", http.StatusBadRequest, map[string]any{"message": "invalid token"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.JSON("POST /api/notifications/validate-token", tt.status, tt.body)
			res, err := newRegistrar(t, api).ValidateToken(context.Background(), "fcm-1")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
		})
	}

	api := testutil.NewFakeAPI(t)
	api.JSON("POST /api/notifications/validate-token", http.StatusBadGateway, map[string]any{})
	_, err := newRegistrar(t, api).ValidateToken(context.Background(), "fcm-1")
	assert.Error(t, err)
}
