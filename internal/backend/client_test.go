package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, UserAgent: "test-agent"})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/api"})
	assert.Error(t, err)
}

func TestDo_AttachesBearerTokenForSession(t *testing.T) {
	var gotAuth, gotPath, gotUA, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"c1","name":"Health"}]}`))
	})

	ctx := WithSession(context.Background(), "sess-1", "tok-abc")
	var out []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.Get(ctx, "/category/", url.Values{"page": {"2"}}, "", &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, "/api/category/", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "test-agent", gotUA)
	require.Len(t, out, 1)
	assert.Equal(t, "Health", out[0].Name)
}

func TestDo_NoSessionSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})
	require.NoError(t, c.Get(context.Background(), "/subscription/plans", nil, "", nil))
	assert.Empty(t, gotAuth)
}

func TestDo_EnvelopeShapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		unwrap string
		want   []string
	}{
		{"data array", `{"success":true,"data":[{"id":"a"}]}`, UnwrapData, []string{"a"}},
		{"bare array", `[{"id":"b"}]`, UnwrapData, []string{"b"}},
		{"nested posts", `{"success":true,"data":{"posts":[{"id":"p1"},{"id":"p2"}]}}`, UnwrapPosts, []string{"p1", "p2"}},
		{"empty nested posts", `{"success":true,"data":{"posts":[]}}`, UnwrapPosts, []string{}},
		{"custom", `{"data":{"communities":[{"id":"x"}]}}`, "data.communities", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			var out []struct {
				ID string `json:"id"`
			}
			require.NoError(t, c.Get(context.Background(), "/x", nil, tt.unwrap, &out))
			ids := make([]string, 0, len(out))
			for _, o := range out {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDo_SendsJSONBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"new","name":"Health","isPremium":false}}`))
	})

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.Send(context.Background(), http.MethodPost, "/category/", map[string]any{"name": "Health", "isPremium": false}, &created)
	require.NoError(t, err)
	assert.Equal(t, "Health", got["name"])
	assert.Equal(t, "new", created.ID)
}

func TestDo_APIErrorClassified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"Validation failed","errors":[{"msg":"name is taken"},"second"]}`))
	})

	err := c.Get(context.Background(), "/category/", nil, "", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, []string{"name is taken", "second"}, apiErr.Errors)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Validation failed", apperrors.UserMessage(err, ""))
}

func TestDo_NotFoundWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := c.Get(context.Background(), "/post/missing", nil, "", nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDo_SuccessFalseIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Plan not found"}`))
	})
	err := c.Send(context.Background(), http.MethodPost, "/subscription/create-checkout-session", map[string]string{"planType": "x"}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Plan not found", apiErr.Message)
}

func TestDo_UnauthorizedTearsDownSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	})

	var calls atomic.Int32
	var gotSession string
	c.OnUnauthorized(func(ctx context.Context, sessionID string) {
		calls.Add(1)
		gotSession = sessionID
		assert.NoError(t, ctx.Err())
	})

	ctx, cancel := context.WithCancel(WithSession(context.Background(), "sess-9", "stale"))
	defer cancel()
	err := c.Get(ctx, "/admin/users", nil, "", nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "sess-9", gotSession)
}

func TestDo_UnauthorizedWithoutSessionIsPlainAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})
	c.OnUnauthorized(func(context.Context, string) { t.Fatal("hook must not run without a session") })

	err := c.Send(context.Background(), http.MethodPost, "/auth/login", map[string]string{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)
	err = c.Get(context.Background(), "/x", nil, "", nil)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
}

func TestDo_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	var out map[string]any
	require.NoError(t, c.Send(context.Background(), http.MethodDelete, "/category/1", nil, &out))
	assert.Nil(t, out)
}
