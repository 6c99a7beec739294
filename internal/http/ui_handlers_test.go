package httpx

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/ports"
)

func TestCategories_FullPageAndPartial(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("GET /api/category/{$}", http.StatusOK, envelope([]obj{{"id": "c1", "name": "Sleep"}, {"id": "c2", "name": "Focus"}}))
	sess := f.login()

	full := f.do(http.MethodGet, "/categories", reqOpts{session: sess})
	require.Equal(t, http.StatusOK, full.Code)
	assert.Contains(t, full.Body.String(), "<html")
	assert.Contains(t, full.Body.String(), "Sleep")

	partial := f.do(http.MethodGet, "/categories", reqOpts{session: sess, htmx: true})
	require.Equal(t, http.StatusOK, partial.Code)
	assert.NotContains(t, partial.Body.String(), "<html")
	assert.Contains(t, partial.Body.String(), `id="category-c2"`)
	assert.Contains(t, partial.Header().Get("HX-Trigger"), "nav:activate")

	calls := f.api.CallsTo(http.MethodGet, "/api/category/")
	require.NotEmpty(t, calls)
	assert.Equal(t, "Bearer "+sess.Token, calls[0].Auth)
}

func TestCategoryCreate_HTMXRendersListInPlace(t *testing.T) {
	f := newConsoleFixture(t)
	// The list lags behind the write; the created row still shows.
	f.api.JSON("GET /api/category/{$}", http.StatusOK, envelope([]obj{{"id": "c1", "name": "Sleep"}}))
	f.api.JSON("POST /api/category/{$}", http.StatusCreated, envelope(obj{"id": "c9", "name": "Health"}))
	sess := f.login()

	rec := f.do(http.MethodPost, "/categories", reqOpts{session: sess, htmx: true, form: url.Values{"name": {"Health"}}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#main-content", rec.Header().Get("HX-Retarget"))
	assert.Equal(t, "/categories", rec.Header().Get("HX-Push-Url"))
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Category created")
	assert.Contains(t, rec.Body.String(), `id="category-c9"`)
	assert.Contains(t, rec.Body.String(), `id="category-c1"`)

	page, err := f.audit.List(context.Background(), model.AuditListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.AuditCreate, page.Items[0].Action)
	assert.Equal(t, "c9", page.Items[0].ResourceID)
	assert.NotEmpty(t, page.Items[0].Actor)
}

func TestCategoryCreate_RedirectsWithoutHTMX(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("POST /api/category/{$}", http.StatusCreated, envelope(obj{"id": "c9", "name": "Health"}))
	sess := f.login()

	rec := f.do(http.MethodPost, "/categories", reqOpts{session: sess, form: url.Values{"name": {"Health"}}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))
}

func TestCategoryCreate_ValidationReRendersForm(t *testing.T) {
	f := newConsoleFixture(t)
	sess := f.login()

	rec := f.do(http.MethodPost, "/categories", reqOpts{session: sess, htmx: true, form: url.Values{
		"name":        {"   "},
		"description": {"kept"},
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required.")
	assert.Contains(t, body, errMsgFixBelow)
	assert.Contains(t, body, "kept")
	assert.Empty(t, f.api.CallsTo(http.MethodPost, "/api/category/"))
}

func TestCategoryCreate_APIErrorShownOnForm(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("POST /api/category/{$}", http.StatusConflict, obj{"success": false, "message": "Category already exists"})
	sess := f.login()

	rec := f.do(http.MethodPost, "/categories", reqOpts{session: sess, htmx: true, form: url.Values{"name": {"Sleep"}}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category already exists")

	page, err := f.audit.List(context.Background(), model.AuditListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestPage_ExpiredBackendSessionEndsConsoleSession(t *testing.T) {
	tests := []struct {
		name string
		htmx bool
	}{
		{name: "browser"},
		{name: "htmx", htmx: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConsoleFixture(t)
			f.api.JSON("GET /api/category/{$}", http.StatusUnauthorized, obj{"success": false, "message": "jwt expired"})
			sess := f.login()

			rec := f.do(http.MethodGet, "/categories", reqOpts{session: sess, htmx: tt.htmx})

			want := "/auth/login?redirect_uri=%2Fcategories"
			if tt.htmx {
				assert.Equal(t, want, rec.Header().Get("HX-Redirect"))
			} else {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, want, rec.Header().Get("Location"))
			}
			cookie := responseCookie(rec, SessionCookieName)
			require.NotNil(t, cookie)
			assert.Negative(t, cookie.MaxAge)

			_, err := f.auth.GetSession(context.Background(), sess.ID)
			assert.ErrorIs(t, err, ports.ErrSessionNotFound)
		})
	}
}

func TestPage_ForbiddenGoesToUnauthorized(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("GET /api/category/{$}", http.StatusForbidden, obj{"success": false, "message": "admin only"})
	sess := f.login()

	rec := f.do(http.MethodGet, "/categories", reqOpts{session: sess})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))
	_, err := f.auth.GetSession(context.Background(), sess.ID)
	assert.NoError(t, err)
}

func TestPage_FetchErrorRendersAlert(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("GET /api/category/{$}", http.StatusInternalServerError, obj{"success": false, "message": "database down"})
	sess := f.login()

	rec := f.do(http.MethodGet, "/categories", reqOpts{session: sess, htmx: true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert")
}

func TestAdminPages_RejectMembers(t *testing.T) {
	f := newConsoleFixture(t, asMember())
	sess := f.login()

	rec := f.do(http.MethodGet, "/categories", reqOpts{session: sess})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))

	page := f.do(http.MethodGet, "/unauthorized", reqOpts{session: sess})
	assert.Equal(t, http.StatusForbidden, page.Code)
	assert.Contains(t, page.Body.String(), "administrator access")
	assert.Empty(t, f.api.Calls())
}

func TestCategoryDelete_FailureKeepsPage(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("DELETE /api/category/{id}", http.StatusConflict, obj{"success": false, "message": "Category has posts"})
	sess := f.login()

	rec := f.do(http.MethodPost, "/categories/c1/delete", reqOpts{session: sess, htmx: true, form: url.Values{}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Category has posts")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), `"error"`)
}

func TestUserBulk(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		f := newConsoleFixture(t)
		sess := f.login()

		rec := f.do(http.MethodPost, "/users/bulk", reqOpts{session: sess, htmx: true, form: url.Values{"action": {"delete"}}})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), "Select at least one user.")
		assert.Empty(t, f.api.Calls())
	})

	t.Run("deletes the selected users", func(t *testing.T) {
		f := newConsoleFixture(t)
		f.api.JSON("POST /api/admin/users/bulk-delete", http.StatusOK, obj{"success": true, "message": "2 users deleted", "deletedCount": 2})
		sess := f.login()

		rec := f.do(http.MethodPost, "/users/bulk", reqOpts{session: sess, form: url.Values{
			"action":  {"delete"},
			"userIds": {"u2", "u3", "u2", " "},
		}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/users", rec.Header().Get("Location"))
		calls := f.api.CallsTo(http.MethodPost, "/api/admin/users/bulk-delete")
		require.Len(t, calls, 1)
		assert.Equal(t, []any{"u2", "u3"}, calls[0].Body["userIds"])
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		f := newConsoleFixture(t)
		sess := f.login()

		rec := f.do(http.MethodPost, "/users/bulk", reqOpts{session: sess, htmx: true, form: url.Values{
			"action":  {"archive"},
			"userIds": {"u2"},
		}})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), "Unknown bulk action.")
	})
}

func TestCommunityMemberRole_RejectsUnknownRole(t *testing.T) {
	f := newConsoleFixture(t)
	sess := f.login()

	rec := f.do(http.MethodPost, "/communities/k1/members/u2/role", reqOpts{session: sess, htmx: true, form: url.Values{"role": {"OWNER"}}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "MODERATOR")
	assert.Empty(t, f.api.Calls())
}

func TestAudit_ListsRecordedMutations(t *testing.T) {
	f := newConsoleFixture(t)
	f.api.JSON("DELETE /api/category/{id}", http.StatusOK, obj{"success": true})
	sess := f.login()

	del := f.do(http.MethodPost, "/categories/c7/delete", reqOpts{session: sess, form: url.Values{}})
	require.Equal(t, http.StatusSeeOther, del.Code)

	rec := f.do(http.MethodGet, "/audit", reqOpts{session: sess, htmx: true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "c7")
	assert.Contains(t, rec.Body.String(), "category")
}

func TestNotFound(t *testing.T) {
	f := newConsoleFixture(t)

	html := f.do(http.MethodGet, "/nope", reqOpts{})
	assert.Equal(t, http.StatusNotFound, html.Code)
	assert.Contains(t, html.Header().Get("Content-Type"), "text/html")

	jsonRec := f.do(http.MethodGet, "/nope", reqOpts{json: "{}"})
	assert.Equal(t, http.StatusNotFound, jsonRec.Code)
	assert.Contains(t, jsonRec.Header().Get("Content-Type"), "application/json")
}
