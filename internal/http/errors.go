package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

const msgUnexpected = "An unexpected error occurred. Please try again."

// errorMessage maps err to the text shown to the admin. Causes never reach the browser.
func errorMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "Request was canceled."
	}
	return apperrors.UserMessage(err, fallback)
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = errorMessage(err, msgUnexpected)
}

// handleAuthFailure ends the request when the API rejected the session.
// 401 clears the session cookie and sends the browser back to login; 403
// shows the unauthorized page. Reports whether it wrote a response.
func (h *UIHandlers) handleAuthFailure(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case apperrors.IsUnauthorized(err):
		h.sessionExpired(w, r)
		return true
	case apperrors.IsForbidden(err):
		showAccessDenied(w, r)
		return true
	default:
		return false
	}
}

// sessionExpired clears the session cookie and redirects to login carrying
// the current location. The server-side teardown already ran in the client hook.
func (h *UIHandlers) sessionExpired(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, SessionCookieName)
	target := "/auth/login?redirect_uri=" + url.QueryEscape(redirectPathForRequest(r))
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// actionFailed answers a failed mutation that has no form to re-render.
// htmx callers keep the current page and get an error toast.
func (h *UIHandlers) actionFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if h.handleAuthFailure(w, r, err) {
		return
	}
	h.logger().WarnContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
	msg := errorMessage(err, fallback)
	if IsHTMX(r) {
		triggerToast(w, msg, toastError)
		w.Header().Set("Hx-Reswap", "none")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.renderErrorPage(w, r, apperrors.HTTPStatus(apperrors.GetCode(err)), msg)
}

// renderErrorPage renders the standalone error page with status.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := basePageData(r, PageMeta{Title: "Wishara Admin - Error", PageTitle: "Error"})
	data["Status"] = status
	data["ErrorMessage"] = msg
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("error page render failed", "error", err)
	}
}

// NotFound renders the not-found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("not found")})
		return
	}
	h.renderErrorPage(w, r, http.StatusNotFound, "The page you were looking for does not exist.")
}

// succeeded finishes a mutation. htmx callers get a toast and the target
// page rendered in place with its URL pushed; others are redirected.
func (h *UIHandlers) succeeded(w http.ResponseWriter, r *http.Request, target, message string, render http.HandlerFunc) {
	if !IsHTMX(r) || render == nil {
		if IsHTMX(r) {
			triggerToast(w, message, toastSuccess)
			HTMX(w).Redirect(target)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	triggerToast(w, message, toastSuccess)
	SetHXPushURL(w, target)
	w.Header().Set("Hx-Retarget", "#main-content")
	w.Header().Set("Hx-Reswap", "innerHTML")

	r2 := r.Clone(r.Context())
	r2.Method = http.MethodGet
	if u, err := url.Parse(target); err == nil {
		r2.URL = u
		r2.RequestURI = target
	}
	r2.Form = nil
	r2.PostForm = nil
	render(w, r2)
}

// acknowledged finishes a mutation that changes nothing on screen. htmx
// callers stay put and get a toast; others go back to target.
func acknowledged(w http.ResponseWriter, r *http.Request, target, message string) {
	if !IsHTMX(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	triggerToast(w, message, toastSuccess)
	w.Header().Set("Hx-Reswap", "none")
	w.WriteHeader(http.StatusNoContent)
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *UIHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
