package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/ports"
)

const msgInvalidCredentials = "Invalid email or password."

// LoginPage renders the sign-in form. A signed-in visitor goes straight to redirect_uri.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginForm{RedirectURI: redirectURI}, http.StatusOK)
}

type loginForm struct {
	Identifier  string
	RedirectURI string
	Error       string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, status int) {
	data := basePageData(r, PageMeta{Title: "Wishara Admin - Sign in", PageTitle: "Sign in", CurrentPage: PageLogin})
	data["Form"] = form
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.T.RenderNamed(w, "login-layout", data); err != nil {
		h.logger().Error("login page render failed", "error", err)
	}
}

// Login verifies credentials and starts a session.
// POST /auth/login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Identifier:  strings.TrimSpace(r.PostFormValue("identifier")),
		RedirectURI: safeRedirectPath(r.PostFormValue("redirect_uri")),
	}

	session, err := h.Auth.Login(r.Context(), domainauth.Credentials{
		Identifier: form.Identifier,
		Password:   r.PostFormValue("password"),
	})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			form.Error = msgInvalidCredentials
			h.renderLogin(w, r, form, http.StatusUnauthorized)
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		form.Error = "Sign-in is unavailable right now. Please try again."
		h.renderLogin(w, r, form, http.StatusBadGateway)
		return
	}

	h.setSessionCookie(w, r, session)
	if IsHTMX(r) {
		HTMX(w).Redirect(form.RedirectURI)
		return
	}
	http.Redirect(w, r, form.RedirectURI, http.StatusSeeOther)
}

// Logout ends the session and sends the browser to the signed-out page.
// POST /auth/logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if err := h.Auth.Logout(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearCookie(w, r, SessionCookieName)

	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = "/"
	}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(redirectURI))
	signedOut := (&url.URL{Path: "/auth/signed-out", RawQuery: q.Encode()}).String()

	if IsHTMX(r) {
		HTMX(w).Redirect(signedOut)
		return
	}
	http.Redirect(w, r, signedOut, http.StatusSeeOther)
}

// SignedOut tells the visitor their session ended and offers to sign in again.
// GET /auth/signed-out.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Wishara Admin - Signed out", PageTitle: "Signed out"})
	data["LoginURL"] = "/auth/login?redirect_uri=" + url.QueryEscape(safeRedirectPath(r.URL.Query().Get("redirect_uri")))
	if err := h.T.RenderNamed(w, "signed-out-layout", data); err != nil {
		h.logger().Error("signed-out page render failed", "error", err)
	}
}

// Unauthorized is shown to signed-in users without the admin capability.
// GET /unauthorized.
func (h *UIHandlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.renderErrorPage(w, r, http.StatusForbidden, "You need administrator access to view this page.")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s *domainauth.Session) {
	maxAge := int(s.ExpiresAt.Sub(h.now()) / time.Second)
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
