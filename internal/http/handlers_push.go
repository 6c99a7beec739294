package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/domain/push"
)

// PushHandlers serves the JSON endpoints the browser push script calls.
type PushHandlers struct {
	Registry PushService // nil when push is disabled
	Config   config.PushConfig
	UI       *UIHandlers
	// Static holds js/firebase-messaging-sw.js.
	Static fs.FS
}

const serviceWorkerPath = "js/firebase-messaging-sw.js"

type pushConfigResponse struct {
	Enabled  bool                      `json:"enabled"`
	VAPIDKey string                    `json:"vapidKey,omitempty"`
	Firebase *config.FirebaseWebConfig `json:"firebase,omitempty"`
}

// WebConfig returns the public Firebase web config and VAPID key.
// GET /notifications/config.
func (h *PushHandlers) WebConfig(w http.ResponseWriter, _ *http.Request) {
	if h.Registry == nil {
		WriteJSON(w, http.StatusOK, pushConfigResponse{Enabled: false})
		return
	}
	fb := h.Config.Firebase
	WriteJSON(w, http.StatusOK, pushConfigResponse{Enabled: true, VAPIDKey: h.Config.VAPIDKey, Firebase: &fb})
}

// ServiceWorker serves the messaging service worker with the public Firebase
// config inlined, since the worker cannot read it before registering handlers.
// GET /firebase-messaging-sw.js.
func (h *PushHandlers) ServiceWorker(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil || h.Static == nil {
		http.NotFound(w, r)
		return
	}
	body, err := fs.ReadFile(h.Static, serviceWorkerPath)
	if err != nil {
		h.UI.logger().ErrorContext(r.Context(), "service worker script missing", "error", err)
		http.NotFound(w, r)
		return
	}
	cfg, err := json.Marshal(h.Config.Firebase)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	buf.WriteString("self.firebaseConfig = ")
	buf.Write(cfg)
	buf.WriteString(";\n")
	buf.Write(body)

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Service-Worker-Allowed", "/")
	_, _ = buf.WriteTo(w)
}

// Permission records the browser's Notification.permission.
// POST /notifications/permission {"permission": "granted|denied|default"}.
func (h *PushHandlers) Permission(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Permission string `json:"permission"`
	}
	if !h.ready(w) || !DecodeJSON(w, r, &body) {
		return
	}
	perm, err := push.ParsePermission(strings.TrimSpace(body.Permission))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_permission", Err: err})
		return
	}
	h.report(w, r, perm, "")
}

// Token records the messaging token the browser obtained. A token implies granted permission.
// POST /notifications/token {"token": "..."}.
func (h *PushHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !h.ready(w) || !DecodeJSON(w, r, &body) {
		return
	}
	token := strings.TrimSpace(body.Token)
	if token == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_token", Err: errors.New("token is required")})
		return
	}
	h.report(w, r, push.PermissionGranted, token)
}

func (h *PushHandlers) report(w http.ResponseWriter, r *http.Request, perm push.Permission, token string) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}
	if err := h.Registry.Report(r.Context(), *sess, perm, token); err != nil {
		h.UI.logger().ErrorContext(r.Context(), "push report failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "report_failed", Err: errors.New("unable to record notification state")})
		return
	}
	WriteJSON(w, http.StatusAccepted, h.Registry.Snapshot(sess.ID))
}

// Status returns the token manager state for the current session.
// GET /notifications/status.
func (h *PushHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteJSON(w, http.StatusOK, push.Snapshot{State: push.StateUnregistered})
		return
	}
	WriteJSON(w, http.StatusOK, h.Registry.Snapshot(sess.ID))
}

// Detach stops the session's manager when the page owning it unloads.
// POST /notifications/detach.
func (h *PushHandlers) Detach(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		h.Registry.Stop(sess.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PushHandlers) ready(w http.ResponseWriter) bool {
	if h.Registry != nil {
		return true
	}
	WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "push_disabled", Err: errors.New("notifications are disabled")})
	return false
}
