package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/http/validation"
)

func notificationsMeta() PageMeta {
	return PageMeta{Title: "Wishara Admin - Notifications", PageTitle: "Notifications", CurrentPage: PageNotifications}
}

func notificationOptions() map[string]any {
	return map[string]any{
		"Kinds": []model.NotificationKind{
			model.NotificationBroadcast,
			model.NotificationAnnouncement,
			model.NotificationAffirmation,
			model.NotificationCommunityUpdate,
		},
		"Audiences": []model.Audience{model.AudienceAll, model.AudiencePremium, model.AudienceFree},
	}
}

// notificationFormValues is the send form's echo. Data is one key=value per line.
type notificationFormValues struct {
	Kind     string
	Title    string
	Body     string
	Time     string
	Audience string
	Data     string
}

func (v notificationFormValues) payload() model.NotificationPayload {
	return model.NotificationPayload{
		Title:    v.Title,
		Body:     v.Body,
		Time:     v.Time,
		Audience: model.Audience(v.Audience),
		Data:     parseDataLines(v.Data),
	}
}

// parseDataLines reads "key=value" lines; blank and malformed lines are skipped.
func parseDataLines(raw string) map[string]string {
	var out map[string]string
	for _, line := range strings.Split(raw, "\n") {
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Notifications renders the send forms. Device push status loads client-side
// from the push endpoints.
func (h *UIHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, notificationsMeta())
	for k, v := range notificationOptions() {
		data[k] = v
	}
	data["Mode"] = string(FormModeCreate)
	data["FormData"] = notificationFormValues{
		Kind:     string(model.NotificationBroadcast),
		Audience: string(model.AudienceAll),
	}
	h.renderDashboardPage(w, r, data)
}

func parseNotificationForm(r *http.Request) (notificationFormValues, map[string]string) {
	v := notificationFormValues{
		Kind:     strings.ToLower(strings.TrimSpace(r.PostFormValue("kind"))),
		Title:    r.PostFormValue("title"),
		Body:     r.PostFormValue("body"),
		Time:     strings.TrimSpace(r.PostFormValue("time")),
		Audience: strings.ToLower(strings.TrimSpace(r.PostFormValue("audience"))),
		Data:     r.PostFormValue("data"),
	}
	fv := validation.New().
		Validate("kind", v.Kind, validation.OneOf("Type", "broadcast", "announcement", "affirmations", "community-update")).
		Validate("title", v.Title, validation.Required("Title", 100)).
		Validate("body", v.Body, validation.Required("Body", 500))
	if v.Audience != "" {
		fv.Validate("audience", v.Audience, validation.OneOf("Audience", "all", "premium", "free"))
	}
	return v, fv.Errors()
}

// NotificationSend handles POST /notifications/send.
func (h *UIHandlers) NotificationSend(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[notificationFormValues]{
		W: w, R: r, Mode: FormModeCreate, Handler: h,
		Parser: parseNotificationForm,
		Submit: func(ctx context.Context, _ string, v notificationFormValues) error {
			return h.NotificationSvc.Send(ctx, v.Kind, v.payload())
		},
		Renderer:       h.renderDashboardPage,
		PageMeta:       notificationsMeta(),
		ExtraData:      notificationOptions(),
		SuccessURL:     "/notifications",
		SuccessMessage: "Notification sent",
		SuccessRender:  h.Notifications,
	})
}

// NotificationTest sends a test push to the signed-in admin's devices.
func (h *UIHandlers) NotificationTest(w http.ResponseWriter, r *http.Request) {
	if err := h.NotificationSvc.SendTest(r.Context()); err != nil {
		h.actionFailed(w, r, err, "Unable to send test notification.")
		return
	}
	acknowledged(w, r, "/notifications", "Test notification sent")
}

// NotificationTestScheduled schedules a delayed test push.
func (h *UIHandlers) NotificationTestScheduled(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.PostFormValue("delay"))
	if raw == "" {
		raw = "10"
	}
	if msg := validation.IntRange("Delay", 1, 3600)(raw); msg != "" {
		h.actionFailed(w, r, apperrors.ValidationField("delay", msg), msg)
		return
	}
	delay, _ := strconv.Atoi(raw)
	req := model.TestScheduledRequest{
		Delay: delay,
		Title: strings.TrimSpace(r.PostFormValue("title")),
		Body:  strings.TrimSpace(r.PostFormValue("body")),
	}
	if err := h.NotificationSvc.SendTestScheduled(r.Context(), req); err != nil {
		h.actionFailed(w, r, err, "Unable to schedule test notification.")
		return
	}
	acknowledged(w, r, "/notifications", "Test notification scheduled in "+strconv.Itoa(delay)+"s")
}
