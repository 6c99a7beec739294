package model

import (
	"strings"
	"time"
)

const (
	maxNotificationTitleLen = 100
	maxNotificationBodyLen  = 500

	// datetimeLocalLayout is what an <input type="datetime-local"> submits.
	datetimeLocalLayout = "2006-01-02T15:04"
)

// NotificationKind selects the admin endpoint a notification goes to.
type NotificationKind string

const (
	NotificationAffirmation     NotificationKind = "affirmations"
	NotificationCommunityUpdate NotificationKind = "community-update"
	NotificationAnnouncement    NotificationKind = "announcement"
	NotificationBroadcast       NotificationKind = "broadcast"
)

// ParseNotificationKind normalizes a kind and reports whether it is supported.
func ParseNotificationKind(v string) (NotificationKind, bool) {
	switch k := NotificationKind(strings.ToLower(strings.TrimSpace(v))); k {
	case NotificationAffirmation, NotificationCommunityUpdate, NotificationAnnouncement, NotificationBroadcast:
		return k, true
	default:
		return "", false
	}
}

// Audience narrows who receives a notification.
type Audience string

const (
	AudienceAll     Audience = "all"
	AudiencePremium Audience = "premium"
	AudienceFree    Audience = "free"
)

// NotificationPayload is the body of every admin send/schedule call.
type NotificationPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Time     string            `json:"time,omitempty"`
	Audience Audience          `json:"audience,omitempty"`
}

// Validate validates and normalizes the payload. Time accepts RFC 3339 or a
// datetime-local value interpreted in loc, and is sent as RFC 3339 UTC.
func (p *NotificationPayload) Validate(loc *time.Location) error {
	title, err := requireText("title", "Title", p.Title, maxNotificationTitleLen)
	if err != nil {
		return err
	}
	p.Title = title
	body, err := requireText("body", "Body", p.Body, maxNotificationBodyLen)
	if err != nil {
		return err
	}
	p.Body = body

	p.Audience = Audience(strings.ToLower(strings.TrimSpace(string(p.Audience))))
	switch p.Audience {
	case "":
		p.Audience = AudienceAll
	case AudienceAll, AudiencePremium, AudienceFree:
	default:
		return validationField("audience", "Audience must be all, premium or free")
	}

	raw := strings.TrimSpace(p.Time)
	if raw == "" {
		p.Time = ""
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.ParseInLocation(datetimeLocalLayout, raw, loc)
	}
	if err != nil {
		return validationField("time", "Time must be a valid date and time")
	}
	p.Time = t.UTC().Format(time.RFC3339)
	return nil
}

// TestScheduledRequest asks the API to deliver a test push after Delay seconds.
type TestScheduledRequest struct {
	Delay int    `json:"delay"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate bounds the delay to one hour.
func (r *TestScheduledRequest) Validate() error {
	if r.Delay < 1 || r.Delay > 3600 {
		return validationField("delay", "Delay must be between 1 and 3600 seconds")
	}
	if strings.TrimSpace(r.Title) == "" {
		r.Title = "Scheduled Notification"
	}
	if strings.TrimSpace(r.Body) == "" {
		r.Body = "This notification was scheduled from the admin console"
	}
	return nil
}

// TokenValidation is the API's answer to a token validity check.
type TokenValidation struct {
	Valid bool   `json:"valid"`
	Token string `json:"token,omitempty"`
}
