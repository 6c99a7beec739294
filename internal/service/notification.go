package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

// NotificationService sends and schedules push notifications through the API.
type NotificationService struct {
	resource
	loc *time.Location
}

// NewNotificationService constructs a new NotificationService. loc is the
// zone datetime-local inputs are read in; nil means UTC.
func NewNotificationService(opts ResourceOptions, loc *time.Location) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationService{resource: newResource(opts, "notifications"), loc: loc}
}

func notificationPath(kind model.NotificationKind) string {
	if kind == model.NotificationBroadcast {
		return "/admin/notifications/broadcast"
	}
	return "/admin/notifications/schedule/" + string(kind)
}

// Send validates p and sends or schedules it as kind.
func (s *NotificationService) Send(ctx context.Context, kind string, p model.NotificationPayload) error {
	k, ok := model.ParseNotificationKind(kind)
	if !ok {
		return apperrors.ValidationField("kind", "Unknown notification type")
	}
	if err := p.Validate(s.loc); err != nil {
		return err
	}
	if err := s.send(ctx, http.MethodPost, notificationPath(k), p, nil); err != nil {
		return fmt.Errorf("send %s notification: %w", k, err)
	}
	action := model.AuditSchedule
	if k == model.NotificationBroadcast {
		action = model.AuditBroadcast
	}
	s.record(ctx, action, "notification", string(k), p.Title)
	return nil
}

// SendTest sends a test notification to the signed-in admin's devices.
func (s *NotificationService) SendTest(ctx context.Context) error {
	if err := s.send(ctx, http.MethodPost, "/notifications/test", nil, nil); err != nil {
		return fmt.Errorf("send test notification: %w", err)
	}
	return nil
}

// SendTestScheduled asks the API to deliver a test notification after req.Delay seconds.
func (s *NotificationService) SendTestScheduled(ctx context.Context, req model.TestScheduledRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.send(ctx, http.MethodPost, "/notifications/test-scheduled", req, nil); err != nil {
		return fmt.Errorf("schedule test notification: %w", err)
	}
	return nil
}
