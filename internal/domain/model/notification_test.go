package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

func TestNotificationPayload_Validate(t *testing.T) {
	p := NotificationPayload{Title: " Hi ", Body: "Body"}
	require.NoError(t, p.Validate(nil))
	assert.Equal(t, "Hi", p.Title)
	assert.Equal(t, AudienceAll, p.Audience)
	assert.Empty(t, p.Time)

	loc := time.FixedZone("UTC+2", 2*60*60)
	p = NotificationPayload{Title: "t", Body: "b", Time: "2026-03-01T09:30", Audience: "Premium"}
	require.NoError(t, p.Validate(loc))
	assert.Equal(t, "2026-03-01T07:30:00Z", p.Time)
	assert.Equal(t, AudiencePremium, p.Audience)

	p = NotificationPayload{Title: "t", Body: "b", Time: "2026-03-01T09:30:00+00:00"}
	require.NoError(t, p.Validate(loc))
	assert.Equal(t, "2026-03-01T09:30:00Z", p.Time)
}

func TestNotificationPayload_ValidateErrors(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	tests := []struct {
		name  string
		p     NotificationPayload
		field string
	}{
		{"missing title", NotificationPayload{Body: "b"}, "title"},
		{"long title", NotificationPayload{Title: string(long), Body: "b"}, "title"},
		{"missing body", NotificationPayload{Title: "t"}, "body"},
		{"bad audience", NotificationPayload{Title: "t", Body: "b", Audience: "vip"}, "audience"},
		{"bad time", NotificationPayload{Title: "t", Body: "b", Time: "tomorrow"}, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.field, apperrors.GetField(tt.p.Validate(time.UTC)))
		})
	}
}

func TestParseNotificationKind(t *testing.T) {
	k, ok := ParseNotificationKind("Community-Update")
	assert.True(t, ok)
	assert.Equal(t, NotificationCommunityUpdate, k)
	_, ok = ParseNotificationKind("sms")
	assert.False(t, ok)
}

func TestTestScheduledRequest_Validate(t *testing.T) {
	r := TestScheduledRequest{Delay: 10}
	require.NoError(t, r.Validate())
	assert.NotEmpty(t, r.Title)
	assert.Error(t, (&TestScheduledRequest{Delay: 0}).Validate())
}
