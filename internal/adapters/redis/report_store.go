package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
)

// ReportStore keeps browser permission/token reports under "push:<session id>".
// Entries expire after ttl so abandoned sessions do not accumulate.
type ReportStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ ports.BrowserReportStore = (*ReportStore)(nil)

// NewReportStore creates a ReportStore; ttl defaults to 24h.
func NewReportStore(client redis.UniversalClient, ttl time.Duration) *ReportStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportStore{client: client, ttl: ttl}
}

func reportKey(sessionID string) string { return "push:" + sessionID }

func (s *ReportStore) SaveReport(ctx context.Context, sessionID string, r push.BrowserReport) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal push report: %w", err)
	}
	return s.client.Set(ctx, reportKey(sessionID), data, s.ttl).Err()
}

func (s *ReportStore) GetReport(ctx context.Context, sessionID string) (push.BrowserReport, error) {
	data, err := s.client.Get(ctx, reportKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return push.BrowserReport{}, nil
	}
	if err != nil {
		return push.BrowserReport{}, fmt.Errorf("redis get: %w", err)
	}
	var r push.BrowserReport
	if err := json.Unmarshal(data, &r); err != nil {
		return push.BrowserReport{}, fmt.Errorf("unmarshal push report: %w", err)
	}
	return r, nil
}

func (s *ReportStore) DeleteReport(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, reportKey(sessionID)).Err()
}
