package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/ports"
)

// AuditRing is a bounded in-memory audit log; the oldest entries are overwritten.
type AuditRing struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	next    int
	full    bool
	seq     int64
}

var _ ports.AuditRepository = (*AuditRing)(nil)

// NewAuditRing creates a ring holding up to capacity entries (default 1000).
func NewAuditRing(capacity int) *AuditRing {
	if capacity <= 0 {
		capacity = 1000
	}
	return &AuditRing{entries: make([]model.AuditEntry, capacity)}
}

func (r *AuditRing) Record(_ context.Context, e model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.ID = r.seq
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

func (r *AuditRing) List(_ context.Context, opts model.AuditListOptions) ([]model.AuditEntry, int, error) {
	opts.Normalize()
	r.mu.Lock()
	size := r.next
	if r.full {
		size = len(r.entries)
	}
	// Walk backwards from the newest entry.
	newest := make([]model.AuditEntry, 0, size)
	for i := 1; i <= size; i++ {
		idx := (r.next - i + len(r.entries)) % len(r.entries)
		e := r.entries[idx]
		if opts.Actor != "" && !strings.EqualFold(e.Actor, opts.Actor) {
			continue
		}
		newest = append(newest, e)
	}
	r.mu.Unlock()

	total := len(newest)
	if opts.Offset >= total {
		return []model.AuditEntry{}, total, nil
	}
	end := min(opts.Offset+opts.Limit, total)
	return newest[opts.Offset:end], total, nil
}
