// Package audit records moderation actions for later review.
package audit

import (
	"context"
	"sync"
	"time"

	"shayarihub/internal/models"
)

// Recorder persists and lists moderation audit entries.
type Recorder interface {
	Record(ctx context.Context, entry models.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// DefaultLimit caps Recent when the caller passes a non-positive limit.
const DefaultLimit = 50

// MemoryRecorder keeps the newest entries in process. It backs development
// setups without Mongo and tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	max     int
}

// NewMemoryRecorder keeps at most max entries; max <= 0 means 1000.
func NewMemoryRecorder(max int) *MemoryRecorder {
	if max <= 0 {
		max = 1000
	}
	return &MemoryRecorder{max: max}
}

func (m *MemoryRecorder) Record(_ context.Context, entry models.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.max; over > 0 {
		m.entries = append([]models.AuditEntry(nil), m.entries[over:]...)
	}
	return nil
}

// Recent returns entries newest first.
func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AuditEntry, 0, min(limit, len(m.entries)))
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
