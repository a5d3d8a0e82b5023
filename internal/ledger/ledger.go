// Package ledger is the append-only store of classification records.
package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"lead-qualifier/internal/models"
)

const DefaultRecentLimit = 50

var ErrDuplicateRecord = errors.New("classification record already exists")

// Ledger appends write-once records and reads the newest ones back.
type Ledger interface {
	Append(ctx context.Context, record models.ClassificationRecord) error
	Recent(ctx context.Context, n int) ([]models.ClassificationRecord, error)
}

func normalizeLimit(n int) int {
	if n <= 0 {
		return DefaultRecentLimit
	}
	return n
}

// newestFirst returns up to n records, newest first, without touching records.
func newestFirst(records []models.ClassificationRecord, n int) []models.ClassificationRecord {
	out := make([]models.ClassificationRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if n := normalizeLimit(n); len(out) > n {
		out = out[:n]
	}
	return out
}

type MemoryLedger struct {
	mu      sync.Mutex
	records []models.ClassificationRecord
	ids     map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{ids: make(map[string]struct{})}
}

func (l *MemoryLedger) Append(_ context.Context, record models.ClassificationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[record.ID]; ok {
		return ErrDuplicateRecord
	}
	l.ids[record.ID] = struct{}{}
	l.records = append(l.records, record)
	return nil
}

func (l *MemoryLedger) Recent(_ context.Context, n int) ([]models.ClassificationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return newestFirst(l.records, n), nil
}
