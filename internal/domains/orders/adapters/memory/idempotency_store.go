package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps order idempotency keys for development and tests.
// Keys are written only by Store when a unit of work commits.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.IdempotencyRecord
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]ports.IdempotencyRecord{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) stamp(record ports.IdempotencyRecord) ports.IdempotencyRecord {
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	return record
}

// commit keeps the first record written for a key.
func (s *IdempotencyStore) commit(records map[string]ports.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, record := range records {
		if _, ok := s.records[key]; !ok {
			s.records[key] = record
		}
	}
}
