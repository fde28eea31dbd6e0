package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
)

var _ ports.RevocationStore = (*RevocationStore)(nil)

// RevocationStore keeps revoked token ids in memory until they expire.
type RevocationStore struct {
	revoked sync.Map
	now     func() time.Time
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{now: time.Now}
}

func (s *RevocationStore) Revoke(_ context.Context, tokenID string, _ uuid.UUID, expiresAt time.Time) error {
	s.revoked.Store(tokenID, expiresAt)
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked.Load(tokenID)
	return ok, nil
}

// PurgeExpired drops entries whose token would be rejected as expired anyway.
func (s *RevocationStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()
	var purged int64
	s.revoked.Range(func(key, value any) bool {
		if expiresAt, ok := value.(time.Time); ok && !expiresAt.IsZero() && !expiresAt.After(now) {
			s.revoked.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}
