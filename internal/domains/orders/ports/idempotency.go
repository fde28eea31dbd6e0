package ports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxIdempotencyKeyLength bounds client supplied keys so the scoped key fits
// the key column.
const MaxIdempotencyKeyLength = 200

var (
	// ErrIdempotencyConflict is returned when a key is reused with a different request.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request")
	// ErrIdempotencyKeyTooLong is returned for keys above MaxIdempotencyKeyLength.
	ErrIdempotencyKeyTooLong = errors.New("idempotency key is too long")
)

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScopedIdempotencyKey namespaces a client key by the caller that sent it, so
// two callers picking the same key never collide.
func ScopedIdempotencyKey(callerID uuid.UUID, key string) string {
	return callerID.String() + ":" + strings.TrimSpace(key)
}

// IdempotencyStore reads committed keys outside a unit of work.
type IdempotencyStore interface {
	// Get returns nil without error when the key is unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
}

// IdempotencyClaims writes keys inside a unit of work, so a claim commits or
// rolls back together with the order it names.
type IdempotencyClaims interface {
	// Claim stores record and reports true. When the key is already taken the
	// stored record comes back with false and nothing is written.
	Claim(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, bool, error)
}
