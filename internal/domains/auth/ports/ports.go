package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns authdomain.ErrInvalidCredentials on mismatch.
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	// Issue signs a token for p and returns it with TokenID and ExpiresAt filled in.
	Issue(p authdomain.Principal) (string, authdomain.Principal, error)
	Parse(token string) (authdomain.Principal, error)
}

// RevocationStore remembers signed-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRevocationStore never revokes anything.
var NoopRevocationStore RevocationStore = noopRevocationStore{}

type noopRevocationStore struct{}

func (noopRevocationStore) Revoke(context.Context, string, uuid.UUID, time.Time) error { return nil }
func (noopRevocationStore) IsRevoked(context.Context, string) (bool, error)           { return false, nil }
