package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authports "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/ports"
)

// RevocationStore persists signed-out token ids in PostgreSQL.
type RevocationStore struct {
	db *gorm.DB
}

// NewRevocationStore wires a PostgreSQL-backed revocation store. Caller owns DB lifecycle.
func NewRevocationStore(db *gorm.DB) *RevocationStore {
	return &RevocationStore{db: db}
}

type revokedTokenRecord struct {
	TokenID   string    `gorm:"primaryKey;column:token_id;size:64"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }

// Revoke records the token id; revoking twice is a no-op.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return errors.New("token id is required")
	}
	rec := revokedTokenRecord{TokenID: tokenID, UserID: userID, ExpiresAt: expiresAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&revokedTokenRecord{}).Where("token_id = ?", tokenID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired removes revocations whose tokens have expired. Use for housekeeping or cron.
func (s *RevocationStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&revokedTokenRecord{})
	return result.RowsAffected, result.Error
}

func (s *RevocationStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres revocation store not configured")
	}
	return nil
}

var _ authports.RevocationStore = (*RevocationStore)(nil)
