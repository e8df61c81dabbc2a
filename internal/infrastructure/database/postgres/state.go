// internal/infrastructure/database/postgres/state.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateEntry is one persisted client-state value (cart, tokens, theme)
type StateEntry struct {
	Key       string     `gorm:"primaryKey;size:255" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	ExpiresAt *time.Time `json:"expires_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (StateEntry) TableName() string {
	return "client_state"
}

// StateStore implements storage.KV on top of the client_state table
type StateStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStateStore creates a KV backed by PostgreSQL; ttl of zero never expires
func NewStateStore(db *gorm.DB, ttl time.Duration) *StateStore {
	return &StateStore{db: db, ttl: ttl}
}

func (s *StateStore) Get(ctx context.Context, key string) (string, error) {
	var entry StateEntry
	err := s.db.WithContext(ctx).
		Where("key = ? AND (expires_at IS NULL OR expires_at > ?)", key, time.Now().UTC()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load state %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *StateStore) Set(ctx context.Context, key, value string) error {
	entry := StateEntry{Key: key, Value: value}
	if s.ttl > 0 {
		expires := time.Now().UTC().Add(s.ttl)
		entry.ExpiresAt = &expires
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&StateEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}
