// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	models := []interface{}{
		&StateEntry{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates indexes AutoMigrate cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_client_state_expires_at ON client_state (expires_at) WHERE expires_at IS NOT NULL",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// PurgeExpired deletes state entries past their expiration
func (m *Migration) PurgeExpired() (int64, error) {
	result := m.db.Where("expires_at IS NOT NULL AND expires_at < NOW()").Delete(&StateEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired state: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		m.log.WithField("rows", result.RowsAffected).Info("purged expired client state")
	}
	return result.RowsAffected, nil
}
