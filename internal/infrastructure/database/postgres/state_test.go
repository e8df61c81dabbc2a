//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Run with: STOREFRONT_TEST_DSN="host=... dbname=..." go test -tags integration ./internal/infrastructure/database/postgres/
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("STOREFRONT_TEST_DSN")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	migration := NewMigration(db, logger.Discard())
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.CreateIndexes())
	return db
}

func testKey() string {
	return "test:" + uuid.New().String()
}

func TestStateStore_SetUpsertsAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewStateStore(db, time.Hour)
	key := testKey()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, `[{"product_id":"A","quantity":1}]`))
	require.NoError(t, store.Set(ctx, key, `[{"product_id":"A","quantity":2}]`))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"product_id":"A","quantity":2}]`, got)

	var count int64
	require.NoError(t, db.Model(&StateEntry{}).Where("key = ?", key).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStateStore_ExpiredEntriesAreHiddenAndPurged(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewStateStore(db, 10*time.Millisecond)
	key := testKey()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	require.NoError(t, store.Set(ctx, key, "dark"))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := NewMigration(db, logger.Discard()).PurgeExpired()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestStateStore_ZeroTTLNeverExpires(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewStateStore(db, 0)
	key := testKey()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	require.NoError(t, store.Set(ctx, key, "1"))

	var entry StateEntry
	require.NoError(t, db.Where("key = ?", key).First(&entry).Error)
	assert.Nil(t, entry.ExpiresAt)

	require.NoError(t, store.Delete(ctx, key))
	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
