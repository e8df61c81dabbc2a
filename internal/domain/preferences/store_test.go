package preferences

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
)

func newTestStore(kv storage.KV) *Store {
	return NewStore(context.Background(), kv, logrus.NewEntry(logger.Discard()))
}

func TestTheme_DefaultsToSystem(t *testing.T) {
	s := newTestStore(storage.NewMemory())
	assert.Equal(t, ThemeSystem, s.Theme())
}

func TestTheme_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	require.NoError(t, newTestStore(kv).SetTheme(ctx, ThemeDark))
	assert.Equal(t, ThemeDark, newTestStore(kv).Theme())
}

func TestTheme_RejectsUnknown(t *testing.T) {
	s := newTestStore(storage.NewMemory())
	assert.ErrorIs(t, s.SetTheme(context.Background(), Theme("neon")), ErrInvalidTheme)
	assert.Equal(t, ThemeSystem, s.Theme())
}

func TestTheme_CorruptValueFallsBack(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), themeKey, "purple"))
	assert.Equal(t, ThemeSystem, newTestStore(kv).Theme())
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("  Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestWholesalePin(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newTestStore(kv)

	require.NoError(t, s.SetWholesalePin(ctx, " 1234 "))
	assert.Equal(t, "1234", s.WholesalePin())
	assert.Equal(t, "1234", newTestStore(kv).WholesalePin())

	require.NoError(t, s.SetWholesalePin(ctx, "  "))
	assert.Empty(t, s.WholesalePin())
	assert.Equal(t, 0, kv.Len())
}
