package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "cart", "[]"))
	v, err := m.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Delete(ctx, "cart"))
	_, err = m.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNamespace_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := NewNamespace(m, "storefront", "session", "a")
	b := NewNamespace(m, "storefront", "session", "b")

	require.NoError(t, a.Set(ctx, "theme", "dark"))

	_, err := b.Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := m.Get(ctx, "storefront:session:a:theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	assert.Equal(t, "storefront:session:a:theme", a.Key("theme"))
}
