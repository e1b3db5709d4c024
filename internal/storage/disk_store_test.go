package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	key := NewKey(7, "../../etc/Order.pdf")
	assert.True(t, strings.HasPrefix(key, "7/"))
	assert.True(t, strings.HasSuffix(key, "_Order.pdf"))

	require.NoError(t, store.Save(ctx, key, strings.NewReader("%PDF-1.4"), 8, "application/pdf"))
	b, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Read(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, key))
}

func TestDiskStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "../outside.pdf")
	assert.Error(t, err)
	err = store.Save(context.Background(), "", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a.pdf", SafeFilename(`C:\Users\x\a.pdf`))
	assert.Equal(t, "document", SafeFilename("  "))
	assert.Equal(t, "b.pdf", SafeFilename("/tmp/b.pdf"))
}
