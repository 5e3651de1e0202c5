package filestorage

import (
	"context"
	"testing"

	"inspection-system/pkg/config"
	apperrors "inspection-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalFileStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	payload := []byte("%PDF-1.4\n\x00\x01binary\xff")
	handle, err := store.Put(ctx, "reports/svc-1-20240501083000000.pdf", payload, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/files/reports/svc-1-20240501083000000.pdf", handle)

	got, err := store.Get(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err := store.Exists(ctx, handle)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalDeleteMissingObject(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalFileStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	handle, err := store.Put(ctx, "reports/a.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, handle))
	assert.ErrorIs(t, store.Delete(ctx, handle), apperrors.ErrObjectMissing)

	_, err = store.Get(ctx, handle)
	assert.ErrorIs(t, err, apperrors.ErrObjectMissing)
}

func TestLocalRejectsForeignHandle(t *testing.T) {
	store, err := NewLocalFileStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "/other/reports/a.pdf")
	assert.Error(t, err)
	_, err = store.Get(context.Background(), "/files/../etc/passwd")
	assert.Error(t, err)
}

func TestKeyFromHandle(t *testing.T) {
	key, err := KeyFromHandle("https://cdn.example.com", "pdf-reports", "https://cdn.example.com/reports/svc-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "reports/svc-1.pdf", key)

	key, err = KeyFromHandle("https://cdn.example.com", "pdf-reports",
		"https://abc.supabase.co/storage/v1/object/public/pdf-reports/reports/svc-2.pdf")
	require.NoError(t, err)
	assert.Equal(t, "reports/svc-2.pdf", key)

	_, err = KeyFromHandle("https://cdn.example.com", "pdf-reports", "")
	assert.Error(t, err)
}

func TestNewSelectsDriver(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalPath: t.TempDir(), PublicBaseURL: "/files"})
	require.NoError(t, err)
	assert.IsType(t, &LocalFileStorage{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
