package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileBlob_ReadMissing(t *testing.T) {
	b := NewFileBlob(filepath.Join(t.TempDir(), "nope.xml"))
	_, err := b.Read(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotExist))
}

func TestFileBlob_WriteCreatesDirAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dat", "dat.xml")
	b := NewFileBlob(path)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, []byte("first")))
	require.NoError(t, b.Write(ctx, []byte("second")))

	got, err := b.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	// no pending temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, b.Location(), "dat.xml")
}

func TestFileBlob_HonoursCancelledContext(t *testing.T) {
	b := NewFileBlob(filepath.Join(t.TempDir(), "dat.xml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, b.Write(ctx, []byte("x")))
	_, err := b.Read(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMinIOConfigValidate(t *testing.T) {
	var nilCfg *MinIOConfig
	require.Error(t, nilCfg.Validate())
	require.Error(t, (&MinIOConfig{Endpoint: "localhost:9000"}).Validate())
	require.NoError(t, (&MinIOConfig{Endpoint: "localhost:9000", Bucket: "stocks"}).Validate())

	_, err := NewMinIOStorage(context.Background(), &MinIOConfig{})
	require.Error(t, err)
}
