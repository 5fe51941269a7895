package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stockboard/stockboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlob keeps content in memory and can be told to fail.
type fakeBlob struct {
	mu       sync.Mutex
	data     []byte
	missing  bool
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeBlob) Location() string { return "mem://fake" }

func (f *fakeBlob) Read(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.missing {
		return nil, storage.ErrNotExist
	}
	return append([]byte(nil), f.data...), nil
}

func (f *fakeBlob) Write(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data = append([]byte(nil), data...)
	f.missing = false
	f.writes++
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dat.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestXMLRepo_ListInStoredOrder(t *testing.T) {
	path := writeFile(t, `<stocks><stock><title>Apple</title><value>170</value></stock><stock><title>Pear</title></stock></stocks>`)
	repo := NewXMLRepo(storage.NewFileBlob(path))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []stock.Record{
		stock.NewRecord("title", "Apple", "value", "170"),
		stock.NewRecord("title", "Pear"),
	}, got)
}

func TestXMLRepo_AppendPreservesExisting(t *testing.T) {
	path := writeFile(t, `<stocks><stock><title>Microsoft</title><value>300</value></stock></stocks>`)
	repo := NewXMLRepo(storage.NewFileBlob(path))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, stock.NewRecord("title", "Tesla", "value", "800")))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []stock.Record{
		stock.NewRecord("title", "Microsoft", "value", "300"),
		stock.NewRecord("title", "Tesla", "value", "800"),
	}, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "<title>Tesla</title>")
}

func TestXMLRepo_AppendToEmptyContainer(t *testing.T) {
	path := writeFile(t, `<stocks></stocks>`)
	repo := NewXMLRepo(storage.NewFileBlob(path))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, stock.NewRecord("title", "Google", "value", "1500")))
	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []stock.Record{stock.NewRecord("title", "Google", "value", "1500")}, got)
}

func TestXMLRepo_FailureKinds(t *testing.T) {
	ctx := context.Background()

	missing := NewXMLRepo(storage.NewFileBlob(filepath.Join(t.TempDir(), "absent.xml")))
	_, err := missing.List(ctx)
	require.True(t, errors.Is(err, stock.ErrStorageRead), "got %v", err)
	require.True(t, errors.Is(missing.Append(ctx, stock.NewRecord("title", "x")), stock.ErrStorageRead))

	broken := NewXMLRepo(storage.NewFileBlob(writeFile(t, `<stocks><stock>`)))
	_, err = broken.List(ctx)
	require.True(t, errors.Is(err, stock.ErrFormat), "got %v", err)
	require.True(t, errors.Is(broken.Append(ctx, stock.NewRecord("title", "x")), stock.ErrFormat))

	blob := &fakeBlob{data: stock.EmptyDocument, writeErr: errors.New("disk full")}
	err = NewXMLRepo(blob).Append(ctx, stock.NewRecord("title", "x"))
	require.True(t, errors.Is(err, stock.ErrStorageWrite), "got %v", err)
	require.Equal(t, string(stock.EmptyDocument), string(blob.data), "failed write must not change content")

	err = NewXMLRepo(&fakeBlob{data: stock.EmptyDocument}).Append(ctx, stock.NewRecord("bad name", "x"))
	require.True(t, errors.Is(err, stock.ErrStorageWrite), "serialisation failure is a write failure")
}

func TestXMLRepo_ConcurrentAppendsAreNotLost(t *testing.T) {
	repo := NewXMLRepo(storage.NewFileBlob(writeFile(t, `<stocks/>`)))
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, stock.NewRecord("title", fmt.Sprintf("deal-%d", i))))
		}(i)
	}
	wg.Wait()

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, n)
}

func TestXMLRepo_InitCreatesOnlyWhenMissing(t *testing.T) {
	ctx := context.Background()
	blob := &fakeBlob{missing: true}
	repo := NewXMLRepo(blob)

	require.NoError(t, repo.Init(ctx))
	require.Equal(t, 1, blob.writes)
	require.NoError(t, repo.Check(ctx))

	require.NoError(t, repo.Append(ctx, stock.NewRecord("title", "x")))
	require.NoError(t, repo.Init(ctx))
	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "init must not clobber existing data")

	failing := NewXMLRepo(&fakeBlob{readErr: errors.New("permission denied")})
	require.True(t, errors.Is(failing.Init(ctx), stock.ErrStorageRead))
}
