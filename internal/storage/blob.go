package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// ErrNotExist is returned by Blob.Read when nothing is stored yet.
var ErrNotExist = errors.New("blob does not exist")

// Blob is a single named document that is always read and replaced whole.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the document. Readers see either the old or the new
	// content, never a mix.
	Write(ctx context.Context, data []byte) error
	// Location is a human readable description for logs.
	Location() string
}

// FileBlob keeps the document in a local file.
type FileBlob struct {
	path string
	perm os.FileMode
}

func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: filepath.Clean(path), perm: 0o644}
}

func (f *FileBlob) Location() string { return "file://" + f.path }

func (f *FileBlob) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// path comes from operator configuration
	b, err := os.ReadFile(f.path) // #nosec G304
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.path, ErrNotExist)
	}
	return b, err
}

// Write goes through a pending temp file in the same directory which is
// fsynced and renamed over the target.
func (f *FileBlob) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	pending, err := renameio.NewPendingFile(f.path, renameio.WithPermissions(f.perm))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
