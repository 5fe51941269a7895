package repository

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stockboard/stockboard/internal/storage"
)

// XMLRepo keeps the collection as one <stocks> document in a blob.
// Appends are serialised by mu; List does not lock because the blob
// replaces content atomically.
type XMLRepo struct {
	mu   sync.Mutex
	blob storage.Blob
}

func NewXMLRepo(blob storage.Blob) *XMLRepo {
	return &XMLRepo{blob: blob}
}

func (r *XMLRepo) Location() string { return r.blob.Location() }

func (r *XMLRepo) List(ctx context.Context) ([]stock.Record, error) {
	return r.load(ctx, "list")
}

func (r *XMLRepo) Append(ctx context.Context, rec stock.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx, "append")
	if err != nil {
		return err
	}
	records = append(records, rec.Clone())

	data, err := stock.MarshalXMLDocument(records)
	if err != nil {
		return stock.WriteError("append", err)
	}
	if err := r.blob.Write(ctx, data); err != nil {
		return stock.WriteError("append", err)
	}
	return nil
}

// Init writes an empty collection when the blob does not exist yet.
// An existing document is left untouched.
func (r *XMLRepo) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.blob.Read(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotExist) {
		return stock.ReadError("init", err)
	}
	if err := r.blob.Write(ctx, stock.EmptyDocument); err != nil {
		return stock.WriteError("init", err)
	}
	return nil
}

// Check loads and parses the document.
func (r *XMLRepo) Check(ctx context.Context) error {
	_, err := r.load(ctx, "check")
	return err
}

func (r *XMLRepo) load(ctx context.Context, op string) ([]stock.Record, error) {
	data, err := r.blob.Read(ctx)
	if err != nil {
		return nil, stock.ReadError(op, err)
	}
	records, err := stock.DecodeXML(bytes.NewReader(data))
	if err != nil {
		return nil, stock.FormatError(op, err)
	}
	return records, nil
}
