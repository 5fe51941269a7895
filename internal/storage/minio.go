package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage is a thin wrapper around the minio client.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg *MinIOConfig) (*MinIOStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Object returns a Blob stored under key in the configured bucket.
func (s *MinIOStorage) Object(key string) *ObjectBlob {
	return &ObjectBlob{store: s, key: key}
}

// ObjectBlob keeps the document as one object. A PUT replaces the object
// as a unit, so readers never see partial content.
type ObjectBlob struct {
	store *MinIOStorage
	key   string
}

func (o *ObjectBlob) Location() string {
	return fmt.Sprintf("s3://%s/%s", o.store.bucket, o.key)
}

func (o *ObjectBlob) Read(ctx context.Context) ([]byte, error) {
	obj, err := o.store.client.GetObject(ctx, o.store.bucket, o.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	// perform a stat to ensure object exists
	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", o.Location(), ErrNotExist)
		}
		return nil, err
	}
	return io.ReadAll(obj)
}

func (o *ObjectBlob) Write(ctx context.Context, data []byte) error {
	_, err := o.store.client.PutObject(ctx, o.store.bucket, o.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/xml"})
	if err != nil {
		return fmt.Errorf("put %s: %w", o.Location(), err)
	}
	return nil
}
