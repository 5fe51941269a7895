package storage

import "fmt"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Validate reports the first missing setting needed to reach the bucket.
func (c *MinIOConfig) Validate() error {
	if c == nil || c.Endpoint == "" {
		return fmt.Errorf("minio config missing: endpoint")
	}
	if c.Bucket == "" {
		return fmt.Errorf("minio config missing: bucket")
	}
	return nil
}
