package storage

import (
	"context"
	"fmt"
)

// R2Config contains configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID   string
	AccessKeyID string
	SecretKey   string
	BucketName  string
	PublicURL   string
}

// NewR2Storage creates storage on Cloudflare R2 through its S3 API.
func NewR2Storage(ctx context.Context, cfg R2Config) (*S3Storage, error) {
	if cfg.AccountID == "" {
		return nil, configError("R2 account ID is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretKey == "" {
		return nil, configError("R2 credentials are required")
	}
	if cfg.BucketName == "" {
		return nil, configError("R2 bucket name is required")
	}

	return NewS3Storage(ctx, S3Config{
		Bucket:      cfg.BucketName,
		Region:      "auto",
		Endpoint:    fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		AccessKeyID: cfg.AccessKeyID,
		SecretKey:   cfg.SecretKey,
		PublicURL:   cfg.PublicURL,
		PathStyle:   true,
	})
}
