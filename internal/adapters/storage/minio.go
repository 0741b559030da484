package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 1 * time.Hour
)

// Client wraps a MinIO connection scoped to one bucket.
type Client struct {
	client *minio.Client
	bucket string
}

// NewClient connects to MinIO and makes sure the bucket exists.
func NewClient(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	slog.Info("Connected to MinIO", "bucket", bucket)
	return &Client{
		client: client,
		bucket: bucket,
	}, nil
}

// PresignedPutURL mints a fresh object key and a signed upload URL for it.
// The caller stores the key on the message; the URL is single-purpose and
// short-lived.
func (c *Client) PresignedPutURL(ctx context.Context) (string, string, error) {
	key := uuid.New().String()
	url, err := c.client.PresignedPutObject(ctx, c.bucket, key, uploadURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload URL: %w", err)
	}
	return url.String(), key, nil
}

// PresignedGetURL resolves a stored object key to a signed download URL.
func (c *Client) PresignedGetURL(ctx context.Context, key string) (string, error) {
	url, err := c.client.PresignedGetObject(ctx, c.bucket, key, downloadURLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign download URL: %w", err)
	}
	return url.String(), nil
}
