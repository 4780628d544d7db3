package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-app/internal/infra/metrics"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioStore stores review audio in a MinIO or S3 compatible bucket.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, opts Options, log zerolog.Logger) (*MinioStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(opts.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	base := opts.PublicBaseURL
	if base == "" {
		base = defaultBaseURL(opts.Endpoint, opts.Bucket, opts.UseSSL)
	}
	return &MinioStore{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: base,
		log:     log.With().Str("component", "minio-store").Logger(),
	}, nil
}

// Put uploads data under key and returns its public URL.
func (m *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	metrics.RecordBlob(BackendMinio, "put", err)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	m.log.Debug().Str("key", key).Int("size", len(data)).Msg("object stored")
	return PublicURL(m.baseURL, key)
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	metrics.RecordBlob(BackendMinio, "delete", err)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
