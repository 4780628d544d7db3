package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"portfolio-app/internal/pipeline"

	"github.com/rs/zerolog"
)

const (
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Options selects and configures the blob backend.
type Options struct {
	Backend       string
	Bucket        string
	PublicBaseURL string

	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// New builds the BlobStore named by opts.Backend.
func New(ctx context.Context, opts Options, log zerolog.Logger) (pipeline.BlobStore, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("blob bucket is required")
	}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMinio:
		return NewMinioStore(ctx, opts, log)
	case BackendS3:
		return NewS3Store(ctx, opts, log)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", opts.Backend)
	}
}

// PublicURL joins base and key into the durable URL handed to clients.
func PublicURL(base, key string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", fmt.Errorf("public base url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid public base url %q", base)
	}
	return u.JoinPath(strings.Split(strings.TrimLeft(key, "/"), "/")...).String(), nil
}

// defaultBaseURL is the path-style object URL used when no CDN is configured.
func defaultBaseURL(endpoint, bucket string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.Contains(endpoint, "://") {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		endpoint = scheme + "://" + endpoint
	}
	return strings.TrimRight(endpoint, "/") + "/" + bucket
}
