/*
Package storage resolves catalogue image keys into URLs served to the client.

Without object storage, keys are joined onto a static asset base address. With an
S3-compatible bucket configured, every key is turned into a short-lived presigned
download URL.
*/
package storage

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// DownloadExpiration is the lifetime of presigned image URLs.
const DownloadExpiration = 1 * time.Hour

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	AssetBaseURL string

	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// AssetResolver turns an asset key into a URL the client can load.
type AssetResolver interface {
	URL(ctx context.Context, key string) (string, error)
}

// NewAssetResolver returns the S3 presigner when a bucket is configured and the
// static resolver otherwise.
func NewAssetResolver(ctx context.Context, cfg ServiceConfig) (AssetResolver, error) {
	if cfg.S3BucketName == "" {
		return staticResolver{base: strings.TrimRight(cfg.AssetBaseURL, "/")}, nil
	}
	return newS3Client(ctx, cfg)
}

// staticResolver prefixes keys with a base address. Keys that are already
// absolute URLs are returned as they are.
type staticResolver struct {
	base string
}

func (s staticResolver) URL(_ context.Context, key string) (string, error) {
	if key == "" || isAbsolute(key) || s.base == "" {
		return key, nil
	}
	return url.JoinPath(s.base, key)
}

func isAbsolute(key string) bool {
	u, err := url.Parse(key)
	return err == nil && u.Scheme != "" && u.Host != ""
}
