package upload

import (
	"context"
	"fmt"
)

type Provider string

const (
	Local Provider = "local"
	S3    Provider = "s3"

	ThumbnailMaxWidthPx  = 400
	ThumbnailMaxHeightPx = 400
)

type Client interface {
	Upload(ctx context.Context, files []*File, subPath string) ([]*UploadedFileInfo, error)
	// Remove deletes stored objects and their thumbnails. Missing objects
	// are not an error.
	Remove(ctx context.Context, fileInfos []*UploadedFileInfo) error
}

type Config struct {
	// MaxParallel bounds concurrent file writes. Zero means GOMAXPROCS.
	MaxParallel int

	LocalDir string
	// PublicBaseURL prefixes local file URLs, e.g. "/uploads".
	PublicBaseURL string

	S3AccessKey   string
	S3SecretKey   string
	S3EndpointURL string
	S3BucketName  string
	S3PathPrefix  string
	S3Region      string
}

func New(provider Provider, cfg *Config) (Client, error) {
	switch provider {
	case Local:
		return NewLocalUploader(cfg)
	case S3:
		return NewS3Uploader(cfg)
	default:
		return nil, fmt.Errorf("unsupported upload provider: %s", provider)
	}
}
