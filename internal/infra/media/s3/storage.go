// Package s3 uploads quote media to an S3-compatible bucket and hands back
// public retrieval URLs, taking the place the original deployment gave to
// Cloudinary.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"escher-cotizador/go_backend/internal/app/config"
	"escher-cotizador/go_backend/internal/domain/attachment"
)

var ErrUploadFailed = errors.New("media upload failed")

type Storage struct {
	client        *minio.Client
	bucket        string
	region        string
	publicBaseURL string
}

func New(cfg config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client:        client,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}, nil
}

// EnsureBucket makes sure the media bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores one staged file and returns its public URL. Images and
// audio live under separate prefixes, the way Cloudinary kept audio on its
// video endpoint.
func (s *Storage) Upload(ctx context.Context, f attachment.File, kind attachment.Kind) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	objectKey := fmt.Sprintf("%s/%s%s", prefixFor(kind), uuid.NewString(), ext)
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(f.Data), int64(len(f.Data)), opts)
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %w", ErrUploadFailed, objectKey, err)
	}
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + s.bucket + "/" + objectKey, nil
	}
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectKey), nil
}

func prefixFor(kind attachment.Kind) string {
	if kind == attachment.KindAudio {
		return "audio"
	}
	return "imagenes"
}
