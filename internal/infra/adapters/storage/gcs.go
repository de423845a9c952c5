package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/infra/metrics"
)

var _ adapter.ObjectStorage = (*GCSStorage)(nil)

// GCSStorage stores artifacts in a Google Cloud Storage bucket. Blobs are
// date-prefixed so a bucket listing groups artifacts by generation day.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
	log    *zerolog.Logger
}

func NewGCSStorage(ctx context.Context, bucket string, log *zerolog.Logger) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs: empty bucket name")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket, now: time.Now, log: log}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, localPath, name string) (adapter.UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return adapter.UploadResult{}, fmt.Errorf("gcs: open artifact: %w", err)
	}
	defer f.Close()

	blobName := fmt.Sprintf("apostilas/%s/%s", s.now().UTC().Format("2006/01/02"), name)
	w := s.client.Bucket(s.bucket).Object(blobName).NewWriter(ctx)
	w.ContentType = "text/html; charset=utf-8"

	size, err := io.Copy(w, f)
	if err != nil {
		w.Close()
		metrics.ObserveArtifactUpload(0, false)
		return adapter.UploadResult{}, fmt.Errorf("gcs: upload: %w", err)
	}
	if err := w.Close(); err != nil {
		metrics.ObserveArtifactUpload(0, false)
		return adapter.UploadResult{}, fmt.Errorf("gcs: finalize upload: %w", err)
	}

	metrics.ObserveArtifactUpload(size, true)
	s.log.Info().Str("blob", blobName).Int64("bytes", size).Msg("artifact uploaded")
	return adapter.UploadResult{
		PublicURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, url.PathEscape(blobName)),
		BlobName:  blobName,
		SizeBytes: size,
	}, nil
}

func (s *GCSStorage) SignedURL(_ context.Context, blobName string, ttl time.Duration) (string, error) {
	u, err := s.client.Bucket(s.bucket).SignedURL(blobName, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: s.now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs: sign url: %w", err)
	}
	return u, nil
}

func (s *GCSStorage) Delete(ctx context.Context, blobName string) error {
	if err := s.client.Bucket(s.bucket).Object(blobName).Delete(ctx); err != nil {
		return fmt.Errorf("gcs: delete %s: %w", blobName, err)
	}
	return nil
}

func (s *GCSStorage) Close() error { return s.client.Close() }
