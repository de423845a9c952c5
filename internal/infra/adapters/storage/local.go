package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/infra/metrics"
)

var _ adapter.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage keeps artifacts in a directory on disk. Used in dev mode and
// in tests; "signed" URLs are plain file references with no expiry.
type LocalStorage struct {
	dir string
	log *zerolog.Logger
}

func NewLocalStorage(dir string, log *zerolog.Logger) (*LocalStorage, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "apostilas")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	return &LocalStorage{dir: dir, log: log}, nil
}

func (s *LocalStorage) Upload(_ context.Context, localPath, name string) (adapter.UploadResult, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return adapter.UploadResult{}, fmt.Errorf("local storage: open artifact: %w", err)
	}
	defer src.Close()

	name = filepath.Base(name)
	dstPath := filepath.Join(s.dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return adapter.UploadResult{}, fmt.Errorf("local storage: create: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dstPath)
		return adapter.UploadResult{}, fmt.Errorf("local storage: copy: %w", err)
	}

	metrics.ObserveArtifactUpload(size, true)
	s.log.Debug().Str("path", dstPath).Int64("bytes", size).Msg("artifact stored locally")
	return adapter.UploadResult{
		PublicURL: "file://" + dstPath,
		BlobName:  name,
		SizeBytes: size,
	}, nil
}

func (s *LocalStorage) SignedURL(_ context.Context, blobName string, _ time.Duration) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(blobName))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	return "file://" + path, nil
}

func (s *LocalStorage) Delete(_ context.Context, blobName string) error {
	path := filepath.Join(s.dir, filepath.Base(blobName))
	if !strings.HasPrefix(path, s.dir+string(os.PathSeparator)) {
		return fmt.Errorf("local storage: blob %q escapes store", blobName)
	}
	return os.Remove(path)
}
