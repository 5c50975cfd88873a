package output

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"ledger-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror uploads output files to object storage under <prefix>/<run-id>/<file>.
type Mirror struct {
	client storage.Client
	bucket string
	prefix string
	region string
	logger *zap.Logger
}

// NewMirror creates a mirror for the configured bucket.
func NewMirror(client storage.Client, cfg storage.Config, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
		logger: logger,
	}
}

// Key returns the object key of a file for a run.
func (m *Mirror) Key(runID, file string) string {
	return storage.ObjectKey(m.prefix, runID, filepath.Base(file))
}

// Upload puts every file under the run's prefix and returns the object keys.
// When an upload fails, objects already uploaded for this call are removed.
func (m *Mirror) Upload(ctx context.Context, runID string, paths []string) ([]string, error) {
	if err := storage.EnsureBucket(ctx, m.client, m.bucket, m.region); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		key := m.Key(runID, path)
		if err := m.put(ctx, key, path); err != nil {
			m.rollback(ctx, keys)
			return nil, err
		}
		keys = append(keys, key)
	}

	m.logger.Info("Outputs mirrored",
		zap.String("bucket", m.bucket),
		zap.String("run_id", runID),
		zap.Int("objects", len(keys)))
	return keys, nil
}

func (m *Mirror) put(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (m *Mirror) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			m.logger.Warn("Failed to remove partial upload", zap.String("key", key), zap.Error(err))
		}
	}
}
