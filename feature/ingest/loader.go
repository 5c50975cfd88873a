package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStorageUnavailable is returned for an object URI when no storage client is configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

// Feeds holds the raw rows of both inputs.
type Feeds struct {
	Processor []reconcile.RawRow
	Ledger    []reconcile.RawRow
}

// Loader reads feeds from local files or object storage.
type Loader struct {
	client storage.Client
	logger *zap.Logger
}

// NewLoader creates a loader. client may be nil when only local files are read.
func NewLoader(client storage.Client, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Open returns a reader for a local path or an s3://bucket/key object.
func (l *Loader) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !storage.IsObjectURI(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}

	bucket, key, ok := storage.ParseObjectURI(location)
	if !ok {
		return nil, fmt.Errorf("invalid object location %q", location)
	}
	if l.client == nil {
		return nil, fmt.Errorf("%w: %s", ErrStorageUnavailable, location)
	}
	obj, err := l.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", location, err)
	}
	return obj, nil
}

// Load reads one feed and checks its required columns.
func (l *Loader) Load(ctx context.Context, location string, required []string) ([]reconcile.RawRow, error) {
	rc, err := l.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := ReadRows(rc, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}
	l.logger.Debug("Feed loaded", zap.String("location", location), zap.Int("rows", len(rows)))
	return rows, nil
}

// LoadFeeds reads the processor and ledger feeds concurrently.
func (l *Loader) LoadFeeds(ctx context.Context, processorLocation, ledgerLocation string) (*Feeds, error) {
	var feeds Feeds
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := l.Load(gctx, processorLocation, reconcile.ProcessorColumns)
		feeds.Processor = rows
		return err
	})
	g.Go(func() error {
		rows, err := l.Load(gctx, ledgerLocation, reconcile.LedgerColumns)
		feeds.Ledger = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &feeds, nil
}
