// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface so that AWS S3 or a
// self-hosted MinIO can hold input feeds (s3://bucket/key) and mirrored run outputs.
// Tests use the testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
