package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonathan/cv-maker/internal/config"
)

// Sink stores exported artifacts. Put returns the key or path the artifact
// can be found under.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// DirSink writes artifacts into a local directory.
type DirSink struct {
	Dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory '%s': %w", dir, err)
	}
	return &DirSink{Dir: dir}, nil
}

// Put implements Sink.
func (d *DirSink) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// objectPutter is the subset of *minio.Client MinIOSink needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIOSink uploads artifacts to an S3-compatible bucket.
type MinIOSink struct {
	client objectPutter
	bucket string
}

// NewMinIOSink connects to the endpoint in cfg and makes sure the bucket
// exists.
func NewMinIOSink(ctx context.Context, cfg config.MinIOConfig) (*MinIOSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}
	return &MinIOSink{client: client, bucket: cfg.Bucket}, nil
}

// Put implements Sink. The returned key is "<bucket>/<name>".
func (m *MinIOSink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", name, err)
	}
	return m.bucket + "/" + name, nil
}

// NewSink builds the sink selected by cfg.
func NewSink(ctx context.Context, cfg config.ExportConfig) (Sink, error) {
	switch cfg.Sink {
	case "minio":
		return NewMinIOSink(ctx, cfg.MinIO)
	case "dir", "":
		return NewDirSink(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown export sink %q", cfg.Sink)
	}
}
