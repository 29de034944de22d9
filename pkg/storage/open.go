package storage

import (
	"context"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/docextract/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"

	DefaultLocalDir = "./outputs"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend       string
	Bucket        string
	Prefix        string
	Region        string
	LocalDir      string
	PresignExpiry time.Duration
	Retries       int
	RetryBackoff  time.Duration
}

// OpenFileSystem builds the fsx backend described by cfg. An S3 backend
// without a bucket falls back to local disk.
func OpenFileSystem(ctx context.Context, cfg Config) (fsx.FileSystem, error) {
	if cfg.LocalDir == "" {
		cfg.LocalDir = DefaultLocalDir
	}

	switch cfg.Backend {
	case BackendS3:
		if cfg.Bucket == "" {
			logx.WithField("dir", cfg.LocalDir).Warn("S3 storage selected without a bucket, storing artifacts on local disk")
			return openLocal(cfg.LocalDir)
		}
		opts := []func(*awsConfig.LoadOptions) error{}
		if cfg.Region != "" {
			opts = append(opts, awsConfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, storageErrors.NewWithCause(ErrInvalidConfig, err).WithDetail("backend", cfg.Backend)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.UsePathStyle = true })
		logx.WithFields(logx.Fields{"bucket": cfg.Bucket, "region": awsCfg.Region}).Info("S3 artifact storage configured")
		return fsxs3.NewS3FileSystem(client, cfg.Bucket, ""), nil

	case BackendLocal, "":
		return openLocal(cfg.LocalDir)
	}

	return nil, storageErrors.New(ErrInvalidConfig).WithDetail("backend", cfg.Backend)
}

func openLocal(dir string) (fsx.FileSystem, error) {
	fs, err := fsxlocal.NewLocalFileSystem(dir)
	if err != nil {
		return nil, storageErrors.NewWithCause(ErrInvalidConfig, err).WithDetail("dir", dir)
	}
	logx.WithField("dir", fs.GetBasePath()).Info("local artifact storage configured")
	return fs, nil
}

// Open builds the backend and wraps it in an ArtifactStore.
func Open(ctx context.Context, cfg Config) (*ArtifactStore, error) {
	fs, err := OpenFileSystem(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithPrefix(cfg.Prefix)}
	if cfg.PresignExpiry > 0 {
		opts = append(opts, WithPresignExpiry(cfg.PresignExpiry))
	}
	if cfg.Retries > 0 {
		opts = append(opts, WithRetry(cfg.Retries, cfg.RetryBackoff))
	}
	return New(fs, opts...), nil
}
