// Package fsxs3 implements fsx.FileSystemWithPresign on Amazon S3.
package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3FileSystem stores objects under prefix in one bucket
type S3FileSystem struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
}

// NewS3FileSystem creates a file system over bucket. prefix may be empty.
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
	}
}

// Bucket returns the configured bucket name
func (fs *S3FileSystem) Bucket() string { return fs.bucket }

// key maps a storage path to the object key, honoring the prefix
func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if fs.prefix == "" {
		return p
	}
	return fs.prefix + "/" + p
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	body, err := fs.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, s3Errors.NewWithCause(ErrRead, err).WithDetail("key", fs.key(p))
	}
	return data, nil
}

func (fs *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, s3Errors.New(ErrNotFound).WithDetail("key", fs.key(p))
		}
		return nil, s3Errors.NewWithCause(ErrRead, err).WithDetail("key", fs.key(p))
	}
	return out.Body, nil
}

func (fs *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return fsx.FileInfo{}, s3Errors.New(ErrNotFound).WithDetail("key", fs.key(p))
		}
		return fsx.FileInfo{}, s3Errors.NewWithCause(ErrRead, err).WithDetail("key", fs.key(p))
	}

	return fsx.FileInfo{
		Name:        path.Base(p),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errx.HasCode(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return fs.put(ctx, p, data, fsx.DetectContentType(p))
}

func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	return fs.WriteFileStreamWithContentType(ctx, p, r, fsx.DetectContentType(p))
}

// WriteFileStreamWithContentType buffers r and uploads it with contentType.
// Artifacts are page crops and single-table workbooks, so buffering keeps
// the request signable without a known content length.
func (fs *S3FileSystem) WriteFileStreamWithContentType(ctx context.Context, p string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return s3Errors.NewWithCause(ErrWrite, err).WithDetail("key", fs.key(p))
	}
	return fs.put(ctx, p, data, contentType)
}

func (fs *S3FileSystem) put(ctx context.Context, p string, data []byte, contentType string) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(fs.bucket),
		Key:           aws.String(fs.key(p)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return s3Errors.NewWithCause(ErrWrite, err).
			WithDetail("bucket", fs.bucket).
			WithDetail("key", fs.key(p))
	}
	return nil
}

// ============================================================================
// FileDeleter / PathOperations
// ============================================================================

func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return s3Errors.NewWithCause(ErrDelete, err).WithDetail("key", fs.key(p))
	}
	return nil
}

func (fs *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// ============================================================================
// PresignedURLGenerator Implementation
// ============================================================================

func (fs *S3FileSystem) GetPresignedDownloadURL(ctx context.Context, p string, expiration time.Duration) (string, error) {
	req, err := fs.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", s3Errors.NewWithCause(ErrPresign, err).WithDetail("key", fs.key(p))
	}
	return req.URL, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}
