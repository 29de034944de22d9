// Package storage persists extraction artifacts (table workbooks, table and
// figure crops) through an fsx backend and hands back links to them.
package storage

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/docextract/pkg/asyncx"
	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/logx"
	"github.com/Abraxas-365/docextract/pkg/ptrx"
)

const (
	DefaultPresignExpiry = 24 * time.Hour
	DefaultAttempts      = 3
	DefaultBackoff       = 200 * time.Millisecond
)

// ArtifactStore writes artifacts under prefix/run/... and returns either a
// presigned URL (S3) or a local path (disk). Failures are logged and turn
// into a nil link.
type ArtifactStore struct {
	fs            fsx.FileSystem
	prefix        string
	presignExpiry time.Duration
	attempts      int
	backoff       time.Duration
}

// Option configures an ArtifactStore.
type Option func(*ArtifactStore)

// WithPrefix sets the key prefix every artifact is written under.
func WithPrefix(prefix string) Option {
	return func(s *ArtifactStore) { s.prefix = strings.Trim(prefix, "/") }
}

// WithPresignExpiry sets how long presigned links stay valid.
func WithPresignExpiry(d time.Duration) Option {
	return func(s *ArtifactStore) { s.presignExpiry = d }
}

// WithRetry sets the write attempts and initial backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *ArtifactStore) {
		s.attempts = attempts
		s.backoff = backoff
	}
}

// New creates a store on top of fs.
func New(fs fsx.FileSystem, opts ...Option) *ArtifactStore {
	s := &ArtifactStore{
		fs:            fs,
		presignExpiry: DefaultPresignExpiry,
		attempts:      DefaultAttempts,
		backoff:       DefaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForRun returns a copy of the store that writes below the run's own
// directory, so artifact keys of concurrent documents never collide.
func (s *ArtifactStore) ForRun(runID string) *ArtifactStore {
	scoped := *s
	scoped.prefix = joinKey(s.prefix, runID)
	return &scoped
}

// Prefix returns the key prefix of the store.
func (s *ArtifactStore) Prefix() string { return s.prefix }

// PersistImage encodes img in the format implied by ext and stores it as
// dir/key+ext.
func (s *ArtifactStore) PersistImage(ctx context.Context, img image.Image, ext, key, dir string) *string {
	ext = normalizeExt(ext)
	p := joinKey(s.prefix, dir, key+ext)
	log := logx.WithFields(logx.Fields{"path": p, "dir": dir})

	if img == nil {
		log.Warn("no image to persist")
		return nil
	}

	data, err := encodeImage(img, ext)
	if err != nil {
		log.WithError(err).Error("failed to encode image")
		return nil
	}

	if err := s.write(ctx, p, data, ImageContentType(ext)); err != nil {
		log.WithError(err).Error("failed to persist image")
		return nil
	}
	return s.link(ctx, p)
}

// PersistFile uploads the file at localPath as key.ext.
func (s *ArtifactStore) PersistFile(ctx context.Context, localPath, key, ext, contentType string) *string {
	p := joinKey(s.prefix, key+"."+strings.TrimPrefix(ext, "."))
	log := logx.WithFields(logx.Fields{"path": p, "source": localPath})

	data, err := os.ReadFile(localPath)
	if err != nil {
		log.WithError(storageErrors.NewWithCause(ErrReadLocal, err)).Error("failed to read local file")
		return nil
	}

	if contentType == "" {
		contentType = fsx.DetectContentType(p)
	}
	if err := s.write(ctx, p, data, contentType); err != nil {
		log.WithError(err).Error("failed to persist file")
		return nil
	}
	return s.link(ctx, p)
}

func (s *ArtifactStore) write(ctx context.Context, p string, data []byte, contentType string) error {
	_, err := asyncx.RetryWithBackoff(ctx, s.attempts, s.backoff, func(ctx context.Context) (struct{}, error) {
		if ctw, ok := s.fs.(fsx.ContentTypeWriter); ok {
			return struct{}{}, ctw.WriteFileStreamWithContentType(ctx, p, bytes.NewReader(data), contentType)
		}
		return struct{}{}, s.fs.WriteFile(ctx, p, data)
	})
	if err != nil {
		return storageErrors.NewWithCause(ErrWrite, err).WithDetail("path", p)
	}
	return nil
}

// link prefers a presigned URL, then a local path, then the bare key.
func (s *ArtifactStore) link(ctx context.Context, p string) *string {
	switch fs := s.fs.(type) {
	case fsx.PresignedURLGenerator:
		url, err := fs.GetPresignedDownloadURL(ctx, p, s.presignExpiry)
		if err != nil {
			logx.WithError(storageErrors.NewWithCause(ErrLink, err)).
				WithField("path", p).
				Error("failed to presign artifact")
			return nil
		}
		return ptrx.String(url)
	case fsx.LocalPathResolver:
		return ptrx.String(fs.LocalPath(p))
	}
	return ptrx.String(p)
}

func joinKey(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e = strings.Trim(e, "/"); e != "" {
			parts = append(parts, e)
		}
	}
	return path.Join(parts...)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ".jpg"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ImageContentType maps an image extension to its MIME type. Unknown
// extensions are treated as JPEG.
func ImageContentType(ext string) string {
	switch normalizeExt(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func encodeImage(img image.Image, ext string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch ext {
	case ".png":
		err = png.Encode(&buf, img)
	case ".gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, storageErrors.NewWithCause(ErrEncode, err).WithDetail("ext", ext)
	}
	return buf.Bytes(), nil
}

