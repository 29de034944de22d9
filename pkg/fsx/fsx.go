// Package fsx abstracts the artifact storage backends (local disk, S3).
package fsx

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// FileInfo represents information about a stored object
type FileInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	ContentType string
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
}

// FileDeleter provides deletion operations
type FileDeleter interface {
	DeleteFile(ctx context.Context, path string) error
}

// PathOperations provides path manipulation functionality
type PathOperations interface {
	Join(elem ...string) string
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	PathOperations
}

// ContentTypeWriter is implemented by backends that record a content type
// alongside the object (S3). Backends without metadata infer it from the
// extension.
type ContentTypeWriter interface {
	WriteFileStreamWithContentType(ctx context.Context, path string, r io.Reader, contentType string) error
}

// PresignedURLGenerator provides time-bounded download links
type PresignedURLGenerator interface {
	GetPresignedDownloadURL(ctx context.Context, path string, expiration time.Duration) (string, error)
}

// LocalPathResolver is implemented by disk backends; it maps a storage path
// to the absolute filesystem path callers can open.
type LocalPathResolver interface {
	LocalPath(path string) string
}

// FileSystemWithPresign combines standard file operations with presigned URL generation
type FileSystemWithPresign interface {
	FileSystem
	PresignedURLGenerator
}

// ContentTypeXLSX is the MIME type of an Office Open XML workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DetectContentType maps a file extension to a MIME type
func DetectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".html", ".htm":
		return "text/html"
	case ".json":
		return "application/json"
	case ".xlsx":
		return ContentTypeXLSX
	default:
		return "application/octet-stream"
	}
}
