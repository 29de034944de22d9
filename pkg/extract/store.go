package extract

import (
	"context"
	"image"
)

// Store persists artifacts and returns a link to them: a presigned URL or a
// local path. A nil link means the artifact is unavailable. Implementations
// must not panic and report failures only through the nil link.
type Store interface {
	// PersistImage encodes img using the format implied by ext (".png",
	// ".jpg") and stores it under dir with the given key.
	PersistImage(ctx context.Context, img image.Image, ext, key, dir string) *string
	// PersistFile uploads the file at localPath as key.ext.
	PersistFile(ctx context.Context, localPath, key, ext, contentType string) *string
}

// Converter turns the table markup stored at srcPath into a spreadsheet
// written to dstPath.
type Converter interface {
	Convert(ctx context.Context, srcPath, dstPath string) error
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, srcPath, dstPath string) error

func (f ConverterFunc) Convert(ctx context.Context, srcPath, dstPath string) error {
	return f(ctx, srcPath, dstPath)
}
