package pagesource

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes any supported raster format: PNG, JPEG, GIF, TIFF, BMP or
// WebP.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", pageErrors.NewWithCause(ErrDecode, err)
	}
	return img, format, nil
}

// DecodeFile decodes the image stored at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pageErrors.NewWithCause(ErrOpen, err).WithDetail("path", path)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

type imageSource struct {
	img  image.Image
	done bool
}

// OpenImage decodes the image at path and returns a single page source.
// Decoding happens here so an unreadable file fails before any page work.
func OpenImage(path string) (Source, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage wraps an already decoded image as a single page source.
func FromImage(img image.Image) Source {
	return &imageSource{img: img}
}

func (s *imageSource) Next() (*Page, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return &Page{Index: 0, Image: s.img}, nil
}

func (s *imageSource) Close() error {
	s.img = nil
	return nil
}
