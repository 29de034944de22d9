package pagesource

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	return img
}

func writeFile(t *testing.T, name string, encode func(io.Writer) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenImageFormats(t *testing.T) {
	img := testImage(12, 7)
	files := map[string]func(io.Writer) error{
		"page.png":  func(w io.Writer) error { return png.Encode(w, img) },
		"page.tiff": func(w io.Writer) error { return tiff.Encode(w, img, nil) },
		"page.bmp":  func(w io.Writer) error { return bmp.Encode(w, img) },
	}

	for name, encode := range files {
		t.Run(name, func(t *testing.T) {
			src, err := OpenImage(writeFile(t, name, encode))
			if err != nil {
				t.Fatalf("OpenImage: %v", err)
			}
			defer src.Close()

			page, err := src.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if page.Index != 0 {
				t.Fatalf("index = %d, want 0", page.Index)
			}
			if b := page.Image.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
				t.Fatalf("size = %v", b)
			}
			if _, err := src.Next(); !errors.Is(err, io.EOF) {
				t.Fatalf("expected io.EOF, got %v", err)
			}
		})
	}
}

func TestOpenImageRejectsGarbage(t *testing.T) {
	path := writeFile(t, "bad.png", func(w io.Writer) error {
		_, err := w.Write([]byte("not an image"))
		return err
	})
	_, err := OpenImage(path)
	if !errx.HasCode(err, ErrDecode) {
		t.Fatalf("expected DECODE_FAILED, got %v", err)
	}
}

func TestOpenImageMissingFile(t *testing.T) {
	_, err := OpenImage(filepath.Join(t.TempDir(), "missing.png"))
	if !errx.HasCode(err, ErrOpen) {
		t.Fatalf("expected OPEN_FAILED, got %v", err)
	}
}

func TestOpenPDFRejectsGarbage(t *testing.T) {
	path := writeFile(t, "bad.pdf", func(w io.Writer) error {
		_, err := w.Write([]byte("%PDF-1.4\nnot really a pdf"))
		return err
	})
	if _, err := OpenPDF(path); !errx.HasCode(err, ErrOpen) {
		t.Fatalf("expected OPEN_FAILED, got %v", err)
	}
}

func TestLargestImage(t *testing.T) {
	images := map[int]model.Image{
		4: {Reader: bytes.NewReader(nil), Width: 40, Height: 40, Name: "stamp"},
		9: {Reader: bytes.NewReader(nil), Width: 1700, Height: 2200, Name: "scan"},
		2: {Width: 5000, Height: 5000, Name: "no data"},
	}
	got, ok := largestImage(images)
	if !ok || got.Name != "scan" {
		t.Fatalf("largestImage = %q, %v", got.Name, ok)
	}

	if _, ok := largestImage(nil); ok {
		t.Fatal("no images must report false")
	}
}

func TestLargestImagePrefersLowestKeyOnTie(t *testing.T) {
	images := map[int]model.Image{
		7: {Reader: bytes.NewReader(nil), Width: 100, Height: 200, Name: "later"},
		3: {Reader: bytes.NewReader(nil), Width: 200, Height: 100, Name: "first"},
		5: {Reader: bytes.NewReader(nil), Width: 100, Height: 200, Name: "middle"},
	}
	for range 20 {
		got, ok := largestImage(images)
		if !ok || got.Name != "first" {
			t.Fatalf("largestImage = %q, %v, want first", got.Name, ok)
		}
	}
}

func TestFromImageClose(t *testing.T) {
	src := FromImage(testImage(2, 2))
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
}
