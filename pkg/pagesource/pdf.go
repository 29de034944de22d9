package pagesource

import (
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfSource reads the raster image of each page of a scanned PDF. Only the
// current page's image is decoded and held in memory.
type pdfSource struct {
	f    *os.File
	ctx  *model.Context
	next int
}

// OpenPDF parses the PDF structure at path. Page images are extracted on
// demand by Next.
func OpenPDF(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pageErrors.NewWithCause(ErrOpen, err).WithDetail("path", path)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, pageErrors.NewWithCause(ErrOpen, err).WithDetail("path", path)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		f.Close()
		return nil, pageErrors.NewWithCause(ErrOpen, err).WithDetail("path", path)
	}

	return &pdfSource{f: f, ctx: ctx}, nil
}

// PageCount returns the number of pages in the document.
func (s *pdfSource) PageCount() int {
	return s.ctx.PageCount
}

func (s *pdfSource) Next() (*Page, error) {
	if s.ctx == nil || s.next >= s.ctx.PageCount {
		return nil, io.EOF
	}
	page := &Page{Index: s.next}
	s.next++

	// pdfcpu numbers pages from 1.
	images, err := pdfcpu.ExtractPageImages(s.ctx, page.Index+1, false)
	if err != nil {
		return page, pageErrors.NewWithCause(ErrDecode, err).WithDetail("page", page.Index)
	}

	best, ok := largestImage(images)
	if !ok {
		return page, pageErrors.New(ErrNoPageImage).WithDetail("page", page.Index)
	}

	img, _, err := Decode(best.Reader)
	if err != nil {
		return page, err
	}
	page.Image = img
	return page, nil
}

func (s *pdfSource) Close() error {
	s.ctx = nil
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// largestImage picks the page scan: the image covering the most pixels.
// Scanners sometimes add small stamps or logos next to the page image.
// Ties go to the lowest key so the choice does not depend on map order.
func largestImage(images map[int]model.Image) (model.Image, bool) {
	var (
		best    model.Image
		area    = -1
		bestKey int
		found   bool
	)
	for k, img := range images {
		if img.Reader == nil {
			continue
		}
		a := img.Width * img.Height
		if a > area || (a == area && k < bestKey) {
			best, area, bestKey, found = img, a, k, true
		}
	}
	return best, found
}
