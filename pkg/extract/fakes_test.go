package extract_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/pagesource"
	"github.com/Abraxas-365/docextract/pkg/ptrx"
)

// fakeEngine returns one scripted result per Detect call.
type fakeEngine struct {
	mu      sync.Mutex
	results []engineResult
	calls   int
}

type engineResult struct {
	regions []layout.Region
	err     error
}

func (e *fakeEngine) Detect(_ context.Context, _ image.Image, _ layout.DetectOptions) ([]layout.Region, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.calls >= len(e.results) {
		return nil, errors.New("unexpected Detect call")
	}
	r := e.results[e.calls]
	e.calls++
	return r.regions, r.err
}

// fakeStore hands out mem:// links and can be told to fail either operation.
type fakeStore struct {
	mu          sync.Mutex
	failImages  bool
	failFiles   bool
	images      []string
	files       []string
	fileContent map[string]string
}

func (s *fakeStore) PersistImage(_ context.Context, img image.Image, ext, key, dir string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failImages || img == nil {
		return nil
	}
	link := fmt.Sprintf("mem://%s/%s%s", dir, key, ext)
	s.images = append(s.images, link)
	return ptrx.String(link)
}

func (s *fakeStore) PersistFile(_ context.Context, localPath, key, ext, _ string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFiles {
		return nil
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil
	}
	if s.fileContent == nil {
		s.fileContent = map[string]string{}
	}
	link := fmt.Sprintf("mem://tables/%s.%s", key, ext)
	s.fileContent[link] = string(data)
	s.files = append(s.files, link)
	return ptrx.String(link)
}

// copyConverter copies the markup into the destination, or fails.
type copyConverter struct {
	fail  bool
	srcs  []string
	calls int
}

func (c *copyConverter) Convert(_ context.Context, src, dst string) error {
	c.calls++
	c.srcs = append(c.srcs, filepath.Base(src))
	if c.fail {
		return errors.New("converter exploded")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o600)
}

// scriptedSource yields pre-built pages, optionally failing some of them.
type scriptedSource struct {
	pages  []*pagesource.Page
	errs   map[int]error
	next   int
	closed bool
}

func (s *scriptedSource) Next() (*pagesource.Page, error) {
	if s.next >= len(s.pages) {
		return nil, io.EOF
	}
	p := s.pages[s.next]
	s.next++
	if err := s.errs[p.Index]; err != nil {
		return &pagesource.Page{Index: p.Index}, err
	}
	return p, nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

func pages(n int) []*pagesource.Page {
	out := make([]*pagesource.Page, n)
	for i := range out {
		out[i] = &pagesource.Page{Index: i, Image: image.NewRGBA(image.Rect(0, 0, 100, 100))}
	}
	return out
}

func sourceOf(src pagesource.Source) extract.Option {
	return extract.WithSourceOpener(func(context.Context, extract.Request) (pagesource.Source, error) {
		return src, nil
	})
}

func crop(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func tableRegion(x1, y1 int, html string, c image.Image) layout.Region {
	return layout.NewRegion(layout.RegionTable, layout.BBox{X1: x1, Y1: y1, X2: x1 + 100, Y2: y1 + 100}, nil, html, c)
}

func figureRegion(x1, y1 int, c image.Image, text ...string) layout.Region {
	return layout.NewRegion(layout.RegionFigure, layout.BBox{X1: x1, Y1: y1, X2: x1 + 100, Y2: y1 + 100}, text, "", c)
}
