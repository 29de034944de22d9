package layouthttp

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/layout"
)

const sampleResponse = `{
  "regions": [
    {"type": "text", "bbox": [10, 10, 200, 40], "res": [{"text": "Hello", "confidence": 0.99}, {"text": "World"}]},
    {"type": "table", "bbox": [50, 100, 300, 200], "res": {"html": "<table><tr><td>1</td></tr></table>"}},
    {"type": "figure", "bbox": [20, 220, 60, 260], "res": []},
    {"type": "header", "bbox": [0, 0, 10, 10], "res": []},
    {"type": "table", "bbox": [0, 300, 100, 350], "res": null}
  ]
}`

func TestDetectDecodesRegions(t *testing.T) {
	var got detectRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultEndpoint {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page := image.NewRGBA(image.Rect(0, 0, 400, 400))
	regions, err := c.Detect(context.Background(), page, layout.DetectOptions{Language: "en", LayoutEnabled: true})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if got.Lang != "en" || !got.Layout || got.Image == "" {
		t.Fatalf("request not populated: %+v", got)
	}
	if len(regions) != 4 {
		t.Fatalf("expected 4 regions (unknown tag dropped), got %d", len(regions))
	}

	if f := regions[0].Fragments(); len(f) != 2 || f[0] != "Hello" || f[1] != "World" {
		t.Fatalf("text fragments = %v", f)
	}
	if regions[0].Crop != nil {
		t.Fatal("text regions are not cropped")
	}
	if html, ok := regions[1].TableHTML(); !ok || html == "" {
		t.Fatal("expected table markup")
	}
	if regions[1].Crop == nil {
		t.Fatal("expected table crop")
	}
	if regions[2].Type != layout.RegionFigure || regions[2].Crop == nil {
		t.Fatalf("figure region = %+v", regions[2])
	}
	if _, ok := regions[3].TableHTML(); ok {
		t.Fatal("null res must leave the table without markup")
	}
}

func TestDetectRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"regions": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithMaxRetries(1), WithRetryBackoff(time.Millisecond))
	if _, err := c.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)), layout.DetectOptions{}); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestDetectGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithMaxRetries(2), WithRetryBackoff(time.Millisecond))
	_, err := c.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)), layout.DetectOptions{})
	if !errx.HasCode(err, layout.ErrEngineRejected) {
		t.Fatalf("expected ENGINE_REJECTED, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestDetectDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithMaxRetries(3))
	_, err := c.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)), layout.DetectOptions{})
	if !errx.HasCode(err, layout.ErrEngineRejected) {
		t.Fatalf("expected ENGINE_REJECTED, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestDetectSkipsMalformedBBox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"regions": [
			{"type": "text", "bbox": [10, 10, 200, 40], "res": [{"text": "Good"}]},
			{"type": "text", "bbox": [1, 2, 3], "res": []},
			{"type": "text", "bbox": [10, 60, 200, 90], "res": [{"text": "Also good"}]}
		]}`))
	}))
	defer srv.Close()

	regions, err := NewClient(srv.URL).Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 300, 300)), layout.DetectOptions{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected the two valid regions, got %d", len(regions))
	}
	if regions[0].Fragments()[0] != "Good" || regions[1].Fragments()[0] != "Also good" {
		t.Fatalf("regions = %+v", regions)
	}
}

func TestDetectRejectsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"regions": `))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)), layout.DetectOptions{})
	if !errx.HasCode(err, layout.ErrInvalidResponse) {
		t.Fatalf("expected INVALID_RESPONSE, got %v", err)
	}
}

func TestToBBoxRoundsAndClamps(t *testing.T) {
	box, err := toBBox([]float64{10.6, 10.4, 1e300, -1e300})
	if err != nil {
		t.Fatal(err)
	}
	want := layout.BBox{X1: 11, Y1: 10, X2: maxCoord, Y2: -maxCoord}
	if box != want {
		t.Fatalf("box = %+v, want %+v", box, want)
	}
	if _, err := toBBox([]float64{1, 2, 3}); err == nil {
		t.Fatal("three values must fail")
	}
}
