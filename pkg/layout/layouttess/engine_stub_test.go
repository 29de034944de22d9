//go:build !tesseract

package layouttess

import (
	"context"
	"image"
	"testing"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/layout"
)

func TestStubReportsNotEnabled(t *testing.T) {
	e, err := New()
	if e != nil {
		t.Fatal("stub must not return an engine")
	}
	if !errx.HasCode(err, layout.ErrEngineNotEnabled) {
		t.Fatalf("expected ENGINE_NOT_ENABLED, got %v", err)
	}

	var nilEngine *Engine
	if err := nilEngine.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
	if _, err := nilEngine.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)), layout.DetectOptions{}); err == nil {
		t.Fatal("Detect must fail")
	}
}
