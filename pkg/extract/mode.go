package extract

import (
	"strings"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

// Mode selects which region types a run extracts.
type Mode string

const (
	ModeTextOnly              Mode = "TEXT_ONLY"
	ModeTableOnly             Mode = "TABLE_ONLY"
	ModeTextAndTable          Mode = "TEXT_AND_TABLE"
	ModeImageAndTable         Mode = "IMAGE_AND_TABLE"
	ModeImageTableCoordinates Mode = "IMAGE_TABLE_COORDINATES"
	ModeAll                   Mode = "ALL"
)

// Modes lists every supported mode.
var Modes = []Mode{
	ModeTextOnly,
	ModeTableOnly,
	ModeTextAndTable,
	ModeImageAndTable,
	ModeImageTableCoordinates,
	ModeAll,
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", ErrRegistry.New(ErrInvalidMode).WithDetail("mode", s)
}

// Kind is the shape of the source document.
type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

// Request describes one document extraction.
type Request struct {
	Source        string
	Kind          Kind
	Mode          Mode
	Language      string
	LayoutEnabled bool
}

func (r Request) kind() Kind {
	if r.Kind != "" {
		return r.Kind
	}
	if strings.HasSuffix(strings.ToLower(r.Source), ".pdf") {
		return KindPDF
	}
	return KindImage
}

// Validate checks the request before a run starts.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errx.Validation("source is required")
	}
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	switch r.Kind {
	case "", KindImage, KindPDF:
	default:
		return errx.Validation("kind must be image or pdf").WithDetail("kind", r.Kind)
	}
	return nil
}
