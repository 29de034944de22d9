package pagesource

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

var pageErrors = errx.NewRegistry("PAGESOURCE")

var (
	ErrOpen        = pageErrors.Register("OPEN_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Source file cannot be opened")
	ErrDecode      = pageErrors.Register("DECODE_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Image cannot be decoded")
	ErrNoPageImage = pageErrors.Register("NO_PAGE_IMAGE", errx.TypeValidation, http.StatusUnprocessableEntity, "Page carries no raster image")
)
