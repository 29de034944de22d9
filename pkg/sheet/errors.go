package sheet

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

var sheetErrors = errx.NewRegistry("SHEET")

var (
	ErrReadMarkup = sheetErrors.Register("READ_MARKUP", errx.TypeInternal, http.StatusInternalServerError, "Failed to read table markup")
	ErrParse      = sheetErrors.Register("PARSE_FAILED", errx.TypeValidation, http.StatusUnprocessableEntity, "Table markup cannot be parsed")
	ErrNoTable    = sheetErrors.Register("NO_TABLE", errx.TypeValidation, http.StatusUnprocessableEntity, "Markup contains no table rows")
	ErrWrite      = sheetErrors.Register("WRITE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to write spreadsheet")
)
