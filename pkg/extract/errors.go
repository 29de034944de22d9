package extract

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

// ErrRegistry holds the error codes recorded in Aggregate.Failures.
var ErrRegistry = errx.NewRegistry("EXTRACT")

var (
	// Document level
	ErrSourceUnreadable = ErrRegistry.Register("SOURCE_UNREADABLE", errx.TypeValidation, http.StatusUnprocessableEntity, "Source document cannot be opened or decoded")
	ErrCancelled        = ErrRegistry.Register("CANCELLED", errx.TypeInternal, http.StatusRequestTimeout, "Extraction was cancelled")

	// Page level
	ErrEngineFailed     = ErrRegistry.Register("ENGINE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Layout engine failed on page")
	ErrPageRenderFailed = ErrRegistry.Register("PAGE_RENDER_FAILED", errx.TypeInternal, http.StatusUnprocessableEntity, "Page image could not be rendered")

	// Record level
	ErrTableMarkupMissing = ErrRegistry.Register("TABLE_MARKUP_MISSING", errx.TypeExternal, http.StatusUnprocessableEntity, "Table region has no recognized markup")

	// Artifact level
	ErrConversionFailed = ErrRegistry.Register("CONVERSION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Table markup could not be converted to a spreadsheet")
	ErrPersistFailed    = ErrRegistry.Register("PERSIST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Artifact could not be persisted")

	ErrInvalidMode    = ErrRegistry.Register("INVALID_MODE", errx.TypeValidation, http.StatusBadRequest, "Unknown extraction mode")
	ErrResultNotFound = ErrRegistry.Register("RESULT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Extraction result not found")
)
