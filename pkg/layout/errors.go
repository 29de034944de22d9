package layout

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

// ErrRegistry holds the error codes shared by all engine adapters.
var ErrRegistry = errx.NewRegistry("LAYOUT")

var (
	ErrEngineUnavailable = ErrRegistry.Register("ENGINE_UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Layout engine is not reachable")
	ErrEngineRejected    = ErrRegistry.Register("ENGINE_REJECTED", errx.TypeExternal, http.StatusBadGateway, "Layout engine rejected the request")
	ErrInvalidResponse   = ErrRegistry.Register("INVALID_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Layout engine returned an unreadable response")
	ErrEncodePage        = ErrRegistry.Register("ENCODE_PAGE", errx.TypeInternal, http.StatusInternalServerError, "Failed to encode page image")
	ErrEngineNotEnabled  = ErrRegistry.Register("ENGINE_NOT_ENABLED", errx.TypeInternal, http.StatusNotImplemented, "Layout engine is not compiled into this binary")
)
