package storage

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

var storageErrors = errx.NewRegistry("STORAGE")

var (
	ErrEncode        = storageErrors.Register("ENCODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to encode image")
	ErrReadLocal     = storageErrors.Register("READ_LOCAL", errx.TypeInternal, http.StatusInternalServerError, "Failed to read local artifact")
	ErrWrite         = storageErrors.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write artifact")
	ErrLink          = storageErrors.Register("LINK_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to build artifact link")
	ErrInvalidConfig = storageErrors.Register("INVALID_CONFIG", errx.TypeValidation, http.StatusBadRequest, "Invalid storage configuration")
)
