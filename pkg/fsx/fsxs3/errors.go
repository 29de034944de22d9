package fsxs3

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

var s3Errors = errx.NewRegistry("FSX_S3")

var (
	ErrNotFound = s3Errors.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Object not found")
	ErrRead     = s3Errors.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read object")
	ErrWrite    = s3Errors.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write object")
	ErrDelete   = s3Errors.Register("DELETE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to delete object")
	ErrPresign  = s3Errors.Register("PRESIGN_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to presign object URL")
)
