package analysis

import (
	"errors"
	"net/http"

	"a11y-backend/internal/llm"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoPriorUpload = errors.New("no image has been uploaded in this session")
	ErrNotFound      = errors.New("artifact not found")
)

const (
	ErrorCodeValidation     = "validation_error"
	ErrorCodeNoPriorUpload  = "no_prior_upload"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeUpstream       = "upstream_error"
	ErrorCodeTimeout        = "upstream_timeout"
	ErrorCodeUnavailable    = "service_unavailable"
	ErrorCodeNotConfigured  = "not_configured"
	ErrorCodeInternal       = "internal_error"
	ErrorCodeUnsupportedDoc = "unsupported_document"
)

// externalStatus maps an external-service failure to an HTTP status and code.
func externalStatus(err error) (int, string) {
	switch llm.KindOf(err) {
	case llm.KindTimeout:
		return http.StatusGatewayTimeout, ErrorCodeTimeout
	case llm.KindUnavailable:
		return http.StatusServiceUnavailable, ErrorCodeUnavailable
	case llm.KindNotConfigured:
		return http.StatusInternalServerError, ErrorCodeNotConfigured
	default:
		return http.StatusBadGateway, ErrorCodeUpstream
	}
}

func isExternal(err error) bool {
	var ext *llm.ExternalError
	return errors.As(err, &ext)
}
