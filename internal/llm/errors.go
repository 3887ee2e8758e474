package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies failures of external model and image services.
type ErrorKind string

const (
	KindNetwork       ErrorKind = "network"
	KindTimeout       ErrorKind = "timeout"
	KindUpstream      ErrorKind = "upstream"
	KindEmptyResponse ErrorKind = "empty_response"
	KindMissingImage  ErrorKind = "missing_image"
	KindUnavailable   ErrorKind = "unavailable"
	KindNotConfigured ErrorKind = "not_configured"
)

// ExternalError is the single error shape returned across the provider boundary.
type ExternalError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ExternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// Classify wraps err as an ExternalError for op. Errors that are already
// external keep their kind.
func Classify(op Operation, err error) error {
	if err == nil {
		return nil
	}
	var ext *ExternalError
	if errors.As(err, &ext) {
		return err
	}
	kind := KindUpstream
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.As(err, &netErr):
		kind = KindNetwork
	}
	return &ExternalError{Kind: kind, Op: string(op), Err: err}
}

// Empty reports a response that carried no usable text.
func Empty(op Operation) error {
	return &ExternalError{Kind: KindEmptyResponse, Op: string(op), Err: errors.New("model returned no text")}
}

// KindOf returns the kind of an ExternalError, or upstream for anything else.
func KindOf(err error) ErrorKind {
	var ext *ExternalError
	if errors.As(err, &ext) {
		return ext.Kind
	}
	return KindUpstream
}
