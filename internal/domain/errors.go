package domain

import (
	"errors"
	"fmt"

	"legalextract/internal/tabular"
)

var (
	ErrMissingDocument     = errors.New("document not found")
	ErrEmptyModelResponse  = errors.New("model returned no usable text")
	ErrMalformedTable      = tabular.ErrMalformedTable
	ErrHeaderMismatch      = tabular.ErrHeaderMismatch
	ErrTransport           = errors.New("model API call failed")
	ErrNoInput             = errors.New("no document or text provided")
	ErrNoDataExtracted     = errors.New("no data extracted")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTooManyDocuments    = errors.New("too many documents in one submission")
)

// TransportError is a failed call to a model provider: network, auth, quota or
// an unexpected HTTP status. It matches ErrTransport with errors.Is.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

// NewTransportError wraps err as a transport failure for provider.
func NewTransportError(provider string, statusCode int, err error) *TransportError {
	return &TransportError{Provider: provider, StatusCode: statusCode, Err: err}
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s transport error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTransport) match any TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
