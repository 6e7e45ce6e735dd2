package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"legalextract/internal/domain"
	"legalextract/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no input", domain.ErrNoInput, http.StatusBadRequest, "NO_INPUT"},
		{"too many", fmt.Errorf("12 files: %w", domain.ErrTooManyDocuments), http.StatusBadRequest, "TOO_MANY_DOCUMENTS"},
		{"unsupported", fmt.Errorf("a.txt: %w", domain.ErrUnsupportedFileType), http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"missing", domain.ErrMissingDocument, http.StatusNotFound, "MISSING_DOCUMENT"},
		{"no data", domain.ErrNoDataExtracted, http.StatusUnprocessableEntity, "NO_DATA_EXTRACTED"},
		{"empty response", domain.ErrEmptyModelResponse, http.StatusUnprocessableEntity, "NO_DATA_EXTRACTED"},
		{"malformed", domain.ErrMalformedTable, http.StatusUnprocessableEntity, "MALFORMED_TABLE"},
		{"transport", domain.NewTransportError("gemini", 503, fmt.Errorf("unavailable")), http.StatusBadGateway, "MODEL_UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}
