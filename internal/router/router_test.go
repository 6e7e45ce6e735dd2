package router_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"legalextract/internal/domain"
	"legalextract/internal/handler"
	"legalextract/internal/router"
	"legalextract/internal/tabular"
	"legalextract/mocks"
)

func newEngine(svc *mocks.MockExtractionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	return router.Setup(
		logger,
		[]string{"http://localhost:3000"},
		handler.NewExtractionHandler(svc, 1<<20, 10, logger),
		handler.NewHealthHandler([]string{"gemini"}),
	)
}

func TestRouter_Health(t *testing.T) {
	r := newEngine(new(mocks.MockExtractionService))

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_Extractions(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	r := newEngine(svc)

	table := &tabular.Table{Columns: []string{"Case No"}, Rows: [][]string{{"1"}}}
	svc.On("ExtractBatch", mock.Anything, mock.Anything).Return(&domain.BatchResult{
		Documents: []*domain.DocumentResult{{Source: domain.TextInputLabel, Status: domain.DocumentStatusExtracted, Table: table}},
		Combined:  table,
		Succeeded: 1,
	}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("text", "Case No 1"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	svc.AssertExpectations(t)
}

func TestRouter_Swagger(t *testing.T) {
	r := newEngine(new(mocks.MockExtractionService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/extractions/export")
}
