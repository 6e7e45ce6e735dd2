package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legalextract/internal/csvexport"
	"legalextract/internal/domain"
	"legalextract/internal/input"
	"legalextract/internal/middleware"
	"legalextract/internal/service"
	"legalextract/internal/tabular"
)

// ExtractionHandler handles document extraction endpoints.
type ExtractionHandler struct {
	svc          service.ExtractionService
	maxBytes     int64
	maxDocuments int
	logger       *zap.Logger
}

// NewExtractionHandler creates a new ExtractionHandler. maxBytes limits each
// uploaded file and maxDocuments the files in one submission.
func NewExtractionHandler(svc service.ExtractionService, maxBytes int64, maxDocuments int, logger *zap.Logger) *ExtractionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionHandler{svc: svc, maxBytes: maxBytes, maxDocuments: maxDocuments, logger: logger}
}

// Extract handles POST /api/v1/extractions
// @Summary Extract case data
// @Description Upload one or more PDFs, or paste case text, and extract the case fields as a table.
// @Description Files take precedence: text is only processed when no file is uploaded.
// @Description Documents are processed in submission order and one failure does not stop the rest.
// @Description A file that is not a PDF or is too large is reported in its own result.
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param files formData file false "PDF documents (repeat the field for several files)"
// @Param text formData string false "Case text, used when no file is uploaded"
// @Success 200 {object} Response{data=domain.BatchResult} "Per-document outcomes and the combined table"
// @Failure 400 {object} ErrorResponseBody "No input or too many files"
// @Failure 422 {object} NoDataResponseBody "No relevant data found"
// @Failure 500 {object} ErrorResponseBody "Internal error"
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	reqs, err := h.collectRequests(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	batch, err := h.svc.ExtractBatch(c.Request.Context(), reqs)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	h.logBatch(c, batch)

	if batch.Combined == nil {
		RespondErrorWithData(c, http.StatusUnprocessableEntity, "NO_DATA_EXTRACTED", service.NoDataMessage, batch)
		return
	}
	RespondOK(c, batch)
}

// Export handles POST /api/v1/extractions/export
// @Summary Extract and download
// @Description Same input as Extract; returns the extracted table as a file. A single document
// @Description downloads as extracted_data_<name>, several as combined_extracted_data.
// @Tags extractions
// @Accept multipart/form-data
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Output format" Enums(csv, xlsx) default(csv)
// @Param files formData file false "PDF documents (repeat the field for several files)"
// @Param text formData string false "Case text, used when no file is uploaded"
// @Success 200 {file} binary "Extracted table"
// @Failure 400 {object} ErrorResponseBody "No input, too many files or bad format"
// @Failure 422 {object} NoDataResponseBody "No relevant data found"
// @Failure 500 {object} ErrorResponseBody "Internal error"
// @Router /extractions/export [post]
func (h *ExtractionHandler) Export(c *gin.Context) {
	format, err := csvexport.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	reqs, err := h.collectRequests(c)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	batch, err := h.svc.ExtractBatch(c.Request.Context(), reqs)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	h.logBatch(c, batch)

	if batch.Combined == nil {
		RespondErrorWithData(c, http.StatusUnprocessableEntity, "NO_DATA_EXTRACTED", service.NoDataMessage, batch)
		return
	}

	table, name := downloadTarget(reqs, batch, format)
	data, err := h.svc.Export(table, format)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// downloadTarget picks the table and file name for a download: the document's
// own table for a single-document submission, the combined table otherwise.
func downloadTarget(reqs []domain.ExtractionRequest, batch *domain.BatchResult, format csvexport.Format) (*tabular.Table, string) {
	if len(reqs) == 1 && len(batch.Documents) == 1 && batch.Documents[0].Table != nil {
		doc := batch.Documents[0]
		if reqs[0].IsText() {
			return doc.Table, csvexport.TextFilename(format)
		}
		return doc.Table, csvexport.DocumentFilename(reqs[0].SourceLabel, format)
	}
	return batch.Combined, csvexport.CombinedFilename(format)
}

// collectRequests reads uploaded files, or the text field when no file was
// uploaded. An upload that cannot be accepted becomes a rejected request so
// the other documents are still processed.
func (h *ExtractionHandler) collectRequests(c *gin.Context) ([]domain.ExtractionRequest, error) {
	var reqs []domain.ExtractionRequest
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["files"] {
			reqs = append(reqs, h.readUpload(fh))
		}
	}
	if h.maxDocuments > 0 && len(reqs) > h.maxDocuments {
		return nil, fmt.Errorf("%d files: %w", len(reqs), domain.ErrTooManyDocuments)
	}
	if len(reqs) > 0 {
		return reqs, nil
	}

	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoInput
	}
	return []domain.ExtractionRequest{domain.NewTextRequest(text)}, nil
}

func (h *ExtractionHandler) readUpload(fh *multipart.FileHeader) domain.ExtractionRequest {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return domain.NewRejectedRequest(fh.Filename, fmt.Errorf("%s: %w", fh.Filename, domain.ErrUnsupportedFileType))
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return domain.NewRejectedRequest(fh.Filename, fmt.Errorf("%s: %w", fh.Filename, domain.ErrFileTooLarge))
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewRejectedRequest(fh.Filename, fmt.Errorf("%w: opening upload %s: %v", domain.ErrMissingDocument, fh.Filename, err))
	}
	defer func() { _ = f.Close() }()

	data, err := input.ReadLimited(f, h.maxBytes)
	if err != nil {
		return domain.NewRejectedRequest(fh.Filename, fmt.Errorf("%s: %w", fh.Filename, err))
	}
	return domain.NewPDFRequest(fh.Filename, data)
}

func (h *ExtractionHandler) logBatch(c *gin.Context, batch *domain.BatchResult) {
	h.logger.Info("extraction finished",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Int("documents", len(batch.Documents)),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed))
}
