package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legalextract/internal/config"
	"legalextract/internal/csvexport"
	"legalextract/internal/domain"
	"legalextract/internal/llm"
	"legalextract/internal/port"
	"legalextract/internal/tabular"
)

// Messages shown to users for documents that contributed no data.
const (
	msgNoDataDocument = "No relevant data found in %s. Please try another file."
	msgMalformed      = "Error processing CSV: %v"
)

// Error codes attached to failed documents.
const (
	CodeNoData         = "NO_DATA_FOUND"
	CodeMalformedTable = "MALFORMED_TABLE"
	CodeMissing        = "MISSING_DOCUMENT"
	CodeUnsupported    = "UNSUPPORTED_FILE_TYPE"
	CodeTooLarge       = "FILE_TOO_LARGE"
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeTransport      = "MODEL_UNAVAILABLE"
	CodeHeaderMismatch = "HEADER_MISMATCH"
)

// NoDataMessage is reported when no document in a submission produced a table.
const NoDataMessage = "No relevant data found. Please check your input."

// ExtractionService defines the extraction pipeline contract.
type ExtractionService interface {
	// ExtractDocument runs one request through the model and parser. The
	// result is always non-nil and carries the outcome; the error is the typed
	// failure, if any.
	ExtractDocument(ctx context.Context, req domain.ExtractionRequest) (*domain.DocumentResult, error)
	// ExtractBatch processes requests sequentially in submission order and
	// combines the tables of the documents that succeeded. One document's
	// failure never stops the rest. Combined is nil when nothing succeeded.
	ExtractBatch(ctx context.Context, reqs []domain.ExtractionRequest) (*domain.BatchResult, error)
	// Export serializes a table for download.
	Export(table *tabular.Table, format csvexport.Format) ([]byte, error)
}

type extractionService struct {
	model     port.ModelClient
	loader    port.DocumentLoader
	inspector port.PDFInspector
	storage   port.ObjectStorage

	policy        tabular.HeaderPolicy
	amountColumns []string
	includeBOM    bool
	bucket        string
	presignExpiry int64
	logger        *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
// inspector and storage may be nil; without storage nothing is published.
func NewExtractionService(
	model port.ModelClient,
	loader port.DocumentLoader,
	inspector port.PDFInspector,
	storage port.ObjectStorage,
	cfg *config.Config,
	logger *zap.Logger,
) (ExtractionService, error) {
	if model == nil {
		return nil, errors.New("model client is required")
	}
	policy, err := tabular.ParseHeaderPolicy(cfg.Extraction.HeaderPolicy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bucket := ""
	if cfg.Export.Sink == "s3" {
		bucket = cfg.S3.Bucket
	}
	return &extractionService{
		model:         model,
		loader:        loader,
		inspector:     inspector,
		storage:       storage,
		policy:        policy,
		amountColumns: cfg.Extraction.AmountColumns,
		includeBOM:    cfg.Export.IncludeBOM,
		bucket:        bucket,
		presignExpiry: cfg.Export.PresignExpiry,
		logger:        logger,
	}, nil
}

func (s *extractionService) ExtractDocument(ctx context.Context, req domain.ExtractionRequest) (*domain.DocumentResult, error) {
	result := s.extract(ctx, req)
	if result.Status.Succeeded() {
		s.publishDocument(ctx, uuid.NewString(), 0, result)
	}
	return result, result.Err
}

func (s *extractionService) ExtractBatch(ctx context.Context, reqs []domain.ExtractionRequest) (*domain.BatchResult, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoInput
	}

	batchID := uuid.NewString()
	log := s.logger.With(zap.String("batch_id", batchID), zap.Int("documents", len(reqs)))
	log.Info("extraction batch started")

	batch := &domain.BatchResult{Documents: make([]*domain.DocumentResult, 0, len(reqs))}
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			log.Warn("extraction batch cancelled", zap.Error(err))
			return batch, err
		}
		batch.Documents = append(batch.Documents, s.extract(ctx, req))
	}

	// Sources are labelled by position so same-name uploads stay distinct.
	sources := make([]tabular.Source, 0, len(batch.Documents))
	for i, doc := range batch.Documents {
		if doc.Status.Succeeded() {
			sources = append(sources, tabular.Source{Label: strconv.Itoa(i), Table: doc.Table})
		}
	}

	combined, rejected := tabular.Combine(s.policy, sources)
	for _, rej := range rejected {
		i, err := strconv.Atoi(rej.Label)
		if err != nil || i < 0 || i >= len(batch.Documents) {
			continue
		}
		doc := batch.Documents[i]
		doc.Status = domain.DocumentStatusHeaderMismatch
		doc.ErrorCode = CodeHeaderMismatch
		doc.Err = rej.Err
		doc.Message = fmt.Sprintf("Columns in %s do not match the first document.", doc.Source)
		log.Warn("document excluded from combined table", zap.String("source", doc.Source), zap.Error(rej.Err))
	}

	for i, doc := range batch.Documents {
		if doc.Status.Succeeded() {
			batch.Succeeded++
			s.publishDocument(ctx, batchID, i, doc)
		} else {
			batch.Failed++
		}
	}

	if combined != nil {
		batch.Combined = combined
		batch.DownloadName = csvexport.CombinedFilename(csvexport.FormatCSV)
		batch.Artifact = s.publish(ctx, objectKey(batchID, -1, batch.DownloadName), batch.DownloadName, combined)
	}

	log.Info("extraction batch finished",
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
		zap.Bool("combined", combined != nil))
	return batch, nil
}

func (s *extractionService) Export(table *tabular.Table, format csvexport.Format) ([]byte, error) {
	return csvexport.Encode(table, format, s.includeBOM)
}

// extract runs the pipeline for one request and records the outcome.
func (s *extractionService) extract(ctx context.Context, req domain.ExtractionRequest) *domain.DocumentResult {
	result := &domain.DocumentResult{Source: req.SourceLabel}
	log := s.logger.With(zap.String("source", req.SourceLabel), zap.String("kind", string(req.Kind)))

	payload, err := s.acquire(req)
	if err != nil {
		return s.fail(log, result, err)
	}

	if !req.IsText() && s.inspector != nil {
		info, err := s.inspector.Inspect(payload)
		if err != nil {
			return s.fail(log, result, err)
		}
		result.PageCount = info.PageCount
	}

	resp, err := s.model.Generate(ctx, llm.BuildRequest(req, payload))
	if err != nil {
		if !errors.Is(err, domain.ErrTransport) {
			err = domain.NewTransportError("model", 0, err)
		}
		return s.fail(log, result, err)
	}
	result.Model = resp.Model
	if llm.Truncated(resp.FinishReason) {
		log.Warn("model output hit the token limit; table may be incomplete",
			zap.String("finish_reason", resp.FinishReason))
	}

	normalized := tabular.Normalize(resp.Text)
	if normalized == "" {
		return s.fail(log, result, domain.ErrEmptyModelResponse)
	}
	result.RawCSV = normalized

	table, stats, err := tabular.ParseWithStats(normalized)
	if err != nil {
		return s.fail(log, result, err)
	}
	if stats.SkippedRows > 0 {
		log.Warn("skipped malformed rows", zap.Int("skipped_rows", stats.SkippedRows))
	}
	if n := tabular.StripNumericCommas(table, s.amountColumns...); n > 0 {
		log.Debug("removed thousands separators", zap.Int("cells", n))
	}

	result.Status = domain.DocumentStatusExtracted
	result.Table = table
	result.SkippedRows = stats.SkippedRows
	if req.IsText() {
		result.DownloadName = csvexport.TextFilename(csvexport.FormatCSV)
	} else {
		result.DownloadName = csvexport.DocumentFilename(req.SourceLabel, csvexport.FormatCSV)
	}
	log.Info("document extracted",
		zap.String("model", result.Model),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)))
	return result
}

// acquire returns the request's bytes, loading them from disk when the request
// references a path.
func (s *extractionService) acquire(req domain.ExtractionRequest) ([]byte, error) {
	if req.Err != nil {
		return nil, req.Err
	}
	if req.IsText() {
		if strings.TrimSpace(string(req.Payload)) == "" {
			return nil, domain.ErrNoInput
		}
		return req.Payload, nil
	}
	if req.Path != "" {
		if s.loader == nil {
			return nil, fmt.Errorf("%w: no loader for %s", domain.ErrMissingDocument, req.Path)
		}
		return s.loader.Load(req.Path)
	}
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrMissingDocument, req.SourceLabel)
	}
	return req.Payload, nil
}

// fail classifies err into a status, code and user-facing message.
func (s *extractionService) fail(log *zap.Logger, result *domain.DocumentResult, err error) *domain.DocumentResult {
	result.Err = err
	switch {
	case errors.Is(err, domain.ErrEmptyModelResponse):
		result.Status = domain.DocumentStatusNoData
		result.ErrorCode = CodeNoData
		result.Message = fmt.Sprintf(msgNoDataDocument, result.Source)
	case errors.Is(err, domain.ErrMalformedTable):
		result.Status = domain.DocumentStatusMalformed
		result.ErrorCode = CodeMalformedTable
		result.Message = fmt.Sprintf(msgMalformed, err)
	case errors.Is(err, domain.ErrMissingDocument):
		result.Status = domain.DocumentStatusMissing
		result.ErrorCode = CodeMissing
		result.Message = fmt.Sprintf("Could not find %s.", result.Source)
	case errors.Is(err, domain.ErrUnsupportedFileType):
		result.Status = domain.DocumentStatusRejected
		result.ErrorCode = CodeUnsupported
		result.Message = fmt.Sprintf("%s is not a readable PDF.", result.Source)
	case errors.Is(err, domain.ErrFileTooLarge):
		result.Status = domain.DocumentStatusRejected
		result.ErrorCode = CodeTooLarge
		result.Message = fmt.Sprintf("%s exceeds the maximum file size.", result.Source)
	case errors.Is(err, domain.ErrNoInput):
		result.Status = domain.DocumentStatusRejected
		result.ErrorCode = CodeEmptyInput
		result.Message = "The submitted text is empty."
	default:
		result.Status = domain.DocumentStatusTransportError
		result.ErrorCode = CodeTransport
		result.Message = fmt.Sprintf("The extraction model could not process %s. Please try again later.", result.Source)
	}

	if result.Status == domain.DocumentStatusTransportError {
		log.Error("document extraction failed", zap.String("status", string(result.Status)), zap.Error(err))
	} else {
		log.Warn("document produced no table", zap.String("status", string(result.Status)), zap.Error(err))
	}
	return result
}

func (s *extractionService) publishDocument(ctx context.Context, batchID string, index int, doc *domain.DocumentResult) {
	doc.Artifact = s.publish(ctx, objectKey(batchID, index, doc.DownloadName), doc.DownloadName, doc.Table)
}

// objectKey places a batch's artifacts under one prefix; index < 0 marks the
// combined table.
func objectKey(batchID string, index int, filename string) string {
	stem := csvexport.SanitizeFilename(strings.TrimSuffix(filename, ".csv"))
	if index < 0 {
		return fmt.Sprintf("%s/%s.csv", batchID, stem)
	}
	return fmt.Sprintf("%s/%03d_%s.csv", batchID, index+1, stem)
}

// publish uploads the CSV rendering of table when a sink is configured.
// Failures are logged and leave the extraction result intact.
func (s *extractionService) publish(ctx context.Context, key, filename string, table *tabular.Table) *domain.Artifact {
	if s.storage == nil || table == nil {
		return nil
	}
	log := s.logger.With(zap.String("key", key))

	data, err := csvexport.EncodeCSV(table, s.includeBOM)
	if err != nil {
		log.Warn("encoding export artifact failed", zap.Error(err))
		return nil
	}

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: csvexport.FormatCSV.ContentType(),
		Filename:    filename,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Warn("publishing export artifact failed", zap.Error(err))
		return nil
	}

	artifact := &domain.Artifact{Filename: filename, Location: out.Location}
	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
	if err != nil {
		log.Warn("presigning export artifact failed", zap.Error(err))
	} else {
		artifact.URL = url
	}
	log.Info("export artifact published", zap.String("location", out.Location))
	return artifact
}
