package domain

import (
	"legalextract/internal/tabular"
)

// TextInputLabel identifies pasted text in results and messages.
const TextInputLabel = "text input"

// ExtractionRequest is one document submitted for extraction. Exactly one of
// Payload or Path is set; Path is resolved by the document loader. Err marks
// an upload that was refused before extraction; it is reported as that
// document's outcome.
type ExtractionRequest struct {
	SourceLabel string
	Kind        SourceKind
	Payload     []byte
	Path        string
	Err         error
}

// NewPDFRequest builds a request for uploaded PDF bytes.
func NewPDFRequest(name string, data []byte) ExtractionRequest {
	return ExtractionRequest{SourceLabel: name, Kind: SourceKindPDF, Payload: data}
}

// NewPDFPathRequest builds a request for a PDF on the local filesystem.
func NewPDFPathRequest(label, path string) ExtractionRequest {
	return ExtractionRequest{SourceLabel: label, Kind: SourceKindPDF, Path: path}
}

// NewRejectedRequest builds a request for an upload that could not be accepted.
func NewRejectedRequest(name string, err error) ExtractionRequest {
	return ExtractionRequest{SourceLabel: name, Kind: SourceKindPDF, Err: err}
}

// NewTextRequest builds a request for pasted case text.
func NewTextRequest(text string) ExtractionRequest {
	return ExtractionRequest{SourceLabel: TextInputLabel, Kind: SourceKindText, Payload: []byte(text)}
}

// IsText reports whether the request carries inline text rather than a document.
func (r ExtractionRequest) IsText() bool {
	return r.Kind == SourceKindText
}

// Artifact is a published export file.
type Artifact struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
	URL      string `json:"url,omitempty"`
}

// DocumentResult is the outcome of extracting one document.
type DocumentResult struct {
	Source       string         `json:"source"`
	Status       DocumentStatus `json:"status"`
	Model        string         `json:"model,omitempty"`
	PageCount    int            `json:"page_count,omitempty"`
	RawCSV       string         `json:"raw_csv,omitempty"`
	Table        *tabular.Table `json:"table,omitempty"`
	SkippedRows  int            `json:"skipped_rows,omitempty"`
	DownloadName string         `json:"download_name,omitempty"`
	Artifact     *Artifact      `json:"artifact,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	Message      string         `json:"message,omitempty"`
	Err          error          `json:"-"`
}

// BatchResult is the outcome of one submission: per-document results in
// submission order and the combined table of the documents that succeeded.
type BatchResult struct {
	Documents    []*DocumentResult `json:"documents"`
	Combined     *tabular.Table    `json:"combined,omitempty"`
	DownloadName string            `json:"download_name,omitempty"`
	Artifact     *Artifact         `json:"artifact,omitempty"`
	Succeeded    int               `json:"succeeded"`
	Failed       int               `json:"failed"`
}

// Failures returns the documents that contributed no data.
func (b *BatchResult) Failures() []*DocumentResult {
	var out []*DocumentResult
	for _, d := range b.Documents {
		if !d.Status.Succeeded() {
			out = append(out, d)
		}
	}
	return out
}
