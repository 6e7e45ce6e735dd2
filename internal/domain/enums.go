package domain

// SourceKind distinguishes uploaded documents from pasted text.
type SourceKind string

const (
	SourceKindPDF  SourceKind = "pdf"
	SourceKindText SourceKind = "text"
)

// Content types sent to the model.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

// AllowedExtensions maps upload file extensions (without dot) to their kind.
var AllowedExtensions = map[string]SourceKind{
	"pdf": SourceKindPDF,
}

// DocumentStatus is the outcome of extracting one document.
type DocumentStatus string

const (
	DocumentStatusExtracted      DocumentStatus = "extracted"
	DocumentStatusNoData         DocumentStatus = "no_data"
	DocumentStatusMalformed      DocumentStatus = "malformed"
	DocumentStatusMissing        DocumentStatus = "missing"
	DocumentStatusRejected       DocumentStatus = "rejected"
	DocumentStatusTransportError DocumentStatus = "transport_error"
	DocumentStatusHeaderMismatch DocumentStatus = "header_mismatch"
)

// Succeeded reports whether the document contributed a table.
func (s DocumentStatus) Succeeded() bool {
	return s == DocumentStatusExtracted
}
