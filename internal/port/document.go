package port

// PDFInfo describes an inspected PDF.
type PDFInfo struct {
	PageCount int
}

// PDFInspector checks that bytes are a readable PDF.
type PDFInspector interface {
	Inspect(data []byte) (*PDFInfo, error)
}

// DocumentLoader reads a referenced document from local storage.
type DocumentLoader interface {
	Load(path string) ([]byte, error)
}
